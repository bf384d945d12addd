package weekly

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/storagetest"
)

var columns = []string{"id", "employee_id", "day_id", "start_time", "end_time", "block_start_time_1", "block_end_time_1"}

func repoWithRow(t *testing.T, start, end, breakStart, breakEnd driver.Value) *Repository {
	db := storagetest.Open(t, storagetest.Result{
		Columns: columns,
		Rows:    [][]driver.Value{{int64(1), int64(7), int64(3), start, end, breakStart, breakEnd}},
	})
	return NewRepository(db)
}

func TestGetByEmployeeAndDay_WithBreak(t *testing.T) {
	repo := repoWithRow(t, "07:00:00", "15:00:00", "10:00:00", "10:30:00")

	row, err := repo.GetByEmployeeAndDay(context.Background(), 7, time.Wednesday)
	require.NoError(t, err)
	assert.Equal(t, int64(7), row.EmployeeID)
	assert.Equal(t, time.Wednesday, row.DayOfWeek)
	assert.True(t, row.HasBreak())
}

func TestGetByEmployeeAndDay_NullBoundsIsClosedDay(t *testing.T) {
	repo := repoWithRow(t, nil, nil, nil, nil)

	_, err := repo.GetByEmployeeAndDay(context.Background(), 7, time.Wednesday)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByEmployeeAndDay_MalformedRow(t *testing.T) {
	tests := []struct {
		name       string
		start, end driver.Value
	}{
		{name: "нет конца", start: "07:00:00", end: nil},
		{name: "нет начала", start: nil, end: "15:00:00"},
		{name: "битое значение", start: "7am", end: "15:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoWithRow(t, tt.start, tt.end, nil, nil)

			_, err := repo.GetByEmployeeAndDay(context.Background(), 7, time.Wednesday)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
			assert.NotErrorIs(t, err, ErrScanRow)
		})
	}
}

func TestGetByEmployeeAndDay_NoRows(t *testing.T) {
	db := storagetest.Open(t, storagetest.Result{Columns: columns})

	_, err := NewRepository(db).GetByEmployeeAndDay(context.Background(), 7, time.Wednesday)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByEmployeeAndDay_DriverErrorKeepsCause(t *testing.T) {
	db := storagetest.Open(t, storagetest.Result{Err: &pq.Error{Code: "40001"}})

	_, err := NewRepository(db).GetByEmployeeAndDay(context.Background(), 7, time.Wednesday)
	require.ErrorIs(t, err, ErrScanRow)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
