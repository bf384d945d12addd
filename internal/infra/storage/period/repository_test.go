package period

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/storagetest"
)

var dayColumns = []string{"id", "period_id", "week_number_in_cycle", "day_id", "start_time", "end_time", "block_start_time_1", "block_end_time_1"}

func repoWithDay(t *testing.T, start, end driver.Value) *Repository {
	db := storagetest.Open(t, storagetest.Result{
		Columns: dayColumns,
		Rows:    [][]driver.Value{{int64(1), int64(4), int64(2), int64(1), start, end, nil, nil}},
	})
	return NewRepository(db)
}

func TestGetDaySchedule(t *testing.T) {
	row, err := repoWithDay(t, "08:00:00", "12:00:00").GetDaySchedule(context.Background(), 4, 2, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, int64(4), row.PeriodID)
	assert.Equal(t, 2, row.WeekNumber)
	assert.Equal(t, time.Monday, row.DayOfWeek)
	assert.False(t, row.HasBreak())
}

func TestGetDaySchedule_NullBoundsIsDayOff(t *testing.T) {
	_, err := repoWithDay(t, nil, nil).GetDaySchedule(context.Background(), 4, 2, time.Monday)
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestGetDaySchedule_OneNullBound(t *testing.T) {
	_, err := repoWithDay(t, "08:00:00", nil).GetDaySchedule(context.Background(), 4, 2, time.Monday)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
	assert.NotErrorIs(t, err, ErrScanRow)
}
