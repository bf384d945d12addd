package rangeexpander

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeResolver struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]error
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeResolver) GetWorkingWindows(_ context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if cur <= p || f.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	key := fmt.Sprintf("%d@%s", employeeID, date.Format(domain.DateFormat))
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.failures[key]; ok {
		return nil, err
	}
	start := date.Add(9 * time.Hour)
	return []domain.WorkingWindow{{EmployeeID: employeeID, Date: date, Start: start, End: start.Add(time.Hour)}}, nil
}

func d(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestDates_InclusiveBothEnds(t *testing.T) {
	got := slices.Collect(Dates(d(30), time.Date(2025, time.April, 2, 15, 0, 0, 0, time.UTC)))

	require.Len(t, got, 4)
	assert.True(t, got[0].Equal(d(30)))
	assert.True(t, got[3].Equal(time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)))
}

func TestDates_SingleDay(t *testing.T) {
	got := slices.Collect(Dates(d(12), d(12)))
	assert.Len(t, got, 1)
}

func TestExpand_AllEmployeesAllDates(t *testing.T) {
	r := &fakeResolver{}
	e := New(r, 2, nopLogger{})

	days, err := e.Expand(context.Background(), []int64{3, 1, 2}, d(10), d(12))
	require.NoError(t, err)
	require.Len(t, days, 3)

	for i, day := range days {
		assert.True(t, day.Date.Equal(d(10+i)))
		require.Len(t, day.Employees, 3)
		assert.Equal(t, int64(3), day.Employees[0].EmployeeID)
		assert.Equal(t, int64(1), day.Employees[1].EmployeeID)
		assert.Equal(t, int64(2), day.Employees[2].EmployeeID)
		for _, ew := range day.Employees {
			assert.NoError(t, ew.Err)
			assert.Len(t, ew.Windows, 1)
		}
	}
	assert.Len(t, r.calls, 9)
	assert.LessOrEqual(t, r.peak.Load(), int32(2))
}

func TestExpand_InvalidTimeFormatIsScoped(t *testing.T) {
	r := &fakeResolver{failures: map[string]error{
		"1@2025-03-11": fmt.Errorf("weekly: %w", domain.ErrInvalidTimeFormat),
	}}
	e := New(r, 0, nopLogger{})

	days, err := e.Expand(context.Background(), []int64{1, 2}, d(10), d(12))
	require.NoError(t, err)

	broken := days[1].Employees[0]
	assert.True(t, errors.Is(broken.Err, domain.ErrInvalidTimeFormat))
	assert.Empty(t, broken.Windows)

	assert.NoError(t, days[1].Employees[1].Err)
	assert.Len(t, days[0].Employees[0].Windows, 1)
	assert.Len(t, days[2].Employees[0].Windows, 1)
}

func TestExpand_OtherErrorsAbort(t *testing.T) {
	boom := errors.New("connection reset")
	r := &fakeResolver{failures: map[string]error{"2@2025-03-10": boom}}
	e := New(r, 1, nopLogger{})

	_, err := e.Expand(context.Background(), []int64{1, 2}, d(10), d(12))
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestExpand_InvalidRange(t *testing.T) {
	e := New(&fakeResolver{}, 1, nopLogger{})

	_, err := e.Expand(context.Background(), []int64{1}, d(12), d(10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExpand_NoEmployees(t *testing.T) {
	e := New(&fakeResolver{}, 1, nopLogger{})

	days, err := e.Expand(context.Background(), nil, d(10), d(11))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Empty(t, days[0].Employees)
}

func TestExpand_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeResolver{}, 1, nopLogger{}).Expand(ctx, []int64{1}, d(10), d(11))
	assert.ErrorIs(t, err, context.Canceled)
}
