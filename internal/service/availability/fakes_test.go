package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	employeeRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/employee"
	periodRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/period"
	weeklyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/weekly"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func ts(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeEmployees struct {
	items map[int64]*domain.Employee
	err   error
}

func (f *fakeEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.items[id]
	if !ok {
		return nil, employeeRepo.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

type fakeWeekly struct {
	mu    sync.Mutex
	days  map[time.Weekday]domain.DaySchedule
	err   error
	calls int
}

func (f *fakeWeekly) GetByEmployeeAndDay(_ context.Context, employeeID int64, day time.Weekday) (*domain.WeeklyAvailability, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.days[day]
	if !ok {
		return nil, weeklyRepo.ErrNotFound
	}
	return &domain.WeeklyAvailability{EmployeeID: employeeID, DayOfWeek: day, DaySchedule: d}, nil
}

func (f *fakeWeekly) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type periodDayKey struct {
	periodID int64
	week     int
	day      time.Weekday
}

type fakePeriods struct {
	periods []*domain.SchedulePeriod
	days    map[periodDayKey]domain.DaySchedule
	err     error
}

func (f *fakePeriods) GetCovering(_ context.Context, _ int64, date time.Time) ([]*domain.SchedulePeriod, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*domain.SchedulePeriod
	for _, p := range f.periods {
		if p.Covers(date) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePeriods) GetDaySchedule(_ context.Context, periodID int64, weekNumber int, day time.Weekday) (*domain.PeriodDaySchedule, error) {
	d, ok := f.days[periodDayKey{periodID: periodID, week: weekNumber, day: day}]
	if !ok {
		return nil, periodRepo.ErrDayNotFound
	}
	return &domain.PeriodDaySchedule{PeriodID: periodID, WeekNumber: weekNumber, DayOfWeek: day, DaySchedule: d}, nil
}

type fakeBlocks struct {
	byDate map[string][]*domain.BlockedTime
}

func (f *fakeBlocks) GetByEmployeeAndDate(_ context.Context, _ int64, date time.Time) ([]*domain.BlockedTime, error) {
	return f.byDate[date.Format(domain.DateFormat)], nil
}

type fakeAppointments struct {
	items []*domain.Appointment
}

func (f *fakeAppointments) GetActiveByEmployeeAndDate(_ context.Context, employeeID int64, date time.Time) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range f.items {
		if a.EmployeeID == employeeID && a.IsActive() && a.Date.Equal(domain.CivilDate(date)) {
			result = append(result, a)
		}
	}
	return result, nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]domain.WorkingWindow
	sets  int
}

func (c *fakeCache) key(employeeID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", employeeID, date.Format(domain.DateFormat))
}

func (c *fakeCache) Get(_ context.Context, employeeID int64, date time.Time) ([]domain.WorkingWindow, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.items[c.key(employeeID, date)]
	if !ok {
		return nil, false, nil
	}
	return append([]domain.WorkingWindow(nil), w...), true, nil
}

func (c *fakeCache) Set(_ context.Context, employeeID int64, date time.Time, windows []domain.WorkingWindow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string][]domain.WorkingWindow)
	}
	c.items[c.key(employeeID, date)] = append([]domain.WorkingWindow(nil), windows...)
	c.sets++
	return nil
}
