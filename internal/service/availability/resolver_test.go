package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/timenorm"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const employeeID int64 = 7

type fixture struct {
	employees    *fakeEmployees
	weekly       *fakeWeekly
	periods      *fakePeriods
	blocks       *fakeBlocks
	appointments *fakeAppointments
	loc          *time.Location
	policy       BreakPolicy
	cache        WindowCache
}

// newFixture пн-пт 09:00-18:00 с перерывом 12:00-13:00, часовой пояс UTC
func newFixture() *fixture {
	workday := domain.DaySchedule{Start: "09:00", End: "18:00", BreakStart: ts("12:00"), BreakEnd: ts("13:00")}
	days := make(map[time.Weekday]domain.DaySchedule)
	for d := time.Monday; d <= time.Friday; d++ {
		days[d] = workday
	}

	return &fixture{
		employees: &fakeEmployees{items: map[int64]*domain.Employee{
			employeeID: {ID: employeeID, SlotGranularityMinutes: 30, Status: domain.EmployeeStatusActive},
		}},
		weekly:       &fakeWeekly{days: days},
		periods:      &fakePeriods{days: map[periodDayKey]domain.DaySchedule{}},
		blocks:       &fakeBlocks{byDate: map[string][]*domain.BlockedTime{}},
		appointments: &fakeAppointments{},
		loc:          time.UTC,
	}
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(Repositories{
		Employees:    f.employees,
		Weekly:       f.weekly,
		Periods:      f.periods,
		Blocks:       f.blocks,
		Appointments: f.appointments,
	}, timenorm.New(f.loc, nil), nopLogger{}, Options{
		TenantID:    "acme",
		BreakPolicy: f.policy,
		Cache:       f.cache,
	})
}

func spans(t *testing.T, windows []domain.WorkingWindow) []string {
	t.Helper()
	result := make([]string, len(windows))
	for i, w := range windows {
		result[i] = fmt.Sprintf("%s-%s", w.Start.Format("15:04"), w.End.Format("15:04"))
	}
	return result
}

var wednesday = date(2025, time.March, 12)

func TestGetWorkingWindows_WeeklyMinusBreak(t *testing.T) {
	f := newFixture()

	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00-12:00", "13:00-18:00"}, spans(t, windows))
	for _, w := range windows {
		require.NotNil(t, w.Break)
		assert.Equal(t, "12:00", w.Break.Start.Format("15:04"))
		assert.Equal(t, employeeID, w.EmployeeID)
		assert.True(t, w.Date.Equal(wednesday))
	}
}

func TestGetWorkingWindows_ClosedDay(t *testing.T) {
	f := newFixture()

	sunday := date(2025, time.March, 16)
	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, sunday)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestGetWorkingWindows_AllDayBlock(t *testing.T) {
	f := newFixture()
	f.blocks.byDate["2025-03-12"] = []*domain.BlockedTime{
		{ID: 1, EmployeeID: employeeID, Date: wednesday, IsAllDay: true},
	}

	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestGetWorkingWindows_PartialBlocksSplitWindow(t *testing.T) {
	f := newFixture()
	f.blocks.byDate["2025-03-12"] = []*domain.BlockedTime{
		{ID: 1, EmployeeID: employeeID, Date: wednesday, Start: ts("10:00"), End: ts("10:30")},
		{ID: 2, EmployeeID: employeeID, Date: wednesday, Start: ts("11:30"), End: ts("13:30")},
		{ID: 3, EmployeeID: employeeID, Date: wednesday, Start: ts("17:00"), End: ts("19:00")},
	}

	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-10:00", "10:30-11:30", "13:30-17:00"}, spans(t, windows))
}

func TestGetWorkingWindows_BlockWithoutBoundsClosesDay(t *testing.T) {
	f := newFixture()
	f.blocks.byDate["2025-03-12"] = []*domain.BlockedTime{
		{ID: 1, EmployeeID: employeeID, Date: wednesday, Start: ts("10:00")},
	}

	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestGetWorkingWindows_NonBookableEmployees(t *testing.T) {
	f := newFixture()
	f.employees.items[8] = &domain.Employee{ID: 8, Status: domain.EmployeeStatusArchived}
	f.employees.items[9] = &domain.Employee{ID: 9, Status: domain.EmployeeStatusDisabled}
	r := f.resolver()

	for _, id := range []int64{8, 9, 404} {
		windows, err := r.GetWorkingWindows(context.Background(), id, wednesday)
		require.NoError(t, err, "employee %d", id)
		assert.Empty(t, windows, "employee %d", id)
	}
}

func TestGetWorkingWindows_CyclicPeriodIsAuthoritative(t *testing.T) {
	f := newFixture()
	period := &domain.SchedulePeriod{
		ID:          11,
		EmployeeID:  employeeID,
		ValidFrom:   date(2025, time.March, 5),
		RepeatCycle: 2,
	}
	f.periods.periods = []*domain.SchedulePeriod{period}
	f.periods.days[periodDayKey{periodID: 11, week: 1, day: time.Wednesday}] = domain.DaySchedule{Start: "10:00", End: "14:00"}
	r := f.resolver()

	week1 := date(2025, time.March, 5)
	week2 := date(2025, time.March, 12)
	week1Again := date(2025, time.March, 19)

	windows, err := r.GetWorkingWindows(context.Background(), employeeID, week1)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-14:00"}, spans(t, windows))

	windows, err = r.GetWorkingWindows(context.Background(), employeeID, week2)
	require.NoError(t, err)
	assert.Empty(t, windows)

	windows, err = r.GetWorkingWindows(context.Background(), employeeID, week1Again)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00-14:00"}, spans(t, windows))

	assert.Zero(t, f.weekly.Calls(), "недельный шаблон не должен читаться при активном периоде")
}

func TestGetWorkingWindows_PeriodEndsFallsBackToWeekly(t *testing.T) {
	f := newFixture()
	until := date(2025, time.March, 11)
	f.periods.periods = []*domain.SchedulePeriod{{
		ID: 11, EmployeeID: employeeID, ValidFrom: date(2025, time.March, 1), ValidUntil: &until, RepeatCycle: 1,
	}}

	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00-12:00", "13:00-18:00"}, spans(t, windows))
}

func TestResolveSource_OverlapTieBreak(t *testing.T) {
	f := newFixture()
	f.periods.periods = []*domain.SchedulePeriod{
		{ID: 30, EmployeeID: employeeID, ValidFrom: date(2025, time.March, 3), RepeatCycle: 1},
		{ID: 10, EmployeeID: employeeID, ValidFrom: date(2025, time.March, 10), RepeatCycle: 1},
		{ID: 20, EmployeeID: employeeID, ValidFrom: date(2025, time.March, 10), RepeatCycle: 1},
	}
	f.periods.days[periodDayKey{periodID: 20, week: 1, day: time.Wednesday}] = domain.DaySchedule{Start: "08:00", End: "09:00"}
	f.periods.days[periodDayKey{periodID: 10, week: 1, day: time.Wednesday}] = domain.DaySchedule{Start: "15:00", End: "16:00"}

	src, err := f.resolver().ResolveSource(context.Background(), employeeID, wednesday)
	require.NoError(t, err)

	assert.Equal(t, domain.SourcePeriod, src.Kind)
	require.NotNil(t, src.Period)
	assert.Equal(t, int64(20), src.Period.ID)
	assert.Equal(t, types.TimeString("08:00"), src.Day.Start)
}

func TestResolveSource_BreakPolicy(t *testing.T) {
	setup := func(policy BreakPolicy) *fixture {
		f := newFixture()
		f.policy = policy
		f.periods.periods = []*domain.SchedulePeriod{{ID: 1, EmployeeID: employeeID, ValidFrom: date(2025, time.March, 3), RepeatCycle: 1}}
		f.periods.days[periodDayKey{periodID: 1, week: 1, day: time.Wednesday}] = domain.DaySchedule{Start: "10:00", End: "16:00"}
		return f
	}

	t.Run("own: перерыв только из строки периода", func(t *testing.T) {
		windows, err := setup(BreakPolicyOwn).resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00-16:00"}, spans(t, windows))
	})

	t.Run("inherit_weekly: перерыв недельного шаблона", func(t *testing.T) {
		windows, err := setup(BreakPolicyInheritWeekly).resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00-12:00", "13:00-16:00"}, spans(t, windows))
	})

	t.Run("inherit_weekly: собственный перерыв периода приоритетнее", func(t *testing.T) {
		f := setup(BreakPolicyInheritWeekly)
		f.periods.days[periodDayKey{periodID: 1, week: 1, day: time.Wednesday}] = domain.DaySchedule{
			Start: "10:00", End: "16:00", BreakStart: ts("14:00"), BreakEnd: ts("14:30"),
		}
		windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00-14:00", "14:30-16:00"}, spans(t, windows))
	})
}

func TestParseBreakPolicy(t *testing.T) {
	p, err := ParseBreakPolicy("")
	require.NoError(t, err)
	assert.Equal(t, BreakPolicyOwn, p)

	p, err = ParseBreakPolicy("inherit_weekly")
	require.NoError(t, err)
	assert.Equal(t, BreakPolicyInheritWeekly, p)

	_, err = ParseBreakPolicy("always")
	assert.Error(t, err)
}

func TestGetWorkingWindows_InvalidTimeFormat(t *testing.T) {
	f := newFixture()
	f.weekly.err = fmt.Errorf("GetByEmployeeAndDay: %w: start_time", domain.ErrInvalidTimeFormat)

	_, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTimeFormat))
}

func TestGetWorkingWindows_RepositoryFailure(t *testing.T) {
	f := newFixture()
	f.periods.err = errors.New("connection refused")

	_, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInternal))
	assert.False(t, errors.Is(err, domain.ErrInvalidTimeFormat))
}

func TestGetWorkingWindows_MalformedEmployeeSettings(t *testing.T) {
	f := newFixture()
	f.employees.err = fmt.Errorf("GetByID - employee id=%d lead_time: %w", employeeID,
		fmt.Errorf("%w: %w: %q", domain.ErrInvalidTimeFormat, domain.ErrInvalidLeadTime, "soon"))

	_, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestGetEmployee_KeepsDriverError(t *testing.T) {
	f := newFixture()
	f.employees.err = fmt.Errorf("scan employee: %w", &pq.Error{Code: "40001"})

	_, err := f.resolver().GetEmployee(context.Background(), employeeID)
	require.ErrorIs(t, err, ErrInternal)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestGetWorkingWindows_ConvertsUTCToLocal(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	f := newFixture()
	f.loc = berlin
	f.weekly.days[time.Wednesday] = domain.DaySchedule{Start: "07:00", End: "15:00"}

	summer := date(2025, time.June, 11)
	windows, err := f.resolver().GetWorkingWindows(context.Background(), employeeID, summer)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, []string{"09:00-17:00"}, spans(t, windows))
	assert.Equal(t, berlin, windows[0].Start.Location())

	winter := date(2025, time.January, 15)
	windows, err = f.resolver().GetWorkingWindows(context.Background(), employeeID, winter)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00-16:00"}, spans(t, windows))
}

func TestGetWorkingWindows_UsesCache(t *testing.T) {
	f := newFixture()
	cache := &fakeCache{}
	f.cache = cache
	r := f.resolver()

	first, err := r.GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)
	callsAfterFirst := f.weekly.Calls()

	second, err := r.GetWorkingWindows(context.Background(), employeeID, wednesday)
	require.NoError(t, err)

	assert.Equal(t, spans(t, first), spans(t, second))
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, callsAfterFirst, f.weekly.Calls())
}

func TestGetBookedIntervals_IgnoresCanceled(t *testing.T) {
	f := newFixture()
	f.appointments.items = []*domain.Appointment{
		{ID: 1, EmployeeID: employeeID, Date: wednesday, TimeStart: "10:00", TimeEnd: "10:30", Status: domain.AppointmentStatusActive},
		{ID: 2, EmployeeID: employeeID, Date: wednesday, TimeStart: "11:00", TimeEnd: "11:45", Status: domain.AppointmentStatusCanceled},
		{ID: 3, EmployeeID: employeeID, Date: wednesday, TimeStart: "10:30", TimeEnd: "11:00", Status: domain.AppointmentStatusActive},
	}

	booked, err := f.resolver().GetBookedIntervals(context.Background(), employeeID, wednesday)
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "10:00", booked[0].Start.Format("15:04"))
	assert.Equal(t, "11:00", booked[0].End.Format("15:04"))
}

func TestGetWorkingWindows_ConcurrentCalls(t *testing.T) {
	f := newFixture()
	r := f.resolver()

	errs := make(chan error, 16)
	for i := 0; i < cap(errs); i++ {
		go func() {
			windows, err := r.GetWorkingWindows(context.Background(), employeeID, wednesday)
			if err == nil && len(windows) != 2 {
				err = fmt.Errorf("unexpected windows: %d", len(windows))
			}
			errs <- err
		}()
	}
	for i := 0; i < cap(errs); i++ {
		assert.NoError(t, <-errs)
	}
}
