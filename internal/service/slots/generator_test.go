package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

var wednesday = time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func window(sh, sm, eh, em int) domain.WorkingWindow {
	return domain.WorkingWindow{EmployeeID: 1, Date: wednesday, Start: at(sh, sm), End: at(eh, em)}
}

// scenarioWindows 09:00-18:00 с перерывом 12:00-13:00
func scenarioWindows() []domain.WorkingWindow {
	return []domain.WorkingWindow{window(9, 0, 12, 0), window(13, 0, 18, 0)}
}

func employee() *domain.Employee {
	return &domain.Employee{ID: 1, SlotGranularityMinutes: 30, Status: domain.EmployeeStatusActive}
}

// dayBefore момент, после которого отсечка не влияет на слоты среды
var dayBefore = time.Date(2025, time.March, 11, 8, 0, 0, 0, time.UTC)

func starts(slots []domain.Slot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.Start.Format("15:04")
	}
	return result
}

func TestGenerate_ScenarioA(t *testing.T) {
	got := Collect(Generate(employee(), wednesday, 30*time.Minute, scenarioWindows(), nil, dayBefore))

	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}, starts(got))

	for _, s := range got {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
		assert.Equal(t, int64(1), s.EmployeeID)
		assert.True(t, s.Date.Equal(wednesday))
	}
}

func TestGenerate_NoWindows(t *testing.T) {
	got := Collect(Generate(employee(), wednesday, 30*time.Minute, nil, nil, dayBefore))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGenerate_ScenarioD_ActiveAppointmentExcludesOverlaps(t *testing.T) {
	booked := []interval.Interval{interval.New(at(10, 0), at(10, 30))}

	got := starts(Collect(Generate(employee(), wednesday, 30*time.Minute, scenarioWindows(), booked, dayBefore)))
	assert.NotContains(t, got, "10:00")
	assert.Contains(t, got, "09:30")
	assert.Contains(t, got, "10:30")
	assert.Len(t, got, 15)

	// услуга 60 минут: слот 09:30 задевает запись 10:00-10:30
	got = starts(Collect(Generate(employee(), wednesday, 60*time.Minute, scenarioWindows(), booked, dayBefore)))
	assert.Equal(t, []string{
		"09:00", "10:30", "11:00",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
	}, got)
}

func TestGenerate_ScenarioE_NextDayLeadTime(t *testing.T) {
	emp := employee()
	emp.LeadTime = domain.LeadTime{NextDay: true}

	now := at(15, 0)
	got := Collect(Generate(emp, wednesday, 30*time.Minute, scenarioWindows(), nil, now))
	assert.Empty(t, got)

	// накануне вечером тот же сотрудник доступен на весь следующий день
	eveBefore := time.Date(2025, time.March, 11, 22, 0, 0, 0, time.UTC)
	got = Collect(Generate(emp, wednesday, 30*time.Minute, scenarioWindows(), nil, eveBefore))
	assert.Len(t, got, 16)
}

func TestGenerate_FixedLeadTime(t *testing.T) {
	emp := employee()
	emp.LeadTime = domain.LeadTime{Duration: 90 * time.Minute}

	got := starts(Collect(Generate(emp, wednesday, 30*time.Minute, scenarioWindows(), nil, at(14, 10))))
	assert.Equal(t, []string{"16:00", "16:30", "17:00", "17:30"}, got)

	// ровно на отсечке слот допустим
	got = starts(Collect(Generate(emp, wednesday, 30*time.Minute, scenarioWindows(), nil, at(14, 30))))
	assert.Equal(t, "16:00", got[0])
}

func TestGenerate_WindowBoundary(t *testing.T) {
	windows := []domain.WorkingWindow{window(9, 0, 10, 30)}

	got := starts(Collect(Generate(employee(), wednesday, 45*time.Minute, windows, nil, dayBefore)))
	// 09:30+45 = 10:15 <= 10:30, 10:00+45 = 10:45 > 10:30
	assert.Equal(t, []string{"09:00", "09:30"}, got)

	got = starts(Collect(Generate(employee(), wednesday, 30*time.Minute, windows, nil, dayBefore)))
	// 10:00+30 == 10:30 включается
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, got)
}

func TestGenerate_StepsFromWindowStart(t *testing.T) {
	emp := employee()
	emp.SlotGranularityMinutes = 15
	windows := []domain.WorkingWindow{window(10, 10, 11, 0)}

	got := starts(Collect(Generate(emp, wednesday, 20*time.Minute, windows, nil, dayBefore)))
	assert.Equal(t, []string{"10:10", "10:25", "10:40"}, got)
}

func TestGenerate_InvalidGranularityFallsBack(t *testing.T) {
	emp := employee()
	emp.SlotGranularityMinutes = 7
	windows := []domain.WorkingWindow{window(9, 0, 10, 0)}

	got := starts(Collect(Generate(emp, wednesday, 30*time.Minute, windows, nil, dayBefore)))
	assert.Equal(t, []string{"09:00", "09:30"}, got)
}

func TestGenerate_IdempotentAndRestartable(t *testing.T) {
	windows := scenarioWindows()
	booked := []interval.Interval{interval.New(at(14, 0), at(15, 0))}
	seq := Generate(employee(), wednesday, 30*time.Minute, windows, booked, dayBefore)

	first := Collect(seq)
	second := Collect(seq)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	// изменение исходных срезов после вызова не влияет на последовательность
	windows[0] = window(6, 0, 7, 0)
	booked[0] = interval.New(at(9, 0), at(18, 0))
	assert.Equal(t, first, Collect(seq))

	again := Collect(Generate(employee(), wednesday, 30*time.Minute, scenarioWindows(),
		[]interval.Interval{interval.New(at(14, 0), at(15, 0))}, dayBefore))
	assert.Equal(t, first, again)
}

func TestGenerate_EarlyStop(t *testing.T) {
	var taken []domain.Slot
	for s := range Generate(employee(), wednesday, 30*time.Minute, scenarioWindows(), nil, dayBefore) {
		taken = append(taken, s)
		if len(taken) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, starts(taken))
}

func TestGenerate_UnorderedWindowsYieldAscending(t *testing.T) {
	windows := []domain.WorkingWindow{window(13, 0, 14, 0), window(9, 0, 10, 0)}

	got := starts(Collect(Generate(employee(), wednesday, 30*time.Minute, windows, nil, dayBefore)))
	assert.Equal(t, []string{"09:00", "09:30", "13:00", "13:30"}, got)
}
