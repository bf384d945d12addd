package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// DaySchedule рабочий день в UTC: начало, конец и необязательный перерыв
type DaySchedule struct {
	Start      types.TimeString
	End        types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// HasBreak перерыв задан полностью
func (d DaySchedule) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil &&
		!d.BreakStart.IsZero() && !d.BreakEnd.IsZero()
}

// ParseDaySchedule собирает DaySchedule из сырых значений колонок.
// Перерыв учитывается, только если заданы обе границы.
func ParseDaySchedule(start, end string, breakStart, breakEnd *string) (DaySchedule, error) {
	var (
		d   DaySchedule
		err error
	)

	if d.Start, err = types.NewTimeStringFromString(start); err != nil {
		return DaySchedule{}, fmt.Errorf("%w: start_time: %v", ErrInvalidTimeFormat, err)
	}
	if d.End, err = types.NewTimeStringFromString(end); err != nil {
		return DaySchedule{}, fmt.Errorf("%w: end_time: %v", ErrInvalidTimeFormat, err)
	}

	if breakStart == nil || breakEnd == nil || *breakStart == "" || *breakEnd == "" {
		return d, nil
	}

	bs, err := types.NewTimeStringFromString(*breakStart)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("%w: block_start_time_1: %v", ErrInvalidTimeFormat, err)
	}
	be, err := types.NewTimeStringFromString(*breakEnd)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("%w: block_end_time_1: %v", ErrInvalidTimeFormat, err)
	}
	d.BreakStart, d.BreakEnd = &bs, &be

	return d, nil
}

// WeeklyAvailability недельный шаблон (employee, day) -> DaySchedule
type WeeklyAvailability struct {
	ID         int64
	EmployeeID int64
	DayOfWeek  time.Weekday // 0 = воскресенье
	DaySchedule
}

// SchedulePeriod циклическое расписание на диапазон дат
type SchedulePeriod struct {
	ID          int64
	EmployeeID  int64
	ValidFrom   time.Time
	ValidUntil  *time.Time // nil = бессрочно
	RepeatCycle int        // 1..4 недели
}

// Covers период действует на дату (границы включительно)
func (p *SchedulePeriod) Covers(date time.Time) bool {
	d := CivilDate(date)
	if d.Before(CivilDate(p.ValidFrom)) {
		return false
	}
	return p.ValidUntil == nil || !d.After(CivilDate(*p.ValidUntil))
}

// WeekNumber номер недели в цикле (1..RepeatCycle):
// floor(daysBetween(valid_from, date)/7) mod repeat_cycle + 1
func (p *SchedulePeriod) WeekNumber(date time.Time) int {
	cycle := p.RepeatCycle
	if cycle < MinRepeatCycle || cycle > MaxRepeatCycle {
		cycle = MinRepeatCycle
	}

	days := DaysBetween(p.ValidFrom, date)
	weeks := days / DaysPerWeek
	if days < 0 && days%DaysPerWeek != 0 {
		weeks--
	}

	n := weeks % cycle
	if n < 0 {
		n += cycle
	}
	return n + 1
}

// PeriodDaySchedule день цикла (period, week, day) -> DaySchedule
type PeriodDaySchedule struct {
	ID         int64
	PeriodID   int64
	WeekNumber int
	DayOfWeek  time.Weekday
	DaySchedule
}

// ScheduleSourceKind источник расписания на конкретную дату
type ScheduleSourceKind int

const (
	SourceClosed ScheduleSourceKind = iota
	SourceWeekly
	SourcePeriod
)

func (k ScheduleSourceKind) String() string {
	switch k {
	case SourceWeekly:
		return "weekly"
	case SourcePeriod:
		return "period"
	default:
		return "closed"
	}
}

// ScheduleSource выбранный для (employee, date) источник.
// Day заполнен для Weekly и Period, Period и WeekNumber только для Period.
type ScheduleSource struct {
	Kind       ScheduleSourceKind
	Day        *DaySchedule
	Period     *SchedulePeriod
	WeekNumber int
}

// ClosedSource выходной день
func ClosedSource() ScheduleSource {
	return ScheduleSource{Kind: SourceClosed}
}

// IsClosed нет рабочего окна
func (s ScheduleSource) IsClosed() bool {
	return s.Kind == SourceClosed || s.Day == nil
}

// BlockedTime блокировка времени сотрудника
type BlockedTime struct {
	ID         int64
	EmployeeID int64
	Date       time.Time
	Start      *types.TimeString // UTC, nil для блокировки на весь день
	End        *types.TimeString
	IsAllDay   bool
	GroupID    uuid.NullUUID // группа пакетно созданных блокировок
}

// CivilDate отбрасывает время и часовой пояс, оставляя календарную дату (в UTC)
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween количество календарных дней от from до to (не зависит от DST)
func DaysBetween(from, to time.Time) int {
	return int(CivilDate(to).Sub(CivilDate(from)).Hours() / 24)
}
