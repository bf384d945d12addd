package domain

// Допустимые шаги сетки слотов (минуты)
const (
	SlotGranularity15 = 15
	SlotGranularity30 = 30
	SlotGranularity60 = 60

	DefaultSlotGranularityMinutes = SlotGranularity30
)

// Ограничения расписаний
const (
	MinRepeatCycle = 1
	MaxRepeatCycle = 4
	DaysPerWeek    = 7
)

// LeadTimeNextDaySentinel значение lead_time "не раньше начала следующего дня"
const LeadTimeNextDaySentinel = "next_day"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// IsValidSlotGranularity проверяет шаг сетки
func IsValidSlotGranularity(minutes int) bool {
	switch minutes {
	case SlotGranularity15, SlotGranularity30, SlotGranularity60:
		return true
	default:
		return false
	}
}
