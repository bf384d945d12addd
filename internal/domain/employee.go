package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EmployeeStatus статус сотрудника
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusArchived EmployeeStatus = "archived"
	EmployeeStatusDisabled EmployeeStatus = "disabled"
)

// LeadTime минимальный запас времени между "сейчас" и началом слота.
// NextDay означает запрет записи на текущий день.
type LeadTime struct {
	Duration time.Duration
	NextDay  bool
}

// ParseLeadTime разбирает хранимое значение: количество минут или "next_day".
// Пустое значение означает отсутствие ограничения.
func ParseLeadTime(raw string) (LeadTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LeadTime{}, nil
	}
	if raw == LeadTimeNextDaySentinel {
		return LeadTime{NextDay: true}, nil
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		return LeadTime{}, fmt.Errorf("%w: %w: %q", ErrInvalidTimeFormat, ErrInvalidLeadTime, raw)
	}
	return LeadTime{Duration: time.Duration(minutes) * time.Minute}, nil
}

// String обратное к ParseLeadTime представление
func (l LeadTime) String() string {
	if l.NextDay {
		return LeadTimeNextDaySentinel
	}
	return strconv.Itoa(int(l.Duration / time.Minute))
}

// Cutoff самый ранний допустимый старт слота относительно now (локальное время)
func (l LeadTime) Cutoff(now time.Time) time.Time {
	if l.NextDay {
		y, m, d := now.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	}
	return now.Add(l.Duration)
}

// Employee сотрудник с настройками записи
type Employee struct {
	ID                     int64
	SlotGranularityMinutes int
	LeadTime               LeadTime
	Status                 EmployeeStatus
}

// IsBookable только активные сотрудники дают слоты
func (e *Employee) IsBookable() bool {
	return e.Status == EmployeeStatusActive
}

// Granularity шаг сетки слотов. Недопустимое значение заменяется значением по умолчанию.
func (e *Employee) Granularity() time.Duration {
	if !IsValidSlotGranularity(e.SlotGranularityMinutes) {
		return DefaultSlotGranularityMinutes * time.Minute
	}
	return time.Duration(e.SlotGranularityMinutes) * time.Minute
}

// Service услуга (только длительность и буфер)
type Service struct {
	ID              int64
	DurationMinutes int
	BufferMinutes   int
}

// TotalDuration длительность слота: услуга + буфер
func (s *Service) TotalDuration() time.Duration {
	return time.Duration(s.DurationMinutes+s.BufferMinutes) * time.Minute
}
