package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

// WorkingWindow непрерывный интервал, доступный для записи, за вычетом перерыва и блокировок.
// Start/End в часовом поясе арендатора.
type WorkingWindow struct {
	EmployeeID int64
	Date       time.Time
	Start      time.Time
	End        time.Time
	Break      *interval.Interval // перерыв, вычтенный из базового окна
}

// Interval окно как интервал
func (w WorkingWindow) Interval() interval.Interval {
	return interval.New(w.Start, w.End)
}

// Duration длительность окна
func (w WorkingWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// WindowIntervals переводит окна в интервалы
func WindowIntervals(windows []WorkingWindow) []interval.Interval {
	result := make([]interval.Interval, len(windows))
	for i, w := range windows {
		result[i] = w.Interval()
	}
	return result
}

// Slot кандидат на запись: End = Start + длительность услуги + буфер
type Slot struct {
	EmployeeID int64
	Date       time.Time
	Start      time.Time
	End        time.Time
}

// Interval слот как интервал
func (s Slot) Interval() interval.Interval {
	return interval.New(s.Start, s.End)
}
