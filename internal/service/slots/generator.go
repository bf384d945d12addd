package slots

import (
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

// Generate нарезает рабочие окна на кандидаты для записи.
//
// Для каждого окна старт t идет от window.Start с шагом сетки сотрудника.
// Кандидат предлагается, если t+duration <= window.End, t не раньше отсечки
// (now + lead time либо полночь следующего дня) и [t, t+duration) не пересекается
// ни с одной активной записью.
//
// Последовательность ленивая и конечная. Входные срезы копируются при вызове,
// поэтому каждый range дает один и тот же результат.
func Generate(
	emp *domain.Employee,
	date time.Time,
	duration time.Duration,
	windows []domain.WorkingWindow,
	booked []interval.Interval,
	now time.Time,
) iter.Seq[domain.Slot] {
	if emp == nil || duration <= 0 || len(windows) == 0 {
		return func(func(domain.Slot) bool) {}
	}

	employeeID := emp.ID
	step := emp.Granularity()
	cutoff := emp.LeadTime.Cutoff(now)
	day := domain.CivilDate(date)

	ordered := slices.Clone(windows)
	slices.SortFunc(ordered, func(a, b domain.WorkingWindow) int {
		return a.Start.Compare(b.Start)
	})
	busy := interval.Merge(booked)

	return func(yield func(domain.Slot) bool) {
		for _, w := range ordered {
			for t := w.Start; !t.Add(duration).After(w.End); t = t.Add(step) {
				if t.Before(cutoff) {
					continue
				}

				candidate := interval.New(t, t.Add(duration))
				if interval.OverlapsAny(candidate, busy) {
					continue
				}

				slot := domain.Slot{
					EmployeeID: employeeID,
					Date:       day,
					Start:      candidate.Start,
					End:        candidate.End,
				}
				if !yield(slot) {
					return
				}
			}
		}
	}
}

// Collect материализует последовательность слотов
func Collect(seq iter.Seq[domain.Slot]) []domain.Slot {
	result := slices.Collect(seq)
	if result == nil {
		return []domain.Slot{}
	}
	return result
}
