// Package interval содержит алгебру полуоткрытых интервалов времени [Start, End).
// Используется и для блокировок, и для занятых записей.
package interval

import (
	"slices"
	"time"
)

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// New создает интервал
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsEmpty возвращает true, если интервал пуст (End <= Start)
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// Duration длительность интервала (0 для пустого)
func (i Interval) Duration() time.Duration {
	if i.IsEmpty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Overlaps [a,b) пересекается с [c,d) тогда и только тогда, когда a < d && c < b.
// Касание концами пересечением не считается.
func (i Interval) Overlaps(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains проверяет, что other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	if other.IsEmpty() {
		return false
	}
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// ContainsTime проверяет, что момент t лежит в [Start, End)
func (i Interval) ContainsTime(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Intersect возвращает пересечение. ok=false, если пересечения нет.
func (i Interval) Intersect(other Interval) (Interval, bool) {
	start := maxTime(i.Start, other.Start)
	end := minTime(i.End, other.End)
	result := Interval{Start: start, End: end}
	if result.IsEmpty() {
		return Interval{}, false
	}
	return result, true
}

// Subtract вычитает cut из i. Результат: 0, 1 или 2 интервала в хронологическом порядке.
func (i Interval) Subtract(cut Interval) []Interval {
	if i.IsEmpty() {
		return nil
	}
	if !i.Overlaps(cut) {
		return []Interval{i}
	}

	var result []Interval
	if cut.Start.After(i.Start) {
		result = append(result, Interval{Start: i.Start, End: cut.Start})
	}
	if cut.End.Before(i.End) {
		result = append(result, Interval{Start: cut.End, End: i.End})
	}
	return result
}

// SubtractAll вычитает из base все интервалы cuts.
// cuts обрезаются по base, сортируются и склеиваются, после чего остаток
// возвращается в виде непересекающихся интервалов по возрастанию.
func SubtractAll(base Interval, cuts []Interval) []Interval {
	if base.IsEmpty() {
		return nil
	}

	clipped := make([]Interval, 0, len(cuts))
	for _, c := range cuts {
		if in, ok := base.Intersect(c); ok {
			clipped = append(clipped, in)
		}
	}
	if len(clipped) == 0 {
		return []Interval{base}
	}

	merged := Merge(clipped)

	var result []Interval
	cursor := base.Start
	for _, m := range merged {
		if m.Start.After(cursor) {
			result = append(result, Interval{Start: cursor, End: m.Start})
		}
		if m.End.After(cursor) {
			cursor = m.End
		}
	}
	if base.End.After(cursor) {
		result = append(result, Interval{Start: cursor, End: base.End})
	}
	return result
}

// Merge сортирует интервалы и склеивает пересекающиеся и соприкасающиеся.
// Пустые интервалы отбрасываются. Исходный срез не изменяется.
func Merge(intervals []Interval) []Interval {
	sorted := make([]Interval, 0, len(intervals))
	for _, in := range intervals {
		if !in.IsEmpty() {
			sorted = append(sorted, in)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	Sort(sorted)

	result := []Interval{sorted[0]}
	for _, in := range sorted[1:] {
		last := &result[len(result)-1]
		if !in.Start.After(last.End) {
			if in.End.After(last.End) {
				last.End = in.End
			}
			continue
		}
		result = append(result, in)
	}
	return result
}

// OverlapsAny проверяет пересечение с любым из интервалов
func OverlapsAny(i Interval, others []Interval) bool {
	for _, o := range others {
		if i.Overlaps(o) {
			return true
		}
	}
	return false
}

// ContainedInAny проверяет, что i целиком лежит внутри одного из интервалов
func ContainedInAny(i Interval, containers []Interval) bool {
	for _, c := range containers {
		if c.Contains(i) {
			return true
		}
	}
	return false
}

// Sort сортирует по началу, затем по концу
func Sort(intervals []Interval) {
	slices.SortFunc(intervals, func(a, b Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
