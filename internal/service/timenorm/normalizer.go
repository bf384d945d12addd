package timenorm

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// anchorHour час, на который берется смещение зоны для даты.
// Переходы DST происходят ночью, поэтому смещение в полдень одно на весь день.
const anchorHour = 12

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Normalizer переводит время суток между UTC (хранилище) и локальным временем арендатора.
// Смещение всегда берется для целевой даты, а не для текущей.
type Normalizer struct {
	loc   *time.Location
	clock TimeProvider
}

// New создает нормализатор для зоны loc. clock == nil означает реальное время.
func New(loc *time.Location, clock TimeProvider) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	return &Normalizer{loc: loc, clock: clock}
}

// Location часовой пояс арендатора
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Now текущий момент в локальной зоне
func (n *Normalizer) Now() time.Time {
	return n.clock.Now().In(n.loc)
}

// Offset смещение зоны от UTC в секундах для даты
func (n *Normalizer) Offset(date time.Time) int {
	y, m, d := date.Date()
	_, offset := time.Date(y, m, d, anchorHour, 0, 0, 0, n.loc).Zone()
	return offset
}

// ToLocal переводит UTC время суток в локальное для даты
func (n *Normalizer) ToLocal(utc types.TimeString, date time.Time) (types.TimeString, error) {
	secs, err := utc.Seconds()
	if err != nil {
		return "", fmt.Errorf("%w: ToLocal: %v", domain.ErrInvalidTimeFormat, err)
	}
	return types.FromSeconds(secs + n.Offset(date)), nil
}

// ToUTC переводит локальное время суток в UTC для даты
func (n *Normalizer) ToUTC(local types.TimeString, date time.Time) (types.TimeString, error) {
	secs, err := local.Seconds()
	if err != nil {
		return "", fmt.Errorf("%w: ToUTC: %v", domain.ErrInvalidTimeFormat, err)
	}
	return types.FromSeconds(secs - n.Offset(date)), nil
}

// DayStart локальная полночь даты
func (n *Normalizer) DayStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, n.loc)
}

// NextDayStart локальная полночь следующего дня
func (n *Normalizer) NextDayStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, n.loc)
}

// LocalInstant момент времени по локальному времени суток на дату
func (n *Normalizer) LocalInstant(local types.TimeString, date time.Time) (time.Time, error) {
	secs, err := local.Seconds()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: LocalInstant: %v", domain.ErrInvalidTimeFormat, err)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, secs/3600, (secs%3600)/60, secs%60, 0, n.loc), nil
}

// LocalTimeOf время суток момента t в локальной зоне
func (n *Normalizer) LocalTimeOf(t time.Time) types.TimeString {
	return types.NewTimeString(t.In(n.loc))
}

// UTCInterval переводит пару UTC времен суток в локальный интервал на дату.
// Если конец не позже начала (например, "00:00"), он относится к следующим суткам.
// Результат обрезается границами локального дня.
func (n *Normalizer) UTCInterval(utcStart, utcEnd types.TimeString, date time.Time) (interval.Interval, error) {
	localStart, err := n.ToLocal(utcStart, date)
	if err != nil {
		return interval.Interval{}, err
	}
	localEnd, err := n.ToLocal(utcEnd, date)
	if err != nil {
		return interval.Interval{}, err
	}

	start, err := n.LocalInstant(localStart, date)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := n.LocalInstant(localEnd, date)
	if err != nil {
		return interval.Interval{}, err
	}
	if !end.After(start) {
		end, err = n.LocalInstant(localEnd, date.AddDate(0, 0, 1))
		if err != nil {
			return interval.Interval{}, err
		}
	}

	day := interval.New(n.DayStart(date), n.NextDayStart(date))
	clipped, ok := day.Intersect(interval.New(start, end))
	if !ok {
		return interval.Interval{}, nil
	}
	return clipped, nil
}
