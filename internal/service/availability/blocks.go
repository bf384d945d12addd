package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/interval"
)

// blockIntervals переводит блокировки дня в локальные интервалы.
// allDay == true, если хотя бы одна блокировка закрывает день целиком.
func (r *Resolver) blockIntervals(ctx context.Context, employeeID int64, date time.Time) (cuts []interval.Interval, allDay bool, err error) {
	blocks, err := r.blocks.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return nil, false, wrapRepoErr("blocks", err)
	}

	cuts = make([]interval.Interval, 0, len(blocks))
	for _, b := range blocks {
		// Частичная блокировка без одной из границ закрывает день
		if b.IsAllDay || b.Start == nil || b.End == nil {
			if !b.IsAllDay {
				r.logger.Warn("blocks: block id=%d has no bounds, treating as all-day", b.ID)
			}
			return nil, true, nil
		}

		in, err := r.normalizer.UTCInterval(*b.Start, *b.End, date)
		if err != nil {
			return nil, false, wrapRepoErr("blocks", err)
		}
		if !in.IsEmpty() {
			cuts = append(cuts, in)
		}
	}

	return cuts, false, nil
}

// GetBookedIntervals возвращает активные записи сотрудника на дату как локальные интервалы
func (r *Resolver) GetBookedIntervals(ctx context.Context, employeeID int64, date time.Time) ([]interval.Interval, error) {
	ctx, span := tracer.Start(ctx, "availability.GetBookedIntervals")
	defer span.End()

	appointments, err := r.appointments.GetActiveByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return nil, wrapRepoErr("GetBookedIntervals", err)
	}

	booked := make([]interval.Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		in, err := r.normalizer.UTCInterval(a.TimeStart, a.TimeEnd, date)
		if err != nil {
			return nil, wrapRepoErr("GetBookedIntervals", err)
		}
		if !in.IsEmpty() {
			booked = append(booked, in)
		}
	}

	return interval.Merge(booked), nil
}

// windowsFromSource строит рабочие окна: базовое окно минус перерыв минус блокировки
func (r *Resolver) windowsFromSource(employeeID int64, date time.Time, day domain.DaySchedule, blocks []interval.Interval) ([]domain.WorkingWindow, error) {
	base, err := r.normalizer.UTCInterval(day.Start, day.End, date)
	if err != nil {
		return nil, err
	}
	if base.IsEmpty() {
		return []domain.WorkingWindow{}, nil
	}

	cuts := make([]interval.Interval, 0, len(blocks)+1)
	var brk *interval.Interval

	if day.HasBreak() {
		b, err := r.normalizer.UTCInterval(*day.BreakStart, *day.BreakEnd, date)
		if err != nil {
			return nil, err
		}
		if in, ok := base.Intersect(b); ok {
			brk = &in
			cuts = append(cuts, in)
		} else {
			r.logger.Warn("windows: break %s-%s outside working window for employee=%d date=%s, ignored",
				day.BreakStart, day.BreakEnd, employeeID, date.Format(domain.DateFormat))
		}
	}
	cuts = append(cuts, blocks...)

	parts := interval.SubtractAll(base, cuts)
	windows := make([]domain.WorkingWindow, 0, len(parts))
	for _, p := range parts {
		windows = append(windows, domain.WorkingWindow{
			EmployeeID: employeeID,
			Date:       domain.CivilDate(date),
			Start:      p.Start,
			End:        p.End,
			Break:      brk,
		})
	}

	return windows, nil
}
