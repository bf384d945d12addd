package availability

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	periodRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/period"
	weeklyRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/weekly"
)

// BreakPolicy правило применения перерыва для дней циклического периода
type BreakPolicy string

const (
	// BreakPolicyOwn перерыв берется только из строки периода
	BreakPolicyOwn BreakPolicy = "own"
	// BreakPolicyInheritWeekly строка периода без перерыва наследует перерыв недельного шаблона
	BreakPolicyInheritWeekly BreakPolicy = "inherit_weekly"
)

// ParseBreakPolicy разбирает значение из конфигурации. Пустое значение означает BreakPolicyOwn.
func ParseBreakPolicy(raw string) (BreakPolicy, error) {
	switch BreakPolicy(raw) {
	case "", BreakPolicyOwn:
		return BreakPolicyOwn, nil
	case BreakPolicyInheritWeekly:
		return BreakPolicyInheritWeekly, nil
	default:
		return "", fmt.Errorf("availability: unknown period break policy %q", raw)
	}
}

// ResolveSource выбирает источник расписания сотрудника на дату.
// Период, покрывающий дату, авторитетен: отсутствие строки дня означает выходной,
// недельный шаблон в этом случае не используется.
func (r *Resolver) ResolveSource(ctx context.Context, employeeID int64, date time.Time) (domain.ScheduleSource, error) {
	ctx, span := tracer.Start(ctx, "availability.ResolveSource",
		trace.WithAttributes(
			attribute.Int64("employee.id", employeeID),
			attribute.String("date", date.Format(domain.DateFormat)),
		),
	)
	defer span.End()

	periods, err := r.periods.GetCovering(ctx, employeeID, date)
	if err != nil {
		return domain.ScheduleSource{}, wrapRepoErr("ResolveSource - periods", err)
	}

	if len(periods) > 0 {
		src, err := r.periodSource(ctx, employeeID, date, periods)
		if err != nil {
			return domain.ScheduleSource{}, err
		}
		span.SetAttributes(attribute.String("source", src.Kind.String()))
		return src, nil
	}

	weekly, err := r.weekly.GetByEmployeeAndDay(ctx, employeeID, date.Weekday())
	if errors.Is(err, weeklyRepo.ErrNotFound) {
		span.SetAttributes(attribute.String("source", domain.SourceClosed.String()))
		return domain.ClosedSource(), nil
	}
	if err != nil {
		return domain.ScheduleSource{}, wrapRepoErr("ResolveSource - weekly", err)
	}

	day := weekly.DaySchedule
	span.SetAttributes(attribute.String("source", domain.SourceWeekly.String()))
	return domain.ScheduleSource{Kind: domain.SourceWeekly, Day: &day}, nil
}

func (r *Resolver) periodSource(ctx context.Context, employeeID int64, date time.Time, periods []*domain.SchedulePeriod) (domain.ScheduleSource, error) {
	period := selectPeriod(periods)
	if len(periods) > 1 {
		r.logger.Warn("ResolveSource: %v: employee=%d date=%s periods=%d, using period id=%d",
			domain.ErrAmbiguousPeriodOverlap, employeeID, date.Format(domain.DateFormat), len(periods), period.ID)
	}

	week := period.WeekNumber(date)
	row, err := r.periods.GetDaySchedule(ctx, period.ID, week, date.Weekday())
	if errors.Is(err, periodRepo.ErrDayNotFound) {
		return domain.ScheduleSource{Kind: domain.SourceClosed, Period: period, WeekNumber: week}, nil
	}
	if err != nil {
		return domain.ScheduleSource{}, wrapRepoErr("ResolveSource - period day", err)
	}

	day := row.DaySchedule
	if !day.HasBreak() && r.breakPolicy == BreakPolicyInheritWeekly {
		if err := r.inheritWeeklyBreak(ctx, employeeID, date, &day); err != nil {
			return domain.ScheduleSource{}, err
		}
	}

	return domain.ScheduleSource{
		Kind:       domain.SourcePeriod,
		Day:        &day,
		Period:     period,
		WeekNumber: week,
	}, nil
}

func (r *Resolver) inheritWeeklyBreak(ctx context.Context, employeeID int64, date time.Time, day *domain.DaySchedule) error {
	weekly, err := r.weekly.GetByEmployeeAndDay(ctx, employeeID, date.Weekday())
	if errors.Is(err, weeklyRepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return wrapRepoErr("ResolveSource - weekly break", err)
	}
	if weekly.HasBreak() {
		day.BreakStart, day.BreakEnd = weekly.BreakStart, weekly.BreakEnd
	}
	return nil
}

// selectPeriod детерминированный выбор среди пересекающихся периодов:
// побеждает самый поздний valid_from, при равенстве наибольший id
func selectPeriod(periods []*domain.SchedulePeriod) *domain.SchedulePeriod {
	return slices.MaxFunc(periods, func(a, b *domain.SchedulePeriod) int {
		if c := a.ValidFrom.Compare(b.ValidFrom); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
