package period

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

// Repository циклические периоды расписания
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCovering получает все периоды сотрудника, действующие на дату.
// Порядок: valid_from DESC, id DESC (первый элемент выигрывает при пересечении).
func (r *Repository) GetCovering(ctx context.Context, employeeID int64, date time.Time) ([]*domain.SchedulePeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	day := date.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select(
		"id",
		"employee_id",
		"valid_from",
		"valid_until",
		"repeat_cycle",
	).
		From("schedule_periods").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Expr("valid_from <= ?::date", day)).
		Where(squirrel.Or{
			squirrel.Eq{"valid_until": nil},
			squirrel.Expr("valid_until >= ?::date", day),
		}).
		OrderBy("valid_from DESC", "id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCovering - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCovering - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]*domain.SchedulePeriod, 0)
	for rows.Next() {
		var (
			p          domain.SchedulePeriod
			validUntil sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.ValidFrom, &validUntil, &p.RepeatCycle); err != nil {
			return nil, fmt.Errorf("%w: GetCovering - scan period: %w", ErrScanRow, err)
		}
		p.ValidUntil = ptr.FromNullTime(validUntil)
		periods = append(periods, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCovering - rows error: %w", ErrScanRow, err)
	}

	return periods, nil
}

// GetDaySchedule получает строку дня цикла (period, week, day)
func (r *Repository) GetDaySchedule(ctx context.Context, periodID int64, weekNumber int, day time.Weekday) (*domain.PeriodDaySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"period_id",
		"week_number_in_cycle",
		"day_id",
		"start_time::text",
		"end_time::text",
		"block_start_time_1::text",
		"block_end_time_1::text",
	).
		From("period_day_schedules").
		Where(squirrel.Eq{
			"period_id":            periodID,
			"week_number_in_cycle": weekNumber,
			"day_id":               int(day),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDaySchedule - build select query: %v", ErrBuildQuery, err)
	}

	var (
		row                  domain.PeriodDaySchedule
		dayID                int
		start, end           sql.NullString
		breakStart, breakEnd sql.NullString
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&row.ID,
		&row.PeriodID,
		&row.WeekNumber,
		&dayID,
		&start,
		&end,
		&breakStart,
		&breakEnd,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDaySchedule - scan row: %w", ErrScanRow, err)
	}

	// Строка без обеих границ означает нерабочий день
	if !start.Valid && !end.Valid {
		return nil, ErrDayNotFound
	}

	row.DaySchedule, err = domain.ParseDaySchedule(start.String, end.String, ptr.FromNullString(breakStart), ptr.FromNullString(breakEnd))
	if err != nil {
		return nil, fmt.Errorf("GetDaySchedule - period=%d week=%d day=%d: %w", periodID, weekNumber, dayID, err)
	}
	row.DayOfWeek = time.Weekday(dayID)

	return &row, nil
}
