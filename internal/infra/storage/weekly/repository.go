package weekly

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

// Repository недельный шаблон доступности
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEmployeeAndDay получает строку шаблона для дня недели (0 = воскресенье).
// Времена читаются как текст, чтобы драйвер не превращал TIME в time.Time.
func (r *Repository) GetByEmployeeAndDay(ctx context.Context, employeeID int64, day time.Weekday) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"employee_id",
		"day_id",
		"start_time::text",
		"end_time::text",
		"block_start_time_1::text",
		"block_end_time_1::text",
	).
		From("weekly_availability").
		Where(squirrel.Eq{"employee_id": employeeID, "day_id": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDay - build select query: %v", ErrBuildQuery, err)
	}

	var (
		row                  domain.WeeklyAvailability
		dayID                int
		start, end           sql.NullString
		breakStart, breakEnd sql.NullString
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&row.ID,
		&row.EmployeeID,
		&dayID,
		&start,
		&end,
		&breakStart,
		&breakEnd,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDay - scan row: %w", ErrScanRow, err)
	}

	// Строка без обеих границ означает нерабочий день
	if !start.Valid && !end.Valid {
		return nil, ErrNotFound
	}

	// Ошибка формата прокидывается как domain.ErrInvalidTimeFormat
	row.DaySchedule, err = domain.ParseDaySchedule(start.String, end.String, ptr.FromNullString(breakStart), ptr.FromNullString(breakEnd))
	if err != nil {
		return nil, fmt.Errorf("GetByEmployeeAndDay - employee=%d day=%d: %w", employeeID, dayID, err)
	}
	row.DayOfWeek = time.Weekday(dayID)

	return &row, nil
}
