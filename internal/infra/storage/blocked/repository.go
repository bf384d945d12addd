package blocked

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Repository блокировки времени сотрудников
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEmployeeAndDate получает блокировки на дату, упорядоченные по началу.
// Блокировки на весь день идут первыми.
func (r *Repository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"employee_id",
		"blocked_date",
		"start_time::text",
		"end_time::text",
		"is_all_day",
		"group_id",
	).
		From("blocked_times").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Expr("blocked_date = ?::date", date.Format(domain.DateFormat))).
		OrderBy("is_all_day DESC", "start_time ASC NULLS FIRST", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		var (
			b          domain.BlockedTime
			start, end sql.NullString
		)

		err := rows.Scan(
			&b.ID,
			&b.EmployeeID,
			&b.Date,
			&start,
			&end,
			&b.IsAllDay,
			&b.GroupID,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByEmployeeAndDate - scan row: %w", ErrScanRow, err)
		}

		if b.Start, err = types.FromNullString(start); err != nil {
			return nil, fmt.Errorf("%w: GetByEmployeeAndDate - block id=%d start_time: %v", domain.ErrInvalidTimeFormat, b.ID, err)
		}
		if b.End, err = types.FromNullString(end); err != nil {
			return nil, fmt.Errorf("%w: GetByEmployeeAndDate - block id=%d end_time: %v", domain.ErrInvalidTimeFormat, b.ID, err)
		}

		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByEmployeeAndDate - rows error: %w", ErrScanRow, err)
	}

	return blocks, nil
}
