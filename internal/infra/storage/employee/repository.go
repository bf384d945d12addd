package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// Repository настройки записи сотрудников (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сотрудника с настройками записи.
// lead_time хранится текстом: минуты или "next_day".
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"slot_granularity",
		"lead_time",
		"status",
	).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		emp         domain.Employee
		granularity sql.NullInt64
		leadTime    sql.NullString
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&emp.ID,
		&granularity,
		&leadTime,
		&emp.Status,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan employee: %w", ErrScanRow, err)
	}

	emp.SlotGranularityMinutes = int(granularity.Int64)

	emp.LeadTime, err = domain.ParseLeadTime(leadTime.String)
	if err != nil {
		return nil, fmt.Errorf("GetByID - employee id=%d lead_time: %w", id, err)
	}

	return &emp, nil
}
