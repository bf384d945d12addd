package appointment

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
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

const table = "saved_appointments"

var selectColumns = []string{
	"id",
	"employee_id",
	"service_id",
	"date",
	"time_start::text",
	"time_end::text",
	"status",
	"starts_at",
	"ends_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий сохраненных записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockEmployeeDay берет транзакционную advisory-блокировку на день сотрудника.
// Блокировка снимается при завершении транзакции, поэтому вызывать можно только внутри неё.
func (r *Repository) LockEmployeeDay(ctx context.Context, employeeID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockEmployeeDay", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("appointments:%d:%s", employeeID, date.Format(domain.DateFormat))
	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(hashtextextended(?, 0))", key)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LockEmployeeDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockEmployeeDay - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// Create сохраняет запись. Пересечение [starts_at, ends_at) с активной записью того же сотрудника
// отклоняется exclusion constraint и возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"employee_id",
			"service_id",
			"date",
			"time_start",
			"time_end",
			"starts_at",
			"ends_at",
			"status",
		).
		Values(
			appt.EmployeeID,
			appt.ServiceID,
			appt.Date.Format(domain.DateFormat),
			appt.TimeStart,
			appt.TimeEnd,
			appt.StartsAt.UTC(),
			appt.EndsAt.UTC(),
			appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if IsConflict(err) {
		return nil, fmt.Errorf("%w: %w", ErrSlotConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	return appt, nil
}

// GetActiveByEmployeeAndDate получает активные записи сотрудника на дату по возрастанию начала.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) GetActiveByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Appointment, error) {
	return r.list(ctx, "GetActiveByEmployeeAndDate", squirrel.And{
		squirrel.Eq{"employee_id": employeeID},
		squirrel.Eq{"status": domain.AppointmentStatusActive},
		squirrel.Expr("date = ?::date", date.Format(domain.DateFormat)),
	}, true)
}

// GetByEmployeeAndDate получает все записи сотрудника на дату, включая отмененные
func (r *Repository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Appointment, error) {
	return r.list(ctx, "GetByEmployeeAndDate", squirrel.And{
		squirrel.Eq{"employee_id": employeeID},
		squirrel.Expr("date = ?::date", date.Format(domain.DateFormat)),
	}, false)
}

// Cancel отменяет активную запись
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.AppointmentStatusCanceled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.AppointmentStatusActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCannotCancel
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer, lock bool) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From(table).
		Where(where).
		OrderBy("time_start ASC", "id ASC")

	if lock && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		appt                 domain.Appointment
		start, end           string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&appt.ID,
		&appt.EmployeeID,
		&appt.ServiceID,
		&appt.Date,
		&start,
		&end,
		&appt.Status,
		&appt.StartsAt,
		&appt.EndsAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan appointment: %w", ErrScanRow, err)
	}

	if appt.TimeStart, err = types.NewTimeStringFromString(start); err != nil {
		return nil, fmt.Errorf("%w: appointment id=%d time_start: %v", domain.ErrInvalidTimeFormat, appt.ID, err)
	}
	if appt.TimeEnd, err = types.NewTimeStringFromString(end); err != nil {
		return nil, fmt.Errorf("%w: appointment id=%d time_end: %v", domain.ErrInvalidTimeFormat, appt.ID, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}
