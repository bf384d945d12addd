package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
)

// Service сервис для работы с сохраненными записями арендатора
type Service struct {
	tenantID   string
	repo       AppointmentRepository
	normalizer Normalizer
	publisher  EventPublisher
	logger     Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	tenantID string,
	repo AppointmentRepository,
	normalizer Normalizer,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		tenantID:   tenantID,
		repo:       repo,
		normalizer: normalizer,
		publisher:  publisher,
		logger:     logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d tenant=%s", id, s.tenantID)

	appt, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return s.toResponse(appt)
}

// ListByEmployeeAndDate получает все записи сотрудника на дату, включая отмененные
func (s *Service) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*models.AppointmentListResponse, error) {
	if employeeID <= 0 {
		return nil, fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	s.logger.Info("ListByEmployeeAndDate: employee=%d date=%s tenant=%s",
		employeeID, date.Format(domain.DateFormat), s.tenantID)

	items, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		s.logger.Error("ListByEmployeeAndDate: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ListByEmployeeAndDate - repository error: %v", ErrInternal, err)
	}

	resp := &models.AppointmentListResponse{
		Appointments: make([]models.AppointmentResponse, 0, len(items)),
	}
	for _, a := range items {
		r, err := s.toResponse(a)
		if err != nil {
			return nil, err
		}
		resp.Appointments = append(resp.Appointments, *r)
	}

	s.logger.Info("ListByEmployeeAndDate: fetched %d appointments for employee=%d", len(items), employeeID)
	return resp, nil
}

// Cancel отменяет активную запись и публикует событие об отмене.
// Отмена освобождает интервал: следующий расчет слотов его уже не исключает.
func (s *Service) Cancel(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: canceling appointment id=%d tenant=%s", id, s.tenantID)

	appt, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if !appt.CanBeCanceled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be canceled, status=%s", id, appt.Status)
		return nil, ErrCannotCancel
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrCannotCancel) {
			s.logger.Warn("Cancel: appointment id=%d was canceled concurrently", id)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}
	appt.Status = domain.AppointmentStatusCanceled

	if err := s.publisher.PublishAppointmentCanceled(ctx, s.tenantID, appt); err != nil {
		s.logger.Warn("Cancel: failed to publish event for appointment id=%d: %v", id, err)
	}

	s.logger.Info("Cancel: successfully canceled appointment id=%d", id)
	return s.toResponse(appt)
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) toResponse(a *domain.Appointment) (*models.AppointmentResponse, error) {
	start, err := s.normalizer.ToLocal(a.TimeStart, a.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: appointment id=%d: %v", ErrInternal, a.ID, err)
	}
	end, err := s.normalizer.ToLocal(a.TimeEnd, a.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: appointment id=%d: %v", ErrInternal, a.ID, err)
	}
	return models.FromDomainAppointment(a, start, end), nil
}
