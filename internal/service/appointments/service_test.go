package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/timenorm"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	items     map[int64]*domain.Appointment
	cancelErr error
	canceled  []int64
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) GetByEmployeeAndDate(_ context.Context, employeeID int64, date time.Time) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range f.items {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceled = append(f.canceled, id)
	return nil
}

type fakePublisher struct {
	canceled []*domain.Appointment
	err      error
}

func (f *fakePublisher) PublishAppointmentCanceled(_ context.Context, _ string, appt *domain.Appointment) error {
	f.canceled = append(f.canceled, appt)
	return f.err
}

var summerDay = time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return NewService("acme", repo, timenorm.New(berlin, nil), pub, nopLogger{})
}

func activeAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID: 5, EmployeeID: 7, ServiceID: 3, Date: summerDay,
		TimeStart: "08:00", TimeEnd: "08:30", Status: domain.AppointmentStatusActive,
	}
}

func TestGetByID_ConvertsToLocalTime(t *testing.T) {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{5: activeAppointment()}}

	resp, err := newService(t, repo, &fakePublisher{}).GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "10:30", resp.EndTime)
	assert.Equal(t, "08:00", resp.StartTimeUTC)
	assert.Equal(t, "2025-06-11", resp.Date)
}

func TestGetByID_NotFound(t *testing.T) {
	_, err := newService(t, &fakeRepo{}, &fakePublisher{}).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = newService(t, &fakeRepo{}, &fakePublisher{}).GetByID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{5: activeAppointment()}}
	pub := &fakePublisher{}

	resp, err := newService(t, repo, pub).Cancel(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "canceled", resp.Status)
	assert.Equal(t, []int64{5}, repo.canceled)
	require.Len(t, pub.canceled, 1)
	assert.Equal(t, domain.AppointmentStatusCanceled, pub.canceled[0].Status)
}

func TestCancel_AlreadyCanceled(t *testing.T) {
	a := activeAppointment()
	a.Status = domain.AppointmentStatusCanceled
	repo := &fakeRepo{items: map[int64]*domain.Appointment{5: a}}
	pub := &fakePublisher{}

	_, err := newService(t, repo, pub).Cancel(context.Background(), 5)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, repo.canceled)
	assert.Empty(t, pub.canceled)
}

func TestCancel_ConcurrentCancel(t *testing.T) {
	repo := &fakeRepo{
		items:     map[int64]*domain.Appointment{5: activeAppointment()},
		cancelErr: appointmentRepo.ErrCannotCancel,
	}

	_, err := newService(t, repo, &fakePublisher{}).Cancel(context.Background(), 5)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_PublishFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{5: activeAppointment()}}
	pub := &fakePublisher{err: errors.New("broker unavailable")}

	_, err := newService(t, repo, pub).Cancel(context.Background(), 5)
	assert.NoError(t, err)
}

func TestListByEmployeeAndDate(t *testing.T) {
	canceled := activeAppointment()
	canceled.ID = 6
	canceled.Status = domain.AppointmentStatusCanceled
	repo := &fakeRepo{items: map[int64]*domain.Appointment{5: activeAppointment(), 6: canceled}}

	resp, err := newService(t, repo, &fakePublisher{}).ListByEmployeeAndDate(context.Background(), 7, summerDay)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	_, err = newService(t, repo, &fakePublisher{}).ListByEmployeeAndDate(context.Background(), 0, summerDay)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
