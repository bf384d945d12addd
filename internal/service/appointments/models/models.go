package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// AppointmentResponse ответ с данными записи.
// StartTime/EndTime в часовом поясе арендатора, *UTC как в хранилище.
type AppointmentResponse struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employeeId"`
	ServiceID    int64     `json:"serviceId"`
	Date         string    `json:"date"`      // "2025-10-15"
	StartTime    string    `json:"startTime"` // "10:00"
	EndTime      string    `json:"endTime"`
	StartTimeUTC string    `json:"startTimeUtc"`
	EndTimeUTC   string    `json:"endTimeUtc"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment, localStart, localEnd types.TimeString) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		ServiceID:    a.ServiceID,
		Date:         a.Date.Format(domain.DateFormat),
		StartTime:    localStart.String(),
		EndTime:      localEnd.String(),
		StartTimeUTC: a.TimeStart.String(),
		EndTimeUTC:   a.TimeEnd.String(),
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
