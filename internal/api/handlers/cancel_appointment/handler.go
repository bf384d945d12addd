package cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgTenantNotFound       = "арендатор не найден"
	msgNotFound             = "запись не найдена"
	msgCannotCancel         = "запись не может быть отменена"
)

type Handler struct {
	engines EngineRegistry
	logger  Logger
}

func NewHandler(engines EngineRegistry, logger Logger) *Handler {
	return &Handler{
		engines: engines,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/tenants/{tenantId}/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /tenants/{id}/appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	engine, err := h.engines.Engine(tenantID)
	if err != nil {
		h.logger.Warn("PATCH /tenants/{id}/appointments/{id}/cancel - Tenant not found: tenant=%s", tenantID)
		handlers.RespondNotFound(w, msgTenantNotFound)
		return
	}

	appt, err := engine.AppointmentService.Cancel(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /tenants/{id}/appointments/{id}/cancel - Appointment not found: tenant=%s, appointment_id=%d",
				tenantID, appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /tenants/{id}/appointments/{id}/cancel - Cannot cancel: tenant=%s, appointment_id=%d",
				tenantID, appointmentID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("PATCH /tenants/{id}/appointments/{id}/cancel - Failed to cancel appointment: tenant=%s, appointment_id=%d, error=%v",
				tenantID, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /tenants/{id}/appointments/{id}/cancel - Appointment canceled successfully: tenant=%s, appointment_id=%d",
		tenantID, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, appt)
}
