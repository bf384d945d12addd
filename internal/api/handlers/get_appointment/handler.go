package get_appointment

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

// Handle GET /api/v1/tenants/{tenantId}/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	engine, err := h.engines.Engine(tenantID)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments/{id} - Tenant not found: tenant=%s", tenantID)
		handlers.RespondNotFound(w, msgTenantNotFound)
		return
	}

	appt, err := engine.AppointmentService.GetByID(r.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, appointments.ErrAppointmentNotFound) {
			h.logger.Warn("GET /tenants/{id}/appointments/{id} - Appointment not found: tenant=%s, appointment_id=%d",
				tenantID, appointmentID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /tenants/{id}/appointments/{id} - Failed to get appointment: tenant=%s, appointment_id=%d, error=%v",
			tenantID, appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/appointments/{id} - Appointment retrieved successfully: tenant=%s, appointment_id=%d",
		tenantID, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, appt)
}
