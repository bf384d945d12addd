package get_employee_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments"
)

const (
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTenantNotFound    = "арендатор не найден"
	msgInvalidInput      = "некорректные входные данные"
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

// Handle GET /api/v1/tenants/{tenantId}/employees/{employeeId}/appointments?date=YYYY-MM-DD
// Возвращает все записи сотрудника на дату, включая отмененные
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]

	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/employees/{id}/appointments - Invalid employee ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tenants/{id}/employees/{id}/appointments - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/employees/{id}/appointments - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	engine, err := h.engines.Engine(tenantID)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/employees/{id}/appointments - Tenant not found: tenant=%s", tenantID)
		handlers.RespondNotFound(w, msgTenantNotFound)
		return
	}

	result, err := engine.AppointmentService.ListByEmployeeAndDate(r.Context(), employeeID, date)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /tenants/{id}/employees/{id}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /tenants/{id}/employees/{id}/appointments - Failed to list appointments: tenant=%s, employee_id=%d, error=%v",
			tenantID, employeeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tenants/{id}/employees/{id}/appointments - Appointments retrieved successfully: tenant=%s, employee_id=%d, count=%d",
		tenantID, employeeID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
