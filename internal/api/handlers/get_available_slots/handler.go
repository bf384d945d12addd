package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

const (
	msgInvalidEmployeeIDs = "некорректный список ID сотрудников"
	msgMissingServiceID   = "ID услуги обязателен"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "дата окончания раньше даты начала"
	msgRangeTooLong       = "слишком длинный диапазон дат"
	msgTenantNotFound     = "арендатор не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/available-slots
// Query params: employeeIds (1,2,3), serviceId, date или startDate/endDate (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]
	query := r.URL.Query()

	employeeIDs, err := handlers.ParseIDList(query.Get("employeeIds"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid employee IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeIDs)
		return
	}

	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// date задает один день, startDate/endDate диапазон
	startStr, endStr := query.Get("startDate"), query.Get("endDate")
	if date := query.Get("date"); date != "" {
		startStr, endStr = date, date
	}
	if startStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	startDate, err := handlers.ParseDate(startStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := handlers.ParseDate(endStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		TenantID:    tenantID,
		EmployeeIDs: employeeIDs,
		ServiceID:   serviceID,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Service not found: tenant=%s, service_id=%d",
				tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidRange):
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailableSlots.ErrRangeTooLong):
			h.logger.Warn("GET /tenants/{id}/available-slots - Range too long: %v", err)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /tenants/{id}/available-slots - Failed to get slots: tenant=%s, service_id=%d, error=%v",
				tenantID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/available-slots - Slots retrieved successfully: tenant=%s, service_id=%d, slots_count=%d",
		tenantID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
