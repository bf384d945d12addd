package get_working_windows

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getWorkingWindows "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_working_windows"
)

const (
	msgInvalidEmployeeIDs = "некорректный список ID сотрудников"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "дата окончания раньше даты начала"
	msgRangeTooLong       = "слишком длинный диапазон дат"
	msgInvalidInput       = "некорректные входные данные"
	msgTenantNotFound     = "арендатор не найден"
)

type Handler struct {
	useCase GetWorkingWindowsUseCase
	logger  Logger
}

func NewHandler(useCase GetWorkingWindowsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/working-windows
// Query params: employeeIds (1,2,3), date или startDate/endDate (YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantId"]
	query := r.URL.Query()

	employeeIDs, err := handlers.ParseIDList(query.Get("employeeIds"))
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/working-windows - Invalid employee IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeIDs)
		return
	}

	startStr, endStr := query.Get("startDate"), query.Get("endDate")
	if date := query.Get("date"); date != "" {
		startStr, endStr = date, date
	}
	if startStr == "" {
		h.logger.Warn("GET /tenants/{id}/working-windows - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	startDate, err := handlers.ParseDate(startStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/working-windows - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	endDate, err := handlers.ParseDate(endStr)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/working-windows - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getWorkingWindows.Request{
		TenantID:    tenantID,
		EmployeeIDs: employeeIDs,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, getWorkingWindows.ErrTenantNotFound):
			h.logger.Warn("GET /tenants/{id}/working-windows - Tenant not found: tenant=%s", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getWorkingWindows.ErrInvalidRange):
			h.logger.Warn("GET /tenants/{id}/working-windows - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getWorkingWindows.ErrRangeTooLong):
			h.logger.Warn("GET /tenants/{id}/working-windows - Range too long: %v", err)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getWorkingWindows.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/working-windows - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /tenants/{id}/working-windows - Failed to get windows: tenant=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/working-windows - Windows retrieved successfully: tenant=%s, days=%d",
		tenantID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
