package cancel_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AvailabilityService/internal/tenant"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
)

type fakeAppointments struct {
	items     map[int64]*models.AppointmentResponse
	cancelErr error
	listErr   error
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*models.AppointmentResponse, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, appointments.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointments) ListByEmployeeAndDate(_ context.Context, employeeID int64, date time.Time) (*models.AppointmentListResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	resp := &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}
	for _, a := range f.items {
		if a.EmployeeID == employeeID && a.Date == date.Format("2006-01-02") {
			resp.Appointments = append(resp.Appointments, *a)
		}
	}
	return resp, nil
}

func (f *fakeAppointments) Cancel(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = "canceled"
	return a, nil
}

func registry(svc *fakeAppointments) *tenant.Registry {
	return tenant.NewRegistry(&tenant.Engine{TenantID: "acme", AppointmentService: svc})
}

func sample() *fakeAppointments {
	return &fakeAppointments{items: map[int64]*models.AppointmentResponse{
		5: {ID: 5, EmployeeID: 7, Date: "2025-06-11", StartTime: "10:00", EndTime: "10:30", Status: "active"},
	}}
}

func serve(svc *fakeAppointments, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}/cancel", NewHandler(registry(svc), logger.NewNop()).Handle).
		Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve(sample(), "/tenants/acme/appointments/5/cancel")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "canceled", body.Status)
}

func TestHandle_Errors(t *testing.T) {
	cases := []struct {
		name   string
		target string
		err    error
		code   int
	}{
		{"bad id", "/tenants/acme/appointments/x/cancel", nil, http.StatusBadRequest},
		{"unknown tenant", "/tenants/initech/appointments/5/cancel", nil, http.StatusNotFound},
		{"unknown appointment", "/tenants/acme/appointments/6/cancel", nil, http.StatusNotFound},
		{"already canceled", "/tenants/acme/appointments/5/cancel", appointments.ErrCannotCancel, http.StatusConflict},
		{"internal", "/tenants/acme/appointments/5/cancel", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := sample()
			svc.cancelErr = tc.err
			assert.Equal(t, tc.code, serve(svc, tc.target).Code)
		})
	}
}
