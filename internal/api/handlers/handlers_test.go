package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Code: 409, Message: "занято"}, body)
}

func TestRespondJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		EmployeeID int64 `json:"employeeId"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"employeeId": 7}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, int64(7), v.EmployeeID)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"employeeId": 7, "extra": 1}`))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"employeeId": 7}{}`))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	assert.Error(t, DecodeJSON(r, &v))
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = ParseIDList("")
	assert.Error(t, err)
	_, err = ParseIDList("1,x")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-11")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)))

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("11.06.2025")
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"appointmentId": "42"})
	id, err := PathID(r, "appointmentId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"appointmentId": "0"})
	_, err = PathID(r, "appointmentId")
	assert.Error(t, err)
}
