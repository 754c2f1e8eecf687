package timer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/ledger/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, testEnv) {
	t.Helper()
	env := setupServiceTest(t)
	handler := NewHandler(env.service)
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			current, err := user.CurrentUser(env.ctx)
			require.NoError(t, err)
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), current)))
		})
	})
	r.HandleFunc("/api/timer", handler.StartTimer).Methods("POST")
	r.HandleFunc("/api/timer", handler.CurrentTimer).Methods("GET")
	r.HandleFunc("/api/timer/stop", handler.StopTimer).Methods("POST")
	r.HandleFunc("/api/timer/start", handler.ModifyStartTime).Methods("PATCH")
	return r, env
}

func TestHandler_TimerLifecycle(t *testing.T) {
	// given
	router, env := setupRouter(t)

	// when
	startResp := httptest.NewRecorder()
	router.ServeHTTP(startResp, httptest.NewRequest(http.MethodPost, "/api/timer",
		bytes.NewBufferString(`{"taskId":21,"description":"Review","billingType":"extra"}`)))
	env.clock.SetNow(start.Add(2 * time.Hour))
	currentResp := httptest.NewRecorder()
	router.ServeHTTP(currentResp, httptest.NewRequest(http.MethodGet, "/api/timer", nil))
	stopResp := httptest.NewRecorder()
	router.ServeHTTP(stopResp, httptest.NewRequest(http.MethodPost, "/api/timer/stop", nil))
	afterResp := httptest.NewRecorder()
	router.ServeHTTP(afterResp, httptest.NewRequest(http.MethodGet, "/api/timer", nil))

	// then
	require.Equal(t, http.StatusCreated, startResp.Code)
	var started TimerDTO
	require.NoError(t, json.NewDecoder(startResp.Body).Decode(&started))
	assert.Equal(t, "2025-12-20T14:00:00Z", started.StartTime)
	assert.Equal(t, "extra", started.BillingType)

	assert.Equal(t, http.StatusOK, currentResp.Code)

	require.Equal(t, http.StatusOK, stopResp.Code)
	var stopped StoppedTimerDTO
	require.NoError(t, json.NewDecoder(stopResp.Body).Decode(&stopped))
	assert.True(t, stopped.Logged)
	assert.NotNil(t, stopped.EntryId)
	assert.Equal(t, "2", stopped.Hours)

	assert.Equal(t, http.StatusNotFound, afterResp.Code)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{name: "invalid body", method: http.MethodPost, url: "/api/timer", body: `{`, want: http.StatusBadRequest},
		{name: "missing task", method: http.MethodPost, url: "/api/timer", body: `{}`, want: http.StatusBadRequest},
		{name: "unknown task", method: http.MethodPost, url: "/api/timer", body: `{"taskId":404}`, want: http.StatusNotFound},
		{name: "stop without timer", method: http.MethodPost, url: "/api/timer/stop", want: http.StatusNotFound},
		{name: "invalid start time", method: http.MethodPatch, url: "/api/timer/start", body: `{"startTime":"yesterday"}`, want: http.StatusBadRequest},
		{name: "modify without timer", method: http.MethodPatch, url: "/api/timer/start", body: `{"startTime":"2025-12-20T13:00:00Z"}`, want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.url, bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
