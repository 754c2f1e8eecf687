package timeentry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/ledger/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *mux.Router {
	t.Helper()
	_, service, _, _ := setupService(t)
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := user.WithUser(req.Context(), user.User{Id: 7, Uid: "u-7"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.HandleFunc("/api/task/{taskId}/time-entry", handler.LogTime).Methods("POST")
	r.HandleFunc("/api/task/{taskId}/time-entry", handler.ListForTask).Methods("GET")
	r.HandleFunc("/api/time-entry/{entryId}", handler.DeleteEntry).Methods("DELETE")
	return r
}

func TestHandler_LogTimeAndList(t *testing.T) {
	// given
	router := setupRouter(t)
	body := `{"description":"Call","date":"2024-03-05","hours":"0.333","hourlyRateCents":6000,"billingType":"extra"}`
	req := httptest.NewRequest(http.MethodPost, "/api/task/11/time-entry", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	// when
	router.ServeHTTP(w, req)

	// then
	require.Equal(t, http.StatusCreated, w.Code)
	var created EntryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "0:19:59", created.Duration)
	assert.Equal(t, "extra", created.BillingType)

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/task/11/time-entry?from=2024-03-01&to=2024-03-31", nil))
	require.Equal(t, http.StatusOK, list.Code)
	var entries []EntryDTO
	require.NoError(t, json.NewDecoder(list.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, created.Id, entries[0].Id)

	deleted := httptest.NewRecorder()
	router.ServeHTTP(deleted, httptest.NewRequest(http.MethodDelete, "/api/time-entry/"+created.Id.String(), nil))
	assert.Equal(t, http.StatusNoContent, deleted.Code)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"bad date", http.MethodPost, "/api/task/11/time-entry", `{"date":"05.03.2024","hours":1}`, http.StatusBadRequest},
		{"negative hours", http.MethodPost, "/api/task/11/time-entry", `{"date":"2024-03-05","hours":-1}`, http.StatusBadRequest},
		{"unknown task", http.MethodPost, "/api/task/99/time-entry", `{"date":"2024-03-05","hours":1}`, http.StatusNotFound},
		{"bad window", http.MethodGet, "/api/task/11/time-entry?from=2024-03-10&to=2024-03-01", "", http.StatusBadRequest},
		{"bad entry id", http.MethodDelete, "/api/time-entry/not-a-uuid", "", http.StatusBadRequest},
		{"unknown entry", http.MethodDelete, "/api/time-entry/1b4e28ba-2fa1-11d2-883f-0016d3cca427", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
