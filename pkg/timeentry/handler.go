package timeentry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/klokku/ledger/internal/rest"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/finance_settings"
	"github.com/klokku/ledger/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type NewEntryDTO struct {
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	Hours           decimal.Decimal `json:"hours"`
	HourlyRateCents *int64          `json:"hourlyRateCents"`
	BillingType     string          `json:"billingType"`
	IsBillable      *bool           `json:"isBillable"`
}

type EntryDTO struct {
	Id              uuid.UUID       `json:"id"`
	TaskId          int             `json:"taskId"`
	UserId          int             `json:"userId"`
	Description     string          `json:"description"`
	Date            string          `json:"date"`
	Hours           decimal.Decimal `json:"hours"`
	Duration        string          `json:"duration"`
	HourlyRateCents *int64          `json:"hourlyRateCents"`
	BillingType     string          `json:"billingType"`
	IsBillable      bool            `json:"isBillable"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// LogTime godoc
// @Summary Log time on a task
// @Tags TimeEntry
// @Accept json
// @Produce json
// @Param taskId path int true "Task ID"
// @Param entry body NewEntryDTO true "Time entry"
// @Success 201 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/task/{taskId}/time-entry [post]
// @Security XUserId
func (h *Handler) LogTime(w http.ResponseWriter, r *http.Request) {
	taskId, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid taskId", "taskId must be an integer")
		return
	}
	var dto NewEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	var date time.Time
	if dto.Date != "" {
		date, err = time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "date must be in YYYY-MM-DD format")
			return
		}
	}
	log.Tracef("Logging time on task %d: %+v", taskId, dto)

	entry, err := h.service.LogTime(r.Context(), NewEntry{
		TaskId:          taskId,
		Description:     dto.Description,
		Date:            date,
		Hours:           dto.Hours,
		HourlyRateCents: dto.HourlyRateCents,
		BillingType:     dto.BillingType,
		IsBillable:      dto.IsBillable,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, entryToDTO(entry))
}

// ListForTask godoc
// @Summary List time entries of a task
// @Tags TimeEntry
// @Produce json
// @Param taskId path int true "Task ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} EntryDTO
// @Router /api/task/{taskId}/time-entry [get]
// @Security XUserId
func (h *Handler) ListForTask(w http.ResponseWriter, r *http.Request) {
	taskId, err := strconv.Atoi(mux.Vars(r)["taskId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid taskId", "taskId must be an integer")
		return
	}
	window, err := finance.ParseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date window", err.Error())
		return
	}
	entries, err := h.service.ListForTask(r.Context(), taskId, window)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// DeleteEntry godoc
// @Summary Delete a time entry
// @Tags TimeEntry
// @Param entryId path string true "Entry ID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/time-entry/{entryId} [delete]
// @Security XUserId
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["entryId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid entryId", "entryId must be a UUID")
		return
	}
	if err := h.service.DeleteEntry(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, finance_settings.ErrSettingsNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, ErrInvalidHours), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidTask), errors.Is(err, ErrInvalidRate):
		rest.WriteError(w, http.StatusBadRequest, "Invalid time entry", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func entryToDTO(entry finance.TimeEntry) EntryDTO {
	return EntryDTO{
		Id:              entry.Id,
		TaskId:          entry.TaskId,
		UserId:          entry.UserId,
		Description:     entry.Description,
		Date:            entry.Date.Format(time.DateOnly),
		Hours:           entry.Hours,
		Duration:        finance.HoursToTime(entry.Hours),
		HourlyRateCents: entry.HourlyRateCents,
		BillingType:     string(entry.BillingType),
		IsBillable:      entry.IsBillable,
		CreatedAt:       entry.CreatedAt,
	}
}
