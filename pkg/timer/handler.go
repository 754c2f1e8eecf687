package timer

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/klokku/ledger/internal/rest"
	"github.com/klokku/ledger/pkg/finance_settings"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

type TimerDTO struct {
	TaskId      int    `json:"taskId"`
	Description string `json:"description"`
	BillingType string `json:"billingType"`
	StartTime   string `json:"startTime"`
}

type StartTimerRequest struct {
	TaskId      int    `json:"taskId"`
	Description string `json:"description"`
	BillingType string `json:"billingType"`
}

type StoppedTimerDTO struct {
	Logged  bool    `json:"logged"`
	EntryId *string `json:"entryId,omitempty"`
	Hours   string  `json:"hours"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// StartTimer godoc
// @Summary Start tracking time on a task, stopping the running timer first
// @Tags Timer
// @Accept json
// @Produce json
// @Param timer body StartTimerRequest true "Timer"
// @Success 201 {object} TimerDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/timer [post]
// @Security XUserId
func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	log.Trace("Starting timer")
	var req StartTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if req.TaskId <= 0 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid taskId", "taskId must be a positive integer")
		return
	}
	started, err := h.service.Start(r.Context(), req.TaskId, req.Description, req.BillingType)
	if err != nil {
		writeTimerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, timerToDTO(started))
}

// CurrentTimer godoc
// @Summary Get the running timer
// @Tags Timer
// @Produce json
// @Success 200 {object} TimerDTO
// @Failure 404 {string} string "No running timer"
// @Router /api/timer [get]
// @Security XUserId
func (h *Handler) CurrentTimer(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Current(r.Context())
	if err != nil {
		writeTimerError(w, err)
		return
	}
	if !current.IsRunning() {
		http.Error(w, "No running timer", http.StatusNotFound)
		return
	}
	rest.WriteJSON(w, http.StatusOK, timerToDTO(current))
}

// StopTimer godoc
// @Summary Stop the running timer and log its time
// @Tags Timer
// @Produce json
// @Success 200 {object} StoppedTimerDTO
// @Failure 404 {string} string "No running timer"
// @Router /api/timer/stop [post]
// @Security XUserId
func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Stop(r.Context())
	if err != nil {
		writeTimerError(w, err)
		return
	}
	dto := StoppedTimerDTO{Hours: "0"}
	if entry != nil {
		id := entry.Id.String()
		dto = StoppedTimerDTO{Logged: true, EntryId: &id, Hours: entry.Hours.String()}
	}
	rest.WriteJSON(w, http.StatusOK, dto)
}

// ModifyStartTime godoc
// @Summary Move the start of the running timer
// @Tags Timer
// @Accept json
// @Produce json
// @Success 200 {object} TimerDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/timer/start [patch]
// @Security XUserId
func (h *Handler) ModifyStartTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartTime string `json:"startTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid startTime format", "Start time must be in RFC3339 format")
		return
	}
	modified, err := h.service.ModifyStartTime(r.Context(), startTime)
	if err != nil {
		writeTimerError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, timerToDTO(modified))
}

func writeTimerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrNoRunningTimer):
		http.Error(w, "No running timer", http.StatusNotFound)
	case errors.Is(err, finance_settings.ErrSettingsNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, ErrInvalidStartTime):
		rest.WriteError(w, http.StatusBadRequest, "Invalid start time", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func timerToDTO(t RunningTimer) TimerDTO {
	return TimerDTO{
		TaskId:      t.TaskId,
		Description: t.Description,
		BillingType: t.BillingType,
		StartTime:   t.StartTime.Format(time.RFC3339),
	}
}
