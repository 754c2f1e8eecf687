package finance_settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/klokku/ledger/internal/rest"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	FixedBudgetCents       *int64           `json:"fixedBudgetCents"`
	HourlyRateCents        *int64           `json:"hourlyRateCents"`
	SalesCommissionEnabled *bool            `json:"salesCommissionEnabled"`
	SalesCommissionPercent *decimal.Decimal `json:"salesCommissionPercent"`
}

type TaskSettingsDTO struct {
	TaskId    int         `json:"taskId"`
	ProjectId *int        `json:"projectId"`
	Settings  SettingsDTO `json:"settings"`
	Effective SettingsDTO `json:"effective"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetTaskSettings godoc
// @Summary Get task finance settings with the values inherited from its project
// @Tags FinanceSettings
// @Produce json
// @Param taskId path int true "Task ID"
// @Success 200 {object} TaskSettingsDTO
// @Router /api/task/{taskId}/settings [get]
// @Security XUserId
func (h *Handler) GetTaskSettings(w http.ResponseWriter, r *http.Request) {
	taskId, ok := pathId(w, r, "taskId")
	if !ok {
		return
	}
	task, err := h.service.GetTask(r.Context(), taskId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	effective, err := h.service.EffectiveTaskSettings(r.Context(), taskId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TaskSettingsDTO{
		TaskId:    task.Id,
		ProjectId: task.ProjectId,
		Settings:  settingsToDTO(task.Settings),
		Effective: settingsToDTO(effective),
	})
}

// UpdateTaskSettings godoc
// @Summary Replace task finance settings
// @Tags FinanceSettings
// @Accept json
// @Produce json
// @Param taskId path int true "Task ID"
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/task/{taskId}/settings [put]
// @Security XUserId
func (h *Handler) UpdateTaskSettings(w http.ResponseWriter, r *http.Request) {
	taskId, ok := pathId(w, r, "taskId")
	if !ok {
		return
	}
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	log.Debugf("Updating finance settings of task %d", taskId)
	updated, err := h.service.UpdateTaskSettings(r.Context(), taskId, dtoToSettings(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, settingsToDTO(updated))
}

// GetProjectSettings godoc
// @Summary Get project finance settings
// @Tags FinanceSettings
// @Produce json
// @Param projectId path int true "Project ID"
// @Success 200 {object} SettingsDTO
// @Router /api/project/{projectId}/settings [get]
// @Security XUserId
func (h *Handler) GetProjectSettings(w http.ResponseWriter, r *http.Request) {
	projectId, ok := pathId(w, r, "projectId")
	if !ok {
		return
	}
	project, err := h.service.GetProject(r.Context(), projectId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, settingsToDTO(project.Settings))
}

// UpdateProjectSettings godoc
// @Summary Replace project finance settings
// @Tags FinanceSettings
// @Accept json
// @Produce json
// @Param projectId path int true "Project ID"
// @Param settings body SettingsDTO true "Settings"
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/project/{projectId}/settings [put]
// @Security XUserId
func (h *Handler) UpdateProjectSettings(w http.ResponseWriter, r *http.Request) {
	projectId, ok := pathId(w, r, "projectId")
	if !ok {
		return
	}
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	log.Debugf("Updating finance settings of project %d", projectId)
	updated, err := h.service.UpdateProjectSettings(r.Context(), projectId, dtoToSettings(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, settingsToDTO(updated))
}

func pathId(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrSettingsNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, ErrInvalidSettings):
		rest.WriteError(w, http.StatusBadRequest, "Invalid settings", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func settingsToDTO(s finance.FinanceSettings) SettingsDTO {
	return SettingsDTO{
		FixedBudgetCents:       s.FixedBudgetCents,
		HourlyRateCents:        s.HourlyRateCents,
		SalesCommissionEnabled: s.SalesCommissionEnabled,
		SalesCommissionPercent: s.SalesCommissionPercent,
	}
}

func dtoToSettings(dto SettingsDTO) finance.FinanceSettings {
	return finance.FinanceSettings{
		FixedBudgetCents:       dto.FixedBudgetCents,
		HourlyRateCents:        dto.HourlyRateCents,
		SalesCommissionEnabled: dto.SalesCommissionEnabled,
		SalesCommissionPercent: dto.SalesCommissionPercent,
	}
}
