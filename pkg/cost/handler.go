package cost

import (
	"context"
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
)

type NewCostDTO struct {
	TaskId      *int   `json:"taskId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amountCents"`
	Date        string `json:"date"`
	IsBillable  *bool  `json:"isBillable"`
}

type CostDTO struct {
	Id          uuid.UUID `json:"id"`
	ProjectId   int       `json:"projectId"`
	TaskId      *int      `json:"taskId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amountCents"`
	Amount      string    `json:"amount"`
	Date        string    `json:"date"`
	IsBillable  bool      `json:"isBillable"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// AddCost godoc
// @Summary Add an external cost to a project
// @Tags Cost
// @Accept json
// @Produce json
// @Param projectId path int true "Project ID"
// @Param cost body NewCostDTO true "Cost item"
// @Success 201 {object} CostDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/project/{projectId}/cost [post]
// @Security XUserId
func (h *Handler) AddCost(w http.ResponseWriter, r *http.Request) {
	projectId, err := strconv.Atoi(mux.Vars(r)["projectId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid projectId", "projectId must be an integer")
		return
	}
	var dto NewCostDTO
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

	item, err := h.service.AddCost(r.Context(), NewCost{
		ProjectId:   projectId,
		TaskId:      dto.TaskId,
		Name:        dto.Name,
		Description: dto.Description,
		Category:    dto.Category,
		AmountCents: dto.AmountCents,
		Date:        date,
		IsBillable:  dto.IsBillable,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, costToDTO(item))
}

// ListForProject godoc
// @Summary List external costs of a project
// @Tags Cost
// @Produce json
// @Param projectId path int true "Project ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} CostDTO
// @Router /api/project/{projectId}/cost [get]
// @Security XUserId
func (h *Handler) ListForProject(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "projectId", h.service.ListForProject)
}

// ListForTask godoc
// @Summary List external costs booked on a task
// @Tags Cost
// @Produce json
// @Param taskId path int true "Task ID"
// @Success 200 {array} CostDTO
// @Router /api/task/{taskId}/cost [get]
// @Security XUserId
func (h *Handler) ListForTask(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "taskId", h.service.ListForTask)
}

type listFunc func(ctx context.Context, id int, window finance.Window) ([]finance.CostItem, error)

func (h *Handler) list(w http.ResponseWriter, r *http.Request, idName string, list listFunc) {
	id, err := strconv.Atoi(mux.Vars(r)[idName])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+idName, idName+" must be an integer")
		return
	}
	window, err := finance.ParseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date window", err.Error())
		return
	}
	items, err := list(r.Context(), id, window)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]CostDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, costToDTO(item))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// DeleteCost godoc
// @Summary Delete an external cost
// @Tags Cost
// @Param costId path string true "Cost ID"
// @Success 204
// @Router /api/cost/{costId} [delete]
// @Security XUserId
func (h *Handler) DeleteCost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["costId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid costId", "costId must be a UUID")
		return
	}
	if err := h.service.DeleteCost(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "user not found", http.StatusForbidden)
	case errors.Is(err, ErrCostNotFound), errors.Is(err, finance_settings.ErrSettingsNotFound):
		rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidProject),
		errors.Is(err, ErrInvalidDate), errors.Is(err, ErrTaskNotInProject):
		rest.WriteError(w, http.StatusBadRequest, "Invalid cost item", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func costToDTO(item finance.CostItem) CostDTO {
	return CostDTO{
		Id:          item.Id,
		ProjectId:   item.ProjectId,
		TaskId:      item.TaskId,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		AmountCents: item.AmountCents,
		Amount:      finance.FormatCents(item.AmountCents),
		Date:        item.Date.Format(time.DateOnly),
		IsBillable:  item.IsBillable,
	}
}
