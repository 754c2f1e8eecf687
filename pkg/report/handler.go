package report

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
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

type SummaryDTO struct {
	BudgetAmountCents int64 `json:"budgetAmountCents"`
	LaborCostCents    int64 `json:"laborCostCents"`
	ExternalCostCents int64 `json:"externalCostCents"`
	TotalCostCents    int64 `json:"totalCostCents"`
	SpentCents        int64 `json:"spentCents"`
	RemainingCents    int64 `json:"remainingCents"`
	ExtraCents        int64 `json:"extraCents"`
}

type CommissionDTO struct {
	AmountCents int64           `json:"amountCents"`
	Percent     decimal.Decimal `json:"percent"`
}

type HoursDTO struct {
	Regular   decimal.Decimal `json:"regular"`
	Extra     decimal.Decimal `json:"extra"`
	Total     decimal.Decimal `json:"total"`
	TotalTime string          `json:"totalTime"`
}

type UserDayDTO struct {
	UserId      int             `json:"userId"`
	Hours       decimal.Decimal `json:"hours"`
	AmountCents int64           `json:"amountCents"`
	IsExtra     bool            `json:"isExtra"`
}

type DayDTO struct {
	Date              string          `json:"date"`
	LaborCostCents    int64           `json:"laborCostCents"`
	ExternalCostCents int64           `json:"externalCostCents"`
	RegularHours      decimal.Decimal `json:"regularHours"`
	ExtraHours        decimal.Decimal `json:"extraHours"`
	PerUser           []UserDayDTO    `json:"perUser"`
}

type SeriesPointDTO struct {
	Date                string `json:"date"`
	CumulativeCostCents int64  `json:"cumulativeCostCents"`
	BudgetCents         int64  `json:"budgetCents"`
}

type DistributionSliceDTO struct {
	Label      string `json:"label"`
	ValueCents int64  `json:"valueCents"`
}

type TransactionDTO struct {
	SourceId      *uuid.UUID `json:"sourceId,omitempty"`
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	Name          string     `json:"name"`
	UserId        int        `json:"userId,omitempty"`
	QuantityLabel string     `json:"quantityLabel"`
	AmountCents   int64      `json:"amountCents"`
	IsBillable    bool       `json:"isBillable"`
}

type ReportDTO struct {
	Scope                 string                 `json:"scope"`
	Id                    int                    `json:"id"`
	Name                  string                 `json:"name"`
	From                  *string                `json:"from"`
	To                    *string                `json:"to"`
	Summary               SummaryDTO             `json:"summary"`
	Commission            CommissionDTO          `json:"commission"`
	Hours                 HoursDTO               `json:"hours"`
	DailyData             []DayDTO               `json:"dailyData"`
	Series                []SeriesPointDTO       `json:"series"`
	Distribution          []DistributionSliceDTO `json:"distribution"`
	Ledger                []TransactionDTO       `json:"ledger"`
	LedgerTotalCents      int64                  `json:"ledgerTotalCents"`
	UnresolvedRateEntries int                    `json:"unresolvedRateEntries"`
}

type Handler struct {
	service     Service
	csvRenderer ReportRenderer
	pdfRenderer ReportRenderer
}

func NewHandler(service Service, csvRenderer ReportRenderer, pdfRenderer ReportRenderer) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer, pdfRenderer: pdfRenderer}
}

type reportFunc func(ctx context.Context, id int, window finance.Window) (finance.Report, error)

// TaskFinance godoc
// @Summary Get the finance report of a task
// @Tags Report
// @Produce json,text/csv,application/pdf
// @Param taskId path int true "Task ID"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/task/{taskId}/finance [get]
// @Security XUserId
func (h *Handler) TaskFinance(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "taskId", h.service.TaskFinance)
}

// ProjectFinance godoc
// @Summary Get the finance report of a project
// @Tags Report
// @Produce json,text/csv,application/pdf
// @Param projectId path int true "Project ID"
// @Param from query string false "First day, YYYY-MM-DD"
// @Param to query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} ReportDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/project/{projectId}/finance [get]
// @Security XUserId
func (h *Handler) ProjectFinance(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, "projectId", h.service.ProjectFinance)
}

func (h *Handler) serveReport(w http.ResponseWriter, r *http.Request, idName string, load reportFunc) {
	id, err := strconv.Atoi(mux.Vars(r)[idName])
	if err != nil || id <= 0 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+idName, idName+" must be a positive integer")
		return
	}
	window, err := finance.ParseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date window", err.Error())
		return
	}

	report, err := load(r.Context(), id, window)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "user not found", http.StatusForbidden)
		case errors.Is(err, finance_settings.ErrSettingsNotFound):
			rest.WriteError(w, http.StatusNotFound, "Not found", err.Error())
		default:
			log.Errorf("failed to compute %s %d report: %v", idName, id, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	accept := r.Header.Get("Accept")
	switch {
	case strings.Contains(accept, "text/csv"):
		h.writeRendered(w, h.csvRenderer, report, "text/csv; charset=utf-8", "csv")
	case strings.Contains(accept, "application/pdf"):
		h.writeRendered(w, h.pdfRenderer, report, "application/pdf", "pdf")
	default:
		rest.WriteJSON(w, http.StatusOK, reportToDTO(report))
	}
}

func (h *Handler) writeRendered(w http.ResponseWriter, renderer ReportRenderer, report finance.Report, contentType, extension string) {
	body, err := renderer.Render(report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	filename := string(report.Scope) + "-" + strconv.Itoa(report.ScopeId) + "-finance." + extension
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("failed to write %s report: %v", extension, err)
	}
}

func reportToDTO(report finance.Report) ReportDTO {
	dto := ReportDTO{
		Scope: string(report.Scope),
		Id:    report.ScopeId,
		Name:  report.Name,
		From:  dateOrNil(report.Window.Start),
		To:    dateOrNil(report.Window.End),
		Summary: SummaryDTO{
			BudgetAmountCents: report.Summary.BudgetAmountCents,
			LaborCostCents:    report.Summary.LaborCostCents,
			ExternalCostCents: report.Summary.ExternalCostCents,
			TotalCostCents:    report.Summary.TotalCostCents,
			SpentCents:        report.Summary.SpentCents,
			RemainingCents:    report.Summary.RemainingCents,
			ExtraCents:        report.Summary.ExtraCents,
		},
		Commission: CommissionDTO{
			AmountCents: report.CommissionCents,
			Percent:     report.CommissionPercent,
		},
		Hours: HoursDTO{
			Regular:   report.RegularHours,
			Extra:     report.ExtraHours,
			Total:     report.TotalHours,
			TotalTime: finance.HoursToTime(report.TotalHours),
		},
		DailyData:             make([]DayDTO, 0, len(report.Summary.DailyData)),
		Series:                make([]SeriesPointDTO, 0, len(report.Series)),
		Distribution:          make([]DistributionSliceDTO, 0, len(report.Distribution)),
		Ledger:                make([]TransactionDTO, 0, len(report.Ledger)),
		LedgerTotalCents:      report.LedgerTotalCents,
		UnresolvedRateEntries: report.UnresolvedRateEntries,
	}

	for _, day := range report.Summary.DailyData {
		perUser := make([]UserDayDTO, 0, len(day.PerUser))
		for _, u := range day.PerUser {
			perUser = append(perUser, UserDayDTO{
				UserId:      u.UserId,
				Hours:       u.Hours,
				AmountCents: u.AmountCents,
				IsExtra:     u.IsExtra,
			})
		}
		dto.DailyData = append(dto.DailyData, DayDTO{
			Date:              day.Date.Format(time.DateOnly),
			LaborCostCents:    day.LaborCostCents,
			ExternalCostCents: day.ExternalCostCents,
			RegularHours:      day.RegularHours,
			ExtraHours:        day.ExtraHours,
			PerUser:           perUser,
		})
	}
	for _, point := range report.Series {
		dto.Series = append(dto.Series, SeriesPointDTO{
			Date:                point.Date.Format(time.DateOnly),
			CumulativeCostCents: point.CumulativeCostCents,
			BudgetCents:         point.BudgetCents,
		})
	}
	for _, slice := range report.Distribution {
		dto.Distribution = append(dto.Distribution, DistributionSliceDTO{Label: slice.Label, ValueCents: slice.ValueCents})
	}
	for _, t := range report.Ledger {
		var sourceId *uuid.UUID
		if t.SourceId != uuid.Nil {
			id := t.SourceId
			sourceId = &id
		}
		dto.Ledger = append(dto.Ledger, TransactionDTO{
			SourceId:      sourceId,
			Type:          string(t.Type),
			Date:          t.Date.Format(time.DateOnly),
			Name:          t.Name,
			UserId:        t.UserId,
			QuantityLabel: t.QuantityLabel,
			AmountCents:   t.AmountCents,
			IsBillable:    t.IsBillable,
		})
	}
	return dto
}

func dateOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
