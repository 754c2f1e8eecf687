package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/klokku/ledger/pkg/finance"
	log "github.com/sirupsen/logrus"
)

var (
	ledgerGrid  = []uint{2, 2, 3, 1, 2, 2}
	summaryGrid = []uint{6, 6}
	dailyGrid   = []uint{3, 3, 3, 3}
)

type PdfReportRendererImpl struct {
}

func NewPdfReportRenderer() *PdfReportRendererImpl {
	return &PdfReportRendererImpl{}
}

func (r *PdfReportRendererImpl) Render(report finance.Report) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(reportTitle(report), props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(windowLabel(report.Window), props.Text{
					Top:   3,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	sectionTitle(m, "Summary")
	summaryRows := [][]string{
		{"Budget", finance.FormatCents(report.Summary.BudgetAmountCents)},
		{"Labor cost", finance.FormatCents(report.Summary.LaborCostCents)},
		{"External cost", finance.FormatCents(report.Summary.ExternalCostCents)},
		{"Total cost", finance.FormatCents(report.Summary.TotalCostCents)},
		{"Remaining", finance.FormatCents(report.Summary.RemainingCents)},
		{"Extra", finance.FormatCents(report.Summary.ExtraCents)},
		{"Commission", fmt.Sprintf("%s (%s%%)", finance.FormatCents(report.CommissionCents), report.CommissionPercent.String())},
		{"Hours", fmt.Sprintf("%s regular, %s extra", finance.FormatHours(report.RegularHours), finance.FormatHours(report.ExtraHours))},
	}
	m.TableList([]string{"", "Amount"}, summaryRows, tableProps(summaryGrid))

	if len(report.Summary.DailyData) > 0 {
		sectionTitle(m, "Daily costs")
		rows := make([][]string, 0, len(report.Summary.DailyData))
		for _, day := range report.Summary.DailyData {
			rows = append(rows, []string{
				day.Date.Format(time.DateOnly),
				finance.HoursToTime(day.TotalHours()),
				finance.FormatCents(day.LaborCostCents),
				finance.FormatCents(day.ExternalCostCents),
			})
		}
		m.TableList([]string{"Date", "Time", "Labor", "External"}, rows, tableProps(dailyGrid))
	}

	sectionTitle(m, "Transactions & costs")
	rows := make([][]string, 0, len(report.Ledger))
	for _, t := range report.Ledger {
		userId := ""
		if t.UserId != 0 {
			userId = strconv.Itoa(t.UserId)
		}
		rows = append(rows, []string{
			t.Date.Format(time.DateOnly),
			string(t.Type),
			t.Name,
			userId,
			t.QuantityLabel,
			finance.FormatCents(t.AmountCents),
		})
	}
	m.TableList([]string{"Date", "Type", "Name", "User", "Quantity", "Amount"}, rows, tableProps(ledgerGrid))

	m.Row(20, func() {
		m.Col(12, func() {
			m.Text("Total: "+finance.FormatCents(report.LedgerTotalCents), props.Text{
				Top:   10,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})

	if report.UnresolvedRateEntries > 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%d time entries have no hourly rate", report.UnresolvedRateEntries), props.Text{
					Style: consts.Italic,
					Align: consts.Left,
					Size:  9,
				})
			})
		})
	}

	out, err := m.Output()
	if err != nil {
		log.Errorf("Error rendering pdf report: %v", err)
		return nil, err
	}
	return out.Bytes(), nil
}

func sectionTitle(m pdf.Maroto, title string) {
	m.Row(10, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Top:   5,
				Style: consts.Bold,
				Size:  14,
			})
		})
	})
}

func tableProps(grid []uint) props.TableList {
	return props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      9,
			GridSizes: grid,
		},
		Align:                consts.Left,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	}
}

func reportTitle(report finance.Report) string {
	if report.Name == "" {
		return fmt.Sprintf("Finance report: %s %d", report.Scope, report.ScopeId)
	}
	return "Finance report: " + report.Name
}

func windowLabel(window finance.Window) string {
	from, to := "...", "today"
	if window.Start != nil {
		from = window.Start.Format(time.DateOnly)
	}
	if window.End != nil {
		to = window.End.Format(time.DateOnly)
	}
	return from + " - " + to
}
