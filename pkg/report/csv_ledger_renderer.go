package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/klokku/ledger/pkg/finance"
	log "github.com/sirupsen/logrus"
)

type ReportRenderer interface {
	Render(report finance.Report) ([]byte, error)
}

type CsvLedgerRendererImpl struct {
}

func NewCsvLedgerRenderer() *CsvLedgerRendererImpl {
	return &CsvLedgerRendererImpl{}
}

// Render writes the ledger of the report, one transaction per row, followed by the summary totals.
func (r *CsvLedgerRendererImpl) Render(report finance.Report) ([]byte, error) {
	data := make([][]string, 0, len(report.Ledger)+8)
	data = append(data, []string{"Date", "Type", "Name", "User", "Quantity", "Amount", "Billable"})
	for _, t := range report.Ledger {
		userId := ""
		if t.UserId != 0 {
			userId = strconv.Itoa(t.UserId)
		}
		data = append(data, []string{
			t.Date.Format(time.DateOnly),
			string(t.Type),
			t.Name,
			userId,
			t.QuantityLabel,
			finance.FormatCents(t.AmountCents),
			strconv.FormatBool(t.IsBillable),
		})
	}
	data = append(data,
		[]string{"Total", "", "", "", "", finance.FormatCents(report.LedgerTotalCents), ""},
		[]string{},
		[]string{"Budget", finance.FormatCents(report.Summary.BudgetAmountCents)},
		[]string{"Labor cost", finance.FormatCents(report.Summary.LaborCostCents)},
		[]string{"External cost", finance.FormatCents(report.Summary.ExternalCostCents)},
		[]string{"Remaining", finance.FormatCents(report.Summary.RemainingCents)},
		[]string{"Extra", finance.FormatCents(report.Summary.ExtraCents)},
		[]string{"Commission", finance.FormatCents(report.CommissionCents)},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}

	return b.Bytes(), nil
}
