package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CommissionLine describes the synthetic commission transaction of a ledger.
type CommissionLine struct {
	AmountCents int64
	BudgetCents int64
	ExtraCents  int64
	Percent     decimal.Decimal
	// Date is not a business event date; see Engine for how it is chosen.
	Date time.Time
}

// BuildLedger flattens entries, costs and the commission into one list sorted by date, newest
// first. Transactions on the same day keep their input order: entries, then costs, then
// commission.
func BuildLedger(entries []EnrichedEntry, costs []CostItem, commission CommissionLine, loc *time.Location) []Transaction {
	transactions := make([]Transaction, 0, len(entries)+len(costs)+1)

	for _, entry := range entries {
		t := Transaction{
			SourceId:    entry.Id,
			Date:        DayOf(entry.Date, loc),
			Name:        entry.Description,
			UserId:      entry.UserId,
			AmountCents: entry.AmountCents,
			IsBillable:  entry.IsBillable,
		}
		if entry.IsExtra() {
			t.Type = TransactionExtra
			t.QuantityLabel = QuantityLabelTimeAndMaterial
		} else {
			t.Type = TransactionLabor
			t.QuantityLabel = laborQuantityLabel(entry.Hours, entry.RateCents)
		}
		transactions = append(transactions, t)
	}

	for _, cost := range costs {
		transactions = append(transactions, Transaction{
			SourceId:      cost.Id,
			Type:          TransactionExternal,
			Date:          DayOf(cost.Date, loc),
			Name:          cost.Name,
			QuantityLabel: QuantityLabelExternalCost,
			AmountCents:   cost.AmountCents,
			IsBillable:    cost.IsBillable,
		})
	}

	if commission.AmountCents > 0 {
		transactions = append(transactions, Transaction{
			Type:          TransactionCommission,
			Date:          DayOf(commission.Date, loc),
			Name:          LabelCommission,
			QuantityLabel: commissionQuantityLabel(commission),
			AmountCents:   commission.AmountCents,
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	return transactions
}

// LedgerTotalCents is the grand total shown under the ledger.
func LedgerTotalCents(transactions []Transaction) int64 {
	total := int64(0)
	for _, t := range transactions {
		total += t.AmountCents
	}
	return total
}

func laborQuantityLabel(hours decimal.Decimal, rateCents int64) string {
	return fmt.Sprintf("%s h × %s", hours.String(), FormatCents(rateCents))
}

func commissionQuantityLabel(c CommissionLine) string {
	return fmt.Sprintf("%s%% z %s", c.Percent.String(), FormatCents(CommissionBaseCents(c.BudgetCents, c.ExtraCents)))
}
