package finance

import "github.com/shopspring/decimal"

func (s FinanceSettings) CommissionEnabled() bool {
	return s.SalesCommissionEnabled != nil && *s.SalesCommissionEnabled
}

// CommissionPercent returns the configured percent, or DefaultCommissionPercent when unset.
func (s FinanceSettings) CommissionPercent() decimal.Decimal {
	return s.CommissionPercentOr(decimal.NewFromInt(DefaultCommissionPercent))
}

func (s FinanceSettings) CommissionPercentOr(fallback decimal.Decimal) decimal.Decimal {
	if s.SalesCommissionPercent != nil {
		return *s.SalesCommissionPercent
	}
	return fallback
}

// CommissionBaseCents is the realized revenue commission is paid on: the fixed budget plus the
// billed overage.
func CommissionBaseCents(budgetCents, extraCents int64) int64 {
	return budgetCents + extraCents
}

// Commission computes the sales commission on budget + extra. It is zero when commission is
// disabled or the base is not positive.
func Commission(budgetCents, extraCents int64, settings FinanceSettings) int64 {
	return commissionAt(budgetCents, extraCents, settings, settings.CommissionPercent())
}

func commissionAt(budgetCents, extraCents int64, settings FinanceSettings, percent decimal.Decimal) int64 {
	if !settings.CommissionEnabled() {
		return 0
	}
	base := CommissionBaseCents(budgetCents, extraCents)
	if base <= 0 {
		return 0
	}
	return PercentOfCents(base, percent)
}
