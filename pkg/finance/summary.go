package finance

// BuildSummary derives the budget split from the effective settings and the aggregated costs.
// Remaining never goes below zero; an overrun shows up only as ExtraCents.
//
// Margin is intentionally absent: it depends on labor valued at the budget rate, which is a
// project level figure. Callers get the raw components instead.
func BuildSummary(settings FinanceSettings, laborCostCents, externalCostCents int64) FinanceSummary {
	budget := int64(0)
	if settings.FixedBudgetCents != nil {
		budget = *settings.FixedBudgetCents
	}
	total := laborCostCents + externalCostCents

	return FinanceSummary{
		BudgetAmountCents: budget,
		LaborCostCents:    laborCostCents,
		ExternalCostCents: externalCostCents,
		TotalCostCents:    total,
		SpentCents:        total,
		RemainingCents:    max(0, budget-total),
		ExtraCents:        max(0, total-budget),
	}
}

// EffectiveSettings merges task settings over project settings. Every unset task field falls back
// to the project; a nil argument counts as all fields unset.
func EffectiveSettings(task *FinanceSettings, project *FinanceSettings) FinanceSettings {
	var t, p FinanceSettings
	if task != nil {
		t = *task
	}
	if project != nil {
		p = *project
	}
	return FinanceSettings{
		FixedBudgetCents:       firstSet(t.FixedBudgetCents, p.FixedBudgetCents),
		HourlyRateCents:        firstSet(t.HourlyRateCents, p.HourlyRateCents),
		SalesCommissionEnabled: firstSet(t.SalesCommissionEnabled, p.SalesCommissionEnabled),
		SalesCommissionPercent: firstSet(t.SalesCommissionPercent, p.SalesCommissionPercent),
	}
}

func firstSet[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
