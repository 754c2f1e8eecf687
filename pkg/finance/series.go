package finance

// BuildSeries produces the cumulative burn line: a running sum of each day's labor and external
// cost, with the budget repeated on every point as a reference line.
func BuildSeries(dailyData []DayBucket, budgetCents int64) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(dailyData))
	cumulative := int64(0)
	for _, day := range dailyData {
		cumulative += day.TotalCostCents()
		points = append(points, SeriesPoint{
			Date:                day.Date,
			CumulativeCostCents: cumulative,
			BudgetCents:         budgetCents,
		})
	}
	return points
}

// BuildDistribution splits the realized figures into the ring chart categories, in a fixed order.
// Zero valued categories are omitted. The values always add up to labor + external + commission.
func BuildDistribution(laborCostCents, externalCostCents, budgetCents, commissionCents int64) []DistributionSlice {
	candidates := []DistributionSlice{
		{Label: LabelLaborBudget, ValueCents: min(laborCostCents, max(0, budgetCents))},
		{Label: LabelExternal, ValueCents: externalCostCents},
		{Label: LabelLaborExtra, ValueCents: max(0, laborCostCents-max(0, budgetCents))},
		{Label: LabelCommission, ValueCents: commissionCents},
	}

	distribution := make([]DistributionSlice, 0, len(candidates))
	for _, c := range candidates {
		if c.ValueCents > 0 {
			distribution = append(distribution, c)
		}
	}
	return distribution
}
