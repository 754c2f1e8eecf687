package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
var clock = &utils.MockClock{FixedNow: time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC)}

const taskId = 11
const projectId = 3

func entry(userId int, date time.Time, h string, billing BillingType) TimeEntry {
	return TimeEntry{
		Id:          uuid.New(),
		TaskId:      taskId,
		UserId:      userId,
		Description: "work",
		Date:        date,
		Hours:       decimal.RequireFromString(h),
		BillingType: billing,
		IsBillable:  true,
		CreatedAt:   date.Add(9 * time.Hour),
	}
}

func cost(date time.Time, amount int64) CostItem {
	return CostItem{
		Id:          uuid.New(),
		ProjectId:   projectId,
		Name:        "License",
		Category:    "software",
		AmountCents: amount,
		Date:        date,
	}
}

func taskSnapshot(settings FinanceSettings, entries []TimeEntry, costs []CostItem) Snapshot {
	return Snapshot{
		Scope:    ScopeTask,
		ScopeId:  taskId,
		Settings: settings,
		Tasks:    map[int]Task{taskId: {Id: taskId, Name: "Task", Settings: settings}},
		Entries:  entries,
		Costs:    costs,
		Location: time.UTC,
	}
}

func enabled() *bool {
	v := true
	return &v
}

func percent(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func findTransaction(ledger []Transaction, kind TransactionType) (Transaction, bool) {
	for _, t := range ledger {
		if t.Type == kind {
			return t, true
		}
	}
	return Transaction{}, false
}

func TestEngine_ScenarioA_WithinBudget(t *testing.T) {
	// given
	settings := FinanceSettings{FixedBudgetCents: cents(100000), HourlyRateCents: cents(5000)}
	snapshot := taskSnapshot(settings, []TimeEntry{entry(1, monday, "10", BillingRegular)}, nil)

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	assert.Equal(t, int64(50000), report.Summary.LaborCostCents)
	assert.Equal(t, int64(50000), report.Summary.TotalCostCents)
	assert.Equal(t, int64(50000), report.Summary.SpentCents)
	assert.Equal(t, int64(50000), report.Summary.RemainingCents)
	assert.Equal(t, int64(0), report.Summary.ExtraCents)
	assert.Equal(t, int64(0), report.CommissionCents)
}

func TestEngine_ScenarioB_OverBudget(t *testing.T) {
	// given
	settings := FinanceSettings{FixedBudgetCents: cents(100000), HourlyRateCents: cents(5000)}
	snapshot := taskSnapshot(settings, []TimeEntry{entry(1, monday, "25", BillingRegular)}, nil)

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	assert.Equal(t, int64(125000), report.Summary.TotalCostCents)
	assert.Equal(t, int64(0), report.Summary.RemainingCents)
	assert.Equal(t, int64(25000), report.Summary.ExtraCents)
}

func TestEngine_ScenarioC_Commission(t *testing.T) {
	t.Run("calculator", func(t *testing.T) {
		settings := FinanceSettings{SalesCommissionEnabled: enabled(), SalesCommissionPercent: percent("10")}
		assert.Equal(t, int64(12500), Commission(100000, 25000, settings))
	})

	t.Run("engine with default percent", func(t *testing.T) {
		// given
		settings := FinanceSettings{
			FixedBudgetCents:       cents(100000),
			HourlyRateCents:        cents(5000),
			SalesCommissionEnabled: enabled(),
		}
		snapshot := taskSnapshot(settings, []TimeEntry{entry(1, monday, "25", BillingRegular)}, nil)

		// when
		report := NewEngine(clock).Compute(snapshot)

		// then
		assert.Equal(t, int64(12500), report.CommissionCents)
		assert.Equal(t, "10", report.CommissionPercent.String())
		assert.Equal(t, int64(137500), report.LedgerTotalCents)
		assert.Equal(t, []DistributionSlice{
			{Label: LabelLaborBudget, ValueCents: 100000},
			{Label: LabelLaborExtra, ValueCents: 25000},
			{Label: LabelCommission, ValueCents: 12500},
		}, report.Distribution)

		commission, found := findTransaction(report.Ledger, TransactionCommission)
		require.True(t, found)
		assert.Equal(t, TransactionCommission, report.Ledger[0].Type)
		assert.Equal(t, "10% z 1250.00", commission.QuantityLabel)
		assert.Equal(t, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC), commission.Date)
	})

	t.Run("configured default percent applies only when settings leave it unset", func(t *testing.T) {
		// given
		engine := NewEngine(clock).WithDefaultCommissionPercent(decimal.NewFromInt(12))
		unset := FinanceSettings{
			FixedBudgetCents:       cents(100000),
			HourlyRateCents:        cents(5000),
			SalesCommissionEnabled: enabled(),
		}
		explicit := unset
		explicit.SalesCommissionPercent = percent("10")
		entries := []TimeEntry{entry(1, monday, "25", BillingRegular)}

		// when
		fallback := engine.Compute(taskSnapshot(unset, entries, nil))
		own := engine.Compute(taskSnapshot(explicit, entries, nil))

		// then
		assert.Equal(t, int64(15000), fallback.CommissionCents)
		assert.Equal(t, "12", fallback.CommissionPercent.String())
		assert.Equal(t, int64(140000), fallback.LedgerTotalCents)
		assert.Equal(t, int64(12500), own.CommissionCents)
		assert.Equal(t, "10", own.CommissionPercent.String())
	})

	t.Run("task enabling commission inherits the project percent", func(t *testing.T) {
		// given
		task := FinanceSettings{FixedBudgetCents: cents(100000), HourlyRateCents: cents(5000), SalesCommissionEnabled: enabled()}
		project := FinanceSettings{SalesCommissionPercent: percent("12.5")}
		snapshot := taskSnapshot(EffectiveSettings(&task, &project), []TimeEntry{entry(1, monday, "25", BillingRegular)}, nil)

		// when
		report := NewEngine(clock).WithDefaultCommissionPercent(decimal.NewFromInt(10)).Compute(snapshot)

		// then
		assert.Equal(t, "12.5", report.CommissionPercent.String())
		assert.Equal(t, int64(15625), report.CommissionCents)
	})

	t.Run("disabled or no base", func(t *testing.T) {
		disabled := false
		assert.Equal(t, int64(0), Commission(100000, 25000, FinanceSettings{SalesCommissionEnabled: &disabled}))
		assert.Equal(t, int64(0), Commission(100000, 25000, FinanceSettings{}))
		assert.Equal(t, int64(0), Commission(0, 0, FinanceSettings{SalesCommissionEnabled: enabled()}))
	})
}

func TestEngine_ScenarioD_LegacyTMWithoutRate(t *testing.T) {
	// given
	snapshot := taskSnapshot(FinanceSettings{}, []TimeEntry{entry(1, monday, "5", BillingLegacyTM)}, nil)

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	require.Len(t, report.Entries, 1)
	e := report.Entries[0]
	assert.Equal(t, BillingExtra, e.Class)
	assert.Equal(t, int64(0), e.AmountCents)
	assert.False(t, e.RateWasResolved)
	assert.Equal(t, 1, report.UnresolvedRateEntries)

	require.Len(t, report.Ledger, 1)
	assert.Equal(t, TransactionExtra, report.Ledger[0].Type)
	assert.Equal(t, QuantityLabelTimeAndMaterial, report.Ledger[0].QuantityLabel)

	// an hours-only day is still plotted
	require.Len(t, report.Summary.DailyData, 1)
	assert.Equal(t, "5", report.Summary.DailyData[0].ExtraHours.String())
}

func TestEngine_ScenarioE_MixedBillingSameUserSameDay(t *testing.T) {
	// given
	settings := FinanceSettings{HourlyRateCents: cents(5000)}
	snapshot := taskSnapshot(settings, []TimeEntry{
		entry(1, monday, "2", BillingRegular),
		entry(1, monday, "1", BillingExtra),
	}, nil)

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	require.Len(t, report.Summary.DailyData, 1)
	bucket := report.Summary.DailyData[0]
	assert.Equal(t, "2", bucket.RegularHours.String())
	assert.Equal(t, "1", bucket.ExtraHours.String())
	require.Len(t, bucket.PerUser, 1)
	assert.Equal(t, 1, bucket.PerUser[0].UserId)
	assert.Equal(t, "3", bucket.PerUser[0].Hours.String())
	assert.Equal(t, int64(15000), bucket.PerUser[0].AmountCents)
	assert.True(t, bucket.PerUser[0].IsExtra)
}

func TestEngine_NoBudgetMakesEverythingExtra(t *testing.T) {
	// given
	settings := FinanceSettings{HourlyRateCents: cents(4000)}
	snapshot := taskSnapshot(settings, []TimeEntry{entry(1, monday, "3", BillingRegular)}, []CostItem{cost(monday, 2500)})

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	assert.Equal(t, int64(0), report.Summary.BudgetAmountCents)
	assert.Equal(t, int64(14500), report.Summary.TotalCostCents)
	assert.Equal(t, int64(14500), report.Summary.ExtraCents)
	assert.Equal(t, int64(0), report.Summary.RemainingCents)
	assert.Equal(t, []DistributionSlice{
		{Label: LabelExternal, ValueCents: 2500},
		{Label: LabelLaborExtra, ValueCents: 12000},
	}, report.Distribution)
}

func TestEngine_Properties(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	thursday := monday.AddDate(0, 0, 3)
	entries := []TimeEntry{
		entry(1, monday, "2.5", BillingRegular),
		entry(2, monday, "0.333", BillingExtra),
		entry(2, tuesday, "4", BillingLegacyTM),
		entry(3, tuesday, "1.25", "unknown"),
		entry(1, thursday, "0", BillingRegular),
		entry(3, thursday.AddDate(0, 0, 1), "7.125", BillingRegular),
	}
	entries[1].HourlyRateCents = cents(3333)
	costs := []CostItem{cost(tuesday, 19900), cost(thursday, 0), cost(monday.AddDate(0, 0, 6), 4550)}

	for _, budget := range []*int64{nil, cents(1000), cents(60000), cents(10000000)} {
		settings := FinanceSettings{
			FixedBudgetCents:       budget,
			HourlyRateCents:        cents(4550),
			SalesCommissionEnabled: enabled(),
			SalesCommissionPercent: percent("7.5"),
		}
		snapshot := taskSnapshot(settings, entries, costs)
		snapshot.UserRates = map[int]int64{3: 6000}

		report := NewEngine(clock).Compute(snapshot)
		s := report.Summary

		// additivity
		laborSum, externalSum := int64(0), int64(0)
		for _, e := range report.Entries {
			laborSum += e.AmountCents
		}
		for _, c := range costs {
			externalSum += c.AmountCents
		}
		assert.Equal(t, laborSum, s.LaborCostCents)
		assert.Equal(t, externalSum, s.ExternalCostCents)

		// budget split
		if s.TotalCostCents <= s.BudgetAmountCents {
			assert.Equal(t, s.BudgetAmountCents, s.RemainingCents+min(s.TotalCostCents, s.BudgetAmountCents))
			assert.Equal(t, int64(0), s.ExtraCents)
		} else {
			assert.Equal(t, int64(0), s.RemainingCents)
			assert.Equal(t, s.TotalCostCents-s.BudgetAmountCents, s.ExtraCents)
		}

		// ledger and distribution reconciliation
		expected := s.LaborCostCents + s.ExternalCostCents + report.CommissionCents
		assert.Equal(t, expected, report.LedgerTotalCents)
		distributionSum := int64(0)
		for _, slice := range report.Distribution {
			assert.Positive(t, slice.ValueCents)
			distributionSum += slice.ValueCents
		}
		assert.Equal(t, expected, distributionSum)

		// density
		for _, day := range s.DailyData {
			assert.False(t, day.TotalHours().IsZero() && day.TotalCostCents() == 0, "empty day %v", day.Date)
		}
		assert.Len(t, s.DailyData, 4)

		// series ends at the total cost
		require.NotEmpty(t, report.Series)
		assert.Equal(t, s.TotalCostCents, report.Series[len(report.Series)-1].CumulativeCostCents)

		// idempotence
		assert.Equal(t, report, NewEngine(clock).Compute(snapshot))
	}
}

func TestEngine_DailyDataOrderAndPerUserSort(t *testing.T) {
	// given
	tuesday := monday.AddDate(0, 0, 1)
	userA := entry(1, tuesday, "1", BillingRegular)
	userA.CreatedAt = tuesday.Add(12 * time.Hour)
	userB := entry(2, tuesday, "3", BillingRegular)
	userC := entry(3, tuesday, "1", BillingRegular)
	userC.CreatedAt = tuesday.Add(8 * time.Hour)
	earlier := entry(1, monday, "1", BillingRegular)
	snapshot := taskSnapshot(FinanceSettings{HourlyRateCents: cents(1000)}, []TimeEntry{userA, userB, userC, earlier}, nil)

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	require.Len(t, report.Summary.DailyData, 2)
	assert.Equal(t, monday, report.Summary.DailyData[0].Date)
	assert.Equal(t, tuesday, report.Summary.DailyData[1].Date)
	perUser := report.Summary.DailyData[1].PerUser
	require.Len(t, perUser, 3)
	assert.Equal(t, 2, perUser[0].UserId)
	assert.Equal(t, 3, perUser[1].UserId)
	assert.Equal(t, 1, perUser[2].UserId)

	assert.Equal(t, []SeriesPoint{
		{Date: monday, CumulativeCostCents: 1000, BudgetCents: 0},
		{Date: tuesday, CumulativeCostCents: 6000, BudgetCents: 0},
	}, report.Series)
}

func TestEngine_Window(t *testing.T) {
	// given
	start := monday.AddDate(0, 0, 1)
	end := monday.AddDate(0, 0, 2)
	settings := FinanceSettings{HourlyRateCents: cents(1000), SalesCommissionEnabled: enabled()}
	snapshot := taskSnapshot(settings, []TimeEntry{
		entry(1, monday, "1", BillingRegular),
		entry(1, start, "2", BillingRegular),
		entry(1, end.Add(23*time.Hour), "3", BillingRegular),
		entry(1, end.AddDate(0, 0, 1), "4", BillingRegular),
	}, []CostItem{cost(monday, 100), cost(end, 200)})
	snapshot.Window = Window{Start: &start, End: &end}

	// when
	report := NewEngine(clock).Compute(snapshot)

	// then
	assert.Len(t, report.Entries, 2)
	assert.Len(t, report.Costs, 1)
	assert.Equal(t, int64(5000), report.Summary.LaborCostCents)
	assert.Equal(t, int64(200), report.Summary.ExternalCostCents)
	assert.Equal(t, "5", report.TotalHours.String())
	assert.Equal(t, int64(520), report.CommissionCents)
	assert.Equal(t, report.Summary.TotalCostCents+report.CommissionCents, report.LedgerTotalCents)
	// commission is dated at the window end and sorted after that day's entries and costs
	require.Len(t, report.Ledger, 4)
	assert.Equal(t, TransactionLabor, report.Ledger[0].Type)
	assert.Equal(t, TransactionExternal, report.Ledger[1].Type)
	assert.Equal(t, TransactionCommission, report.Ledger[2].Type)
	assert.Equal(t, end, report.Ledger[2].Date)
	assert.Equal(t, start, report.Ledger[3].Date)
}

func TestBuildLedger(t *testing.T) {
	// given
	tuesday := monday.AddDate(0, 0, 1)
	labor := EnrichedEntry{
		TimeEntry:   entry(1, monday, "2.5", BillingRegular),
		RateCents:   5000,
		Class:       BillingRegular,
		AmountCents: 12500,
	}
	extra := EnrichedEntry{
		TimeEntry:   entry(2, tuesday, "1", BillingExtra),
		RateCents:   5000,
		Class:       BillingExtra,
		AmountCents: 5000,
	}
	external := cost(tuesday, 999)

	// when
	ledger := BuildLedger([]EnrichedEntry{labor, extra}, []CostItem{external}, CommissionLine{}, time.UTC)

	// then
	require.Len(t, ledger, 3)
	assert.Equal(t, TransactionExtra, ledger[0].Type)
	assert.Equal(t, TransactionExternal, ledger[1].Type)
	assert.Equal(t, QuantityLabelExternalCost, ledger[1].QuantityLabel)
	assert.Equal(t, external.Id, ledger[1].SourceId)
	assert.Equal(t, TransactionLabor, ledger[2].Type)
	assert.Equal(t, "2.5 h × 50.00", ledger[2].QuantityLabel)
	assert.Equal(t, int64(18499), LedgerTotalCents(ledger))
}

func TestEffectiveSettings(t *testing.T) {
	disabled := false
	task := &FinanceSettings{FixedBudgetCents: cents(5000), SalesCommissionEnabled: &disabled}
	project := &FinanceSettings{
		FixedBudgetCents:       cents(900000),
		HourlyRateCents:        cents(6000),
		SalesCommissionEnabled: enabled(),
		SalesCommissionPercent: percent("15"),
	}

	merged := EffectiveSettings(task, project)

	assert.Equal(t, int64(5000), *merged.FixedBudgetCents)
	assert.Equal(t, int64(6000), *merged.HourlyRateCents)
	assert.False(t, merged.CommissionEnabled())
	assert.Equal(t, "15", merged.CommissionPercent().String())

	assert.Equal(t, FinanceSettings{}, EffectiveSettings(nil, nil))
	assert.Equal(t, "10", EffectiveSettings(nil, nil).CommissionPercent().String())
}
