package finance

import (
	"time"

	"github.com/klokku/ledger/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Scope string

const (
	ScopeTask    Scope = "task"
	ScopeProject Scope = "project"
)

// Snapshot is everything the engine needs for one computation. It is fetched and authorized by
// the caller; the engine does no I/O.
type Snapshot struct {
	Scope   Scope
	ScopeId int
	// Name of the task or project, carried to the report for display.
	Name string
	// Settings are the effective settings of the summarized task or project.
	Settings FinanceSettings
	Project  *Project
	Tasks    map[int]Task
	// UserRates maps user id to the user's default hourly rate in cents.
	UserRates map[int]int64
	Entries   []TimeEntry
	Costs     []CostItem
	Window    Window
	Location  *time.Location
}

type Report struct {
	Scope                 Scope
	ScopeId               int
	Name                  string
	Window                Window
	Summary               FinanceSummary
	CommissionCents       int64
	CommissionPercent     decimal.Decimal
	Series                []SeriesPoint
	Distribution          []DistributionSlice
	Ledger                []Transaction
	LedgerTotalCents      int64
	Entries               []EnrichedEntry
	Costs                 []CostItem
	RegularHours          decimal.Decimal
	ExtraHours            decimal.Decimal
	TotalHours            decimal.Decimal
	UnresolvedRateEntries int
}

// Engine runs every builder over one enriched entry set, so the summary, the charts and the ledger
// of a Report always agree.
type Engine struct {
	clock utils.Clock
	// defaultCommissionPercent applies when neither the task nor its project sets a percent.
	defaultCommissionPercent decimal.Decimal
}

func NewEngine(clock utils.Clock) *Engine {
	return &Engine{clock: clock, defaultCommissionPercent: decimal.NewFromInt(DefaultCommissionPercent)}
}

func (e *Engine) WithDefaultCommissionPercent(percent decimal.Decimal) *Engine {
	e.defaultCommissionPercent = percent
	return e
}

func (e *Engine) Compute(snapshot Snapshot) Report {
	loc := snapshot.Location
	if loc == nil {
		loc = time.UTC
	}

	entries := Enrich(snapshot, loc)
	costs := make([]CostItem, 0, len(snapshot.Costs))
	for _, c := range snapshot.Costs {
		if snapshot.Window.Contains(DayOf(c.Date, loc)) {
			costs = append(costs, c)
		}
	}

	aggregation := Aggregate(entries, costs, snapshot.Window, loc)
	summary := BuildSummary(snapshot.Settings, aggregation.LaborCostCents, aggregation.ExternalCostCents)
	summary.DailyData = aggregation.DailyData

	percent := snapshot.Settings.CommissionPercentOr(e.defaultCommissionPercent)
	commission := commissionAt(summary.BudgetAmountCents, summary.ExtraCents, snapshot.Settings, percent)
	ledger := BuildLedger(entries, costs, CommissionLine{
		AmountCents: commission,
		BudgetCents: summary.BudgetAmountCents,
		ExtraCents:  summary.ExtraCents,
		Percent:     percent,
		Date:        e.commissionDate(snapshot.Window, loc),
	}, loc)

	report := Report{
		Scope:             snapshot.Scope,
		ScopeId:           snapshot.ScopeId,
		Name:              snapshot.Name,
		Window:            snapshot.Window,
		Summary:           summary,
		CommissionCents:   commission,
		CommissionPercent: percent,
		Series:            BuildSeries(summary.DailyData, summary.BudgetAmountCents),
		Distribution:      BuildDistribution(summary.LaborCostCents, summary.ExternalCostCents, summary.BudgetAmountCents, commission),
		Ledger:            ledger,
		LedgerTotalCents:  LedgerTotalCents(ledger),
		Entries:           entries,
		Costs:             costs,
		RegularHours:      decimal.Zero,
		ExtraHours:        decimal.Zero,
	}
	for _, entry := range entries {
		if entry.IsExtra() {
			report.ExtraHours = report.ExtraHours.Add(entry.Hours)
		} else {
			report.RegularHours = report.RegularHours.Add(entry.Hours)
		}
		if !entry.RateWasResolved {
			report.UnresolvedRateEntries++
		}
	}
	report.TotalHours = report.RegularHours.Add(report.ExtraHours)

	log.Debugf("Computed %s %d finance: labor=%d external=%d budget=%d extra=%d commission=%d",
		snapshot.Scope, snapshot.ScopeId, summary.LaborCostCents, summary.ExternalCostCents,
		summary.BudgetAmountCents, summary.ExtraCents, commission)
	return report
}

// commissionDate dates the synthetic commission line at the end of the requested window, or at
// today when the window is open ended.
func (e *Engine) commissionDate(window Window, loc *time.Location) time.Time {
	if window.End != nil {
		return DayOf(*window.End, loc)
	}
	return utils.Today(e.clock, loc)
}

// Enrich keeps the entries inside the snapshot window and resolves rate, billing class and amount
// for each of them. The amount is always recomputed from hours and the effective rate.
func Enrich(snapshot Snapshot, loc *time.Location) []EnrichedEntry {
	enriched := make([]EnrichedEntry, 0, len(snapshot.Entries))
	for i, entry := range snapshot.Entries {
		day := DayOf(entry.Date, loc)
		if !snapshot.Window.Contains(day) {
			continue
		}

		var task *Task
		if t, ok := snapshot.Tasks[entry.TaskId]; ok {
			task = &t
		}
		var userRate *int64
		if r, ok := snapshot.UserRates[entry.UserId]; ok {
			userRate = &r
		}
		rate, resolved := ResolveRate(entry, task, snapshot.Project, userRate)

		enriched = append(enriched, EnrichedEntry{
			TimeEntry:       entry,
			Day:             day,
			RateCents:       rate,
			RateWasResolved: resolved,
			Class:           Classify(entry.BillingType),
			AmountCents:     LaborAmountCents(entry.Hours, rate),
			sequence:        i,
		})
	}
	return enriched
}
