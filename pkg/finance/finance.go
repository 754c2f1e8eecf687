package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingType string

const (
	BillingRegular  BillingType = "regular"
	BillingExtra    BillingType = "extra"
	BillingLegacyTM BillingType = "tm" // old name of BillingExtra, still present in stored entries
)

const DefaultCommissionPercent = 10

type TimeEntry struct {
	Id          uuid.UUID
	TaskId      int
	UserId      int
	Description string
	// Date is the calendar day the work was logged for. Time of day is ignored for aggregation.
	Date  time.Time
	Hours decimal.Decimal
	// HourlyRateCents is the rate explicitly set on the entry, nil when it has to be resolved.
	HourlyRateCents *int64
	BillingType     BillingType
	IsBillable      bool
	CreatedAt       time.Time
}

type CostItem struct {
	Id          uuid.UUID
	ProjectId   int
	TaskId      *int
	Name        string
	Description string
	Category    string
	AmountCents int64
	Date        time.Time
	IsBillable  bool
}

type FinanceSettings struct {
	FixedBudgetCents       *int64
	HourlyRateCents        *int64
	SalesCommissionEnabled *bool
	SalesCommissionPercent *decimal.Decimal
}

type Task struct {
	Id        int
	ProjectId *int
	Name      string
	Settings  FinanceSettings
}

type Project struct {
	Id       int
	Name     string
	Settings FinanceSettings
}

// EnrichedEntry is a TimeEntry with its rate resolved, its billing classified and its amount computed.
type EnrichedEntry struct {
	TimeEntry
	Day             time.Time
	RateCents       int64
	RateWasResolved bool
	Class           BillingType
	AmountCents     int64
	sequence        int
}

func (e EnrichedEntry) IsExtra() bool {
	return e.Class == BillingExtra
}

type UserDayBreakdown struct {
	UserId      int
	Hours       decimal.Decimal
	AmountCents int64
	IsExtra     bool
}

type DayBucket struct {
	Date              time.Time
	LaborCostCents    int64
	ExternalCostCents int64
	RegularHours      decimal.Decimal
	ExtraHours        decimal.Decimal
	PerUser           []UserDayBreakdown
}

func (b DayBucket) TotalHours() decimal.Decimal {
	return b.RegularHours.Add(b.ExtraHours)
}

func (b DayBucket) TotalCostCents() int64 {
	return b.LaborCostCents + b.ExternalCostCents
}

type FinanceSummary struct {
	BudgetAmountCents int64
	LaborCostCents    int64
	ExternalCostCents int64
	TotalCostCents    int64
	// SpentCents is the total realized cost, not a fraction of the budget.
	SpentCents     int64
	RemainingCents int64
	ExtraCents     int64
	DailyData      []DayBucket
}

type SeriesPoint struct {
	Date                time.Time
	CumulativeCostCents int64
	BudgetCents         int64
}

type DistributionSlice struct {
	Label      string
	ValueCents int64
}

const (
	LabelLaborBudget = "Labor (Budget)"
	LabelExternal    = "External"
	LabelLaborExtra  = "Labor (Extra)"
	LabelCommission  = "Commission"
)

type TransactionType string

const (
	TransactionLabor      TransactionType = "labor"
	TransactionExtra      TransactionType = "extra"
	TransactionExternal   TransactionType = "external"
	TransactionCommission TransactionType = "commission"
)

const (
	QuantityLabelTimeAndMaterial = "Time & Material"
	QuantityLabelExternalCost    = "Externý náklad"
)

type Transaction struct {
	// SourceId is the id of the time entry or cost item, uuid.Nil for the commission line.
	SourceId      uuid.UUID
	Type          TransactionType
	Date          time.Time
	Name          string
	UserId        int
	QuantityLabel string
	AmountCents   int64
	IsBillable    bool
}
