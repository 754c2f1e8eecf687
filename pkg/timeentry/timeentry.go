package timeentry

import (
	"errors"
	"strings"
	"time"

	"github.com/klokku/ledger/pkg/finance"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryNotFound = errors.New("time entry not found")
	ErrInvalidHours  = errors.New("hours must be a non-negative number with at most 3 decimal places")
	ErrInvalidDate   = errors.New("date is required")
	ErrInvalidTask   = errors.New("task id must be positive")
	ErrInvalidRate   = errors.New("hourly rate must not be negative")
)

// NewEntry is the input of LogTime. The user is taken from the context.
type NewEntry struct {
	TaskId          int
	Description     string
	Date            time.Time
	Hours           decimal.Decimal
	HourlyRateCents *int64
	BillingType     string
	// IsBillable defaults to true when nil.
	IsBillable *bool
}

// NormalizeBillingType maps free-form input onto the stored billing types. The legacy "tm" name
// is stored as extra; anything unrecognized is regular.
func NormalizeBillingType(raw string) finance.BillingType {
	return finance.Classify(finance.BillingType(strings.ToLower(strings.TrimSpace(raw))))
}

func validHours(hours decimal.Decimal) bool {
	return !hours.IsNegative() && hours.Equal(hours.Truncate(3))
}

func validate(entry NewEntry) error {
	if entry.TaskId <= 0 {
		return ErrInvalidTask
	}
	if entry.Date.IsZero() {
		return ErrInvalidDate
	}
	if !validHours(entry.Hours) {
		return ErrInvalidHours
	}
	if entry.HourlyRateCents != nil && *entry.HourlyRateCents < 0 {
		return ErrInvalidRate
	}
	return nil
}
