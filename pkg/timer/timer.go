package timer

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunningTimer is the time a user is currently tracking on a task. Each user has at most one.
type RunningTimer struct {
	TaskId      int
	Description string
	BillingType string
	StartTime   time.Time
}

func (t RunningTimer) IsRunning() bool {
	return t.TaskId != 0
}

// ElapsedHours converts the tracked duration into hours rounded to three decimals, the precision a
// time entry accepts.
func ElapsedHours(start, end time.Time) decimal.Decimal {
	seconds := int64(end.Sub(start).Round(time.Second) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).Round(3)
}
