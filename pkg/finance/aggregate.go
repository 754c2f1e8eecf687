package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Window limits a computation to calendar days between Start and End, both inclusive.
// A nil bound is open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

func (w Window) Contains(day time.Time) bool {
	d := day.Format(time.DateOnly)
	if w.Start != nil && d < w.Start.Format(time.DateOnly) {
		return false
	}
	if w.End != nil && d > w.End.Format(time.DateOnly) {
		return false
	}
	return true
}

// DayOf anchors the calendar day of t in loc. The year, month and day of t are taken as they are;
// converting an instant into the user's timezone happens when the entry is logged.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

type Aggregation struct {
	LaborCostCents    int64
	ExternalCostCents int64
	DailyData         []DayBucket
}

type userAccumulator struct {
	userId       int
	hours        decimal.Decimal
	amountCents  int64
	isExtra      bool
	firstCreated time.Time
	firstSeq     int
}

type bucketAccumulator struct {
	bucket DayBucket
	users  map[int]*userAccumulator
}

// Aggregate sums labor cost from enriched entries and external cost from cost items, per calendar
// day and in total. Entries and costs outside the window are skipped.
//
// Days with no hours and no cost are left out of DailyData so that charts only plot days with
// activity. This only thins the series; totals are unaffected because such days contribute zero.
func Aggregate(entries []EnrichedEntry, costs []CostItem, window Window, loc *time.Location) Aggregation {
	buckets := make(map[string]*bucketAccumulator)
	bucketFor := func(day time.Time) *bucketAccumulator {
		key := day.Format(time.DateOnly)
		acc, ok := buckets[key]
		if !ok {
			acc = &bucketAccumulator{
				bucket: DayBucket{
					Date:         day,
					RegularHours: decimal.Zero,
					ExtraHours:   decimal.Zero,
				},
				users: make(map[int]*userAccumulator),
			}
			buckets[key] = acc
		}
		return acc
	}

	for _, entry := range entries {
		day := DayOf(entry.Date, loc)
		if !window.Contains(day) {
			continue
		}
		acc := bucketFor(day)
		if entry.IsExtra() {
			acc.bucket.ExtraHours = acc.bucket.ExtraHours.Add(entry.Hours)
		} else {
			acc.bucket.RegularHours = acc.bucket.RegularHours.Add(entry.Hours)
		}
		acc.bucket.LaborCostCents += entry.AmountCents

		u, ok := acc.users[entry.UserId]
		if !ok {
			u = &userAccumulator{
				userId:       entry.UserId,
				hours:        decimal.Zero,
				firstCreated: entry.CreatedAt,
				firstSeq:     entry.sequence,
			}
			acc.users[entry.UserId] = u
		}
		u.hours = u.hours.Add(entry.Hours)
		u.amountCents += entry.AmountCents
		// a user mixing regular and extra time on the same day is flagged
		u.isExtra = u.isExtra || entry.IsExtra()
		if createdBefore(entry.CreatedAt, entry.sequence, u.firstCreated, u.firstSeq) {
			u.firstCreated = entry.CreatedAt
			u.firstSeq = entry.sequence
		}
	}

	for _, cost := range costs {
		day := DayOf(cost.Date, loc)
		if !window.Contains(day) {
			continue
		}
		bucketFor(day).bucket.ExternalCostCents += cost.AmountCents
	}

	result := Aggregation{DailyData: make([]DayBucket, 0, len(buckets))}
	for _, acc := range buckets {
		result.LaborCostCents += acc.bucket.LaborCostCents
		result.ExternalCostCents += acc.bucket.ExternalCostCents

		if acc.bucket.TotalHours().IsZero() && acc.bucket.LaborCostCents == 0 && acc.bucket.ExternalCostCents == 0 {
			continue
		}
		acc.bucket.PerUser = sortedUsers(acc.users)
		result.DailyData = append(result.DailyData, acc.bucket)
	}

	sort.Slice(result.DailyData, func(i, j int) bool {
		return result.DailyData[i].Date.Before(result.DailyData[j].Date)
	})
	return result
}

func sortedUsers(users map[int]*userAccumulator) []UserDayBreakdown {
	accs := make([]*userAccumulator, 0, len(users))
	for _, u := range users {
		accs = append(accs, u)
	}
	sort.Slice(accs, func(i, j int) bool {
		if c := accs[i].hours.Cmp(accs[j].hours); c != 0 {
			return c > 0
		}
		a, b := accs[i], accs[j]
		if a.firstCreated.Equal(b.firstCreated) && a.firstSeq == b.firstSeq {
			return a.userId < b.userId
		}
		return createdBefore(a.firstCreated, a.firstSeq, b.firstCreated, b.firstSeq)
	})

	breakdown := make([]UserDayBreakdown, 0, len(accs))
	for _, u := range accs {
		breakdown = append(breakdown, UserDayBreakdown{
			UserId:      u.userId,
			Hours:       u.hours,
			AmountCents: u.amountCents,
			IsExtra:     u.isExtra,
		})
	}
	return breakdown
}

// createdBefore orders by creation time, falling back to input order for equal timestamps.
func createdBefore(aCreated time.Time, aSeq int, bCreated time.Time, bSeq int) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.Before(bCreated)
	}
	return aSeq < bSeq
}
