package aggregation

import (
	"fmt"
	"sort"
	"time"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	"github.com/shopspring/decimal"
)

// group is one key of a grouping pass in first-seen order.
type group struct {
	key   string
	value decimal.Decimal
}

// groupReduce folds record usage per key with reducer, keeping keys in
// first-seen order.
func groupReduce(records []v1.ActivityRecord, keyFn func(*v1.ActivityRecord) string, reducer Aggregator) []group {
	index := make(map[string]int)
	groups := make([]group, 0)

	for i := range records {
		rec := &records[i]
		key := keyFn(rec)
		usage := Seconds(rec.Usage)

		pos, exists := index[key]
		if !exists {
			index[key] = len(groups)
			groups = append(groups, group{key: key, value: reducer.Initial(usage)})
			continue
		}
		groups[pos].value = reducer.Apply(groups[pos].value, usage)
	}
	return groups
}

// ByApp sums usage per app, ranks apps by total usage descending and drops
// apps whose total is below minUsage. Apps with equal totals keep the order
// in which they first appear in records.
func ByApp(records []v1.ActivityRecord, minUsage float64) []AppUsageSummary {
	groups := groupReduce(records, func(r *v1.ActivityRecord) string { return r.App }, Operators[OpSum])

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].value.GreaterThan(groups[j].value)
	})

	threshold := Seconds(minUsage)
	out := make([]AppUsageSummary, 0, len(groups))
	for _, g := range groups {
		if g.value.LessThan(threshold) {
			continue
		}
		out = append(out, AppUsageSummary{App: g.key, Usage: g.value.InexactFloat64()})
	}
	return out
}

// ByDay sums usage per UTC start day. A record that crosses midnight is
// attributed entirely to the day it started on.
func ByDay(records []v1.ActivityRecord) DailyUsage {
	daily, _ := ByDayWith(records, OpSum)
	return daily
}

// ByDayWith reduces usage per UTC start day with the named operator.
func ByDayWith(records []v1.ActivityRecord, operator string) (DailyUsage, error) {
	reducer, ok := Operators[operator]
	if !ok {
		return nil, fmt.Errorf("unsupported operator %q", operator)
	}

	groups := groupReduce(records, func(r *v1.ActivityRecord) string {
		return string(DayKeyOf(r.StartTime))
	}, reducer)

	out := make(DailyUsage, len(groups))
	for _, g := range groups {
		out[DayKey(g.key)] = g.value.InexactFloat64()
	}
	return out, nil
}

// FilterByExactDay returns the records that both start and end on day's
// UTC calendar day, in input order. Records spanning midnight are excluded.
func FilterByExactDay(records []v1.ActivityRecord, day time.Time) []v1.ActivityRecord {
	out := make([]v1.ActivityRecord, 0)
	for _, rec := range records {
		if SameDay(rec.StartTime, day) && SameDay(rec.EndTime, day) {
			out = append(out, rec)
		}
	}
	return out
}

// Total returns the summed usage of all records.
func Total(records []v1.ActivityRecord) float64 {
	sum := decimal.Zero
	for _, rec := range records {
		sum = sum.Add(Seconds(rec.Usage))
	}
	return sum.InexactFloat64()
}

// SumSummaries returns the summed usage of ranked app summaries.
func SumSummaries(summaries []AppUsageSummary) float64 {
	sum := decimal.Zero
	for _, s := range summaries {
		sum = sum.Add(Seconds(s.Usage))
	}
	return sum.InexactFloat64()
}
