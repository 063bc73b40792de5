package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/at-ishikawa/devnote/internal/journal"
)

// PeriodStatistics holds statistics for a time period
type PeriodStatistics struct {
	Period       string // "2025-01" for monthly
	CreatedCount int    // Logs created in the period
	ReviewedLast int    // Logs whose latest review happened in the period
	ActiveDays   int    // Distinct days with at least one created log
	TagsUnique   int    // Distinct tags on logs created in the period
}

// AggregateStatistics holds totals across all periods
type AggregateStatistics struct {
	CreatedCount int
	ReviewedLast int
	ActiveDays   int
	TagsUnique   int // Deduplicated across periods
}

// PeriodResult holds both per-period and aggregate statistics
type PeriodResult struct {
	Periods   []PeriodStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	created    int
	reviewed   int
	activeDays map[time.Time]struct{}
	tags       map[string]struct{}
}

// CalculatePeriods groups logs by month in the given location.
// It accepts optional year and month filters (0 means no filter).
func CalculatePeriods(logs []journal.LogRecord, loc *time.Location, year, month int) PeriodResult {
	stats := make(map[string]*periodData)
	globalTags := make(map[string]struct{})

	for _, log := range logs {
		created := log.CreatedAt.In(loc)
		if !created.IsZero() && matchesFilter(created.Year(), int(created.Month()), year, month) {
			data := ensurePeriodExists(stats, periodKey(created))
			data.created++
			data.activeDays[localDay(created, loc)] = struct{}{}
			for _, tag := range log.Tags {
				data.tags[tag] = struct{}{}
				globalTags[tag] = struct{}{}
			}
		}

		if log.LastReviewedAt == nil {
			continue
		}
		reviewed := log.LastReviewedAt.In(loc)
		if !matchesFilter(reviewed.Year(), int(reviewed.Month()), year, month) {
			continue
		}
		ensurePeriodExists(stats, periodKey(reviewed)).reviewed++
	}

	return buildResult(stats, globalTags)
}

func periodKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

func ensurePeriodExists(stats map[string]*periodData, period string) *periodData {
	if stats[period] == nil {
		stats[period] = &periodData{
			activeDays: make(map[time.Time]struct{}),
			tags:       make(map[string]struct{}),
		}
	}
	return stats[period]
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, globalTags map[string]struct{}) PeriodResult {
	periods := make([]PeriodStatistics, 0, len(stats))

	var aggregate AggregateStatistics
	for period, data := range stats {
		periods = append(periods, PeriodStatistics{
			Period:       period,
			CreatedCount: data.created,
			ReviewedLast: data.reviewed,
			ActiveDays:   len(data.activeDays),
			TagsUnique:   len(data.tags),
		})
		aggregate.CreatedCount += data.created
		aggregate.ReviewedLast += data.reviewed
		aggregate.ActiveDays += len(data.activeDays)
	}
	aggregate.TagsUnique = len(globalTags)

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return PeriodResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
