// Package statistics aggregates the journal into dashboard metrics and periodic reports.
package statistics

import (
	"math"
	"sort"
	"time"

	"github.com/at-ishikawa/devnote/internal/journal"
)

// Window selects how the weekly and monthly counts are bounded.
type Window string

const (
	// WindowCalendar counts logs since the start of the current week (Sunday) and month, in the local time of now.
	WindowCalendar Window = "calendar"
	// WindowRolling counts logs created in the trailing 7 and 30 days.
	WindowRolling Window = "rolling"
)

const DefaultTopTags = 5

type Options struct {
	Window  Window
	TopTags int
}

func DefaultOptions() Options {
	return Options{
		Window:  WindowCalendar,
		TopTags: DefaultTopTags,
	}
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// DashboardStats holds the metrics shown on the dashboard
type DashboardStats struct {
	TotalLogs    int            `json:"totalLogs"`
	TotalReading int            `json:"totalReading"`
	TotalCoding  int            `json:"totalCoding"`
	TypeCounts   map[string]int `json:"typeCounts"`
	WeeklyLogs   int            `json:"weeklyLogs"`
	MonthlyLogs  int            `json:"monthlyLogs"`
	Streak       int            `json:"streak"`
	TopTags      []TagCount     `json:"topTags"`
	AvgLevel     float64        `json:"avgLevel"`
	ReviewedLogs int            `json:"reviewedLogs"`
}

// ComputeStats aggregates logs as of now using calendar windows and the top 5 tags.
func ComputeStats(logs []journal.LogRecord, now time.Time) DashboardStats {
	return ComputeStatsWithOptions(logs, now, DefaultOptions())
}

func ComputeStatsWithOptions(logs []journal.LogRecord, now time.Time, opts Options) DashboardStats {
	if opts.TopTags <= 0 {
		opts.TopTags = DefaultTopTags
	}
	weekStart, monthStart := windowStarts(now, opts.Window)

	stats := DashboardStats{
		TotalLogs:  len(logs),
		TypeCounts: make(map[string]int),
	}
	levelSum := 0
	for _, log := range logs {
		stats.TypeCounts[log.Type]++
		if !log.CreatedAt.Before(weekStart) {
			stats.WeeklyLogs++
		}
		if !log.CreatedAt.Before(monthStart) {
			stats.MonthlyLogs++
		}
		if log.LastReviewedAt != nil {
			stats.ReviewedLogs++
		}
		levelSum += log.EffectiveLevel()
	}
	stats.TotalReading = stats.TypeCounts[journal.LogTypeReading]
	stats.TotalCoding = stats.TypeCounts[journal.LogTypeCoding]
	stats.Streak = Streak(logs, now)
	stats.TopTags = TopTags(logs, opts.TopTags)
	if len(logs) > 0 {
		stats.AvgLevel = math.Round(float64(levelSum)/float64(len(logs))*10) / 10
	}
	return stats
}

func windowStarts(now time.Time, window Window) (time.Time, time.Time) {
	if window == WindowRolling {
		return now.AddDate(0, 0, -7), now.AddDate(0, 0, -30)
	}
	year, month, dayOfMonth := now.Date()
	loc := now.Location()
	weekStart := time.Date(year, month, dayOfMonth-int(now.Weekday()), 0, 0, 0, 0, loc)
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return weekStart, monthStart
}

// localDay identifies a calendar day. It is normalized to midnight UTC so that stepping by
// one day is never affected by daylight saving transitions.
func localDay(t time.Time, loc *time.Location) time.Time {
	year, month, dayOfMonth := t.In(loc).Date()
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// Streak counts consecutive days with at least one log, ending today or, when nothing
// was logged today yet, ending yesterday. Days are taken in the location of now.
func Streak(logs []journal.LogRecord, now time.Time) int {
	loc := now.Location()
	days := make(map[time.Time]struct{}, len(logs))
	for _, log := range logs {
		days[localDay(log.CreatedAt, loc)] = struct{}{}
	}

	check := localDay(now, loc)
	if _, ok := days[check]; !ok {
		// Today is still open, so a missing log does not break the streak yet.
		check = check.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[check]; !ok {
			break
		}
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

// TopTags returns the limit most frequent tags. Ties keep the order in which tags were first seen.
// A tag repeated within one log counts once.
func TopTags(logs []journal.LogRecord, limit int) []TagCount {
	counts := make(map[string]int)
	var order []string
	for _, log := range logs {
		seenInLog := make(map[string]struct{}, len(log.Tags))
		for _, tag := range log.Tags {
			if _, ok := seenInLog[tag]; ok {
				continue
			}
			seenInLog[tag] = struct{}{}
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	result := make([]TagCount, len(order))
	for i, tag := range order {
		result[i] = TagCount{Tag: tag, Count: counts[tag]}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

type ProjectCount struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Logs      int    `json:"logs"`
}

// ProjectBreakdown holds log counts per project.
// Logs that reference a project that no longer exists are counted as orphaned.
type ProjectBreakdown struct {
	Projects []ProjectCount `json:"projects"`
	Orphaned int            `json:"orphaned"`
}

func CountByProject(projects []journal.ProjectRecord, logs []journal.LogRecord) ProjectBreakdown {
	index := make(map[string]int, len(projects))
	breakdown := ProjectBreakdown{Projects: make([]ProjectCount, len(projects))}
	for i, p := range projects {
		index[p.ID] = i
		breakdown.Projects[i] = ProjectCount{ProjectID: p.ID, Name: p.Name}
	}
	for _, log := range logs {
		i, ok := index[log.ProjectID]
		if !ok {
			breakdown.Orphaned++
			continue
		}
		breakdown.Projects[i].Logs++
	}
	return breakdown
}
