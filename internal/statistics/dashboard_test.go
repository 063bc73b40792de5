package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/devnote/internal/journal"
)

// 2025-06-11 is a Wednesday.
var now = time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

func daysAgo(days int, hour int) time.Time {
	return time.Date(2025, 6, 11-days, hour, 0, 0, 0, time.UTC)
}

func logsOn(times ...time.Time) []journal.LogRecord {
	logs := make([]journal.LogRecord, len(times))
	for i, t := range times {
		logs[i] = journal.LogRecord{CreatedAt: t}
	}
	return logs
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []journal.LogRecord
		now  time.Time
		want int
	}{
		{
			name: "no logs",
			now:  now,
			want: 0,
		},
		{
			name: "logged today and the two previous days",
			logs: logsOn(daysAgo(0, 9), daysAgo(1, 9), daysAgo(2, 23)),
			now:  now,
			want: 3,
		},
		{
			name: "nothing today yet keeps the streak through yesterday",
			logs: logsOn(daysAgo(1, 9), daysAgo(2, 9), daysAgo(3, 9)),
			now:  now,
			want: 3,
		},
		{
			name: "grace covers only a single day",
			logs: logsOn(daysAgo(2, 9), daysAgo(3, 9), daysAgo(4, 9)),
			now:  now,
			want: 0,
		},
		{
			name: "gap in the middle stops the count",
			logs: logsOn(daysAgo(0, 9), daysAgo(1, 9), daysAgo(3, 9), daysAgo(4, 9)),
			now:  now,
			want: 2,
		},
		{
			name: "several logs on one day count once",
			logs: logsOn(daysAgo(0, 1), daysAgo(0, 2), daysAgo(0, 3)),
			now:  now,
			want: 1,
		},
		{
			name: "streak crosses a month boundary",
			logs: logsOn(
				time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 29, 9, 0, 0, 0, time.UTC),
			),
			now:  time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC),
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.logs, tt.now))
		})
	}
}

func TestStreak_GraceExpiresAfterOneDay(t *testing.T) {
	d := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	logs := logsOn(d.Add(10*time.Hour), d.AddDate(0, 0, -1).Add(10*time.Hour), d.AddDate(0, 0, -2).Add(10*time.Hour))

	assert.Equal(t, 3, Streak(logs, d.Add(22*time.Hour)))
	assert.Equal(t, 3, Streak(logs, d.AddDate(0, 0, 1).Add(12*time.Hour)))
	assert.Equal(t, 0, Streak(logs, d.AddDate(0, 0, 2).Add(12*time.Hour)))
}

func TestStreak_UsesLocationOfNow(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-06-10 20:00 UTC is already 2025-06-11 in Tokyo.
	logs := logsOn(time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, Streak(logs, time.Date(2025, 6, 11, 12, 0, 0, 0, tokyo)))
	assert.Equal(t, 2, Streak(logs, time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)))
}

func TestTopTags(t *testing.T) {
	tests := []struct {
		name  string
		tags  [][]string
		limit int
		want  []TagCount
	}{
		{
			name:  "ties keep first seen order",
			tags:  [][]string{{"a"}, {"a", "b"}, {"b"}},
			limit: 5,
			want:  []TagCount{{Tag: "a", Count: 2}, {Tag: "b", Count: 2}},
		},
		{
			name:  "higher counts first",
			tags:  [][]string{{"x"}, {"y", "x"}, {"y"}, {"y"}},
			limit: 5,
			want:  []TagCount{{Tag: "y", Count: 3}, {Tag: "x", Count: 2}},
		},
		{
			name:  "truncated to limit",
			tags:  [][]string{{"a", "b", "c", "d", "e", "f"}, {"f"}},
			limit: 5,
			want:  []TagCount{{Tag: "f", Count: 2}, {Tag: "a", Count: 1}, {Tag: "b", Count: 1}, {Tag: "c", Count: 1}, {Tag: "d", Count: 1}},
		},
		{
			name:  "duplicate tag within one log counts once",
			tags:  [][]string{{"go", "go"}},
			limit: 5,
			want:  []TagCount{{Tag: "go", Count: 1}},
		},
		{
			name:  "no tags",
			tags:  [][]string{nil, {}},
			limit: 5,
			want:  []TagCount{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := make([]journal.LogRecord, len(tt.tags))
			for i, tags := range tt.tags {
				logs[i] = journal.LogRecord{Tags: tags}
			}
			assert.Equal(t, tt.want, TopTags(logs, tt.limit))
		})
	}
}

func TestComputeStats(t *testing.T) {
	reviewed := daysAgo(1, 10)
	logs := []journal.LogRecord{
		{Type: journal.LogTypeReading, CreatedAt: daysAgo(0, 9), Level: 4, Tags: []string{"go"}},
		{Type: journal.LogTypeCoding, CreatedAt: daysAgo(1, 9), Level: 3, Tags: []string{"go", "sql"}, LastReviewedAt: &reviewed},
		// Sunday 2025-06-08, the first day of the calendar week
		{Type: journal.LogTypeCoding, CreatedAt: daysAgo(3, 0), Level: 2},
		// Saturday 2025-06-07, previous calendar week but within the trailing 7 days
		{Type: journal.LogTypeIdea, CreatedAt: daysAgo(4, 12), Understanding: 5},
		// May 2025
		{Type: "meeting", CreatedAt: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC), Level: 1},
	}

	got := ComputeStats(logs, now)
	assert.Equal(t, DashboardStats{
		TotalLogs:    5,
		TotalReading: 1,
		TotalCoding:  2,
		TypeCounts:   map[string]int{"reading": 1, "coding": 2, "idea": 1, "meeting": 1},
		WeeklyLogs:   3,
		MonthlyLogs:  4,
		Streak:       2,
		TopTags:      []TagCount{{Tag: "go", Count: 2}, {Tag: "sql", Count: 1}},
		AvgLevel:     3.0,
		ReviewedLogs: 1,
	}, got)

	rolling := ComputeStatsWithOptions(logs, now, Options{Window: WindowRolling, TopTags: 1})
	assert.Equal(t, 4, rolling.WeeklyLogs)
	assert.Equal(t, 5, rolling.MonthlyLogs)
	assert.Equal(t, []TagCount{{Tag: "go", Count: 2}}, rolling.TopTags)
}

func TestComputeStats_AvgLevelRounding(t *testing.T) {
	logs := []journal.LogRecord{{Level: 4}, {Level: 4}, {Level: 5}}
	assert.Equal(t, 4.3, ComputeStats(logs, now).AvgLevel)
}

func TestComputeStats_AvgLevelCountsUnratedAsDefault(t *testing.T) {
	logs := []journal.LogRecord{{Level: 5}, {}}
	assert.Equal(t, 4.0, ComputeStats(logs, now).AvgLevel)
}

func TestComputeStats_Empty(t *testing.T) {
	got := ComputeStats(nil, now)
	assert.Equal(t, 0, got.TotalLogs)
	assert.Equal(t, 0.0, got.AvgLevel)
	assert.Equal(t, 0, got.Streak)
	assert.Empty(t, got.TopTags)
}

func TestCountByProject(t *testing.T) {
	projects := []journal.ProjectRecord{{ID: "p1", Name: "Go"}, {ID: "p2", Name: "Rust"}}
	logs := []journal.LogRecord{{ProjectID: "p1"}, {ProjectID: "gone"}, {ProjectID: "p1"}, {ProjectID: ""}}

	assert.Equal(t, ProjectBreakdown{
		Projects: []ProjectCount{{ProjectID: "p1", Name: "Go", Logs: 2}, {ProjectID: "p2", Name: "Rust", Logs: 0}},
		Orphaned: 2,
	}, CountByProject(projects, logs))
}
