// Package review scores how urgently each log needs re-study and schedules the next review.
//
// The model is a simplified forgetting curve: the urgency of a log grows linearly with the
// days since it was last seen, and faster for logs the user rated as poorly understood.
package review

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/at-ishikawa/devnote/internal/journal"
)

const (
	DefaultQueueLimit    = 10
	DefaultUnderstanding = 3
	MinUnderstanding     = 1
	MaxUnderstanding     = 5

	day = 24 * time.Hour
)

// defaultIntervalDays is used for any rating outside the table.
const defaultIntervalDays = 7

var intervalDays = map[int]int{
	1: 1,
	2: 3,
	3: 7,
	4: 14,
	5: 30,
}

var ErrInvalidUnderstanding = errors.New("understanding must be between 1 and 5")

// ScoredLog is a log with the forget score it had when the queue was built.
type ScoredLog struct {
	Log         journal.LogRecord `json:"log"`
	ForgetScore int               `json:"forgetScore"`
}

// ForgetScore returns the review urgency of the log at now. Higher means more overdue.
// The score is the number of started days since the last review (or creation)
// multiplied by 6 - understanding.
func ForgetScore(log journal.LogRecord, now time.Time) int {
	anchor := log.CreatedAt
	if log.LastReviewedAt != nil {
		anchor = *log.LastReviewedAt
	}
	return DaysSince(anchor, now) * (MaxUnderstanding + 1 - normalizeUnderstanding(log.Understanding))
}

// DaysSince counts started 24 hour periods between the two instants, in either direction.
func DaysSince(anchor, now time.Time) int {
	elapsed := now.Sub(anchor)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	return int(math.Ceil(float64(elapsed) / float64(day)))
}

// normalizeUnderstanding maps an unset rating to the default and clamps the rest into 1..5,
// so that the multiplier is never negative.
func normalizeUnderstanding(understanding int) int {
	switch {
	case understanding == 0:
		return DefaultUnderstanding
	case understanding < MinUnderstanding:
		return MinUnderstanding
	case understanding > MaxUnderstanding:
		return MaxUnderstanding
	default:
		return understanding
	}
}

// ReviewQueue returns at most limit logs ordered by descending forget score.
// Logs with the same score keep their input order. A non-positive limit means DefaultQueueLimit.
// The input slice is not modified.
func ReviewQueue(logs []journal.LogRecord, now time.Time, limit int) []ScoredLog {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	scored := make([]ScoredLog, len(logs))
	for i, log := range logs {
		scored[i] = ScoredLog{
			Log:         log,
			ForgetScore: ForgetScore(log, now),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ForgetScore > scored[j].ForgetScore
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// NextReviewDate returns when a log rated with understanding should be reviewed again.
// Ratings outside 1..5 fall back to a week.
func NextReviewDate(understanding int, now time.Time) time.Time {
	days, ok := intervalDays[understanding]
	if !ok {
		days = defaultIntervalDays
	}
	return now.AddDate(0, 0, days)
}

// ParseUnderstanding reads the leading integer of s, the way a form field is coerced.
// Input without a leading integer yields 0, which NextReviewDate treats as the default.
func ParseUnderstanding(s string) int {
	s = strings.TrimSpace(s)
	sign := 1
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	value := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		value = value*10 + int(r-'0')
		if value > 1_000_000 {
			break
		}
	}
	return sign * value
}

// ApplyReview records review feedback on a copy of the log.
// An unreviewed log becomes scheduled; a scheduled log is scheduled again.
func ApplyReview(log journal.LogRecord, understanding int, now time.Time) (journal.LogRecord, error) {
	if understanding < MinUnderstanding || understanding > MaxUnderstanding {
		return log, fmt.Errorf("%w: got %d", ErrInvalidUnderstanding, understanding)
	}
	reviewed := now
	next := NextReviewDate(understanding, now)

	log = log.Clone()
	log.Understanding = understanding
	log.Level = understanding
	log.LastReviewedAt = &reviewed
	log.NextReviewAt = &next
	log.ReviewCount++
	return log, nil
}

// IsScheduled reports whether the log has received review feedback at least once.
func IsScheduled(log journal.LogRecord) bool {
	return log.LastReviewedAt != nil
}

// Due returns the logs whose next review is at or before now, most overdue first.
// Logs that were never reviewed are due from the moment they were created.
func Due(logs []journal.LogRecord, now time.Time) []journal.LogRecord {
	type dueLog struct {
		log journal.LogRecord
		at  time.Time
	}
	var due []dueLog
	for _, log := range logs {
		at := log.CreatedAt
		if log.NextReviewAt != nil {
			at = *log.NextReviewAt
		}
		if at.After(now) {
			continue
		}
		due = append(due, dueLog{log: log, at: at})
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].at.Before(due[j].at)
	})
	result := make([]journal.LogRecord, len(due))
	for i, d := range due {
		result[i] = d.log
	}
	return result
}
