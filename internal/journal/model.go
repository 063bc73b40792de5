// Package journal holds the persisted root object of the journal and the record store that mutates it.
package journal

import (
	"encoding/json"
	"time"
)

// Log types the dashboard counts separately. The set is open; any string is accepted.
const (
	LogTypeReading = "reading"
	LogTypeCoding  = "coding"
	LogTypeIdea    = "idea"
)

// RootState is the whole persisted document. It is always saved as one snapshot.
type RootState struct {
	SchemaVersion int             `json:"schemaVersion"`
	Projects      []ProjectRecord `json:"projects"`
	Logs          []LogRecord     `json:"logs"`
	Snippets      []SnippetRecord `json:"snippets"`

	// Extra keeps top-level keys written by other versions of the application.
	Extra map[string]json.RawMessage `json:"-"`
}

type ProjectRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`

	Extra map[string]json.RawMessage `json:"-"`
}

// LogRecord is a single dated journal entry.
// Level and Understanding carry the same 1-5 self rating; zero means the value was never written.
type LogRecord struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"projectId" validate:"required"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Tags           []string   `json:"tags"`
	Level          int        `json:"level,omitempty" validate:"omitempty,min=1,max=5"`
	Understanding  int        `json:"understanding" validate:"omitempty,min=1,max=5"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
	ReviewCount    int        `json:"reviewCount" validate:"min=0"`
	LastReviewedAt *time.Time `json:"lastReviewedAt"`
	NextReviewAt   *time.Time `json:"nextReviewAt"`

	Extra map[string]json.RawMessage `json:"-"`
}

type SnippetRecord struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId" validate:"required"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Extra map[string]json.RawMessage `json:"-"`
}

// EffectiveLevel returns the self rating of the log, preferring level, then understanding, then DefaultLevel.
func (l LogRecord) EffectiveLevel() int {
	if l.Level != 0 {
		return l.Level
	}
	if l.Understanding != 0 {
		return l.Understanding
	}
	return DefaultLevel
}

// HasTag reports whether the log carries the tag.
func (l LogRecord) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewRootState returns an empty document at the given schema version.
func NewRootState(schemaVersion int) *RootState {
	return &RootState{
		SchemaVersion: schemaVersion,
		Projects:      []ProjectRecord{},
		Logs:          []LogRecord{},
		Snippets:      []SnippetRecord{},
	}
}

// Clone returns a deep copy, so that a snapshot can be handed out without sharing slices.
func (r *RootState) Clone() *RootState {
	if r == nil {
		return nil
	}
	out := &RootState{
		SchemaVersion: r.SchemaVersion,
		Extra:         cloneExtra(r.Extra),
	}
	if r.Projects != nil {
		out.Projects = make([]ProjectRecord, len(r.Projects))
		for i, p := range r.Projects {
			p.Extra = cloneExtra(p.Extra)
			out.Projects[i] = p
		}
	}
	if r.Logs != nil {
		out.Logs = make([]LogRecord, len(r.Logs))
		for i, l := range r.Logs {
			out.Logs[i] = l.Clone()
		}
	}
	if r.Snippets != nil {
		out.Snippets = make([]SnippetRecord, len(r.Snippets))
		for i, sn := range r.Snippets {
			sn.Extra = cloneExtra(sn.Extra)
			out.Snippets[i] = sn
		}
	}
	return out
}

// Clone returns a copy of the log that shares no memory with the original.
func (l LogRecord) Clone() LogRecord {
	if l.Tags != nil {
		l.Tags = append([]string{}, l.Tags...)
	}
	l.UpdatedAt = cloneTime(l.UpdatedAt)
	l.LastReviewedAt = cloneTime(l.LastReviewedAt)
	l.NextReviewAt = cloneTime(l.NextReviewAt)
	l.Extra = cloneExtra(l.Extra)
	return l
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = append(json.RawMessage{}, v...)
	}
	return out
}
