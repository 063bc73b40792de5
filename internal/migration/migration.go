// Package migration upgrades a loaded journal document to the current schema version.
//
// Migrations are additive: they fill in fields introduced by later versions and never
// remove, rename or reject anything. A document written by a newer version is left as is.
package migration

import (
	"log/slog"

	"github.com/at-ishikawa/devnote/internal/journal"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

// legacyVersion is assumed for documents that predate the schemaVersion field.
const legacyVersion = 1

const defaultUnderstanding = 3

type step struct {
	to    int
	apply func(root *journal.RootState)
}

var steps = []step{
	{to: 2, apply: toV2},
}

// Migrate upgrades root in place and returns it. A nil root becomes an empty current document.
// Migrating an already current document changes nothing.
func Migrate(root *journal.RootState) *journal.RootState {
	if root == nil {
		return journal.NewRootState(CurrentVersion)
	}
	if root.SchemaVersion == 0 {
		root.SchemaVersion = legacyVersion
	}
	ensureCollections(root)

	for _, s := range steps {
		if root.SchemaVersion >= s.to {
			continue
		}
		slog.Default().Info("Migrating journal data", "from", root.SchemaVersion, "to", s.to)
		s.apply(root)
		root.SchemaVersion = s.to
	}
	applyDefaults(root)
	return root
}

func ensureCollections(root *journal.RootState) {
	if root.Projects == nil {
		root.Projects = []journal.ProjectRecord{}
	}
	if root.Logs == nil {
		root.Logs = []journal.LogRecord{}
	}
	if root.Snippets == nil {
		root.Snippets = []journal.SnippetRecord{}
	}
}

// toV2 adds the review fields: understanding, reviewCount, lastReviewedAt and nextReviewAt.
// The timestamps already default to null and the numeric fields are filled by applyDefaults.
func toV2(root *journal.RootState) {
	applyDefaults(root)
}

// applyDefaults fills fields a log may lack whatever version wrote it, so it runs on every load.
// An unset or out of range understanding is taken from level when level is a valid rating, else 3.
func applyDefaults(root *journal.RootState) {
	for i := range root.Logs {
		log := &root.Logs[i]
		if !validRating(log.Understanding) {
			log.Understanding = defaultUnderstanding
			if validRating(log.Level) {
				log.Understanding = log.Level
			}
		}
		if log.ReviewCount < 0 {
			log.ReviewCount = 0
		}
		if log.Tags == nil {
			log.Tags = []string{}
		}
	}
}

func validRating(v int) bool {
	return v >= 1 && v <= 5
}
