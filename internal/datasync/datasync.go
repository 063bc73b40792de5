// Package datasync copies journal snapshots from one storage backend into another,
// e.g. from the JSON files of the file driver into a database.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/at-ishikawa/devnote/internal/persistence"
	"github.com/at-ishikawa/devnote/internal/storage"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	SlotsNew     int
	SlotsSkipped int
	SlotsUpdated int
	SlotsMissing int
	SlotsCorrupt int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads snapshots from a source storage and writes them to a destination storage.
type Importer struct {
	source      storage.Storage
	destination storage.Storage
	writer      io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(source, destination storage.Storage, writer io.Writer) *Importer {
	return &Importer{
		source:      source,
		destination: destination,
		writer:      writer,
	}
}

// ImportSlots copies each named slot. A slot the source does not have, or whose snapshot does not decode,
// is reported and skipped. Slots already present in the destination are kept unless UpdateExisting is set.
func (imp *Importer) ImportSlots(ctx context.Context, keys []string, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	for _, key := range keys {
		if err := imp.importSlot(ctx, key, opts, &result); err != nil {
			return nil, fmt.Errorf("importSlot(%s) > %w", key, err)
		}
	}
	return &result, nil
}

func (imp *Importer) importSlot(ctx context.Context, key string, opts ImportOptions, result *ImportResult) error {
	data, err := imp.source.Read(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(imp.writer, "  [MISSING]  %s\n", key)
		result.SlotsMissing++
		return nil
	}
	if err != nil {
		return fmt.Errorf("source.Read() > %w", err)
	}
	if _, err := persistence.Decode(data); err != nil {
		fmt.Fprintf(imp.writer, "  [CORRUPT]  %s: %v\n", key, err)
		result.SlotsCorrupt++
		return nil
	}

	_, err = imp.destination.Read(ctx, key)
	exists := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("destination.Read() > %w", err)
	}
	if exists && !opts.UpdateExisting {
		fmt.Fprintf(imp.writer, "  [SKIP]  %s\n", key)
		result.SlotsSkipped++
		return nil
	}

	if !opts.DryRun {
		if err := imp.destination.Write(ctx, key, data); err != nil {
			return fmt.Errorf("destination.Write() > %w", err)
		}
	}
	if exists {
		fmt.Fprintf(imp.writer, "  [UPDATE]  %s\n", key)
		result.SlotsUpdated++
		return nil
	}
	fmt.Fprintf(imp.writer, "  [NEW]  %s\n", key)
	result.SlotsNew++
	return nil
}
