package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/at-ishikawa/devnote/internal/journal"
)

var (
	// ErrStorageCorrupt is returned when a snapshot cannot be decoded.
	ErrStorageCorrupt = errors.New("snapshot is corrupt")
	// ErrStorageUnavailable is returned when a snapshot cannot be written.
	ErrStorageUnavailable = errors.New("storage is unavailable")
)

// Encode serializes the whole document.
func Encode(root *journal.RootState) ([]byte, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal() > %w", err)
	}
	return data, nil
}

// Decode parses a snapshot without migrating it.
func Decode(data []byte) (*journal.RootState, error) {
	var root journal.RootState
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: json.Unmarshal() > %w", ErrStorageCorrupt, err)
	}
	return &root, nil
}

func checkSnapshot(data []byte) error {
	_, err := Decode(data)
	return err
}
