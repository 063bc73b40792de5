// Package exchange exports the journal to a file and imports it back.
package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/migration"
	"github.com/at-ishikawa/devnote/internal/persistence"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrInvalidSnapshot is returned when an imported document is not a journal.
var ErrInvalidSnapshot = errors.New("invalid journal snapshot")

// DefaultFileName returns the export file name for the UTC date of now.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("devnote_backup_%s.json", now.UTC().Format(time.DateOnly))
}

// FormatFromPath picks YAML for .yml and .yaml files and JSON for everything else.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML
	}
	return FormatJSON
}

// Export writes root to w.
func Export(w io.Writer, root *journal.RootState, format string) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent() > %w", err)
	}

	switch format {
	case FormatJSON:
		data = append(data, '\n')
	case FormatYAML:
		if data, err = jsonToYAML(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("w.Write() > %w", err)
	}
	return nil
}

// Import reads a document written by Export or by any older version, and migrates it.
// The document must contain the projects and logs collections.
func Import(r io.Reader, format string) (*journal.RootState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll() > %w", err)
	}

	switch format {
	case FormatJSON:
	case FormatYAML:
		if data, err = yamlToJSON(data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}

	if err := requireCollections(data); err != nil {
		return nil, err
	}
	root, err := persistence.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return migration.Migrate(root), nil
}

func requireCollections(data []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("%w: json.Unmarshal() > %w", ErrInvalidSnapshot, err)
	}
	for _, key := range []string{"projects", "logs"} {
		value, ok := top[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, key)
		}
	}
	return nil
}

// jsonToYAML re-encodes a JSON document as block style YAML, keeping the key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	resetStyle(&node)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return nil, fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoder.Close() > %w", err)
	}
	return buf.Bytes(), nil
}

func resetStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		resetStyle(child)
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var document any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: yaml.Unmarshal() > %w", ErrInvalidSnapshot, err)
	}
	converted, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("%w: json.Marshal() > %w", ErrInvalidSnapshot, err)
	}
	return converted, nil
}
