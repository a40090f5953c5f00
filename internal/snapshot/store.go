// Package snapshot persists captured snapshots as JSON files for later comparison.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/parity-check/internal/schemas"
	"github.com/jonathan/parity-check/internal/types"
)

// FileName returns the file name used for a snapshot with the given role, e.g. "reference".
func FileName(role string) string {
	return role + ".snapshot.json"
}

// Marshal encodes a snapshot as indented JSON. Element and property maps are
// written with sorted keys, so equal snapshots encode to equal bytes.
func Marshal(snap *types.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes a snapshot to path, creating parent directories as needed.
func Save(path string, snap *types.Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot from disk after checking it against the snapshot schema.
func Load(path string) (*types.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	if err := schemas.ValidateDocument(schemas.SnapshotSchema, data); err != nil {
		return nil, fmt.Errorf("snapshot %s failed schema check: %w", path, err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	for label, elem := range snap.Elements {
		if elem.Properties == nil {
			elem.Properties = map[string]string{}
			snap.Elements[label] = elem
		}
	}
	return &snap, nil
}
