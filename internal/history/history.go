// Package history loads the serialized history record each task writes
// into its run directory: a chronological log of events (starts, restarts,
// corrections) consumed opaquely by result retrieval.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a run directory contains no history record.
var ErrNotFound = errors.New("history: record not found")

// Record is the decoded history document. Its schema is owned by the task
// wrappers; this layer passes it through.
type Record map[string]any

// Events returns the event list, if the record carries one.
func (r Record) Events() []any {
	events, ok := r["events"].([]any)
	if !ok {
		return nil
	}
	return events
}

// Load reads the history record from a run directory, trying history.json
// first and history.yaml as a fallback.
func Load(dir string) (Record, error) {
	jsonPath := filepath.Join(dir, "history.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parse %s: %w", jsonPath, err)
		}
		return rec, nil
	}

	yamlPath := filepath.Join(dir, "history.yaml")
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("read %s: %w", yamlPath, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", yamlPath, err)
	}
	return rec, nil
}
