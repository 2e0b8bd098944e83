// Package batch loads the ordered descriptor sequence the orchestrator
// consumes, typically from the same tasks.json the demo page fetches.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"taskflow/internal/domain"
)

// descriptorJSON keeps the wire shape separate from the domain type so an
// absent duration field is distinguishable from an explicit zero.
type descriptorJSON struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Type     domain.TaskType `json:"type"`
	Duration *int64          `json:"duration"` // milliseconds
	Priority string          `json:"priority"`
}

// Load reads a JSON array of descriptors from path. A batch that is missing,
// not an array, or empty is rejected with a validation-kind taxonomy error.
// Descriptors without a duration field get defaultDuration.
func Load(path string, defaultDuration time.Duration) ([]domain.Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", path, err)
	}
	return Parse(raw, defaultDuration)
}

// Parse decodes a JSON batch. See Load.
func Parse(raw []byte, defaultDuration time.Duration) ([]domain.Descriptor, error) {
	var rows []descriptorJSON
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, domain.ErrEmptyBatch()
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyBatch()
	}

	out := make([]domain.Descriptor, 0, len(rows))
	for _, r := range rows {
		d := domain.Descriptor{
			ID:       r.ID,
			Name:     r.Name,
			Type:     r.Type,
			Duration: defaultDuration,
			Priority: r.Priority,
		}
		if r.Duration != nil {
			d.Duration = time.Duration(*r.Duration) * time.Millisecond
		}
		out = append(out, d)
	}
	return out, nil
}

// FirstRunnable returns up to n descriptors from the front of the batch,
// skipping the ones tagged to fail. This is the caller-side pre-filter the
// demo uses before the parallel and race policies.
func FirstRunnable(ds []domain.Descriptor, n int) []domain.Descriptor {
	out := make([]domain.Descriptor, 0, n)
	for i := range ds {
		if len(out) == n {
			break
		}
		if ds[i].Type == domain.TaskTypeError {
			continue
		}
		out = append(out, ds[i])
	}
	return out
}
