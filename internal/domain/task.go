package domain

import (
	"fmt"
	"time"
)

type TaskType string

const (
	// TaskTypeError marks a well-formed descriptor that always fails
	// with a simulated processing error.
	TaskTypeError TaskType = "error"

	TaskTypeCompute TaskType = "compute"
	TaskTypeIO      TaskType = "io"
)

// Descriptor describes one unit of simulated work. It is read-only for the
// lifetime of an orchestration call; nothing in the core mutates it.
type Descriptor struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Type     TaskType      `json:"type"`
	Duration time.Duration `json:"-"`
	Priority string        `json:"priority,omitempty"`
}

// Result is the success outcome of one unit of work.
type Result struct {
	TaskID   int           `json:"task_id"`
	TaskName string        `json:"task_name"`
	Duration time.Duration `json:"duration"`
	Summary  string        `json:"summary"`
}

func NewResult(d *Descriptor) Result {
	return Result{
		TaskID:   d.ID,
		TaskName: d.Name,
		Duration: d.Duration,
		Summary:  fmt.Sprintf("task %d (%s) completed after %s", d.ID, d.Name, d.Duration),
	}
}

// Validate reports whether a descriptor may reach the simulated-work stage.
// Validation is synchronous and never waits.
func Validate(d *Descriptor) error {
	if d == nil {
		return NewValidationError(nil, "descriptor is missing")
	}
	if d.ID <= 0 {
		return NewValidationError(d, "descriptor has no id")
	}
	if d.Name == "" {
		return NewValidationError(d, "descriptor has no name")
	}
	return nil
}
