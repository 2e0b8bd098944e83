package domain

import (
	"errors"
	"fmt"
)

// FailureKind discriminates the two failure kinds the core can produce.
// The set is closed; callers switch on the kind rather than on error types.
type FailureKind string

const (
	// KindValidation: the descriptor (or the batch) failed the shape check.
	KindValidation FailureKind = "validation"
	// KindProcessing: a well-formed descriptor simulated a downstream failure.
	KindProcessing FailureKind = "processing"
)

// TaskError carries structured context for a failed outcome. Failures are
// never plain strings once inside the core.
type TaskError struct {
	Kind       FailureKind `json:"kind"`
	TaskID     int         `json:"task_id,omitempty"`
	TaskName   string      `json:"task_name,omitempty"`
	Descriptor *Descriptor `json:"descriptor,omitempty"`
	Reason     string      `json:"reason"`
}

func (e *TaskError) Error() string {
	switch {
	case e.TaskName != "":
		return fmt.Sprintf("%s error: %s (task %d %q)", e.Kind, e.Reason, e.TaskID, e.TaskName)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Reason)
	}
}

// NewValidationError builds a shape-check failure carrying as much of the
// offending descriptor as is available.
func NewValidationError(d *Descriptor, reason string) *TaskError {
	e := &TaskError{Kind: KindValidation, Descriptor: d, Reason: reason}
	if d != nil {
		e.TaskID = d.ID
		e.TaskName = d.Name
	}
	return e
}

// NewProcessingError builds a simulated downstream failure for a well-formed
// descriptor.
func NewProcessingError(d *Descriptor) *TaskError {
	return &TaskError{
		Kind:     KindProcessing,
		TaskID:   d.ID,
		TaskName: d.Name,
		Reason:   fmt.Sprintf("processing failed for task %q", d.Name),
	}
}

// ErrEmptyBatch rejects batches that are not a non-empty sequence.
func ErrEmptyBatch() *TaskError {
	return &TaskError{Kind: KindValidation, Reason: "batch must be a non-empty sequence"}
}

func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsProcessing(err error) bool { return kindOf(err) == KindProcessing }

func kindOf(err error) FailureKind {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
