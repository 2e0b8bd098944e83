package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	ok := &Descriptor{ID: 1, Name: "resize", Type: TaskTypeCompute, Duration: time.Second}
	if err := Validate(ok); err != nil {
		t.Fatalf("err=%v, want nil", err)
	}

	cases := []struct {
		name string
		d    *Descriptor
	}{
		{"nil descriptor", nil},
		{"missing id", &Descriptor{Name: "x"}},
		{"missing name", &Descriptor{ID: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.d)
			if err == nil {
				t.Fatal("err=nil, want validation error")
			}
			if !IsValidation(err) {
				t.Fatalf("kind=%v, want validation", err)
			}
		})
	}
}

func TestTaxonomyKindsAreDistinct(t *testing.T) {
	d := &Descriptor{ID: 7, Name: "flaky-webhook", Type: TaskTypeError}

	perr := NewProcessingError(d)
	if !IsProcessing(perr) || IsValidation(perr) {
		t.Fatalf("kind=%v, want processing only", perr.Kind)
	}
	if perr.TaskID != 7 || perr.TaskName != "flaky-webhook" {
		t.Fatalf("context=(%d,%q), want task identity carried", perr.TaskID, perr.TaskName)
	}

	verr := NewValidationError(&Descriptor{ID: 7}, "descriptor has no name")
	if !IsValidation(verr) || IsProcessing(verr) {
		t.Fatalf("kind=%v, want validation only", verr.Kind)
	}
	if verr.Descriptor == nil {
		t.Fatal("validation error dropped the offending descriptor")
	}
}

func TestTaskErrorSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("run failed: %w", NewProcessingError(&Descriptor{ID: 1, Name: "a"}))

	if !IsProcessing(wrapped) {
		t.Fatal("kind lost through wrapping")
	}
	var te *TaskError
	if !errors.As(wrapped, &te) || te.TaskID != 1 {
		t.Fatalf("te=%+v, want unwrapped task error", te)
	}
}

func TestEmptyBatchIsValidationKind(t *testing.T) {
	err := ErrEmptyBatch()
	if !IsValidation(err) {
		t.Fatalf("kind=%v, want validation", err.Kind)
	}
}
