package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestJobNotFoundError(t *testing.T) {
	err := NewJobNotFoundError("job-123")

	expectedMsg := "job with ID 'job-123' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrJobNotFound) {
		t.Error("Expected error to match ErrJobNotFound sentinel")
	}

	if errors.Is(err, ErrInvalidInput) {
		t.Error("Error should not match ErrInvalidInput")
	}
}

func TestValidationError(t *testing.T) {
	// With field
	err := NewValidationError("query", "must not be empty")
	expectedMsg := "validation error for field 'query': must not be empty"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Without field
	err2 := NewValidationError("", "bad request")
	expectedMsg2 := "validation error: bad request"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
}

func TestMalformedRowError(t *testing.T) {
	err := NewMalformedRowError("symptom_alias", 42, "empty alias text")

	expectedMsg := "malformed symptom_alias row 42: empty alias text"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrMalformedRow) {
		t.Error("Expected error to match ErrMalformedRow sentinel")
	}
}

func TestWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("reload failed: %w", NewJobNotFoundError("abc"))

	if !errors.Is(wrapped, ErrJobNotFound) {
		t.Error("Expected wrapped error to match ErrJobNotFound sentinel")
	}

	var jobErr *JobNotFoundError
	if !errors.As(wrapped, &jobErr) {
		t.Fatal("Expected errors.As to extract JobNotFoundError")
	}
	if jobErr.JobID != "abc" {
		t.Errorf("Expected JobID 'abc', got '%s'", jobErr.JobID)
	}
}
