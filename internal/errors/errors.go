package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrVocabularyUnavailable is returned when no canonical symptom data could be loaded
	ErrVocabularyUnavailable = errors.New("vocabulary unavailable")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRow is returned for a storage row that cannot be used
	ErrMalformedRow = errors.New("malformed row")

	// ErrFeedbackQueueFull is returned when an unmapped term is dropped because the queue is full
	ErrFeedbackQueueFull = errors.New("feedback queue full")

	// ErrRecorderClosed is returned when recording after the recorder was closed
	ErrRecorderClosed = errors.New("feedback recorder closed")
)

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// MalformedRowError describes a vocabulary or typo-rule row that was skipped during a load
type MalformedRowError struct {
	Table  string
	RowID  int64
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed %s row %d: %s", e.Table, e.RowID, e.Reason)
}

func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// NewMalformedRowError creates a new MalformedRowError
func NewMalformedRowError(table string, rowID int64, reason string) *MalformedRowError {
	return &MalformedRowError{Table: table, RowID: rowID, Reason: reason}
}
