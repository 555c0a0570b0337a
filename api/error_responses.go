package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-symptom-mapper/internal/errors"
)

// ErrorCode is the machine-readable code of an error envelope
type ErrorCode string

const (
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"

	ErrorCodeInternalError         ErrorCode = "INTERNAL_ERROR"
	ErrorCodeJobExecutionFailed    ErrorCode = "JOB_EXECUTION_FAILED"
	ErrorCodeNotSupported          ErrorCode = "NOT_SUPPORTED"
	ErrorCodeVocabularyUnavailable ErrorCode = "VOCABULARY_UNAVAILABLE"
)

// ErrorDetail points at one offending field
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError is the body of every non-2xx response.
// Error carries the HTTP status text, Code the stable machine code.
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// SendError writes an error envelope tagged with the request ID
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	c.AbortWithStatusJSON(statusCode, &APIError{
		Error:     http.StatusText(statusCode),
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
		RequestID: c.GetString(requestIDKey),
	})
}

// SendStructuredValidationError answers 400 with one detail per problem
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, 0, len(result.Errors))
	for _, e := range result.Errors {
		details = append(details, ErrorDetail{Field: e.Field, Message: e.Message, Code: "VALIDATION_ERROR"})
	}
	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError answers 400 for a body that does not decode
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid JSON in request body: "+err.Error())
}

// SendJobNotFoundError answers 404 for an unknown job ID
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, "Job '"+jobID+"' not found")
}

// SendInternalError answers 500 naming the failed operation
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "Internal error during "+operation+": "+err.Error())
}

// SendJobExecutionError answers 500 when a background job could not be started
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed, "Failed to start "+operation+" job: "+err.Error())
}

// SendEngineError maps an error returned by the mapper to a status and code.
func SendEngineError(c *gin.Context, operation string, err error) {
	switch {
	case stderrors.Is(err, errors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
	case stderrors.Is(err, errors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	case stderrors.Is(err, errors.ErrVocabularyUnavailable):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeVocabularyUnavailable, err.Error())
	default:
		SendInternalError(c, operation, err)
	}
}
