// Package api provides the HTTP surface of the symptom mapper.
package api

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-symptom-mapper/model"
)

// Request limits.
const (
	MaxQueryLength     = 1000 // runes
	MaxMultiQueries    = 50
	DefaultListLimit   = 50
	MaxListLimit       = 500
	MaxRequestBodySize = 1 << 20
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateQuery validates a single free-text query
func ValidateQuery(field, query string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(query) == "" {
		result.AddError(field, "Query is required and cannot be empty")
		return result
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		result.AddError(field, fmt.Sprintf("Query cannot be longer than %d characters", MaxQueryLength))
	}
	return result
}

// ValidateMultiResolveRequest validates a batch of named queries
func ValidateMultiResolveRequest(queries []model.NamedQuery) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(queries) == 0 {
		result.AddError("queries", "At least one query is required")
		return result
	}
	if len(queries) > MaxMultiQueries {
		result.AddError("queries", fmt.Sprintf("At most %d queries are allowed", MaxMultiQueries))
		return result
	}

	seen := make(map[string]bool, len(queries))
	for i, q := range queries {
		nameField := fmt.Sprintf("queries[%d].name", i)
		if strings.TrimSpace(q.Name) == "" {
			result.AddError(nameField, "Query name is required")
		} else if seen[q.Name] {
			result.AddError(nameField, "Duplicate query name '"+q.Name+"'")
		}
		seen[q.Name] = true

		for _, e := range ValidateQuery(fmt.Sprintf("queries[%d].query", i), q.Query).Errors {
			result.AddError(e.Field, e.Message)
		}
	}
	return result
}

// ValidateReloadTarget validates the target of a reload request. Empty means all.
func ValidateReloadTarget(target model.ReloadTarget) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if _, ok := target.JobType(); !ok {
		result.AddError("target", "Target must be one of 'dictionary', 'typo_rules' or 'all'")
	}
	return result
}

// ParseLimit reads the "limit" query parameter with a default and an upper bound
func ParseLimit(c *gin.Context) (int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	raw := c.Query("limit")
	if raw == "" {
		return DefaultListLimit, result
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		result.AddError("limit", "Limit must be a positive integer")
		return 0, result
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, result
}

// ParseJobStatus reads the optional "status" query parameter
func ParseJobStatus(c *gin.Context) (*model.JobStatus, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	raw := c.Query("status")
	if raw == "" {
		return nil, result
	}

	status := model.JobStatus(raw)
	switch status {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelled:
		return &status, result
	}
	result.AddError("status", "Unknown job status '"+raw+"'")
	return nil, result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
