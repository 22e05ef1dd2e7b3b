// Package errors defines stable error codes for all cqb failure modes.
// Tool responses carry these codes so MCP clients can distinguish the
// failing stage without parsing message text.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// UpstreamUnavailable indicates the content repository API could not be reached
	UpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// UpstreamStatus indicates the content repository API returned a non-success status
	UpstreamStatus ErrorCode = "UPSTREAM_STATUS"
	// StoryNotFound indicates the requested story does not exist
	StoryNotFound ErrorCode = "STORY_NOT_FOUND"
	// SchemaNotFound indicates no schema definition exists for a component
	SchemaNotFound ErrorCode = "SCHEMA_NOT_FOUND"
	// InvalidParameter indicates a malformed or missing tool parameter
	InvalidParameter ErrorCode = "INVALID_PARAMETER"
	// ConfigInvalid indicates missing or unusable configuration
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// PageLimitReached indicates pagination stopped at the page cap
	PageLimitReached ErrorCode = "PAGE_LIMIT_REACHED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
}

// QueryError represents a cqb error with a stable code, message, and
// optional structured details.
type QueryError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // underlying error, not exported to JSON
}

// New creates a new QueryError.
func New(code ErrorCode, message string, cause error) *QueryError {
	return &QueryError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: SuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *QueryError) Unwrap() error {
	return e.cause
}

// WithDetails adds structured details to the error
func (e *QueryError) WithDetails(details interface{}) *QueryError {
	e.Details = details
	return e
}

// NewInvalidParameterError reports a missing or malformed tool parameter.
func NewInvalidParameterError(name, reason string) *QueryError {
	msg := fmt.Sprintf("missing or invalid parameter %q", name)
	if reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}
	return New(InvalidParameter, msg, nil)
}

// NewStoryNotFoundError reports a story id with no record in any version.
func NewStoryNotFoundError(storyID int64) *QueryError {
	return New(StoryNotFound, fmt.Sprintf("story %d not found", storyID), nil)
}

// NewSchemaNotFoundError reports a component with no schema definition.
// Distinct from a failed validation: no field diff was possible at all.
func NewSchemaNotFoundError(component string) *QueryError {
	return New(SchemaNotFound, fmt.Sprintf("no schema definition for component %q", component), nil)
}

// NewUpstreamError wraps a transport-level failure talking to the
// content repository API.
func NewUpstreamError(operation string, cause error) *QueryError {
	return New(UpstreamUnavailable, fmt.Sprintf("content repository request failed: %s", operation), cause)
}

// NewUpstreamStatusError reports a non-success HTTP status from the
// content repository API.
func NewUpstreamStatusError(operation string, status int, body string) *QueryError {
	e := New(UpstreamStatus, fmt.Sprintf("%s returned status %d", operation, status), nil)
	return e.WithDetails(map[string]interface{}{
		"status": status,
		"body":   body,
	})
}

// fixActions maps error codes to suggested fix actions
var fixActions = map[ErrorCode][]FixAction{
	ConfigInvalid: {
		{
			Command:     "cqb init",
			Description: "Generate a starter config file, then set CQB_TOKEN and CQB_SPACEID",
		},
	},
	UpstreamUnavailable: {
		{
			Command:     "cqb doctor",
			Description: "Check endpoint, credentials, and connectivity",
		},
	},
	PageLimitReached: {
		{
			Description: "Narrow the query (starts_with, content type filter) or raise maxPages",
		},
	},
}

// SuggestedFixes returns suggested fixes for an error code
func SuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := fixActions[code]; ok {
		return fixes
	}
	return nil
}

// CodeOf extracts the stable error code from err, or InternalError when
// err is not a QueryError.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if qe, ok := err.(*QueryError); ok {
		return qe.Code
	}
	return InternalError
}
