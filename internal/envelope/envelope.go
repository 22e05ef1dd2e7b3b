// Package envelope provides the standardized response wrapper for all
// MCP tool responses. Every tool response carries a consistent envelope
// with pagination metadata, the queried source, warnings, and suggested
// next calls.
package envelope

// CurrentSchemaVersion is the current envelope schema version.
const CurrentSchemaVersion = "1.0"

// Pagination carries origin-reported paging metadata.
type Pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// Source identifies where a response's data came from.
type Source struct {
	Space    string   `json:"space,omitempty"`
	Versions []string `json:"versions,omitempty"` // views queried: draft, published
	QueryID  string   `json:"queryId,omitempty"`  // per-query trace id
}

// Incompleteness flags a result that may be missing records.
type Incompleteness struct {
	Incomplete bool   `json:"incomplete"`
	Reason     string `json:"reason,omitempty"` // "page-cap", "degraded-fetch"
}

// Meta holds response metadata.
type Meta struct {
	Pagination     *Pagination     `json:"pagination,omitempty"`
	Source         *Source         `json:"source,omitempty"`
	Incompleteness *Incompleteness `json:"incompleteness,omitempty"`
}

// Warning represents a non-fatal issue.
type Warning struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// SuggestedCall represents a recommended follow-up tool call.
type SuggestedCall struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params,omitempty"`
	Reason string                 `json:"reason,omitempty"`
}

// ErrorInfo is the structured error payload of a failed tool call.
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Response is the standard envelope for all MCP tool responses.
type Response struct {
	SchemaVersion      string          `json:"schemaVersion"`
	Data               interface{}     `json:"data"`
	Meta               *Meta           `json:"meta,omitempty"`
	Warnings           []Warning       `json:"warnings,omitempty"`
	Error              *ErrorInfo      `json:"error,omitempty"`
	SuggestedNextCalls []SuggestedCall `json:"suggestedNextCalls,omitempty"`
}
