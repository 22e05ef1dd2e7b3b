package envelope

import (
	"cqb/internal/errors"
)

// Builder constructs Response envelopes using a fluent API.
type Builder struct {
	resp *Response
}

// New creates a new envelope builder.
func New() *Builder {
	return &Builder{
		resp: &Response{
			SchemaVersion: CurrentSchemaVersion,
		},
	}
}

// Data sets the tool-specific payload.
func (b *Builder) Data(data interface{}) *Builder {
	b.resp.Data = data
	return b
}

func (b *Builder) meta() *Meta {
	if b.resp.Meta == nil {
		b.resp.Meta = &Meta{}
	}
	return b.resp.Meta
}

// WithPagination adds origin-reported paging metadata.
func (b *Builder) WithPagination(totalItems, totalPages, currentPage, perPage int) *Builder {
	b.meta().Pagination = &Pagination{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PerPage:     perPage,
	}
	return b
}

// WithSource records the space, queried versions, and trace id.
func (b *Builder) WithSource(space string, versions []string, queryID string) *Builder {
	b.meta().Source = &Source{
		Space:    space,
		Versions: versions,
		QueryID:  queryID,
	}
	return b
}

// Incomplete marks the result as possibly missing records and attaches
// a matching warning so clients that only read warnings still see it.
func (b *Builder) Incomplete(reason string) *Builder {
	b.meta().Incompleteness = &Incompleteness{
		Incomplete: true,
		Reason:     reason,
	}
	return b.WarningCode("incomplete-results",
		"search may be incomplete: "+reason)
}

// Warning adds a warning message.
func (b *Builder) Warning(msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Message: msg})
	return b
}

// WarningCode adds a warning with a machine-readable code.
func (b *Builder) WarningCode(code, msg string) *Builder {
	b.resp.Warnings = append(b.resp.Warnings, Warning{Code: code, Message: msg})
	return b
}

// SuggestCall adds a recommended follow-up tool call.
func (b *Builder) SuggestCall(tool string, params map[string]interface{}, reason string) *Builder {
	b.resp.SuggestedNextCalls = append(b.resp.SuggestedNextCalls, SuggestedCall{
		Tool:   tool,
		Params: params,
		Reason: reason,
	})
	return b
}

// Error sets the structured error payload. QueryErrors contribute their
// stable code and details; other errors map to INTERNAL_ERROR.
func (b *Builder) Error(err error) *Builder {
	if err == nil {
		return b
	}
	info := &ErrorInfo{
		Code:    string(errors.CodeOf(err)),
		Message: err.Error(),
	}
	if qe, ok := err.(*errors.QueryError); ok {
		info.Message = qe.Message
		info.Details = qe.Details
	}
	b.resp.Error = info
	return b
}

// Build returns the envelope response.
func (b *Builder) Build() *Response {
	return b.resp
}

// FromError builds a complete error envelope in one step.
func FromError(err error) *Response {
	return New().Data(nil).Error(err).Build()
}
