package query

import (
	"context"
	"fmt"
	"net/url"

	"cqb/internal/content"
)

// FetchStoriesOptions parameterizes a filtered story listing.
type FetchStoriesOptions struct {
	ContentStatus content.ContentStatus
	StartsWith    string // slug prefix, pushed into the remote query
	SearchTerm    string // remote-side term filter, pushed upstream
	// DeepFilter maps record paths to expected values. A record matches
	// when every path resolves and its value stringifies to the
	// expectation.
	DeepFilter map[string]string
	// WithValidation annotates each matching record with a schema
	// validation of its root component.
	WithValidation bool
	// SummaryMode projects each record to the fixed summary path list.
	SummaryMode bool
	// Fields projects each record to an explicit path list. When both
	// Fields and SummaryMode are given, Fields wins entirely.
	Fields []string
}

// ValidationAnnotation is the per-record outcome of the optional schema
// validation stage. SchemaFound false means the root component has no
// schema definition — a distinct condition from a failing validation,
// which carries Result.
type ValidationAnnotation struct {
	Component   string                    `json:"component"`
	SchemaFound bool                      `json:"schema_found"`
	Result      *content.ValidationResult `json:"result,omitempty"`
}

// StoryResult is one record of a FetchStories response.
type StoryResult struct {
	Story      map[string]interface{} `json:"story"`
	Validation *ValidationAnnotation  `json:"validation,omitempty"`
}

// FetchStoriesResponse is the result of FetchStories.
type FetchStoriesResponse struct {
	Stories []StoryResult `json:"stories"`
	Count   int           `json:"count"`
	// Origin pagination metadata. TotalItems reflects the upstream
	// total, not the client-side filtered count.
	TotalItems   int  `json:"total_items"`
	TotalPages   int  `json:"total_pages"`
	CurrentPage  int  `json:"current_page"`
	PerPage      int  `json:"per_page"`
	LimitReached bool `json:"limit_reached"`
	Degraded     bool `json:"degraded,omitempty"`
}

// FetchStories runs the staged listing pipeline: fetch/merge, optional
// client-side deep filter, optional validation annotation, optional
// projection.
func (e *Engine) FetchStories(ctx context.Context, opts FetchStoriesOptions) (*FetchStoriesResponse, error) {
	status := opts.ContentStatus
	if status == "" {
		status = content.StatusPublished
	}

	extra := url.Values{}
	if opts.StartsWith != "" {
		extra.Set("starts_with", opts.StartsWith)
	}
	if opts.SearchTerm != "" {
		extra.Set("search_term", opts.SearchTerm)
	}

	merged, err := e.mergeVersions(ctx, status, extra)
	if err != nil {
		return nil, err
	}

	resp := &FetchStoriesResponse{
		Stories:      []StoryResult{},
		TotalItems:   merged.TotalFromAPI,
		TotalPages:   totalPages(merged.TotalFromAPI, e.perPage),
		CurrentPage:  1,
		PerPage:      e.perPage,
		LimitReached: merged.LimitReached,
		Degraded:     merged.Degraded,
	}

	for i := range merged.Stories {
		story := &merged.Stories[i]
		record := story.Map()

		if !matchesDeepFilter(record, opts.DeepFilter) {
			continue
		}

		result := StoryResult{}

		if opts.WithValidation {
			annotation, err := e.validateRecord(ctx, story)
			if err != nil {
				return nil, err
			}
			result.Validation = annotation
		}

		switch {
		case len(opts.Fields) > 0:
			result.Story = content.Project(record, opts.Fields)
		case opts.SummaryMode:
			result.Story = content.Project(record, content.SummaryPaths)
		default:
			result.Story = record
		}

		resp.Stories = append(resp.Stories, result)
	}

	resp.Count = len(resp.Stories)
	return resp, nil
}

// matchesDeepFilter applies the structural equality filter. Equality is
// by string conversion: fmt.Sprint(value) == expected. The policy is
// deliberately loose — it cannot tell 0 from "0" or nil from "<nil>" —
// and is kept for compatibility with existing callers rather than
// tightened.
func matchesDeepFilter(record map[string]interface{}, filter map[string]string) bool {
	for path, expected := range filter {
		value, ok := content.GetPath(record, path)
		if !ok {
			return false
		}
		if fmt.Sprint(value) != expected {
			return false
		}
	}
	return true
}

// validateRecord runs the schema validation stage for one record. The
// schema is fetched fresh per record; absence yields SchemaFound false
// rather than an error or an empty validation.
func (e *Engine) validateRecord(ctx context.Context, story *content.Story) (*ValidationAnnotation, error) {
	component := story.ComponentType()
	if component == "" {
		return &ValidationAnnotation{SchemaFound: false}, nil
	}

	schema, err := e.repo.FetchSchema(ctx, component)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return &ValidationAnnotation{Component: component, SchemaFound: false}, nil
	}

	result := content.ValidateFields(story.Content, schema)
	return &ValidationAnnotation{
		Component:   component,
		SchemaFound: true,
		Result:      &result,
	}, nil
}
