package query

import (
	"context"
	"net/url"
	"strings"

	"cqb/internal/content"
	"cqb/internal/errors"
)

// defaultSearchFields are the record fields scanned when the caller does
// not narrow the search surface.
var defaultSearchFields = []string{"name", "slug", "content"}

// SearchContentOptions parameterizes a full-text content search.
type SearchContentOptions struct {
	Query         string
	ContentTypes  []string // root component types; empty means all
	SearchFields  []string // record paths to scan; defaults to name, slug, content
	ContentStatus content.ContentStatus
	DeepSearch    bool // recurse into non-string field subtrees
}

// SearchMatch is one matching story with the fields that hit.
type SearchMatch struct {
	Story         map[string]interface{} `json:"story"`
	MatchedFields []string               `json:"matched_fields"`
}

// SearchContentResponse is the result of SearchContent.
type SearchContentResponse struct {
	Query          string        `json:"query"`
	ContentStatus  string        `json:"content_status"`
	Matches        []SearchMatch `json:"matches"`
	MatchCount     int           `json:"match_count"`
	StoriesScanned int           `json:"stories_scanned"`
	LimitReached   bool          `json:"limit_reached"`
	Degraded       bool          `json:"degraded,omitempty"`
}

// SearchContent scans stories for a substring. When exactly one content
// type is requested the type filter is pushed into the remote query;
// multiple types are fetched unfiltered and narrowed client-side. Per
// declared search field the match is a direct case-insensitive substring
// check on string values, extended to a deep recursive scan of the
// field's subtree when DeepSearch is set.
func (e *Engine) SearchContent(ctx context.Context, opts SearchContentOptions) (*SearchContentResponse, error) {
	if opts.Query == "" {
		return nil, errors.NewInvalidParameterError("query", "")
	}
	status := opts.ContentStatus
	if status == "" {
		status = content.StatusPublished
	}
	fields := opts.SearchFields
	if len(fields) == 0 {
		fields = defaultSearchFields
	}

	extra := url.Values{}
	if len(opts.ContentTypes) == 1 {
		extra.Set("filter_query[component][in]", opts.ContentTypes[0])
	}

	merged, err := e.mergeVersions(ctx, status, extra)
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{}
	for _, t := range opts.ContentTypes {
		allowed[t] = true
	}

	resp := &SearchContentResponse{
		Query:         opts.Query,
		ContentStatus: string(status),
		Matches:       []SearchMatch{},
		LimitReached:  merged.LimitReached,
		Degraded:      merged.Degraded,
	}

	loweredQuery := strings.ToLower(opts.Query)
	for i := range merged.Stories {
		story := &merged.Stories[i]
		if len(opts.ContentTypes) > 1 && !allowed[story.ComponentType()] {
			continue
		}
		resp.StoriesScanned++

		record := story.Map()
		var hit []string
		for _, field := range fields {
			value, ok := content.GetPath(record, field)
			if !ok {
				continue
			}
			if matchField(value, loweredQuery, opts.DeepSearch) {
				hit = append(hit, field)
			}
		}
		if len(hit) > 0 {
			resp.Matches = append(resp.Matches, SearchMatch{Story: record, MatchedFields: hit})
		}
	}

	resp.MatchCount = len(resp.Matches)
	return resp, nil
}

// matchField checks one search field's value against an already-lowered
// query.
func matchField(value interface{}, loweredQuery string, deep bool) bool {
	if s, ok := value.(string); ok {
		return strings.Contains(strings.ToLower(s), loweredQuery)
	}
	if deep {
		return content.ContainsText(value, loweredQuery, false)
	}
	return false
}
