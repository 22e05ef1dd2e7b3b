package query

import (
	"context"

	"cqb/internal/content"
	"cqb/internal/errors"
)

// UsageRef identifies one story using a component.
type UsageRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullSlug string `json:"full_slug"`
}

// ComponentUsageResponse is the result of GetComponentUsage.
type ComponentUsageResponse struct {
	ComponentName        string     `json:"component_name"`
	UsageCount           int        `json:"usage_count"`
	StoriesAnalyzedCount int        `json:"stories_analyzed_count"`
	Stories              []UsageRef `json:"stories"`
	// Incomplete indicates pagination hit its cap: some stories were
	// never scanned, so the usage list may be missing entries.
	Incomplete bool `json:"incomplete"`
	Degraded   bool `json:"degraded,omitempty"`
}

// GetComponentUsage scans both versions of every story for instances of
// a component type at any depth of the content tree.
func (e *Engine) GetComponentUsage(ctx context.Context, componentName string) (*ComponentUsageResponse, error) {
	if componentName == "" {
		return nil, errors.NewInvalidParameterError("component_name", "")
	}

	merged, err := e.mergeVersions(ctx, content.StatusBoth, nil)
	if err != nil {
		return nil, err
	}

	resp := &ComponentUsageResponse{
		ComponentName:        componentName,
		StoriesAnalyzedCount: len(merged.Stories),
		Stories:              []UsageRef{},
		Incomplete:           merged.LimitReached,
		Degraded:             merged.Degraded,
	}

	for i := range merged.Stories {
		story := &merged.Stories[i]
		if content.UsesComponent(story.Content, componentName) {
			resp.Stories = append(resp.Stories, UsageRef{
				ID:       story.ID,
				Name:     story.Name,
				FullSlug: story.FullSlug,
			})
		}
	}
	resp.UsageCount = len(resp.Stories)

	e.logger.Info("component usage scan complete", map[string]interface{}{
		"component": componentName,
		"analyzed":  resp.StoriesAnalyzedCount,
		"usages":    resp.UsageCount,
	})
	return resp, nil
}

// StoriesByComponentResponse is the result of FetchStoriesByComponent.
type StoriesByComponentResponse struct {
	ComponentName string                   `json:"component_name"`
	Stories       []map[string]interface{} `json:"stories"`
	Count         int                      `json:"count"`
	Incomplete    bool                     `json:"incomplete"`
	Degraded      bool                     `json:"degraded,omitempty"`
}

// FetchStoriesByComponent returns the full records of stories whose
// content tree contains the component anywhere.
func (e *Engine) FetchStoriesByComponent(ctx context.Context, componentName string, status content.ContentStatus) (*StoriesByComponentResponse, error) {
	if componentName == "" {
		return nil, errors.NewInvalidParameterError("component_name", "")
	}
	if status == "" {
		status = content.StatusBoth
	}

	merged, err := e.mergeVersions(ctx, status, nil)
	if err != nil {
		return nil, err
	}

	resp := &StoriesByComponentResponse{
		ComponentName: componentName,
		Stories:       []map[string]interface{}{},
		Incomplete:    merged.LimitReached,
		Degraded:      merged.Degraded,
	}
	for i := range merged.Stories {
		story := &merged.Stories[i]
		if content.UsesComponent(story.Content, componentName) {
			resp.Stories = append(resp.Stories, story.Map())
		}
	}
	resp.Count = len(resp.Stories)
	return resp, nil
}
