package mcp

import (
	"context"

	"github.com/google/uuid"

	"cqb/internal/content"
	"cqb/internal/envelope"
	"cqb/internal/query"
)

// statusVersions renders the versions a status reads for the envelope
// source block.
func statusVersions(status content.ContentStatus) []string {
	versions := status.Versions()
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = string(v)
	}
	return out
}

// source tags an envelope with the space, the versions consulted, and a
// fresh query id for log correlation.
func (s *Server) source(b *envelope.Builder, versions []string) *envelope.Builder {
	return b.WithSource(s.engine.Space(), versions, uuid.NewString())
}

const (
	incompletePageCap       = "page-cap"
	incompleteDegradedFetch = "degraded-fetch"
)

// flagIncompleteness adds incompleteness metadata for capped or
// partially failed fetches.
func flagIncompleteness(b *envelope.Builder, limitReached, degraded bool) *envelope.Builder {
	if degraded {
		b.Incomplete(incompleteDegradedFetch)
	} else if limitReached {
		b.Incomplete(incompletePageCap)
	}
	return b
}

func (s *Server) toolGetStatus(params map[string]interface{}) (*envelope.Response, error) {
	status := s.engine.Status(context.Background())
	b := envelope.New().Data(status)
	if !status.Healthy {
		b.WarningCode("space-unreachable", status.Detail)
	}
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolGetStory(params map[string]interface{}) (*envelope.Response, error) {
	id, err := requiredIDParam(params, "story_id")
	if err != nil {
		return nil, err
	}
	version := content.Version(stringParam(params, "version", string(content.VersionDraft)))

	story, err := s.engine.GetStory(context.Background(), id, version)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{"story": story.Map()})
	return s.source(b, []string{string(version)}).Build(), nil
}

func (s *Server) toolFetchStories(params map[string]interface{}) (*envelope.Response, error) {
	opts := query.FetchStoriesOptions{
		ContentStatus:  content.ContentStatus(stringParam(params, "content_status", string(content.StatusPublished))),
		StartsWith:     stringParam(params, "starts_with", ""),
		SearchTerm:     stringParam(params, "search_term", ""),
		DeepFilter:     stringMapParam(params, "deep_filter"),
		WithValidation: boolParam(params, "with_validation"),
		SummaryMode:    boolParam(params, "summary_mode"),
		Fields:         stringSliceParam(params, "fields"),
	}

	resp, err := s.engine.FetchStories(context.Background(), opts)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(resp).
		WithPagination(resp.TotalItems, resp.TotalPages, resp.CurrentPage, resp.PerPage)
	flagIncompleteness(b, resp.LimitReached, resp.Degraded)
	return s.source(b, statusVersions(opts.ContentStatus)).Build(), nil
}

func (s *Server) toolSearchContent(params map[string]interface{}) (*envelope.Response, error) {
	q, err := requiredStringParam(params, "query")
	if err != nil {
		return nil, err
	}
	opts := query.SearchContentOptions{
		Query:         q,
		ContentTypes:  stringSliceParam(params, "content_types"),
		SearchFields:  stringSliceParam(params, "search_fields"),
		ContentStatus: content.ContentStatus(stringParam(params, "content_status", string(content.StatusPublished))),
		DeepSearch:    boolParam(params, "deep_search"),
	}

	resp, err := s.engine.SearchContent(context.Background(), opts)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(resp)
	flagIncompleteness(b, resp.LimitReached, resp.Degraded)
	if resp.MatchCount == 0 && !opts.DeepSearch {
		b.SuggestCall("searchContent", map[string]interface{}{
			"query":       q,
			"deep_search": true,
		}, "no matches in string fields; a deep search scans nested component trees")
	}
	return s.source(b, statusVersions(opts.ContentStatus)).Build(), nil
}

func (s *Server) toolFetchStoriesByComponent(params map[string]interface{}) (*envelope.Response, error) {
	name, err := requiredStringParam(params, "component_name")
	if err != nil {
		return nil, err
	}
	status := content.ContentStatus(stringParam(params, "content_status", string(content.StatusBoth)))

	resp, err := s.engine.FetchStoriesByComponent(context.Background(), name, status)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(resp)
	flagIncompleteness(b, resp.Incomplete, resp.Degraded)
	return s.source(b, statusVersions(status)).Build(), nil
}

func (s *Server) toolGetComponentUsage(params map[string]interface{}) (*envelope.Response, error) {
	name, err := requiredStringParam(params, "component_name")
	if err != nil {
		return nil, err
	}

	resp, err := s.engine.GetComponentUsage(context.Background(), name)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(resp)
	flagIncompleteness(b, resp.Incomplete, resp.Degraded)
	return s.source(b, statusVersions(content.StatusBoth)).Build(), nil
}

func (s *Server) toolValidateStoryContent(params map[string]interface{}) (*envelope.Response, error) {
	id, err := requiredIDParam(params, "story_id")
	if err != nil {
		return nil, err
	}
	version := content.Version(stringParam(params, "version", string(content.VersionDraft)))
	opts := query.ValidateStoryOptions{
		StoryID:   id,
		Component: stringParam(params, "component_name", ""),
		Version:   version,
	}

	resp, err := s.engine.ValidateStoryContent(context.Background(), opts)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(resp)
	if !resp.Result.Valid {
		b.SuggestCall("getComponentSchema", map[string]interface{}{
			"component_name": resp.Component,
		}, "inspect the declared fields behind the reported diagnostics")
	}
	return s.source(b, []string{string(version)}).Build(), nil
}

func (s *Server) toolCreateStory(params map[string]interface{}) (*envelope.Response, error) {
	record, ok := mapParam(params, "story")
	if !ok {
		return nil, invalidObjectParam("story")
	}

	story, err := s.engine.CreateStory(context.Background(), record, boolParam(params, "publish"))
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{"story": story.Map()})
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolUpdateStory(params map[string]interface{}) (*envelope.Response, error) {
	id, err := requiredIDParam(params, "story_id")
	if err != nil {
		return nil, err
	}
	record, ok := mapParam(params, "story")
	if !ok {
		return nil, invalidObjectParam("story")
	}

	story, err := s.engine.UpdateStory(context.Background(), id, record, boolParam(params, "publish"))
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{"story": story.Map()})
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolDeleteStory(params map[string]interface{}) (*envelope.Response, error) {
	id, err := requiredIDParam(params, "story_id")
	if err != nil {
		return nil, err
	}
	if err := s.engine.DeleteStory(context.Background(), id); err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{"deleted": true, "story_id": id})
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolPublishStory(params map[string]interface{}) (*envelope.Response, error) {
	id, err := requiredIDParam(params, "story_id")
	if err != nil {
		return nil, err
	}
	if err := s.engine.PublishStory(context.Background(), id); err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{"published": true, "story_id": id})
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolUnpublishStory(params map[string]interface{}) (*envelope.Response, error) {
	id, err := requiredIDParam(params, "story_id")
	if err != nil {
		return nil, err
	}
	if err := s.engine.UnpublishStory(context.Background(), id); err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{"unpublished": true, "story_id": id})
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolListComponents(params map[string]interface{}) (*envelope.Response, error) {
	defs, err := s.engine.ListComponents(context.Background())
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{
		"components": defs,
		"count":      len(defs),
	})
	return s.source(b, nil).Build(), nil
}

func (s *Server) toolGetComponentSchema(params map[string]interface{}) (*envelope.Response, error) {
	name, err := requiredStringParam(params, "component_name")
	if err != nil {
		return nil, err
	}

	schema, err := s.engine.GetComponentSchema(context.Background(), name)
	if err != nil {
		return nil, err
	}
	b := envelope.New().Data(map[string]interface{}{
		"component_name": name,
		"schema":         schema,
	})
	return s.source(b, nil).Build(), nil
}
