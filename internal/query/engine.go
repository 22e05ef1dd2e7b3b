// Package query implements the multi-version aggregation and content
// query engine: paged fetching per version, draft/published merging, and
// the orchestrated query operations exposed as MCP tools.
package query

import (
	"context"
	"net/url"

	"cqb/internal/content"
	"cqb/internal/errors"
	"cqb/internal/logging"
)

// Repository is the external collaborator contract the engine depends
// on. The production implementation is internal/client; tests substitute
// an in-memory fake.
type Repository interface {
	FetchPage(ctx context.Context, version content.Version, page, perPage int, extra url.Values) (content.Page, error)
	GetStory(ctx context.Context, id int64, version content.Version) (*content.Story, error)
	CreateStory(ctx context.Context, story map[string]interface{}, publish bool) (*content.Story, error)
	UpdateStory(ctx context.Context, id int64, story map[string]interface{}, publish bool) (*content.Story, error)
	DeleteStory(ctx context.Context, id int64) error
	PublishStory(ctx context.Context, id int64) error
	UnpublishStory(ctx context.Context, id int64) error
	ListComponents(ctx context.Context) ([]content.ComponentDef, error)
	FetchSchema(ctx context.Context, componentName string) (content.Schema, error)
	Ping(ctx context.Context) error
}

// Options configures an Engine.
type Options struct {
	Space    string
	PerPage  int // page size for paged fetches, capped at 100 upstream
	MaxPages int // pagination ceiling per version fetch
}

// Engine orchestrates query execution. It holds no state across
// queries: every operation builds its own merged set and discards it.
type Engine struct {
	repo     Repository
	logger   *logging.Logger
	space    string
	perPage  int
	maxPages int
}

// NewEngine creates an engine over the given repository.
func NewEngine(repo Repository, logger *logging.Logger, opts Options) *Engine {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}
	return &Engine{
		repo:     repo,
		logger:   logger,
		space:    opts.Space,
		perPage:  perPage,
		maxPages: maxPages,
	}
}

// Space returns the configured space identity.
func (e *Engine) Space() string {
	return e.space
}

// GetStory fetches a single story in the requested version.
func (e *Engine) GetStory(ctx context.Context, id int64, version content.Version) (*content.Story, error) {
	return e.repo.GetStory(ctx, id, version)
}

// CreateStory creates a story, optionally publishing it immediately.
func (e *Engine) CreateStory(ctx context.Context, story map[string]interface{}, publish bool) (*content.Story, error) {
	if story == nil {
		return nil, errors.NewInvalidParameterError("story", "record is required")
	}
	return e.repo.CreateStory(ctx, story, publish)
}

// UpdateStory updates a story, optionally publishing the result.
func (e *Engine) UpdateStory(ctx context.Context, id int64, story map[string]interface{}, publish bool) (*content.Story, error) {
	if story == nil {
		return nil, errors.NewInvalidParameterError("story", "record is required")
	}
	return e.repo.UpdateStory(ctx, id, story, publish)
}

// DeleteStory deletes a story.
func (e *Engine) DeleteStory(ctx context.Context, id int64) error {
	return e.repo.DeleteStory(ctx, id)
}

// PublishStory promotes a story's draft to the published view.
func (e *Engine) PublishStory(ctx context.Context, id int64) error {
	return e.repo.PublishStory(ctx, id)
}

// UnpublishStory retracts a story from the published view.
func (e *Engine) UnpublishStory(ctx context.Context, id int64) error {
	return e.repo.UnpublishStory(ctx, id)
}

// ListComponents returns the space's component catalogue.
func (e *Engine) ListComponents(ctx context.Context) ([]content.ComponentDef, error) {
	return e.repo.ListComponents(ctx)
}

// GetComponentSchema returns one component's schema definition, or a
// SCHEMA_NOT_FOUND error when the component does not exist.
func (e *Engine) GetComponentSchema(ctx context.Context, componentName string) (content.Schema, error) {
	if componentName == "" {
		return nil, errors.NewInvalidParameterError("component_name", "")
	}
	schema, err := e.repo.FetchSchema(ctx, componentName)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.NewSchemaNotFoundError(componentName)
	}
	return schema, nil
}

// StatusResponse reports space reachability.
type StatusResponse struct {
	Healthy bool   `json:"healthy"`
	Space   string `json:"space"`
	Detail  string `json:"detail,omitempty"`
}

// Status verifies credentials and space reachability.
func (e *Engine) Status(ctx context.Context) StatusResponse {
	if err := e.repo.Ping(ctx); err != nil {
		return StatusResponse{Healthy: false, Space: e.space, Detail: err.Error()}
	}
	return StatusResponse{Healthy: true, Space: e.space}
}
