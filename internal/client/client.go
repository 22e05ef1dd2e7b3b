// Package client implements the HTTP client for the content repository
// management API: paged story listings, single-story CRUD, publish-state
// transitions, and component schema lookup.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"cqb/internal/content"
	"cqb/internal/errors"
	"cqb/internal/logging"
)

// Config is the immutable identity of one repository space. It is passed
// in explicitly so two clients with different spaces can coexist.
type Config struct {
	BaseURL string
	SpaceID string
	Token   string
	Timeout time.Duration
}

// Client talks to the content repository management API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *logging.Logger
}

// New creates a client. Responses are requested gzip-compressed and
// decoded transparently.
func New(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// pageEnvelope is the wire shape of a paged listing response.
type pageEnvelope struct {
	Stories []content.Story `json:"stories"`
	Total   int             `json:"total"`
	PerPage int             `json:"per_page"`
}

// storyEnvelope is the wire shape of a single-story response.
type storyEnvelope struct {
	Story *content.Story `json:"story"`
}

// componentsEnvelope is the wire shape of the component catalogue.
type componentsEnvelope struct {
	Components []content.ComponentDef `json:"components"`
}

// FetchPage requests one page of stories for a version. Full content is
// always included. extra carries caller filters (starts_with,
// filter_query, search_term) verbatim.
func (c *Client) FetchPage(ctx context.Context, version content.Version, page, perPage int, extra url.Values) (content.Page, error) {
	q := url.Values{}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("version", string(version))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var env pageEnvelope
	op := fmt.Sprintf("fetch stories page %d (%s)", page, version)
	if err := c.do(ctx, http.MethodGet, c.storiesPath(""), q, nil, &env, op); err != nil {
		return content.Page{}, err
	}

	perPageUsed := env.PerPage
	if perPageUsed == 0 {
		perPageUsed = perPage
	}
	return content.Page{Stories: env.Stories, Total: env.Total, PerPage: perPageUsed}, nil
}

// GetStory fetches one story by id. A 404 maps to STORY_NOT_FOUND.
func (c *Client) GetStory(ctx context.Context, id int64, version content.Version) (*content.Story, error) {
	q := url.Values{}
	q.Set("version", string(version))

	var env storyEnvelope
	err := c.do(ctx, http.MethodGet, c.storiesPath(strconv.FormatInt(id, 10)), q, nil, &env, fmt.Sprintf("get story %d", id))
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, errors.NewStoryNotFoundError(id)
		}
		return nil, err
	}
	if env.Story == nil {
		return nil, errors.NewStoryNotFoundError(id)
	}
	return env.Story, nil
}

// CreateStory creates a story from the given record, optionally
// publishing it immediately.
func (c *Client) CreateStory(ctx context.Context, story map[string]interface{}, publish bool) (*content.Story, error) {
	body := map[string]interface{}{"story": story}
	if publish {
		body["publish"] = 1
	}

	var env storyEnvelope
	if err := c.do(ctx, http.MethodPost, c.storiesPath(""), nil, body, &env, "create story"); err != nil {
		return nil, err
	}
	return env.Story, nil
}

// UpdateStory updates an existing story, optionally publishing the
// updated draft.
func (c *Client) UpdateStory(ctx context.Context, id int64, story map[string]interface{}, publish bool) (*content.Story, error) {
	body := map[string]interface{}{"story": story}
	if publish {
		body["publish"] = 1
	}

	var env storyEnvelope
	err := c.do(ctx, http.MethodPut, c.storiesPath(strconv.FormatInt(id, 10)), nil, body, &env, fmt.Sprintf("update story %d", id))
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, errors.NewStoryNotFoundError(id)
		}
		return nil, err
	}
	return env.Story, nil
}

// DeleteStory deletes a story by id.
func (c *Client) DeleteStory(ctx context.Context, id int64) error {
	err := c.do(ctx, http.MethodDelete, c.storiesPath(strconv.FormatInt(id, 10)), nil, nil, nil, fmt.Sprintf("delete story %d", id))
	if err != nil && isStatus(err, http.StatusNotFound) {
		return errors.NewStoryNotFoundError(id)
	}
	return err
}

// PublishStory promotes the story's draft to the published view.
func (c *Client) PublishStory(ctx context.Context, id int64) error {
	path := c.storiesPath(strconv.FormatInt(id, 10)) + "/publish"
	err := c.do(ctx, http.MethodPost, path, nil, nil, nil, fmt.Sprintf("publish story %d", id))
	if err != nil && isStatus(err, http.StatusNotFound) {
		return errors.NewStoryNotFoundError(id)
	}
	return err
}

// UnpublishStory removes the story from the published view; the draft
// remains.
func (c *Client) UnpublishStory(ctx context.Context, id int64) error {
	path := c.storiesPath(strconv.FormatInt(id, 10)) + "/unpublish"
	err := c.do(ctx, http.MethodPost, path, nil, nil, nil, fmt.Sprintf("unpublish story %d", id))
	if err != nil && isStatus(err, http.StatusNotFound) {
		return errors.NewStoryNotFoundError(id)
	}
	return err
}

// ListComponents fetches the space's component catalogue.
func (c *Client) ListComponents(ctx context.Context) ([]content.ComponentDef, error) {
	var env componentsEnvelope
	if err := c.do(ctx, http.MethodGet, c.spacePath("components"), nil, nil, &env, "list components"); err != nil {
		return nil, err
	}
	return env.Components, nil
}

// FetchSchema looks up a component's schema by name. Absence is a valid,
// non-error outcome: (nil, nil). The catalogue is fetched fresh on every
// call so validations always see current definitions.
func (c *Client) FetchSchema(ctx context.Context, componentName string) (content.Schema, error) {
	defs, err := c.ListComponents(ctx)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if def.Name == componentName {
			if def.Schema == nil {
				return content.Schema{}, nil
			}
			return def.Schema, nil
		}
	}
	return nil, nil
}

// Ping verifies credentials and space reachability with a minimal
// listing request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.FetchPage(ctx, content.VersionPublished, 1, 1, nil)
	return err
}

func (c *Client) spacePath(suffix string) string {
	return fmt.Sprintf("%s/spaces/%s/%s", c.cfg.BaseURL, c.cfg.SpaceID, suffix)
}

func (c *Client) storiesPath(id string) string {
	if id == "" {
		return c.spacePath("stories")
	}
	return c.spacePath("stories/" + id)
}

// do performs one request: auth header, JSON body, JSON decode into out
// (skipped when out is nil). Network failures map to
// UPSTREAM_UNAVAILABLE, non-2xx statuses to UPSTREAM_STATUS.
func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, body, out interface{}, op string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.New(errors.InternalError, "cannot encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return errors.NewUpstreamError(op, err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Authorization", c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("repository request", map[string]interface{}{
		"method": method,
		"url":    req.URL.String(),
	})

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewUpstreamError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewUpstreamStatusError(op, resp.StatusCode, string(snippet))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New(errors.InternalError, fmt.Sprintf("cannot decode response for %s", op), err)
	}
	return nil
}

// isStatus reports whether err is an UPSTREAM_STATUS error with the
// given HTTP status.
func isStatus(err error, status int) bool {
	qe, ok := err.(*errors.QueryError)
	if !ok || qe.Code != errors.UpstreamStatus {
		return false
	}
	details, ok := qe.Details.(map[string]interface{})
	if !ok {
		return false
	}
	got, ok := details["status"].(int)
	return ok && got == status
}
