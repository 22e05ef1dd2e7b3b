package query

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"cqb/internal/content"
	"cqb/internal/logging"
)

// fakeRepo is an in-memory Repository for engine tests. Page sequences
// are configured per version; fetchFn overrides the paging behavior
// entirely for synthetic scenarios.
type fakeRepo struct {
	pages   map[content.Version][]content.Page
	failAt  map[content.Version]int // page number that errors
	fetchFn func(version content.Version, page, perPage int) (content.Page, error)

	stories map[int64]*content.Story
	defs    []content.ComponentDef

	// mu guards the recording fields: a "both"-status merge fetches the
	// two versions from concurrent goroutines.
	mu         sync.Mutex
	pageCalls  []string
	lastExtras url.Values
}

func (f *fakeRepo) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.pageCalls...)
}

func (f *fakeRepo) extras() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastExtras
}

func (f *fakeRepo) FetchPage(_ context.Context, version content.Version, page, perPage int, extra url.Values) (content.Page, error) {
	f.mu.Lock()
	f.pageCalls = append(f.pageCalls, fmt.Sprintf("%s:%d", version, page))
	f.lastExtras = extra
	f.mu.Unlock()

	if f.failAt != nil && f.failAt[version] == page {
		return content.Page{}, fmt.Errorf("synthetic failure on %s page %d", version, page)
	}
	if f.fetchFn != nil {
		return f.fetchFn(version, page, perPage)
	}

	seq := f.pages[version]
	if page > len(seq) {
		return content.Page{Total: f.totalFor(version), PerPage: perPage}, nil
	}
	return seq[page-1], nil
}

func (f *fakeRepo) totalFor(version content.Version) int {
	if seq := f.pages[version]; len(seq) > 0 {
		return seq[0].Total
	}
	return 0
}

func (f *fakeRepo) GetStory(_ context.Context, id int64, _ content.Version) (*content.Story, error) {
	story, ok := f.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %d not found", id)
	}
	return story, nil
}

func (f *fakeRepo) CreateStory(_ context.Context, story map[string]interface{}, _ bool) (*content.Story, error) {
	return &content.Story{ID: 1000, Name: fmt.Sprint(story["name"])}, nil
}

func (f *fakeRepo) UpdateStory(_ context.Context, id int64, story map[string]interface{}, _ bool) (*content.Story, error) {
	return &content.Story{ID: id, Name: fmt.Sprint(story["name"])}, nil
}

func (f *fakeRepo) DeleteStory(context.Context, int64) error    { return nil }
func (f *fakeRepo) PublishStory(context.Context, int64) error   { return nil }
func (f *fakeRepo) UnpublishStory(context.Context, int64) error { return nil }

func (f *fakeRepo) ListComponents(context.Context) ([]content.ComponentDef, error) {
	return f.defs, nil
}

func (f *fakeRepo) FetchSchema(_ context.Context, name string) (content.Schema, error) {
	for _, def := range f.defs {
		if def.Name == name {
			if def.Schema == nil {
				return content.Schema{}, nil
			}
			return def.Schema, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Ping(context.Context) error { return nil }

func newTestEngine(t *testing.T, repo *fakeRepo, perPage, maxPages int) *Engine {
	t.Helper()
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Format: logging.HumanFormat})
	return NewEngine(repo, logger, Options{Space: "test-space", PerPage: perPage, MaxPages: maxPages})
}

func mkStory(id int64, name string, tree map[string]interface{}) content.Story {
	return content.Story{
		ID:       id,
		Name:     name,
		Slug:     name,
		FullSlug: "site/" + name,
		Content:  tree,
	}
}

func component(name string, fields map[string]interface{}) map[string]interface{} {
	tree := map[string]interface{}{content.ComponentTagField: name}
	for k, v := range fields {
		tree[k] = v
	}
	return tree
}

func storyIDs(stories []content.Story) []int64 {
	ids := make([]int64, len(stories))
	for i, s := range stories {
		ids[i] = s.ID
	}
	return ids
}
