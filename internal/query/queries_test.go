package query

import (
	"context"
	"testing"

	"cqb/internal/content"
	"cqb/internal/errors"
)

func TestGetComponentUsageEndToEnd(t *testing.T) {
	// draft has story 1 (hero), published has stories 1 (hero) and 2
	// (footer): the merged set is two stories, one using hero.
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionDraft: {{
				Stories: []content.Story{mkStory(1, "home", component("hero", nil))},
				Total:   1, PerPage: 100,
			}},
			content.VersionPublished: {{
				Stories: []content.Story{
					mkStory(1, "home", component("hero", nil)),
					mkStory(2, "imprint", component("footer", nil)),
				},
				Total: 2, PerPage: 100,
			}},
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	resp, err := e.GetComponentUsage(context.Background(), "hero")
	if err != nil {
		t.Fatal(err)
	}
	if resp.UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1", resp.UsageCount)
	}
	if resp.StoriesAnalyzedCount != 2 {
		t.Errorf("StoriesAnalyzedCount = %d, want 2", resp.StoriesAnalyzedCount)
	}
	if len(resp.Stories) != 1 || resp.Stories[0].ID != 1 {
		t.Errorf("Stories = %+v, want only id 1", resp.Stories)
	}
	if resp.Incomplete {
		t.Error("Incomplete = true for a fully drained fetch")
	}
}

func TestGetComponentUsageFindsNestedInstances(t *testing.T) {
	tree := component("page", map[string]interface{}{
		"body": []interface{}{
			component("grid", map[string]interface{}{
				"columns": []interface{}{component("hero", nil)},
			}),
		},
	})
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionDraft:     singlePage([]content.Story{mkStory(1, "p", tree)}),
			content.VersionPublished: singlePage(nil),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	resp, err := e.GetComponentUsage(context.Background(), "hero")
	if err != nil {
		t.Fatal(err)
	}
	if resp.UsageCount != 1 {
		t.Errorf("nested component instance not detected: %+v", resp)
	}
}

func TestSearchContentDirectAndDeep(t *testing.T) {
	stories := []content.Story{
		mkStory(1, "welcome-page", component("page", nil)),
		mkStory(2, "other", component("page", map[string]interface{}{
			"body": []interface{}{
				component("text", map[string]interface{}{"text": "Say Hello to everyone"}),
			},
		})),
		mkStory(3, "plain", component("page", nil)),
	}
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage(stories),
		},
	}
	e := newTestEngine(t, repo, 100, 10)
	ctx := context.Background()

	// Shallow search hits the name field only.
	resp, err := e.SearchContent(ctx, SearchContentOptions{Query: "WELCOME"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.MatchCount != 1 {
		t.Fatalf("shallow MatchCount = %d, want 1", resp.MatchCount)
	}
	if resp.Matches[0].MatchedFields[0] != "name" {
		t.Errorf("MatchedFields = %v, want [name]", resp.Matches[0].MatchedFields)
	}

	// Deep search also finds the string buried in the content tree.
	resp, err = e.SearchContent(ctx, SearchContentOptions{Query: "hello", DeepSearch: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.MatchCount != 1 {
		t.Fatalf("deep MatchCount = %d, want 1", resp.MatchCount)
	}
	if resp.Matches[0].Story["id"] != int64(2) {
		t.Errorf("deep match story = %v, want id 2", resp.Matches[0].Story["id"])
	}
	if resp.StoriesScanned != 3 {
		t.Errorf("StoriesScanned = %d, want 3", resp.StoriesScanned)
	}
}

func TestSearchContentSingleTypePushedUpstream(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage(nil),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	_, err := e.SearchContent(context.Background(), SearchContentOptions{
		Query:        "x",
		ContentTypes: []string{"article"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := repo.extras().Get("filter_query[component][in]"); got != "article" {
		t.Errorf("single-type filter not pushed upstream, extras = %v", repo.extras())
	}
}

func TestSearchContentMultiTypeFiltersClientSide(t *testing.T) {
	stories := []content.Story{
		mkStory(1, "match-a", component("article", nil)),
		mkStory(2, "match-b", component("news", nil)),
		mkStory(3, "match-c", component("page", nil)),
	}
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage(stories),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	resp, err := e.SearchContent(context.Background(), SearchContentOptions{
		Query:        "match",
		ContentTypes: []string{"article", "news"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if repo.extras().Get("filter_query[component][in]") != "" {
		t.Error("multi-type request must not push a single-type filter upstream")
	}
	if resp.MatchCount != 2 {
		t.Errorf("MatchCount = %d, want 2 (page type excluded)", resp.MatchCount)
	}
	if resp.StoriesScanned != 2 {
		t.Errorf("StoriesScanned = %d, want 2", resp.StoriesScanned)
	}
}

func TestSearchContentRequiresQuery(t *testing.T) {
	e := newTestEngine(t, &fakeRepo{}, 100, 10)
	_, err := e.SearchContent(context.Background(), SearchContentOptions{})
	if errors.CodeOf(err) != errors.InvalidParameter {
		t.Errorf("error code = %q, want INVALID_PARAMETER", errors.CodeOf(err))
	}
}

func TestFetchStoriesDeepFilter(t *testing.T) {
	stories := []content.Story{
		mkStory(1, "a", component("page", map[string]interface{}{"rating": float64(5)})),
		mkStory(2, "b", component("page", map[string]interface{}{"rating": float64(3)})),
		mkStory(3, "c", component("page", nil)),
	}
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage(stories),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	// Stringified comparison: numeric 5 matches the string "5".
	resp, err := e.FetchStories(context.Background(), FetchStoriesOptions{
		DeepFilter: map[string]string{"content.rating": "5"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Stories[0].Story["id"] != int64(1) {
		t.Errorf("deep filter matched %d stories, want just id 1", resp.Count)
	}

	// An unresolved path never matches.
	resp, err = e.FetchStories(context.Background(), FetchStoriesOptions{
		DeepFilter: map[string]string{"content.absent": "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 {
		t.Errorf("unresolved filter path matched %d stories, want 0", resp.Count)
	}
}

func TestFetchStoriesProjectionPrecedence(t *testing.T) {
	stories := []content.Story{
		mkStory(1, "a", component("page", map[string]interface{}{"title": "T"})),
	}
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage(stories),
		},
	}
	e := newTestEngine(t, repo, 100, 10)
	ctx := context.Background()

	// Summary mode alone applies the preset.
	resp, err := e.FetchStories(ctx, FetchStoriesOptions{SummaryMode: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := content.GetPath(resp.Stories[0].Story, "content.title"); ok {
		t.Error("summary projection kept a non-summary path")
	}
	if _, ok := content.GetPath(resp.Stories[0].Story, "content.component"); !ok {
		t.Error("summary projection lost content.component")
	}

	// Explicit fields win entirely; summary paths are not mixed in.
	resp, err = e.FetchStories(ctx, FetchStoriesOptions{
		SummaryMode: true,
		Fields:      []string{"content.title"},
	})
	if err != nil {
		t.Fatal(err)
	}
	story := resp.Stories[0].Story
	if v, _ := content.GetPath(story, "content.title"); v != "T" {
		t.Errorf("explicit field missing: %v", story)
	}
	if _, ok := story["name"]; ok {
		t.Error("summary path leaked despite explicit fields")
	}
}

func TestFetchStoriesValidationAnnotation(t *testing.T) {
	stories := []content.Story{
		mkStory(1, "a", component("hero", map[string]interface{}{"extra": "x"})),
		mkStory(2, "b", component("mystery", nil)),
	}
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage(stories),
		},
		defs: []content.ComponentDef{
			{Name: "hero", Schema: content.Schema{"title": {Required: true}}},
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	resp, err := e.FetchStories(context.Background(), FetchStoriesOptions{WithValidation: true})
	if err != nil {
		t.Fatal(err)
	}

	hero := resp.Stories[0].Validation
	if hero == nil || !hero.SchemaFound {
		t.Fatalf("hero annotation = %+v, want schema found", hero)
	}
	if hero.Result.Valid {
		t.Error("hero should fail validation (missing title, extraneous extra)")
	}

	mystery := resp.Stories[1].Validation
	if mystery == nil || mystery.SchemaFound {
		t.Errorf("mystery annotation = %+v, want schema_found false, not a failing result", mystery)
	}
}

func TestFetchStoriesPaginationMeta(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: {{
				Stories: []content.Story{mkStory(1, "a", nil), mkStory(2, "b", nil)},
				Total:   25, PerPage: 2,
			}},
		},
	}
	e := newTestEngine(t, repo, 2, 1)

	resp, err := e.FetchStories(context.Background(), FetchStoriesOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalItems != 25 || resp.TotalPages != 13 || resp.PerPage != 2 {
		t.Errorf("meta = %+v, want totalItems 25, totalPages 13, perPage 2", resp)
	}
	if !resp.LimitReached {
		t.Error("LimitReached = false with maxPages 1 and total 25")
	}
}

func TestValidateStoryContent(t *testing.T) {
	repo := &fakeRepo{
		stories: map[int64]*content.Story{
			5: {ID: 5, Name: "a", Content: component("hero", map[string]interface{}{"title": "x"})},
			6: {ID: 6, Name: "b", Content: component("ghost", nil)},
		},
		defs: []content.ComponentDef{
			{Name: "hero", Schema: content.Schema{
				"title":    {Required: true},
				"subtitle": {Required: true},
			}},
		},
	}
	e := newTestEngine(t, repo, 100, 10)
	ctx := context.Background()

	resp, err := e.ValidateStoryContent(ctx, ValidateStoryOptions{StoryID: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Component != "hero" {
		t.Errorf("component defaulted to %q, want root tag hero", resp.Component)
	}
	if resp.Result.Valid {
		t.Error("validation should fail: subtitle missing")
	}
	if len(resp.Result.MissingFields) != 1 || resp.Result.MissingFields[0] != "subtitle" {
		t.Errorf("MissingFields = %v, want [subtitle]", resp.Result.MissingFields)
	}

	// Missing schema is a distinct structured condition.
	_, err = e.ValidateStoryContent(ctx, ValidateStoryOptions{StoryID: 6})
	if errors.CodeOf(err) != errors.SchemaNotFound {
		t.Errorf("error code = %q, want SCHEMA_NOT_FOUND", errors.CodeOf(err))
	}
}

func TestGetComponentSchema(t *testing.T) {
	repo := &fakeRepo{
		defs: []content.ComponentDef{
			{Name: "hero", Schema: content.Schema{"title": {Required: true}}},
		},
	}
	e := newTestEngine(t, repo, 100, 10)
	ctx := context.Background()

	schema, err := e.GetComponentSchema(ctx, "hero")
	if err != nil || !schema["title"].Required {
		t.Errorf("GetComponentSchema(hero) = %v, %v", schema, err)
	}

	_, err = e.GetComponentSchema(ctx, "ghost")
	if errors.CodeOf(err) != errors.SchemaNotFound {
		t.Errorf("error code = %q, want SCHEMA_NOT_FOUND", errors.CodeOf(err))
	}
}

func TestFetchStoriesByComponent(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionDraft: singlePage([]content.Story{
				mkStory(1, "uses", component("page", map[string]interface{}{
					"body": []interface{}{component("hero", nil)},
				})),
				mkStory(2, "plain", component("page", nil)),
			}),
			content.VersionPublished: singlePage(nil),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	resp, err := e.FetchStoriesByComponent(context.Background(), "hero", "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Stories[0]["id"] != int64(1) {
		t.Errorf("Stories = %+v, want only id 1", resp.Stories)
	}
}
