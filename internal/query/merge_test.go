package query

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"cqb/internal/content"
	"cqb/internal/errors"
)

func singlePage(stories []content.Story) []content.Page {
	return []content.Page{{Stories: stories, Total: len(stories), PerPage: 100}}
}

func TestMergeDraftWins(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage([]content.Story{
				mkStory(1, "home", component("a", nil)),
			}),
			content.VersionDraft: singlePage([]content.Story{
				mkStory(1, "home", component("b", nil)),
			}),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	res, err := e.mergeVersions(context.Background(), content.StatusBoth, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Stories) != 1 {
		t.Fatalf("merged count = %d, want 1", len(res.Stories))
	}
	if got := res.Stories[0].ComponentType(); got != "b" {
		t.Errorf("content.component = %q, want draft's %q", got, "b")
	}
}

func TestMergeOrderPreservation(t *testing.T) {
	// Published inserts first; a draft overwrite keeps the original
	// position, draft-only entries append.
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage([]content.Story{
				mkStory(1, "one", nil),
				mkStory(2, "two", component("old", nil)),
			}),
			content.VersionDraft: singlePage([]content.Story{
				mkStory(2, "two", component("new", nil)),
				mkStory(3, "three", nil),
			}),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	res, err := e.mergeVersions(context.Background(), content.StatusBoth, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := storyIDs(res.Stories), []int64{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if res.Stories[1].ComponentType() != "new" {
		t.Errorf("overwritten entry did not take draft content")
	}
}

func TestMergeTotalFromDraft(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: {{Stories: []content.Story{mkStory(1, "a", nil)}, Total: 7, PerPage: 100}},
			content.VersionDraft:     {{Stories: []content.Story{mkStory(2, "b", nil)}, Total: 3, PerPage: 100}},
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	res, err := e.mergeVersions(context.Background(), content.StatusBoth, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFromAPI != 3 {
		t.Errorf("TotalFromAPI = %d, want draft total 3", res.TotalFromAPI)
	}
}

func TestMergeSingleVersionFetchesOnce(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage([]content.Story{mkStory(1, "a", nil)}),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	res, err := e.mergeVersions(context.Background(), content.StatusPublished, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Stories) != 1 {
		t.Errorf("stories = %d, want 1", len(res.Stories))
	}
	for _, call := range repo.calls() {
		if strings.HasPrefix(call, "draft") {
			t.Errorf("draft fetched for published-only query: %v", repo.calls())
		}
	}
}

func TestMergeInvalidStatus(t *testing.T) {
	e := newTestEngine(t, &fakeRepo{}, 100, 10)
	_, err := e.mergeVersions(context.Background(), content.ContentStatus("everything"), nil)
	if errors.CodeOf(err) != errors.InvalidParameter {
		t.Errorf("error code = %q, want INVALID_PARAMETER", errors.CodeOf(err))
	}
}

func TestMergeLimitReachedIsGlobal(t *testing.T) {
	// Draft hits the page cap; published drains fully. The merged flag
	// must still be set.
	repo := &fakeRepo{
		fetchFn: func(version content.Version, page, perPage int) (content.Page, error) {
			if version == content.VersionPublished {
				return content.Page{Stories: []content.Story{mkStory(1, "a", nil)}, Total: 1, PerPage: perPage}, nil
			}
			stories := make([]content.Story, perPage)
			for i := range stories {
				stories[i] = mkStory(int64(1000+page*10+i), "d", nil)
			}
			return content.Page{Stories: stories, Total: 100, PerPage: perPage}, nil
		},
	}
	e := newTestEngine(t, repo, 2, 3)

	res, err := e.mergeVersions(context.Background(), content.StatusBoth, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.LimitReached {
		t.Error("LimitReached = false, want true when either version is capped")
	}
}

func TestMergeBothHardFailure(t *testing.T) {
	repo := &fakeRepo{
		failAt: map[content.Version]int{content.VersionDraft: 1},
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage([]content.Story{mkStory(1, "a", nil)}),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	if _, err := e.mergeVersions(context.Background(), content.StatusBoth, nil); err == nil {
		t.Fatal("first-page failure on one version should fail the both-query")
	}
}

func TestMergeBothFetchesBothVersionsConcurrently(t *testing.T) {
	repo := &fakeRepo{
		pages: map[content.Version][]content.Page{
			content.VersionPublished: singlePage([]content.Story{mkStory(1, "a", nil)}),
			content.VersionDraft:     singlePage([]content.Story{mkStory(2, "b", nil)}),
		},
	}
	e := newTestEngine(t, repo, 100, 10)

	if _, err := e.mergeVersions(context.Background(), content.StatusBoth, nil); err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	for _, call := range repo.calls() {
		seen[strings.SplitN(call, ":", 2)[0]]++
	}
	if seen["published"] != 1 || seen["draft"] != 1 {
		t.Errorf("fetches per version = %v, want one each", seen)
	}
}
