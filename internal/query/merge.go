package query

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"cqb/internal/content"
	"cqb/internal/errors"
)

// mergeResult is one query's merged record set.
type mergeResult struct {
	Stories []content.Story
	// TotalFromAPI is the origin-reported total used for pagination
	// metadata. For "both" it is the draft total: draft is treated as
	// the authoritative count.
	TotalFromAPI int
	// LimitReached is the global incompleteness flag: set when either
	// version's fetch loop hit the page cap. A capped draft loop marks
	// the whole query incomplete even when published drained fully —
	// the flag's consumer is an "incomplete results" warning, where a
	// false positive is the cheaper mistake.
	LimitReached bool
	Degraded     bool
}

// mergeVersions fetches the versions selected by status and merges them
// by story id. For "both" the draft and published page sequences run
// concurrently; arrival order is irrelevant because the merge inserts
// published first and lets draft overwrite, so draft wins regardless of
// which fetch finished first. Overwritten entries keep their original
// position; draft-only entries append at the end.
func (e *Engine) mergeVersions(ctx context.Context, status content.ContentStatus, extra url.Values) (mergeResult, error) {
	if !status.Valid() {
		return mergeResult{}, errors.NewInvalidParameterError("content_status",
			string(status)+" (valid: draft, published, both)")
	}

	if status != content.StatusBoth {
		version := content.VersionPublished
		if status == content.StatusDraft {
			version = content.VersionDraft
		}
		res, err := e.fetchAllPages(ctx, version, extra)
		if err != nil {
			return mergeResult{}, err
		}
		return mergeResult{
			Stories:      res.Stories,
			TotalFromAPI: res.Total,
			LimitReached: res.LimitReached,
			Degraded:     res.Degraded,
		}, nil
	}

	var published, draft fetchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		published, err = e.fetchAllPages(gctx, content.VersionPublished, extra)
		return err
	})
	g.Go(func() error {
		var err error
		draft, err = e.fetchAllPages(gctx, content.VersionDraft, extra)
		return err
	})
	if err := g.Wait(); err != nil {
		return mergeResult{}, err
	}

	merged := make([]content.Story, 0, len(published.Stories)+len(draft.Stories))
	position := make(map[int64]int, len(published.Stories))
	for _, story := range published.Stories {
		position[story.ID] = len(merged)
		merged = append(merged, story)
	}
	for _, story := range draft.Stories {
		if at, seen := position[story.ID]; seen {
			merged[at] = story
			continue
		}
		position[story.ID] = len(merged)
		merged = append(merged, story)
	}

	e.logger.Debug("merged versions", map[string]interface{}{
		"published": len(published.Stories),
		"draft":     len(draft.Stories),
		"merged":    len(merged),
	})

	return mergeResult{
		Stories:      merged,
		TotalFromAPI: draft.Total,
		LimitReached: published.LimitReached || draft.LimitReached,
		Degraded:     published.Degraded || draft.Degraded,
	}, nil
}

// totalPages derives page count metadata from an origin total.
func totalPages(totalItems, perPage int) int {
	if perPage <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + perPage - 1) / perPage
}
