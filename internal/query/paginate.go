package query

import (
	"context"
	"net/url"

	"cqb/internal/content"
)

// fetchResult is the outcome of draining one version's page sequence.
// Partial data and its degradation flags travel together so callers can
// report incompleteness instead of silently truncating.
type fetchResult struct {
	Stories []content.Story
	// Total is the origin-reported record count for the version.
	Total int
	// LimitReached is set when the page cap stopped the loop while more
	// records were believed to remain.
	LimitReached bool
	// Degraded is set when a mid-sequence page failure ended the loop
	// with partial results.
	Degraded bool
}

// fetchAllPages drains one version's paged listing. Pages are requested
// sequentially: the stop condition depends on the prior page's result.
// It advances only while the accumulated count is below the reported
// total and the last page came back full. A failure on the first page is
// a hard error; later failures keep what was gathered and mark the
// result degraded. There are no retries: one failed page means no more
// pages for that version.
func (e *Engine) fetchAllPages(ctx context.Context, version content.Version, extra url.Values) (fetchResult, error) {
	var res fetchResult

	for page := 1; page <= e.maxPages; page++ {
		p, err := e.repo.FetchPage(ctx, version, page, e.perPage, extra)
		if err != nil {
			if page == 1 {
				return fetchResult{}, err
			}
			e.logger.Warn("page fetch failed, keeping partial results", map[string]interface{}{
				"version": version,
				"page":    page,
				"error":   err.Error(),
			})
			res.Degraded = true
			return res, nil
		}

		res.Total = p.Total
		res.Stories = append(res.Stories, p.Stories...)

		if len(p.Stories) < e.perPage || len(res.Stories) >= p.Total {
			return res, nil
		}
	}

	if len(res.Stories) < res.Total {
		res.LimitReached = true
		e.logger.Warn("pagination stopped at page cap", map[string]interface{}{
			"version":  version,
			"maxPages": e.maxPages,
			"fetched":  len(res.Stories),
			"total":    res.Total,
		})
	}
	return res, nil
}
