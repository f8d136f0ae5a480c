package parsing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/committee-minutes/internal/types"
)

// DefaultBatchLimit caps how many documents ParseBatch converts at once.
const DefaultBatchLimit = 4

// BatchResult is the outcome for one document of a batch.
type BatchResult struct {
	Parsed *types.ParsedMeetingData
	Err    error
}

// ParseBatch parses several documents with at most limit in flight. Results
// keep the input order. A failure is recorded on its own entry and does not
// stop the others; documents not started before ctx is done get ctx.Err().
func (p *Parser) ParseBatch(ctx context.Context, raws []types.RawDocument, limit int) []BatchResult {
	if limit < 1 {
		limit = DefaultBatchLimit
	}
	results := make([]BatchResult, len(raws))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Parsed, results[i].Err = p.Parse(raw)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Debug("parsed batch", "documents", len(raws), "failed", failed, "limit", limit)
	return results
}
