package matcher

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/rulex"
)

// Result is the outcome of matching a single candidate.
type Result struct {
	Candidate string

	// Err is nil if candidate matches, *rulex.Error otherwise.
	Err error
}

// Matched reports whether candidate matches.
func (r Result) Matched() bool {
	return r.Err == nil
}

// MatchAll matches every candidate against the rule with start id, candidates are matched independently
// by a pool of goroutines (see WithWorkers). Results are returned in the order of candidates.
// A failed candidate, including a missing rule, never affects other candidates;
// the only error returned is ctx.Err() when ctx is done before all candidates are matched.
func (m *Matcher) MatchAll(ctx context.Context, start int, candidates []string) ([]Result, error) {
	results := make([]Result, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i, candidate := range candidates {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if e := gctx.Err(); e != nil {
				return e
			}

			e := m.Match(start, candidate)
			results[i] = Result{candidate, e}
			if e != nil && rulex.ErrorCode(e) != NoMatchError {
				m.logger.Warn("grammar cannot be evaluated",
					zap.Int("candidate", i),
					zap.Int("start", start),
					zap.Error(e),
				)
			}
			return nil
		})
	}

	e := g.Wait()
	if e == nil {
		e = ctx.Err()
	}
	if e != nil {
		return nil, e
	}

	m.logger.Debug("candidates matched",
		zap.Int("start", start),
		zap.Int("total", len(results)),
		zap.Int("matched", Count(results)),
	)
	return results, nil
}

// Count returns the number of matched candidates.
func Count(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Matched() {
			count++
		}
	}
	return count
}
