package research

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/counselpath/stategen/internal/config"
	"github.com/counselpath/stategen/pkg/jina"
)

// Collector executes the research plan sequentially against Jina Search.
// Individual query failures are soft: they are logged and skipped, and the
// collector keeps whatever the remaining queries return. The whole phase runs
// under a deadline; when it expires the partial result set is returned.
type Collector struct {
	search  jina.Client
	cfg     config.ResearchConfig
	limiter *rate.Limiter
}

// NewCollector creates a collector. The limiter paces queries so that batch
// runs across many states do not trip Jina's rate limits; pass nil to build
// one from the config.
func NewCollector(search jina.Client, cfg config.ResearchConfig, limiter *rate.Limiter) *Collector {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), 1)
	}
	return &Collector{
		search:  search,
		cfg:     cfg,
		limiter: limiter,
	}
}

// Collect runs every query in the plan and returns the flattened results.
// The error return is reserved for caller cancellation; search failures and
// phase timeouts degrade to a shorter (possibly empty) result list.
func (c *Collector) Collect(ctx context.Context, queries []Query) ([]jina.SearchResult, error) {
	phaseCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.PhaseTimeoutSecs)*time.Second)
	defer cancel()

	var results []jina.SearchResult
	for _, q := range queries {
		if err := c.limiter.Wait(phaseCtx); err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			zap.L().Warn("research phase deadline reached, returning partial results",
				zap.Int("results", len(results)))
			return results, nil
		}

		timeout := time.Duration(c.cfg.GeneralQueryTimeoutSecs) * time.Second
		if q.Government {
			timeout = time.Duration(c.cfg.GovQueryTimeoutSecs) * time.Second
		}
		queryCtx, queryCancel := context.WithTimeout(phaseCtx, timeout)
		resp, err := c.search.Search(queryCtx, q.Text, jina.WithResultCount(c.cfg.ResultsPerQuery))
		queryCancel()

		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			if phaseCtx.Err() != nil {
				zap.L().Warn("research phase deadline reached, returning partial results",
					zap.Int("results", len(results)))
				return results, nil
			}
			zap.L().Warn("search query failed, continuing",
				zap.String("query", q.Text),
				zap.Bool("government", q.Government),
				zap.Error(err))
			continue
		}

		results = append(results, resp.Data...)
	}

	zap.L().Debug("research phase complete",
		zap.Int("queries", len(queries)),
		zap.Int("results", len(results)))
	return results, nil
}
