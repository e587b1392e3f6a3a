// Package engine orchestrates state content generation: cache check,
// demographic lookup, web research, drafting, validation, and cache write.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/cache"
	"github.com/counselpath/stategen/internal/config"
	"github.com/counselpath/stategen/internal/cost"
	"github.com/counselpath/stategen/internal/draft"
	"github.com/counselpath/stategen/internal/model"
	"github.com/counselpath/stategen/internal/research"
	"github.com/counselpath/stategen/internal/validate"
	"github.com/counselpath/stategen/pkg/census"
)

// maxSources bounds the provenance list returned with each generation.
const maxSources = 5

// Engine generates validated directory content for one state at a time.
type Engine struct {
	collector *research.Collector
	extractor *research.Extractor
	drafter   *draft.Drafter
	validator *validate.Validator
	cache     *cache.Cache
	census    census.Client
	rules     *baseline.Config
	calc      *cost.Calculator

	model     string
	maxTokens int64
	budgetUSD float64
}

// Params collects the engine's collaborators.
type Params struct {
	Collector *research.Collector
	Extractor *research.Extractor
	Drafter   *draft.Drafter
	Validator *validate.Validator
	Cache     *cache.Cache
	Census    census.Client
	Rules     *baseline.Config
	Calc      *cost.Calculator
	Anthropic config.AnthropicConfig
	Cost      config.CostConfig
}

// New creates an engine.
func New(p Params) *Engine {
	return &Engine{
		collector: p.Collector,
		extractor: p.Extractor,
		drafter:   p.Drafter,
		validator: p.Validator,
		cache:     p.Cache,
		census:    p.Census,
		rules:     p.Rules,
		calc:      p.Calc,
		model:     p.Anthropic.Model,
		maxTokens: p.Anthropic.MaxTokens,
		budgetUSD: p.Cost.BudgetUSD,
	}
}

// Generate produces the content payload for a state. force skips the cache
// read but still writes the fresh result back. Search and census failures
// degrade; only bad requests, budget refusals, and completion failures
// return an error.
func (e *Engine) Generate(ctx context.Context, req model.StateContentRequest, force bool) (*model.GenerationResult, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingFields, "missing: %s", strings.Join(missing, ", "))
	}

	if !force {
		if cached := e.cache.Lookup(ctx, req.State); cached != nil {
			zap.L().Info("serving cached content",
				zap.String("state", req.State),
				zap.String("version", e.cache.Version()))
			cached.FromCache = true
			return cached, nil
		}
	}

	start := time.Now()
	zap.L().Info("generating state content",
		zap.String("state", req.State),
		zap.Bool("force", force))

	stateData, err := e.census.StateData(ctx, req.StateName)
	if err != nil {
		zap.L().Warn("census lookup failed, using estimates",
			zap.String("state", req.State), zap.Error(err))
		stateData = census.Fallback()
	}

	countyDomain := e.rules.Domains.CountyDomain(req.StateName)
	queries := research.BuildQueries(req.StateName, countyDomain)
	results, err := e.collector.Collect(ctx, queries)
	if err != nil {
		return nil, eris.Wrap(err, "engine: research cancelled")
	}

	evidence := e.extractor.Extract(results)
	sources := collectSources(evidence)

	// Fallback guidance shapes the drafter prompt only. The validator always
	// sees the real evidence, so with no research every unverifiable claim
	// still reduces to its generic fallback.
	promptEvidence := evidence
	if len(evidence) == 0 {
		zap.L().Warn("no usable research evidence, using fallback guidance",
			zap.String("state", req.State))
		promptEvidence = research.FallbackEvidence(req.StateName)
	}

	if e.budgetUSD > 0 {
		promptLen := e.drafter.PromptLength(req, stateData, promptEvidence)
		if estimate := e.calc.EstimateDraft(e.model, promptLen, e.maxTokens); estimate > e.budgetUSD {
			return nil, eris.Wrapf(ErrBudgetExceeded, "estimated $%.4f over budget $%.2f", estimate, e.budgetUSD)
		}
	}

	content, usage, err := e.drafter.Draft(ctx, req, stateData, promptEvidence)
	if err != nil {
		if eris.Is(err, draft.ErrUnparsable) {
			return nil, err
		}
		return nil, eris.Wrapf(ErrUpstream, "%v", err)
	}

	validated, concerns := e.validator.Validate(content, evidence, req.StateName)

	tokens := 0
	if usage != nil {
		tokens = usage.TotalTokens()
	}

	result := &model.GenerationResult{
		GenerationID:         uuid.NewString(),
		Title:                fmt.Sprintf("Premarital Counseling in %s", req.StateName),
		ValidatedContent:     *validated,
		GenerationCostTokens: tokens,
		APIProvider:          "anthropic-" + e.model,
		WebResearchUsed:      len(sources) > 0,
		Sources:              sources,
		GeneratedAt:          time.Now().UTC(),
	}

	e.cache.Save(ctx, req.State, result)

	zap.L().Info("state content generated",
		zap.String("state", req.State),
		zap.String("generation_id", result.GenerationID),
		zap.Int("evidence_records", len(evidence)),
		zap.Int("sources", len(sources)),
		zap.Int("softened_claims", len(concerns)),
		zap.Int("tokens", tokens),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// collectSources surfaces the evidence provenance: titled, linked records
// only, deduplicated by URL, capped.
func collectSources(evidence []model.EvidenceRecord) []model.Source {
	seen := map[string]bool{}
	var sources []model.Source
	for _, record := range evidence {
		if record.SourceURL == "" || seen[record.SourceURL] {
			continue
		}
		seen[record.SourceURL] = true
		sources = append(sources, model.Source{
			Title: record.SourceTitle,
			URL:   record.SourceURL,
		})
		if len(sources) == maxSources {
			break
		}
	}
	return sources
}
