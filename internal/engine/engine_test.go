package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/cache"
	"github.com/counselpath/stategen/internal/config"
	"github.com/counselpath/stategen/internal/cost"
	"github.com/counselpath/stategen/internal/draft"
	"github.com/counselpath/stategen/internal/model"
	"github.com/counselpath/stategen/internal/research"
	"github.com/counselpath/stategen/internal/validate"
	"github.com/counselpath/stategen/pkg/anthropic"
	"github.com/counselpath/stategen/pkg/jina"
)

type fakeSearch struct {
	results []jina.SearchResult
	err     error
	calls   int
}

func (f *fakeSearch) Search(ctx context.Context, query string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &jina.SearchResponse{Code: 200, Data: f.results}, nil
}

type fakeCompletion struct {
	text string
	err  error
}

func (f *fakeCompletion) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
		Usage:   anthropic.TokenUsage{InputTokens: 800, OutputTokens: 400},
	}, nil
}

type fakeCensus struct {
	data *model.StateData
	err  error
}

func (f *fakeCensus) StateData(ctx context.Context, stateName string) (*model.StateData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

const goodDraftJSON = `{
	"description": "Premarital counseling across Ohio",
	"h1": "Premarital Counseling in Ohio",
	"intro": "Couples in Ohio have many options.",
	"stateOverview": {"benefits": "Stronger start", "uniqueAspects": "Wide provider network"},
	"marriageStats": {"trends": "Steady demand"},
	"legalRequirements": {"process": "Apply at your county clerk", "fees": "Varies by county"}
}`

type engineFixture struct {
	engine *Engine
	search *fakeSearch
	store  *cache.SQLiteStore
}

func newTestEngine(t *testing.T, search *fakeSearch, completion *fakeCompletion, censusClient *fakeCensus) *engineFixture {
	t.Helper()

	rules, err := baseline.Load("")
	require.NoError(t, err)

	store, err := cache.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) //nolint:errcheck
	require.NoError(t, store.Migrate(context.Background()))

	anthropicCfg := config.AnthropicConfig{
		Model:       "claude-haiku-4-5-20251001",
		MaxTokens:   1500,
		Temperature: 0.2,
	}
	researchCfg := config.ResearchConfig{
		GovQueryTimeoutSecs:     12,
		GeneralQueryTimeoutSecs: 8,
		PhaseTimeoutSecs:        15,
		ResultsPerQuery:         3,
		QueriesPerSecond:        1000,
	}

	eng := New(Params{
		Collector: research.NewCollector(search, researchCfg, nil),
		Extractor: research.NewExtractor(rules.Domains),
		Drafter:   draft.NewDrafter(completion, anthropicCfg),
		Validator: validate.New(rules),
		Cache:     cache.New(store, nil, 24*time.Hour, "test-v1"),
		Census:    censusClient,
		Rules:     rules,
		Calc:      cost.NewCalculator(cost.DefaultRates()),
		Anthropic: anthropicCfg,
		Cost:      config.CostConfig{BudgetUSD: 0.50},
	})
	return &engineFixture{engine: eng, search: search, store: store}
}

func ohioRequest() model.StateContentRequest {
	return model.StateContentRequest{
		State:       "ohio",
		StateName:   "Ohio",
		StateAbbr:   "OH",
		MajorCities: []string{"Columbus", "Cleveland"},
		Population:  "11785000",
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	search := &fakeSearch{results: []jina.SearchResult{
		{Title: "Ohio marriage law", URL: "https://ohio.gov/marriage", Content: "license requirements"},
	}}
	f := newTestEngine(t, search,
		&fakeCompletion{text: goodDraftJSON},
		&fakeCensus{data: &model.StateData{Population: 11785000, Source: "US Census Bureau ACS"}})

	result, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)

	assert.NotEmpty(t, result.GenerationID)
	assert.Equal(t, "Premarital Counseling in Ohio", result.Title)
	assert.Equal(t, "Premarital Counseling in Ohio", result.Heading)
	assert.Equal(t, "anthropic-claude-haiku-4-5-20251001", result.APIProvider)
	assert.Equal(t, 1200, result.GenerationCostTokens)
	assert.True(t, result.WebResearchUsed)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "https://ohio.gov/marriage", result.Sources[0].URL)
	assert.False(t, result.FromCache)
	assert.Equal(t, 5, f.search.calls)
}

func TestGenerate_MissingFields(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{}, &fakeCompletion{text: goodDraftJSON}, &fakeCensus{})

	_, err := f.engine.Generate(context.Background(), model.StateContentRequest{State: "ohio"}, false)

	assert.True(t, eris.Is(err, ErrMissingFields))
	assert.Contains(t, err.Error(), "stateName")
	assert.Zero(t, f.search.calls, "bad requests must not reach the search API")
}

func TestGenerate_SecondCallServedFromCache(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{},
		&fakeCompletion{text: goodDraftJSON},
		&fakeCensus{err: eris.New("census down")})

	first, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.GenerationID, second.GenerationID)
	assert.Equal(t, 5, f.search.calls, "cache hit must not trigger research")
}

func TestGenerate_ForceBypassesCacheRead(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{}, &fakeCompletion{text: goodDraftJSON}, &fakeCensus{})

	first, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)

	second, err := f.engine.Generate(context.Background(), ohioRequest(), true)
	require.NoError(t, err)
	assert.False(t, second.FromCache)
	assert.NotEqual(t, first.GenerationID, second.GenerationID)

	// The forced result replaced the cached copy.
	third, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)
	assert.True(t, third.FromCache)
	assert.Equal(t, second.GenerationID, third.GenerationID)
}

func TestGenerate_AllSearchesFailingStillSucceeds(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{err: eris.New("search down")},
		&fakeCompletion{text: goodDraftJSON}, &fakeCensus{})

	result, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)

	assert.False(t, result.WebResearchUsed)
	assert.Empty(t, result.Sources)
}

func TestGenerate_CensusFailureDegradesToEstimates(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{},
		&fakeCompletion{text: goodDraftJSON},
		&fakeCensus{err: eris.New("census down")})

	_, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	assert.NoError(t, err)
}

func TestGenerate_CompletionFailureIsFatal(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{},
		&fakeCompletion{err: eris.New("api down")}, &fakeCensus{})

	_, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	assert.True(t, eris.Is(err, ErrUpstream))
}

func TestGenerate_UnparsableDraftIsFatal(t *testing.T) {
	f := newTestEngine(t, &fakeSearch{},
		&fakeCompletion{text: "I cannot produce JSON today"}, &fakeCensus{})

	_, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	assert.True(t, eris.Is(err, draft.ErrUnparsable))
}

func TestGenerate_ValidatorSoftensUnsupportedClaims(t *testing.T) {
	// No evidence at all: the $ amount must be generalized.
	f := newTestEngine(t, &fakeSearch{},
		&fakeCompletion{text: `{
			"description": "d", "h1": "h", "intro": "i",
			"legalRequirements": {"process": "Apply at the clerk", "fees": "Licenses cost $60"}
		}`}, &fakeCensus{})

	result, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)
	assert.Equal(t, "Fees vary by county - contact your local clerk", result.LegalRequirements.Fees)
}

func TestGenerate_NoResearchSoftensDollarAndWaitingClaims(t *testing.T) {
	// With every search failing, the fallback guidance may shape the prompt
	// but must not count as corroboration: the dollar amount and the waiting
	// period claim both reduce to their generic wording.
	f := newTestEngine(t, &fakeSearch{err: eris.New("search down")},
		&fakeCompletion{text: `{
			"description": "d", "h1": "h", "intro": "i",
			"legalRequirements": {
				"process": "A 5-day waiting period is waived for counseled couples.",
				"fees": "Licenses cost $60"
			}
		}`}, &fakeCensus{})

	result, err := f.engine.Generate(context.Background(), ohioRequest(), false)
	require.NoError(t, err)

	assert.Equal(t, "Fees vary by county - contact your local clerk", result.LegalRequirements.Fees)
	assert.NotContains(t, strings.ToLower(result.LegalRequirements.Process), "waiting period")
	assert.Equal(t, "Varies by county — confirm with the local clerk", result.LegalRequirements.WaitingPeriod)
}

func TestCollectSources_DedupAndCap(t *testing.T) {
	t.Parallel()

	var evidence []model.EvidenceRecord
	for i := 0; i < 8; i++ {
		evidence = append(evidence, model.EvidenceRecord{
			SourceTitle: "Page",
			SourceURL:   "https://example.com/page",
		})
	}
	assert.Len(t, collectSources(evidence), 1)

	evidence = nil
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		evidence = append(evidence, model.EvidenceRecord{
			SourceTitle: u,
			SourceURL:   "https://example.com/" + u,
		})
	}
	assert.Len(t, collectSources(evidence), maxSources)

	assert.Empty(t, collectSources([]model.EvidenceRecord{{SourceTitle: "fallback"}}))
}
