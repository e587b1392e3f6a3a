package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/cache"
	"github.com/counselpath/stategen/internal/cost"
	"github.com/counselpath/stategen/internal/draft"
	"github.com/counselpath/stategen/internal/engine"
	"github.com/counselpath/stategen/internal/research"
	"github.com/counselpath/stategen/internal/states"
	"github.com/counselpath/stategen/internal/validate"
	anthropicpkg "github.com/counselpath/stategen/pkg/anthropic"
	"github.com/counselpath/stategen/pkg/census"
	"github.com/counselpath/stategen/pkg/jina"
)

// engineEnv holds all initialized clients and the engine needed by the
// generate/batch/serve commands.
type engineEnv struct {
	Engine   *engine.Engine
	Registry *states.Registry
	Store    cache.Store
}

// Close releases resources held by the environment.
func (e *engineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEngine sets up the cache store, API clients, and rule tables, and
// builds the generation engine. Callers should defer env.Close().
func initEngine(ctx context.Context) (*engineEnv, error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate cache store")
	}

	rules, err := baseline.Load(cfg.Baseline.RulesPath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	registry, err := states.Load()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	jinaClient := jina.NewClient(cfg.Jina.Key, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	censusClient := census.NewClient(cfg.Census.Key, census.WithBaseURL(cfg.Census.BaseURL))

	contentCache := cache.New(store, nil,
		time.Duration(cfg.Cache.TTLHours)*time.Hour, cfg.Cache.Version)

	eng := engine.New(engine.Params{
		Collector: research.NewCollector(jinaClient, cfg.Research, nil),
		Extractor: research.NewExtractor(rules.Domains),
		Drafter:   draft.NewDrafter(anthropicClient, cfg.Anthropic),
		Validator: validate.New(rules),
		Cache:     contentCache,
		Census:    censusClient,
		Rules:     rules,
		Calc:      cost.NewCalculator(cost.DefaultRates()),
		Anthropic: cfg.Anthropic,
		Cost:      cfg.Cost,
	})

	return &engineEnv{Engine: eng, Registry: registry, Store: store}, nil
}

// initStore opens the configured cache backend.
func initStore(ctx context.Context) (cache.Store, error) {
	switch cfg.Cache.Driver {
	case "postgres":
		store, err := cache.NewPostgres(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres cache")
		}
		return store, nil
	case "sqlite", "":
		store, err := cache.NewSQLite(cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite cache")
		}
		return store, nil
	default:
		return nil, eris.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
