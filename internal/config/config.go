package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Census    CensusConfig    `yaml:"census" mapstructure:"census"`
	Research  ResearchConfig  `yaml:"research" mapstructure:"research"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Cost      CostConfig      `yaml:"cost" mapstructure:"cost"`
	Baseline  BaselineConfig  `yaml:"baseline" mapstructure:"baseline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// JinaConfig holds Jina AI Search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// AnthropicConfig holds Anthropic API settings for the content drafter.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// CensusConfig holds Census ACS API settings for demographic lookups.
type CensusConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ResearchConfig configures the web research phase.
type ResearchConfig struct {
	GovQueryTimeoutSecs     int     `yaml:"gov_query_timeout_secs" mapstructure:"gov_query_timeout_secs"`
	GeneralQueryTimeoutSecs int     `yaml:"general_query_timeout_secs" mapstructure:"general_query_timeout_secs"`
	PhaseTimeoutSecs        int     `yaml:"phase_timeout_secs" mapstructure:"phase_timeout_secs"`
	ResultsPerQuery         int     `yaml:"results_per_query" mapstructure:"results_per_query"`
	QueriesPerSecond        float64 `yaml:"queries_per_second" mapstructure:"queries_per_second"`
}

// CacheConfig configures the content cache backend.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	Version     string `yaml:"version" mapstructure:"version"`
}

// CostConfig bounds per-generation spend.
type CostConfig struct {
	BudgetUSD float64 `yaml:"budget_usd" mapstructure:"budget_usd"`
}

// BaselineConfig points at the verified state rules file. Empty means the
// embedded copy.
type BaselineConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STATEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1500)
	v.SetDefault("anthropic.temperature", 0.2)
	v.SetDefault("census.base_url", "https://api.census.gov/data/2022/acs/acs1")
	v.SetDefault("research.gov_query_timeout_secs", 12)
	v.SetDefault("research.general_query_timeout_secs", 8)
	v.SetDefault("research.phase_timeout_secs", 15)
	v.SetDefault("research.results_per_query", 3)
	v.SetDefault("research.queries_per_second", 1.0)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.database_url", "stategen.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.version", "2025-08-11-accuracy-1")
	v.SetDefault("cost.budget_usd", 0.50)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
