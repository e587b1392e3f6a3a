package baseline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEmbedded(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load("")
	require.NoError(t, err)
	return cfg
}

func TestLoad_EmbeddedRules(t *testing.T) {
	t.Parallel()
	cfg := loadEmbedded(t)

	assert.Contains(t, cfg.Domains.Suffixes, ".gov")
	assert.NotEmpty(t, cfg.Domains.CountyDomains)

	for _, state := range []string{"Nevada", "Florida", "Texas", "California"} {
		rule := cfg.ForState(state)
		require.NotNil(t, rule, state)
		assert.NotEmpty(t, rule.LegalRequirements.WaitingPeriod, state)
		require.NotNil(t, rule.LegalRequirements.BloodTestRequired, state)
		assert.False(t, *rule.LegalRequirements.BloodTestRequired, state)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestForState_Unknown(t *testing.T) {
	t.Parallel()
	cfg := loadEmbedded(t)
	assert.Nil(t, cfg.ForState("Ohio"))
}

func TestBaselineFacts(t *testing.T) {
	t.Parallel()
	cfg := loadEmbedded(t)

	texas := cfg.ForState("Texas")
	require.NotNil(t, texas)
	assert.Equal(t, "72 hours (waived with premarital education)", texas.LegalRequirements.WaitingPeriod)

	nevada := cfg.ForState("Nevada")
	require.NotNil(t, nevada)
	assert.Equal(t, "None", nevada.LegalRequirements.WaitingPeriod)

	florida := cfg.ForState("Florida")
	require.NotNil(t, florida)
	assert.Equal(t, "3 days (waived with premarital counseling certificate)", florida.LegalRequirements.WaitingPeriod)
}

func TestCountyDomain(t *testing.T) {
	t.Parallel()
	cfg := loadEmbedded(t)

	assert.Equal(t, "clarkcountynv.gov", cfg.Domains.CountyDomain("Nevada"))
	assert.Equal(t, "miamidade.gov", cfg.Domains.CountyDomain("Florida"))
	assert.Equal(t, "*.gov", cfg.Domains.CountyDomain("Ohio"))
}

func TestIsGovernmentURL(t *testing.T) {
	t.Parallel()
	cfg := loadEmbedded(t)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://ohio.gov/marriage", true},
		{"https://www.clarkcountynv.gov/clerk", true},
		{"ohio.gov/no-scheme", true},
		{"https://example.com", false},
		{"https://notgov.example.com", false},
		{"", false},
		{"://bad url", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Domains.IsGovernmentURL(tt.url), tt.url)
	}
}

func TestIsStatisticalURL(t *testing.T) {
	t.Parallel()
	cfg := loadEmbedded(t)

	assert.True(t, cfg.Domains.IsStatisticalURL("https://www.cdc.gov/nchs"))
	assert.True(t, cfg.Domains.IsStatisticalURL("https://data.census.gov/table"))
	assert.True(t, cfg.Domains.IsStatisticalURL("https://ohio.gov/stats"))
	assert.False(t, cfg.Domains.IsStatisticalURL("https://statista.example.com"))
}
