// Package baseline ships the hand-maintained state rule table and the
// government domain recognition lists as configuration data.
package baseline

import (
	_ "embed"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/counselpath/stategen/internal/model"
)

//go:embed rules.yaml
var embeddedRules []byte

// Domains configures government source recognition. Recall is imperfect by
// design: many county sites do not use .gov, and only the domains listed
// here are recognized.
type Domains struct {
	Suffixes           []string          `yaml:"suffixes"`
	StatisticalDomains []string          `yaml:"statistical_domains"`
	CountyDomains      map[string]string `yaml:"county_domains"`
}

// Config is the parsed rules file: domain lists plus per-state baseline facts.
type Config struct {
	Domains Domains                            `yaml:"government_domains"`
	States  map[string]model.BaselineStateRule `yaml:"states"`
}

// Load parses the rules file at path, or the embedded copy when path is empty.
func Load(path string) (*Config, error) {
	data := embeddedRules
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "baseline: read %s", path)
		}
		data = fileData
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrap(err, "baseline: parse rules")
	}
	return &cfg, nil
}

// ForState returns the baseline rule for a state display name, or nil when
// no verified facts exist for it.
func (c *Config) ForState(stateName string) *model.BaselineStateRule {
	rule, ok := c.States[stateName]
	if !ok {
		return nil
	}
	return &rule
}

// CountyDomain returns the known county government domain for a state,
// falling back to a wildcard .gov filter.
func (d Domains) CountyDomain(stateName string) string {
	if domain, ok := d.CountyDomains[stateName]; ok {
		return domain
	}
	return "*.gov"
}

// IsGovernmentURL reports whether a URL belongs to a recognized public-sector
// domain: a configured suffix (.gov) or a known county government domain.
func (d Domains) IsGovernmentURL(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}

	for _, suffix := range d.Suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	for _, domain := range d.CountyDomains {
		lower := strings.ToLower(domain)
		if host == lower || strings.HasSuffix(host, "."+lower) {
			return true
		}
	}
	return false
}

// IsStatisticalURL reports whether a URL belongs to a domain recognized as an
// official statistics source (.gov generally, plus the named agencies).
func (d Domains) IsStatisticalURL(rawURL string) bool {
	if d.IsGovernmentURL(rawURL) {
		return true
	}
	host := hostOf(rawURL)
	for _, domain := range d.StatisticalDomains {
		lower := strings.ToLower(domain)
		if host == lower || strings.HasSuffix(host, "."+lower) {
			return true
		}
	}
	return false
}

// hostOf extracts the lowercased host from a URL, tolerating scheme-less
// values the way search APIs sometimes return them.
func hostOf(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
