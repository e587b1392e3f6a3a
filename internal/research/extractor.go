package research

import (
	"strings"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/model"
	"github.com/counselpath/stategen/pkg/jina"
)

// Per-category caps on extracted evidence, bounding prompt size.
const (
	maxCompetitorRecords = 5
	maxTrendRecords      = 3
	maxPricingRecords    = 2
	maxLegalRecords      = 2
)

const snippetLimit = 300

// Extractor derives provenance-tagged evidence records from raw search
// results. Extraction is pure and deterministic: the same input slice always
// yields the same records in the same order.
type Extractor struct {
	domains baseline.Domains
}

// NewExtractor creates an extractor using the configured domain lists for
// government source recognition.
func NewExtractor(domains baseline.Domains) *Extractor {
	return &Extractor{domains: domains}
}

// Extract classifies each search result into at most one evidence category
// and returns the capped, URL-deduplicated record set. Results without a URL
// or without matching category keywords are dropped.
func (e *Extractor) Extract(results []jina.SearchResult) []model.EvidenceRecord {
	counts := map[model.QueryCategory]int{}
	seen := map[string]bool{}

	var records []model.EvidenceRecord
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}

		category, ok := classify(r)
		if !ok {
			continue
		}
		if counts[category] >= capFor(category) {
			continue
		}

		seen[r.URL] = true
		counts[category]++
		records = append(records, model.EvidenceRecord{
			SourceTitle:        r.Title,
			SourceURL:          r.URL,
			Snippet:            truncate(r.Content, snippetLimit),
			IsGovernmentSource: e.domains.IsGovernmentURL(r.URL),
			Category:           category,
		})
	}
	return records
}

// classify assigns a result to its highest-priority matching category. A
// result mentioning both legal and pricing keywords counts as legal only.
func classify(r jina.SearchResult) (model.QueryCategory, bool) {
	text := strings.ToLower(r.Title + " " + r.Content)

	switch {
	case strings.Contains(text, "requirement") || strings.Contains(text, "law"):
		return model.CategoryLegal, true
	case strings.Contains(text, "pricing") || strings.Contains(text, "costs"):
		return model.CategoryPricing, true
	case strings.Contains(text, "trend") || strings.Contains(text, "2024"):
		return model.CategoryTrend, true
	case r.Title != "":
		return model.CategoryCompetitor, true
	}
	return "", false
}

func capFor(category model.QueryCategory) int {
	switch category {
	case model.CategoryCompetitor:
		return maxCompetitorRecords
	case model.CategoryTrend:
		return maxTrendRecords
	case model.CategoryPricing:
		return maxPricingRecords
	default:
		return maxLegalRecords
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
