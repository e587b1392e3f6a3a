package draft

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// fieldAliases maps each canonical top-level key to the alternate names the
// model has been observed to emit. Order matters: the first present alias
// wins, so normalization is deterministic.
var fieldAliases = []struct {
	canonical string
	aliases   []string
}{
	{"description", []string{"description", "metaDescription"}},
	{"h1", []string{"h1", "heading"}},
	{"intro", []string{"intro", "introduction"}},
	{"stateOverview", []string{"stateOverview", "overview", "state_overview"}},
	{"marriageStats", []string{"marriageStats", "statistics", "marriage_statistics"}},
	{"legalRequirements", []string{"legalRequirements", "requirements", "legal_requirements"}},
	{"popularCities", []string{"popularCities", "cities", "popular_cities_info"}},
	{"counselingResources", []string{"counselingResources", "resources", "counseling_resources"}},
	{"demographics", []string{"demographics"}},
}

// requiredKeys are the canonical keys that make a draft minimally usable.
// A draft missing every one of them is a parse failure.
var requiredKeys = []string{
	"description", "h1", "intro", "stateOverview", "marriageStats", "legalRequirements",
}

// normalizeFields rewrites a raw decoded object so every recognized field
// sits under its canonical key. Unrecognized keys are dropped.
func normalizeFields(raw map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fieldAliases))
	for _, field := range fieldAliases {
		for _, alias := range field.aliases {
			if value, ok := raw[alias]; ok {
				out[field.canonical] = value
				break
			}
		}
	}
	return out
}

// checkRequired returns an error when none of the required canonical keys are
// present, meaning the model returned something other than page content.
func checkRequired(normalized map[string]json.RawMessage) error {
	for _, key := range requiredKeys {
		if _, ok := normalized[key]; ok {
			return nil
		}
	}
	return eris.New("draft: response JSON has none of the expected content fields")
}
