// Package states holds the US state registry: slugs, display names,
// abbreviations, and the major cities shown on each state page.
package states

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/counselpath/stategen/internal/model"
)

//go:embed states.yaml
var embeddedRegistry []byte

// State is one registry entry.
type State struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Abbr        string   `yaml:"abbr"`
	Population  int      `yaml:"population"`
	MajorCities []string `yaml:"major_cities"`
}

// Registry resolves state slugs to registry entries.
type Registry struct {
	bySlug []State
}

type registryFile struct {
	States []State `yaml:"states"`
}

// Load parses the embedded registry.
func Load() (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(embeddedRegistry, &file); err != nil {
		return nil, eris.Wrap(err, "states: parse registry")
	}
	if len(file.States) == 0 {
		return nil, eris.New("states: registry is empty")
	}
	return &Registry{bySlug: file.States}, nil
}

// Lookup returns the registry entry for a slug, or nil if unknown.
// Slug matching is case-insensitive.
func (r *Registry) Lookup(slug string) *State {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for i := range r.bySlug {
		if r.bySlug[i].Slug == slug {
			return &r.bySlug[i]
		}
	}
	return nil
}

// All returns every registry entry in declaration order.
func (r *Registry) All() []State {
	return r.bySlug
}

// Request builds a generation request from a slug. Unknown slugs still
// produce a usable request: the display name is derived by title-casing the
// slug, and city/population context is left empty for the drafter to work
// around.
func (r *Registry) Request(slug string) model.StateContentRequest {
	if s := r.Lookup(slug); s != nil {
		return model.StateContentRequest{
			State:       s.Slug,
			StateName:   s.Name,
			StateAbbr:   s.Abbr,
			MajorCities: s.MajorCities,
			Population:  strconv.Itoa(s.Population),
		}
	}
	return model.StateContentRequest{
		State:     strings.ToLower(strings.TrimSpace(slug)),
		StateName: DisplayName(slug),
	}
}

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayName converts a slug like "new-york" to "New York".
func DisplayName(slug string) string {
	slug = strings.TrimSpace(slug)
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
