package model

import "strings"

// StateContentRequest identifies the state a content page is generated for.
// Immutable input to the generation pipeline.
type StateContentRequest struct {
	State           string   `json:"state"`
	StateName       string   `json:"stateName"`
	StateAbbr       string   `json:"stateAbbr"`
	MajorCities     []string `json:"majorCities"`
	Population      string   `json:"population,omitempty"`
	Characteristics []string `json:"characteristics,omitempty"`
}

// MissingFields returns the names of required fields that are absent.
func (r StateContentRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(r.StateName) == "" {
		missing = append(missing, "stateName")
	}
	if strings.TrimSpace(r.StateAbbr) == "" {
		missing = append(missing, "stateAbbr")
	}
	if len(r.MajorCities) == 0 {
		missing = append(missing, "majorCities")
	}
	return missing
}

// StateData holds demographic figures for a state, fetched from the Census
// ACS API or substituted with fixed estimates when the API is unavailable.
type StateData struct {
	Population   int    `json:"population"`
	MedianIncome int    `json:"medianIncome"`
	Households   int    `json:"households"`
	Source       string `json:"source"`
}
