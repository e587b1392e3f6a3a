package model

import "time"

// StateOverview describes why couples would seek counseling in the state.
type StateOverview struct {
	Benefits      string `json:"benefits,omitempty"`
	UniqueAspects string `json:"uniqueAspects,omitempty"`
}

// MarriageStats holds marriage trend figures. The numeric fields are pointers
// because the validator drops them entirely when no official source backs them.
type MarriageStats struct {
	AvgMarriageAge  *float64 `json:"avgMarriageAge,omitempty"`
	AnnualMarriages *float64 `json:"annualMarriages,omitempty"`
	DivorceRate     *float64 `json:"divorceRate,omitempty"`
	Trends          string   `json:"trends,omitempty"`
	Note            string   `json:"note,omitempty"`
}

// HasNumericValues reports whether any specific statistic is present.
func (m MarriageStats) HasNumericValues() bool {
	return m.AvgMarriageAge != nil || m.AnnualMarriages != nil || m.DivorceRate != nil
}

// LegalRequirements describes the state's marriage license rules. YAML tags
// support the baseline rules table, which ships as configuration data.
type LegalRequirements struct {
	Process           string `json:"process,omitempty" yaml:"process"`
	Fees              string `json:"fees,omitempty" yaml:"fees"`
	FeesPolicy        string `json:"feesPolicy,omitempty" yaml:"fees_policy"`
	WaitingPeriod     string `json:"waitingPeriod,omitempty" yaml:"waiting_period"`
	BloodTest         string `json:"bloodTest,omitempty" yaml:"blood_test"`
	BloodTestRequired *bool  `json:"bloodTestRequired,omitempty" yaml:"blood_test_required"`
	Identification    string `json:"identification,omitempty" yaml:"identification"`
	Notes             string `json:"notes,omitempty" yaml:"notes"`
}

// CityInfo describes a major city on the state page.
type CityInfo struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// CounselingResources lists the kinds of counseling available in the state.
type CounselingResources struct {
	Types []string `json:"types,omitempty"`
}

// Demographics holds the state's population profile.
type Demographics struct {
	Population string   `json:"population,omitempty"`
	MedianAge  *float64 `json:"medianAge,omitempty"`
	Trends     string   `json:"trends,omitempty"`
}

// DraftContent is the language model's parsed output, after field-name
// aliases have been normalized. Every field is untrusted input to the
// validator and may contain hallucinated claims.
type DraftContent struct {
	Description         string              `json:"description"`
	Heading             string              `json:"h1"`
	Intro               string              `json:"intro"`
	StateOverview       StateOverview       `json:"stateOverview"`
	MarriageStats       MarriageStats       `json:"marriageStats"`
	LegalRequirements   LegalRequirements   `json:"legalRequirements"`
	PopularCities       []CityInfo          `json:"popularCities"`
	CounselingResources CounselingResources `json:"counselingResources"`
	Demographics        Demographics        `json:"demographics"`
}

// ValidatedContent has the same shape as DraftContent, with unsupported
// claims softened to generic language. Field tags match the public API
// payload. No field asserts a specific dollar amount, discount, waived
// requirement, or demographic statistic unless same-request government
// evidence or a baseline rule corroborates it.
type ValidatedContent struct {
	Description         string              `json:"description"`
	Heading             string              `json:"h1_content"`
	Intro               string              `json:"intro_paragraph"`
	StateOverview       StateOverview       `json:"state_overview"`
	MarriageStats       MarriageStats       `json:"marriage_statistics"`
	LegalRequirements   LegalRequirements   `json:"legal_requirements"`
	PopularCities       []CityInfo          `json:"popular_cities_info"`
	CounselingResources CounselingResources `json:"counseling_resources"`
	Demographics        Demographics        `json:"demographics"`
}

// BaselineStateRule holds hand-maintained legal facts for one state. Baseline
// facts are trusted absolutely and override model output for the fields they
// cover.
type BaselineStateRule struct {
	LegalRequirements LegalRequirements `json:"legalRequirements" yaml:"legal_requirements"`
}

// GenerationResult is the full payload returned for a state: the validated
// content flattened alongside generation metadata. It is also the unit
// stored in the cache.
type GenerationResult struct {
	GenerationID string `json:"generation_id"`
	Title        string `json:"title"`
	ValidatedContent
	GenerationCostTokens int       `json:"generation_cost_tokens"`
	APIProvider          string    `json:"api_provider"`
	WebResearchUsed      bool      `json:"web_research_used"`
	Sources              []Source  `json:"sources"`
	FromCache            bool      `json:"from_cache,omitempty"`
	GeneratedAt          time.Time `json:"content_generated_at"`
}
