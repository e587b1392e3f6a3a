// Package draft turns research evidence into candidate page content via the
// Anthropic API, then parses the model's JSON defensively. Draft output is
// untrusted until the validator has run.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/counselpath/stategen/internal/config"
	"github.com/counselpath/stategen/internal/model"
	"github.com/counselpath/stategen/pkg/anthropic"
)

// ErrUnparsable marks a model response that could not be turned into page
// content. Callers treat it as fatal for the request: there is no partial
// draft worth validating.
var ErrUnparsable = eris.New("draft: unparsable model response")

// systemPrompt frames every draft request. The JSON directive matters: the
// parser tolerates prose around a JSON object, not instead of one.
const systemPrompt = "You are a professional content writer specializing in local business directories and SEO content for premarital counseling services. Always return valid JSON with comprehensive, factual content."

// Drafter generates candidate content for one state.
type Drafter struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewDrafter creates a drafter.
func NewDrafter(client anthropic.Client, cfg config.AnthropicConfig) *Drafter {
	return &Drafter{client: client, cfg: cfg}
}

// Draft calls the model and parses its response. The returned usage is valid
// whenever the API call itself succeeded, including on parse failures, so
// cost accounting survives bad output.
func (d *Drafter) Draft(ctx context.Context, req model.StateContentRequest, stateData *model.StateData, evidence []model.EvidenceRecord) (*model.DraftContent, *anthropic.TokenUsage, error) {
	prompt := buildPrompt(req, stateData, evidence)

	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.cfg.Model,
		MaxTokens:   d.cfg.MaxTokens,
		System:      systemPrompt,
		Temperature: &d.cfg.Temperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "draft: create message")
	}
	usage := resp.Usage
	usage.LogCost(d.cfg.Model, "state-content-draft")

	content, err := Parse(extractText(resp))
	if err != nil {
		return nil, &usage, err
	}

	ApplyDefaults(content, req.StateName)
	return content, &usage, nil
}

// PromptLength returns the rendered prompt size in bytes. The cost guard
// uses it to project spend before committing to the API call.
func (d *Drafter) PromptLength(req model.StateContentRequest, stateData *model.StateData, evidence []model.EvidenceRecord) int {
	return len(buildPrompt(req, stateData, evidence))
}

// Parse decodes model output into draft content. It tolerates markdown code
// fences and leading prose, normalizes field-name aliases, and fails with
// ErrUnparsable when no recognizable content survives.
func Parse(text string) (*model.DraftContent, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.Wrap(ErrUnparsable, "no JSON object in response")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, eris.Wrapf(ErrUnparsable, "invalid JSON: %v", err)
	}

	normalized := normalizeFields(raw)
	if err := checkRequired(normalized); err != nil {
		return nil, eris.Wrapf(ErrUnparsable, "%v", err)
	}

	merged, err := json.Marshal(normalized)
	if err != nil {
		return nil, eris.Wrap(err, "draft: re-marshal normalized fields")
	}

	var content model.DraftContent
	if err := json.Unmarshal(merged, &content); err != nil {
		// Field-level type mismatches (e.g. a string where an object belongs)
		// degrade that field to its zero value instead of failing the draft.
		zap.L().Warn("draft content has mistyped fields, keeping partial parse", zap.Error(err))
		content = partialParse(normalized)
	}

	return &content, nil
}

// partialParse decodes each normalized field independently so one mistyped
// field cannot discard the rest.
func partialParse(normalized map[string]json.RawMessage) model.DraftContent {
	var content model.DraftContent
	decode := func(key string, dst any) {
		if raw, ok := normalized[key]; ok {
			_ = json.Unmarshal(raw, dst)
		}
	}
	decode("description", &content.Description)
	decode("h1", &content.Heading)
	decode("intro", &content.Intro)
	decode("stateOverview", &content.StateOverview)
	decode("marriageStats", &content.MarriageStats)
	decode("legalRequirements", &content.LegalRequirements)
	decode("popularCities", &content.PopularCities)
	decode("counselingResources", &content.CounselingResources)
	decode("demographics", &content.Demographics)
	return content
}

// ApplyDefaults fills empty sections with generic state-safe copy, so the
// validated payload is always fully populated.
func ApplyDefaults(content *model.DraftContent, stateName string) {
	if content.Description == "" {
		content.Description = fmt.Sprintf("Find premarital counselors in %s", stateName)
	}
	if content.Heading == "" {
		content.Heading = fmt.Sprintf("Premarital Counseling in %s", stateName)
	}
	if content.Intro == "" {
		content.Intro = fmt.Sprintf("Professional premarital counseling services in %s", stateName)
	}
	if content.StateOverview == (model.StateOverview{}) {
		content.StateOverview = model.StateOverview{
			Benefits:      fmt.Sprintf("Premarital counseling in %s helps couples prepare for marriage", stateName),
			UniqueAspects: fmt.Sprintf("%s offers diverse counseling options", stateName),
		}
	}
	if !content.MarriageStats.HasNumericValues() && content.MarriageStats.Trends == "" {
		age := 28.0
		content.MarriageStats = model.MarriageStats{
			AvgMarriageAge: &age,
			Trends:         fmt.Sprintf("Growing demand for premarital counseling in %s", stateName),
		}
	}
	if content.LegalRequirements == (model.LegalRequirements{}) {
		content.LegalRequirements = model.LegalRequirements{
			Process: fmt.Sprintf("%s marriage license requirements vary by county", stateName),
			Fees:    "Fees vary by county",
		}
	}
	if content.PopularCities == nil {
		content.PopularCities = []model.CityInfo{}
	}
	if len(content.CounselingResources.Types) == 0 {
		content.CounselingResources.Types = []string{
			"Individual counseling", "Group sessions", "Online therapy",
		}
	}
	if content.Demographics == (model.Demographics{}) {
		medianAge := 35.0
		content.Demographics = model.Demographics{
			Population: "Unknown",
			MedianAge:  &medianAge,
			Trends:     fmt.Sprintf("%s demographic trends support couples counseling", stateName),
		}
	}
}

// extractText concatenates the text blocks of a model response.
func extractText(resp *anthropic.MessageResponse) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// cleanJSON strips markdown code fences and any prose around the outermost
// JSON object. Returns "" when the text contains no object at all.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// buildPrompt renders the generation prompt: state context, the research
// evidence as JSON, the accuracy rules, and the expected output shape.
func buildPrompt(req model.StateContentRequest, stateData *model.StateData, evidence []model.EvidenceRecord) string {
	stateJSON, _ := json.Marshal(stateData)
	evidenceJSON, _ := json.Marshal(evidence)

	characteristics := "General state information"
	if len(req.Characteristics) > 0 {
		characteristics = strings.Join(req.Characteristics, ", ")
	}
	population := "Unknown"
	if req.Population != "" {
		population = req.Population
	}
	cities := strings.Join(req.MajorCities, ", ")

	return fmt.Sprintf(`Generate comprehensive, SEO-optimized content for a premarital counseling directory page for the entire state of %[1]s.

STATE DATA: %[2]s
WEB RESEARCH DATA: %[3]s
POPULATION: %[4]s
MAJOR CITIES: %[5]s
CHARACTERISTICS: %[6]s

Create concise state-wide content with:

1. META DESCRIPTION (150 chars): SEO-friendly description
2. H1 HEADING: Compelling main heading
3. INTRO PARAGRAPH (150 words): Brief introduction about premarital counseling in %[1]s
4. STATE OVERVIEW: Why choose counseling in %[1]s
5. MARRIAGE STATISTICS: Key trends and statistics
6. LEGAL REQUIREMENTS: %[1]s marriage license basics

Focus on:
- State-wide perspective (not city-specific)
- %[1]s marriage laws and requirements (BE ACCURATE - only include verified information)
- Major metropolitan areas: %[5]s
- Cultural and demographic factors unique to %[1]s
- Professional licensing requirements for counselors in %[1]s

CRITICAL ACCURACY REQUIREMENTS:
- Only include factual, verified information from web research
- Do NOT make up specific fees, discounts, or legal requirements
- If unsure about specifics, use general language like "varies by county" or "typically ranges"
- Never claim premarital counseling provides marriage license discounts or waives waiting periods unless a .gov source in WEB RESEARCH explicitly confirms it for %[1]s
- Do not mix rules from other states; if uncertain, avoid specifics and use "varies by county"
- Stick to general benefits and processes rather than specific dollar amounts or legal claims

OUTPUT FORMAT: Valid JSON only:
{
  "description": "meta description for %[1]s",
  "h1": "main heading for state page",
  "intro": "brief intro about premarital counseling in %[1]s",
  "stateOverview": {"benefits": "...", "uniqueAspects": "..."},
  "marriageStats": {"avgMarriageAge": 28, "trends": "..."},
  "legalRequirements": {"process": "...", "fees": "..."}
}

Make content unique, factual, and specific to %[1]s. Focus on helpful information for couples throughout the state.`,
		req.StateName, stateJSON, evidenceJSON, population, cities, characteristics)
}
