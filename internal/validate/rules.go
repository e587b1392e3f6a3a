package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/model"
)

var (
	discountWordsRe    = regexp.MustCompile(`(?i)discount|reduce|lower`)
	overviewPricingRe  = regexp.MustCompile(`(?i)discount|cheaper|lower cost`)
	dollarAmountRe     = regexp.MustCompile(`\$\d+`)
	waitingPeriodRe    = regexp.MustCompile(`(?i)waiting period.*?(\.|$)`)
	collapseSpacesRe   = regexp.MustCompile(`\s{2,}`)
)

// legalText renders the draft's legal requirements section to lowercase JSON,
// the form every legal-claim detector matches against.
func legalText(draft *model.DraftContent) string {
	encoded, _ := json.Marshal(draft.LegalRequirements)
	return strings.ToLower(string(encoded))
}

func snippetLower(r model.EvidenceRecord) string {
	return strings.ToLower(r.Snippet)
}

// rules is the screening order. Order matters: the waiting period rule reads
// the process text as earlier rules left it.
var rules = []Rule{
	{
		// Claims that counseling discounts or reduces license requirements
		// are the most common hallucination. Kept only when evidence connects
		// "discount" with "premarital".
		Concern: ConcernDiscountClaim,
		Detect: func(draft *model.DraftContent) bool {
			return discountWordsRe.MatchString(legalText(draft))
		},
		Verified: func(evidence []model.EvidenceRecord, _ baseline.Domains) bool {
			return anyEvidence(evidence, func(r model.EvidenceRecord) bool {
				text := snippetLower(r)
				return strings.Contains(text, "discount") && strings.Contains(text, "premarital")
			})
		},
		Apply: func(draft *model.DraftContent, out *model.ValidatedContent, stateName string) {
			fees := scrub(draft.LegalRequirements.Fees, discountWordsRe)
			if fees == "" {
				fees = "Varies by county"
			}
			process := scrub(draft.LegalRequirements.Process, discountWordsRe)
			if process == "" {
				process = fmt.Sprintf("%s marriage license requirements vary by county", stateName)
			}
			out.LegalRequirements.Fees = fees
			out.LegalRequirements.Process = process
		},
	},
	{
		// Specific dollar amounts need fee or cost evidence from this
		// request's research.
		Concern: ConcernFeeAmount,
		Detect: func(draft *model.DraftContent) bool {
			return dollarAmountRe.MatchString(legalText(draft))
		},
		Verified: func(evidence []model.EvidenceRecord, _ baseline.Domains) bool {
			return anyEvidence(evidence, func(r model.EvidenceRecord) bool {
				text := snippetLower(r)
				return strings.Contains(text, "fee") || strings.Contains(text, "cost")
			})
		},
		Apply: func(_ *model.DraftContent, out *model.ValidatedContent, _ string) {
			out.LegalRequirements.Fees = "Fees vary by county - contact your local clerk"
		},
	},
	{
		// Waiting period claims need a government source, or at least a
		// county clerk mention, talking about waiting periods.
		Concern: ConcernWaitingPeriod,
		Detect: func(draft *model.DraftContent) bool {
			text := legalText(draft)
			return strings.Contains(text, "waiting period") || strings.Contains(text, "waive")
		},
		Verified: func(evidence []model.EvidenceRecord, _ baseline.Domains) bool {
			return anyEvidence(evidence, func(r model.EvidenceRecord) bool {
				text := snippetLower(r)
				return strings.Contains(text, "waiting period") &&
					(r.IsGovernmentSource || strings.Contains(text, "county clerk"))
			})
		},
		Apply: func(_ *model.DraftContent, out *model.ValidatedContent, stateName string) {
			process := strings.TrimSpace(scrub(out.LegalRequirements.Process, waitingPeriodRe))
			if process == "" {
				process = fmt.Sprintf("%s marriage license requirements vary by county", stateName)
			}
			out.LegalRequirements.Process = process
			out.LegalRequirements.WaitingPeriod = "Varies by county — confirm with the local clerk"
		},
	},
	{
		// Pricing superlatives in the overview are never kept as written.
		Concern: ConcernOverviewPricing,
		Detect: func(draft *model.DraftContent) bool {
			return overviewPricingRe.MatchString(strings.ToLower(draft.StateOverview.UniqueAspects))
		},
		Apply: func(draft *model.DraftContent, out *model.ValidatedContent, _ string) {
			out.StateOverview.UniqueAspects =
				overviewPricingRe.ReplaceAllString(draft.StateOverview.UniqueAspects, "competitive pricing")
		},
	},
	{
		// Numeric marriage statistics need an official statistics source:
		// a government record or a configured statistical domain.
		Concern: ConcernNumericStats,
		Detect: func(draft *model.DraftContent) bool {
			return draft.MarriageStats.HasNumericValues()
		},
		Verified: func(evidence []model.EvidenceRecord, domains baseline.Domains) bool {
			return anyEvidence(evidence, func(r model.EvidenceRecord) bool {
				if !r.IsGovernmentSource && !domains.IsStatisticalURL(r.SourceURL) {
					return false
				}
				text := snippetLower(r)
				return strings.Contains(text, "marriage") ||
					strings.Contains(text, "statistic") ||
					strings.Contains(text, "demographic")
			})
		},
		Apply: func(draft *model.DraftContent, out *model.ValidatedContent, stateName string) {
			trends := draft.MarriageStats.Trends
			if trends == "" {
				trends = fmt.Sprintf("Growing interest in premarital counseling supports couples in %s", stateName)
			}
			out.MarriageStats = model.MarriageStats{
				Trends: trends,
				Note:   "Contact local vital records for current statistics",
			}
		},
	},
	{
		// "Not required" blood test claims need a government source or a
		// baseline rule. The baseline check is wired in by the validator.
		Concern: ConcernBloodTest,
		Detect: func(draft *model.DraftContent) bool {
			text := strings.ToLower(draft.LegalRequirements.BloodTest)
			return strings.Contains(text, "not required") || strings.Contains(text, "no blood test")
		},
		Verified: func(evidence []model.EvidenceRecord, _ baseline.Domains) bool {
			return anyEvidence(evidence, func(r model.EvidenceRecord) bool {
				if !r.IsGovernmentSource {
					return false
				}
				text := snippetLower(r)
				return strings.Contains(text, "blood test") || strings.Contains(text, "medical exam")
			})
		},
		Apply: func(_ *model.DraftContent, out *model.ValidatedContent, _ string) {
			out.LegalRequirements.BloodTest = "Confirm blood test requirements with local county clerk"
		},
	},
}

// scrub removes pattern matches and collapses the whitespace left behind.
func scrub(s string, re *regexp.Regexp) string {
	cleaned := re.ReplaceAllString(s, "")
	cleaned = collapseSpacesRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
