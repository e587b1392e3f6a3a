package validate

import (
	"go.uber.org/zap"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/model"
)

// Validator screens draft content against the request's evidence and the
// baseline rule table.
type Validator struct {
	baseline *baseline.Config
}

// New creates a validator.
func New(rules *baseline.Config) *Validator {
	return &Validator{baseline: rules}
}

// Validate copies the draft, softens every detected claim the evidence does
// not support, then merges baseline facts last so they win over everything,
// including evidence-verified model output. Returns the validated copy and
// the concerns that triggered a rewrite.
func (v *Validator) Validate(draft *model.DraftContent, evidence []model.EvidenceRecord, stateName string) (*model.ValidatedContent, []Concern) {
	out := copyDraft(draft)
	stateRule := v.baseline.ForState(stateName)

	var applied []Concern
	for _, rule := range rules {
		if !rule.Detect(draft) {
			continue
		}

		verified := rule.Verified != nil && rule.Verified(evidence, v.baseline.Domains)
		if rule.Concern == ConcernBloodTest && !verified {
			// A baseline rule covering blood tests also verifies the claim;
			// the merge below will overwrite it with the vetted wording.
			verified = stateRule != nil && stateRule.LegalRequirements.BloodTest != ""
		}
		if verified {
			zap.L().Debug("claim verified by evidence",
				zap.String("state", stateName),
				zap.String("concern", string(rule.Concern)))
			continue
		}

		zap.L().Info("softening unverified claim",
			zap.String("state", stateName),
			zap.String("concern", string(rule.Concern)))
		rule.Apply(draft, out, stateName)
		applied = append(applied, rule.Concern)
	}

	if stateRule != nil {
		zap.L().Debug("applying baseline rules", zap.String("state", stateName))
		mergeBaseline(&out.LegalRequirements, stateRule.LegalRequirements)
	}

	return out, applied
}

// copyDraft converts a draft into the validated shape without changing any
// content.
func copyDraft(draft *model.DraftContent) *model.ValidatedContent {
	out := &model.ValidatedContent{
		Description:         draft.Description,
		Heading:             draft.Heading,
		Intro:               draft.Intro,
		StateOverview:       draft.StateOverview,
		MarriageStats:       draft.MarriageStats,
		LegalRequirements:   draft.LegalRequirements,
		CounselingResources: draft.CounselingResources,
		Demographics:        draft.Demographics,
	}
	out.PopularCities = append([]model.CityInfo(nil), draft.PopularCities...)
	return out
}

// mergeBaseline overwrites legal requirement fields with the baseline rule's
// values wherever the rule specifies one. Baseline facts are absolute.
func mergeBaseline(dst *model.LegalRequirements, rule model.LegalRequirements) {
	if rule.Process != "" {
		dst.Process = rule.Process
	}
	if rule.Fees != "" {
		dst.Fees = rule.Fees
	}
	if rule.FeesPolicy != "" {
		dst.FeesPolicy = rule.FeesPolicy
	}
	if rule.WaitingPeriod != "" {
		dst.WaitingPeriod = rule.WaitingPeriod
	}
	if rule.BloodTest != "" {
		dst.BloodTest = rule.BloodTest
	}
	if rule.BloodTestRequired != nil {
		dst.BloodTestRequired = rule.BloodTestRequired
	}
	if rule.Identification != "" {
		dst.Identification = rule.Identification
	}
	if rule.Notes != "" {
		dst.Notes = rule.Notes
	}
}
