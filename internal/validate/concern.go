// Package validate rewrites draft content so it makes no claim that the
// current request's evidence or the baseline rule table cannot back. The
// validator never blocks generation: unsupported claims are softened to
// generic county-clerk language, not rejected.
package validate

import (
	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/model"
)

// Concern identifies one class of risky claim the validator screens for.
type Concern string

const (
	ConcernDiscountClaim   Concern = "discount_claim"
	ConcernFeeAmount       Concern = "fee_amount"
	ConcernWaitingPeriod   Concern = "waiting_period"
	ConcernOverviewPricing Concern = "overview_pricing"
	ConcernNumericStats    Concern = "numeric_stats"
	ConcernBloodTest       Concern = "blood_test"
)

// Rule screens one concern. Detect inspects the raw draft; Verified decides
// whether the evidence supports the claim, consulting the domain lists for
// source-class checks; Apply softens the validated copy when it does not.
// Verified may be nil for concerns that are never acceptable regardless of
// evidence.
type Rule struct {
	Concern  Concern
	Detect   func(draft *model.DraftContent) bool
	Verified func(evidence []model.EvidenceRecord, domains baseline.Domains) bool
	Apply    func(draft *model.DraftContent, out *model.ValidatedContent, stateName string)
}

// anyEvidence reports whether any record satisfies the predicate.
func anyEvidence(evidence []model.EvidenceRecord, pred func(model.EvidenceRecord) bool) bool {
	for _, record := range evidence {
		if pred(record) {
			return true
		}
	}
	return false
}
