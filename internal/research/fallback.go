package research

import (
	"fmt"

	"github.com/counselpath/stategen/internal/model"
)

// FallbackEvidence returns generic guidance records for when web research
// produced nothing usable. The records carry no URLs, so they never surface
// as sources and never mark content as research-backed; they exist to keep
// the drafter prompt shaped the same with and without research.
func FallbackEvidence(stateName string) []model.EvidenceRecord {
	return []model.EvidenceRecord{
		{
			SourceTitle: fmt.Sprintf("%s Marriage License Guidance", stateName),
			Snippet: fmt.Sprintf("Marriage license requirements in %s vary by county. "+
				"Couples should contact their local county clerk for current fees, "+
				"waiting periods, and identification requirements.", stateName),
			Category: model.CategoryLegal,
		},
		{
			SourceTitle: fmt.Sprintf("%s Counseling Cost Guidance", stateName),
			Snippet: fmt.Sprintf("Premarital counseling costs in %s depend on provider, "+
				"format, and session count. Many therapists offer packages and "+
				"sliding-scale pricing.", stateName),
			Category: model.CategoryPricing,
		},
	}
}
