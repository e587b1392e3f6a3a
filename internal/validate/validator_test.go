package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counselpath/stategen/internal/baseline"
	"github.com/counselpath/stategen/internal/model"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	rules, err := baseline.Load("")
	require.NoError(t, err)
	return New(rules)
}

func govEvidence(snippet string) model.EvidenceRecord {
	return model.EvidenceRecord{
		SourceTitle:        "County Clerk",
		SourceURL:          "https://example.gov/marriage",
		Snippet:            snippet,
		IsGovernmentSource: true,
		Category:           model.CategoryLegal,
	}
}

func draftWithLegal(legal model.LegalRequirements) *model.DraftContent {
	return &model.DraftContent{
		Description:       "Counseling in Ohio",
		Heading:           "Premarital Counseling in Ohio",
		Intro:             "Intro text",
		LegalRequirements: legal,
	}
}

func TestValidate_DiscountClaimRemovedWithoutEvidence(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{
		Fees:    "Counseling gives you a discount on license fees",
		Process: "Apply at the clerk for a lower fee",
	})

	out, applied := v.Validate(draft, nil, "Ohio")

	assert.Contains(t, applied, ConcernDiscountClaim)
	assert.NotContains(t, out.LegalRequirements.Fees, "discount")
	assert.NotContains(t, out.LegalRequirements.Process, "lower")
}

func TestValidate_DiscountClaimKeptWithEvidence(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{
		Fees: "Premarital counseling discount available",
	})
	evidence := []model.EvidenceRecord{
		govEvidence("Couples completing premarital counseling receive a discount on the license fee"),
	}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.NotContains(t, applied, ConcernDiscountClaim)
	assert.Equal(t, "Premarital counseling discount available", out.LegalRequirements.Fees)
}

func TestValidate_DiscountRemovalFallsBackWhenEmpty(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{Fees: "discount"})

	out, _ := v.Validate(draft, nil, "Ohio")

	assert.Equal(t, "Varies by county", out.LegalRequirements.Fees)
	assert.Equal(t, "Ohio marriage license requirements vary by county", out.LegalRequirements.Process)
}

func TestValidate_FeeAmountGeneralizedWithoutEvidence(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{Fees: "License costs $75 in most counties"})

	out, applied := v.Validate(draft, nil, "Ohio")

	assert.Contains(t, applied, ConcernFeeAmount)
	assert.Equal(t, "Fees vary by county - contact your local clerk", out.LegalRequirements.Fees)
}

func TestValidate_FeeAmountKeptWithFeeEvidence(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{Fees: "License fee is $75"})
	evidence := []model.EvidenceRecord{govEvidence("The marriage license fee is 75 dollars")}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.NotContains(t, applied, ConcernFeeAmount)
	assert.Equal(t, "License fee is $75", out.LegalRequirements.Fees)
}

func TestValidate_WaitingPeriodGeneralizedWithoutGovEvidence(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{
		Process: "There is a 3-day waiting period after applying.",
	})

	out, applied := v.Validate(draft, nil, "Ohio")

	assert.Contains(t, applied, ConcernWaitingPeriod)
	assert.Equal(t, "Varies by county — confirm with the local clerk", out.LegalRequirements.WaitingPeriod)
	assert.NotContains(t, out.LegalRequirements.Process, "waiting period")
}

func TestValidate_WaitingPeriodKeptWithGovEvidence(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{
		Process:       "Ohio has a waiting period",
		WaitingPeriod: "3 days",
	})
	evidence := []model.EvidenceRecord{govEvidence("Ohio imposes a waiting period on licenses")}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.NotContains(t, applied, ConcernWaitingPeriod)
	assert.Equal(t, "3 days", out.LegalRequirements.WaitingPeriod)
}

func TestValidate_WaitingPeriodCountyClerkSnippetCounts(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{Process: "waiting period applies"})
	evidence := []model.EvidenceRecord{{
		SourceTitle: "Legal guide",
		SourceURL:   "https://example.com/guide",
		Snippet:     "Ask the county clerk about the waiting period",
	}}

	_, applied := v.Validate(draft, evidence, "Ohio")

	assert.NotContains(t, applied, ConcernWaitingPeriod)
}

func TestValidate_OverviewPricingAlwaysSoftened(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{})
	draft.StateOverview.UniqueAspects = "Counseling here is cheaper than neighboring states"
	evidence := []model.EvidenceRecord{govEvidence("counseling is cheaper and discounted for everyone")}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.Contains(t, applied, ConcernOverviewPricing)
	assert.Equal(t, "Counseling here is competitive pricing than neighboring states",
		out.StateOverview.UniqueAspects)
}

func TestValidate_NumericStatsDroppedWithoutOfficialSource(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	age := 29.5
	draft := draftWithLegal(model.LegalRequirements{})
	draft.MarriageStats = model.MarriageStats{AvgMarriageAge: &age, Trends: "Later marriages"}

	out, applied := v.Validate(draft, nil, "Ohio")

	assert.Contains(t, applied, ConcernNumericStats)
	assert.Nil(t, out.MarriageStats.AvgMarriageAge)
	assert.Equal(t, "Later marriages", out.MarriageStats.Trends)
	assert.Equal(t, "Contact local vital records for current statistics", out.MarriageStats.Note)
}

func TestValidate_NumericStatsKeptWithOfficialSource(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	age := 29.5
	draft := draftWithLegal(model.LegalRequirements{})
	draft.MarriageStats = model.MarriageStats{AvgMarriageAge: &age}
	evidence := []model.EvidenceRecord{govEvidence("Marriage statistics for Ohio residents")}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.NotContains(t, applied, ConcernNumericStats)
	require.NotNil(t, out.MarriageStats.AvgMarriageAge)
	assert.Equal(t, 29.5, *out.MarriageStats.AvgMarriageAge)
}

func TestValidate_NumericStatsKeptWithStatisticalDomainSource(t *testing.T) {
	t.Parallel()
	rules, err := baseline.Load("")
	require.NoError(t, err)
	rules.Domains.StatisticalDomains = append(rules.Domains.StatisticalDomains, "data.example.org")
	v := New(rules)

	age := 29.5
	draft := draftWithLegal(model.LegalRequirements{})
	draft.MarriageStats = model.MarriageStats{AvgMarriageAge: &age}
	evidence := []model.EvidenceRecord{{
		SourceTitle: "State data portal",
		SourceURL:   "https://data.example.org/marriage",
		Snippet:     "Annual marriage statistics by state",
	}}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.NotContains(t, applied, ConcernNumericStats)
	require.NotNil(t, out.MarriageStats.AvgMarriageAge)
}

func TestValidate_NumericStatsDroppedForUnrecognizedDomain(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	age := 29.5
	draft := draftWithLegal(model.LegalRequirements{})
	draft.MarriageStats = model.MarriageStats{AvgMarriageAge: &age}
	evidence := []model.EvidenceRecord{{
		SourceTitle: "Lifestyle blog",
		SourceURL:   "https://blog.example.com/marriage",
		Snippet:     "Marriage statistics roundup",
	}}

	out, applied := v.Validate(draft, evidence, "Ohio")

	assert.Contains(t, applied, ConcernNumericStats)
	assert.Nil(t, out.MarriageStats.AvgMarriageAge)
}

func TestValidate_BloodTestClaimRemovedWithoutSupport(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{BloodTest: "Not required in this state"})

	out, applied := v.Validate(draft, nil, "Ohio")

	assert.Contains(t, applied, ConcernBloodTest)
	assert.Equal(t, "Confirm blood test requirements with local county clerk", out.LegalRequirements.BloodTest)
}

func TestValidate_BloodTestClaimVerifiedByBaselineRule(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{BloodTest: "No blood test needed"})

	// Nevada has a baseline rule; the merge rewrites the claim to the vetted
	// wording instead of the generic fallback.
	out, applied := v.Validate(draft, nil, "Nevada")

	assert.NotContains(t, applied, ConcernBloodTest)
	assert.Equal(t, "Not required", out.LegalRequirements.BloodTest)
}

func TestValidate_BaselineRulesWinOverDraft(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{
		WaitingPeriod: "10 days",
		Fees:          "Exactly one million dollars",
	})
	evidence := []model.EvidenceRecord{
		govEvidence("waiting period information from the county clerk, fee and cost schedule"),
	}

	out, _ := v.Validate(draft, evidence, "Texas")

	assert.Equal(t, "72 hours (waived with premarital education)", out.LegalRequirements.WaitingPeriod)
	require.NotNil(t, out.LegalRequirements.BloodTestRequired)
	assert.False(t, *out.LegalRequirements.BloodTestRequired)
}

func TestValidate_CleanDraftPassesThrough(t *testing.T) {
	t.Parallel()
	v := newTestValidator(t)

	draft := draftWithLegal(model.LegalRequirements{
		Process: "Apply at your county clerk's office",
		Fees:    "Varies by county",
	})
	draft.StateOverview = model.StateOverview{Benefits: "Stronger marriages", UniqueAspects: "Rich provider network"}

	out, applied := v.Validate(draft, nil, "Ohio")

	assert.Empty(t, applied)
	assert.Equal(t, "Apply at your county clerk's office", out.LegalRequirements.Process)
	assert.Equal(t, draft.StateOverview, out.StateOverview)
}
