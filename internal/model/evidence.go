package model

// QueryCategory classifies the kind of signal an evidence record carries.
type QueryCategory string

const (
	CategoryLegal      QueryCategory = "legal"
	CategoryPricing    QueryCategory = "pricing"
	CategoryTrend      QueryCategory = "trend"
	CategoryCompetitor QueryCategory = "competitor"
)

// EvidenceRecord is a provenance-tagged snippet extracted from a web search
// result. Records justify or refuse claims during validation and are never
// mutated after creation. The set is deduplicated by URL.
type EvidenceRecord struct {
	SourceTitle        string        `json:"sourceTitle"`
	SourceURL          string        `json:"sourceUrl"`
	Snippet            string        `json:"snippet"`
	IsGovernmentSource bool          `json:"isGovernmentSource"`
	Category           QueryCategory `json:"queryCategory"`
}

// Source is a title+URL pair surfaced to callers as research provenance.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
