// Package research runs the web research phase: a fixed query plan against
// Jina Search, then deterministic evidence extraction from the results.
package research

import "fmt"

// Query is one entry in the research plan. Government queries are scoped to
// official domains and get a longer timeout because .gov sites respond
// slowly.
type Query struct {
	Text       string
	Government bool
}

// BuildQueries returns the research plan for a state. The plan is fixed:
// three government-scoped queries covering waiting periods, county fees, and
// blood tests, then two general queries covering counseling pricing and
// license requirements. countyDomain is the state's primary county clerk
// domain, falling back to *.gov when none is on file.
func BuildQueries(stateName, countyDomain string) []Query {
	return []Query{
		{
			Text:       fmt.Sprintf("site:*.gov %s marriage license waiting period", stateName),
			Government: true,
		},
		{
			Text:       fmt.Sprintf("site:%s marriage license fees", countyDomain),
			Government: true,
		},
		{
			Text:       fmt.Sprintf("site:*.gov %s marriage blood test requirements", stateName),
			Government: true,
		},
		{
			Text: fmt.Sprintf("%s premarital counseling average cost pricing 2024 therapists", stateName),
		},
		{
			Text: fmt.Sprintf("%s marriage license requirements official", stateName),
		},
	}
}
