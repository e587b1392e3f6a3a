package engine

import "github.com/rotisserie/eris"

// Sentinel errors classifying generation failures. The HTTP layer maps
// ErrMissingFields to a 400 and everything else to a 500 with the fallback
// flag set.
var (
	// ErrMissingFields marks a request without the required state identifiers.
	ErrMissingFields = eris.New("engine: request is missing required fields")

	// ErrUpstream marks a completion API failure. Search failures never
	// raise it; they degrade to fallback evidence.
	ErrUpstream = eris.New("engine: upstream api failure")

	// ErrBudgetExceeded marks a generation whose projected spend is over the
	// configured per-request budget.
	ErrBudgetExceeded = eris.New("engine: projected cost exceeds budget")
)
