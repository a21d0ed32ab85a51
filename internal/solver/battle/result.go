package battle

import (
	"github.com/napolitain/battle-solver/internal/models"
)

// Outcome is the kind of answer a search produced
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNoSolution
	OutcomeSizeMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNoSolution:
		return "no_solution"
	case OutcomeSizeMismatch:
		return "size_mismatch"
	}
	return "unknown"
}

// Messages returned by Result.String for the negative outcomes
const (
	NoSolutionMessage   = "No winning arrangement found."
	SizeMismatchMessage = "Armies must have the same number of platoons."
)

// Result is the answer of a search
type Result struct {
	Outcome   Outcome
	Lanes     int
	Threshold int

	// Set when Outcome is OutcomeFound
	Arrangement models.Army
	Order       []int // Order[lane] is the attacker's original platoon index
	Engagements []Lane
	Wins        int

	// Search nodes visited (prefixes and complete arrangements)
	Visited int64
}

// Found returns true if a winning arrangement was found
func (r *Result) Found() bool {
	return r.Outcome == OutcomeFound
}

// String returns the winning arrangement as Name#count tokens,
// or the message for the negative outcome
func (r *Result) String() string {
	switch r.Outcome {
	case OutcomeFound:
		return r.Arrangement.String()
	case OutcomeSizeMismatch:
		return SizeMismatchMessage
	}
	return NoSolutionMessage
}
