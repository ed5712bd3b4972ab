// Package issue defines the rule findings the analyzer reports.
package issue

import "github.com/standardbeagle/rustsonar/internal/tree"

// SecondaryLocation is a supporting location attached to an Issue, e.g. one
// cognitive-complexity increment contributing to a function's total.
type SecondaryLocation struct {
	Message  string
	Location tree.Location
}

// Issue is one rule finding: a rule key, a human-readable message, a
// primary location, and zero or more secondary locations.
type Issue struct {
	RuleKey            string
	Message            string
	Location           tree.Location
	SecondaryLocations []SecondaryLocation
}
