package app

import "configplanner/internal/types"

// ValidateRequest names the outline file to load (spec.md §2).
type ValidateRequest struct {
	OutlinePath string
}

// ValidateResult reports whether an outline set type-checks and
// propagates defaults cleanly, without running the solver.
type ValidateResult struct {
	Packages []string
}

// PlanRequest names the outline file, the packages that must end up
// activated, and any explicit option pins supplied on the command line
// (spec.md §2, §4.G).
type PlanRequest struct {
	OutlinePath string
	Required    []string
	Pins        map[types.PackageOption]types.OptionValue
}
