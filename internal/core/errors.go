// Package core implements the constraint planner: outline graph
// construction, default propagation, type checking, SMT problem
// construction, and result decoding (spec.md §2, components D-H; the
// value/version model and registry of components A/C live alongside it).
package core

import (
	"fmt"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"configplanner/internal/types"
)

// errMissingPackage reports a Depends(name) atom with no matching
// outline node (spec.md §7 MissingPackage).
func errMissingPackage(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("missing package: %s", name))
}

// errMissingOption reports a SpecOptionRef to an option the Registry
// never allocated (spec.md §7 MissingOption).
func errMissingOption(pkg, option string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("missing option: %s/%s", pkg, option))
}

// errDuplicateOption reports an incompatible re-declaration of an
// option's type (spec.md §7 DuplicateOption).
func errDuplicateOption(pkg, option string, existing, incoming types.OptionType) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeAlreadyExists).
		WithMsg(fmt.Sprintf("duplicate option %s/%s: already typed %s, cannot retype %s", pkg, option, existing, incoming))
}

// errDuplicatePackage reports two outlines loaded under the same
// package name (spec.md §7 DuplicateOption covers the package-identity
// case too: the outline set's names must be unique).
func errDuplicatePackage(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeAlreadyExists).
		WithMsg(fmt.Sprintf("duplicate package outline: %s", name))
}

// errCycle reports a dependency cycle found during default propagation
// (spec.md §7 Cycle). Propagation is the only pass that rejects cycles;
// graph construction does not (spec.md §4.D).
func errCycle(path []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("cycle detected during default propagation: %v", path))
}

// errTypeMismatch reports two constraint operands whose inferred types
// disagree, e.g. the two sides of a Cmp (spec.md §7 TypeMismatch).
func errTypeMismatch(lhsDesc, rhsDesc string, lhsType, rhsType types.OptionType) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("type mismatch: %s is %s, %s is %s", lhsDesc, lhsType, rhsDesc, rhsType))
}

// errUnknownType reports an option left untyped after a fixed-point
// inference pass (spec.md §7 embeds this under TypeMismatch/InvalidConstraint;
// kept distinct here for a clearer message, same error code).
func errUnknownType(pkg, option string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("option %s/%s has no inferable type", pkg, option))
}

// errInvalidConstraint reports a well-formedness violation (spec.md §7
// InvalidConstraint): an IfThen with a non-Boolean condition, an ordering
// comparator on Bool, or an objective used as a plain clause. A
// non-terminal Rest wildcard is reported by types.ParseVersion as a
// *types.VersionParseError instead.
func errInvalidConstraint(reason string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid constraint: %s", reason))
}

// errSolverInconclusive reports that the SAT engine returned UNKNOWN
// (spec.md §7 SolverInconclusive).
func errSolverInconclusive() error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("solver returned an inconclusive result")
}

// DefaultConflictError is DefaultConflict (spec.md §4.E/§7): a package
// received two different default values for the same option from two
// distinct predecessors. Returned directly (not wrapped in errbuilder)
// because callers need its structured fields, not just a message.
type DefaultConflictError struct {
	Package        string
	Option         string
	FirstSetter    string
	FirstValue     types.OptionValue
	ConflictSetter string
	ConflictValue  types.OptionValue
}

func (e *DefaultConflictError) Error() string {
	return fmt.Sprintf(
		"default conflict on %s/%s: %s set %s, %s set %s",
		e.Package, e.Option, e.FirstSetter, e.FirstValue, e.ConflictSetter, e.ConflictValue,
	)
}

// UnsatError is Unsat(core) (spec.md §7): the SMT engine found the
// problem infeasible. Core holds the human-readable descriptions of the
// minimal core's tracked constraints, sorted alphabetically.
type UnsatError struct {
	Core []string
}

func (e *UnsatError) Error() string {
	return fmt.Sprintf("unsatisfiable: %d conflicting constraint(s) in core", len(e.Core))
}
