package types

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint is the heterogeneous constraint AST of spec.md §4.B. Each
// variant is its own type; dispatch over the variants is a type switch
// (in this package and in internal/core), not a virtual call.
type Constraint interface {
	isConstraint()
}

// Depends asserts that the owning package requires another package's
// activation toggle to be true whenever this constraint is reached.
type Depends struct {
	Package string
}

// SpecOptionRef reads another (or the same) package's option value.
type SpecOptionRef struct {
	Package string
	Option  string
}

// Literal is a constant value used on either side of a comparison or as
// an IfThen condition/then branch.
type Literal struct {
	Value OptionValue
}

// Cmp compares two constraint values with an ordering or (in)equality
// operator.
type Cmp struct {
	LHS Constraint
	RHS Constraint
	Op  CmpOp
}

// IfThen is a Boolean implication: Cond and Then must both be
// Bool-typed; the type checker (internal/core) rejects any other
// consequence.
type IfThen struct {
	Cond Constraint
	Then Constraint
}

// NumOf evaluates to the Int count of its children that are true.
type NumOf struct {
	Children []Constraint
}

// Maximize and Minimize are objectives: they contribute to the SMT
// optimizer only, never to feasibility (spec.md §3).
type Maximize struct{ Child Constraint }
type Minimize struct{ Child Constraint }

func (Depends) isConstraint()       {}
func (SpecOptionRef) isConstraint() {}
func (Literal) isConstraint()       {}
func (Cmp) isConstraint()           {}
func (IfThen) isConstraint()        {}
func (NumOf) isConstraint()         {}
func (Maximize) isConstraint()      {}
func (Minimize) isConstraint()      {}

// PackageOption names a single (package, option) pair, as referenced by
// a SpecOptionRef anywhere in a constraint tree.
type PackageOption struct {
	Package string
	Option  string
}

// ExtractDependencies returns the union of Depends(p) package names
// reachable within c's subtree (spec.md §4.B.1). SpecOptionRef and
// Literal contribute nothing; Cmp, IfThen, NumOf, Maximize, Minimize
// recurse.
func ExtractDependencies(c Constraint) map[string]struct{} {
	out := map[string]struct{}{}
	collectDependencies(c, out)
	return out
}

func collectDependencies(c Constraint, out map[string]struct{}) {
	switch n := c.(type) {
	case Depends:
		out[n.Package] = struct{}{}
	case SpecOptionRef, Literal, nil:
		// no-op
	case Cmp:
		collectDependencies(n.LHS, out)
		collectDependencies(n.RHS, out)
	case IfThen:
		collectDependencies(n.Cond, out)
		collectDependencies(n.Then, out)
	case NumOf:
		for _, child := range n.Children {
			collectDependencies(child, out)
		}
	case Maximize:
		collectDependencies(n.Child, out)
	case Minimize:
		collectDependencies(n.Child, out)
	}
}

// ExtractSpecOptions returns every (package, option) pair referenced
// anywhere in c's subtree, in pre-order traversal order, so the Registry
// can allocate a slot for each (spec.md §4.B.2).
func ExtractSpecOptions(c Constraint) []PackageOption {
	var out []PackageOption
	collectSpecOptions(c, &out)
	return out
}

func collectSpecOptions(c Constraint, out *[]PackageOption) {
	switch n := c.(type) {
	case SpecOptionRef:
		*out = append(*out, PackageOption{Package: n.Package, Option: n.Option})
	case Depends, Literal, nil:
		// no-op
	case Cmp:
		collectSpecOptions(n.LHS, out)
		collectSpecOptions(n.RHS, out)
	case IfThen:
		collectSpecOptions(n.Cond, out)
		collectSpecOptions(n.Then, out)
	case NumOf:
		for _, child := range n.Children {
			collectSpecOptions(child, out)
		}
	case Maximize:
		collectSpecOptions(n.Child, out)
	case Minimize:
		collectSpecOptions(n.Child, out)
	}
}

// Describe renders the canonical, human-readable text of a constraint.
// This text is used as the tracked-constraint description (spec.md §4.C)
// so UNSAT cores are readable without access to the original outline.
func Describe(c Constraint) string {
	switch n := c.(type) {
	case Depends:
		return fmt.Sprintf("depends(%s)", n.Package)
	case SpecOptionRef:
		return fmt.Sprintf("%s/%s", n.Package, n.Option)
	case Literal:
		return n.Value.String()
	case Cmp:
		return fmt.Sprintf("%s %s %s", Describe(n.LHS), n.Op, Describe(n.RHS))
	case IfThen:
		return fmt.Sprintf("if %s then %s", Describe(n.Cond), Describe(n.Then))
	case NumOf:
		parts := make([]string, len(n.Children))
		for i, child := range n.Children {
			parts[i] = Describe(child)
		}
		return fmt.Sprintf("num_of(%s)", strings.Join(parts, ", "))
	case Maximize:
		return fmt.Sprintf("maximize(%s)", Describe(n.Child))
	case Minimize:
		return fmt.Sprintf("minimize(%s)", Describe(n.Child))
	default:
		return "<nil constraint>"
	}
}

// SortedDependencyNames is a small helper used by the outline graph to
// get deterministic edge ordering out of a dependency set.
func SortedDependencyNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
