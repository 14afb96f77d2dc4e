package core

import (
	"configplanner/internal/types"
)

// TypeCheck runs the two-pass type inference of spec.md §4.F over every
// package in g, allocating Registry slots for each (package, option)
// pair as it goes:
//
//  1. Seeding: option types fixed directly by a SetOptions pin, a
//     (post-propagation) SetDefaults entry, or a Cmp comparing a
//     SpecOptionRef against a Literal.
//  2. Propagation: a fixed-point pass that seeds the remaining
//     occurrences — a SpecOptionRef compared against another
//     already-typed SpecOptionRef, or one used as an IfThen condition,
//     an IfThen consequence, or a NumOf child (all forced to Bool).
//  3. Validation: every constraint is re-walked and checked against the
//     now-settled types; any option still untyped, any Cmp across
//     mismatched types, any non-Bool IfThen condition or NumOf child,
//     or any non-numeric objective child is rejected.
//
// The result is confluent regardless of which order packages or
// constraints are visited in (spec.md §8 testable property 3): seeding
// only ever adds a type to an unallocated slot, propagation only ever
// adds a type to an unallocated slot, and AllocateOption itself rejects
// conflicting retypes the moment they are seen.
func TypeCheck(g *OutlineGraph, r *Registry) error {
	for _, name := range g.PackageNames() {
		node, _ := g.Node(name)
		for option, val := range node.Outline.SetOptions {
			if _, err := r.AllocateOption(name, option, val.Type); err != nil {
				return err
			}
			observeVersion(r, val)
		}
		for option, dv := range node.Outline.SetDefaults {
			if dv.Clear {
				continue
			}
			if _, err := r.AllocateOption(name, option, dv.Value.Type); err != nil {
				return err
			}
			observeVersion(r, dv.Value)
		}
		for _, c := range node.Outline.Constraints {
			if err := seedLiterals(c, r); err != nil {
				return err
			}
		}
	}

	for {
		changed := false
		for _, name := range g.PackageNames() {
			node, _ := g.Node(name)
			for _, c := range node.Outline.Constraints {
				did, err := propagateOnce(c, r)
				if err != nil {
					return err
				}
				changed = changed || did
			}
		}
		if !changed {
			break
		}
	}

	for _, name := range g.PackageNames() {
		node, _ := g.Node(name)
		for _, c := range node.Outline.Constraints {
			if _, err := validateTop(c, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func observeVersion(r *Registry, v types.OptionValue) {
	if v.Type == types.OptionTypeVersion {
		r.Versions.Observe(v.Version)
	}
}

// seedLiterals allocates a type for every SpecOptionRef directly
// compared against a Literal anywhere in c's subtree.
func seedLiterals(c types.Constraint, r *Registry) error {
	switch n := c.(type) {
	case types.Cmp:
		if ref, lit, ok := refLiteralPair(n.LHS, n.RHS); ok {
			if _, err := r.AllocateOption(ref.Package, ref.Option, lit.Value.Type); err != nil {
				return err
			}
			observeVersion(r, lit.Value)
		}
		if err := seedLiterals(n.LHS, r); err != nil {
			return err
		}
		return seedLiterals(n.RHS, r)
	case types.IfThen:
		if err := seedLiterals(n.Cond, r); err != nil {
			return err
		}
		return seedLiterals(n.Then, r)
	case types.NumOf:
		for _, child := range n.Children {
			if err := seedLiterals(child, r); err != nil {
				return err
			}
		}
		return nil
	case types.Maximize:
		return seedLiterals(n.Child, r)
	case types.Minimize:
		return seedLiterals(n.Child, r)
	default:
		return nil
	}
}

func refLiteralPair(a, b types.Constraint) (types.SpecOptionRef, types.Literal, bool) {
	if ref, ok := a.(types.SpecOptionRef); ok {
		if lit, ok := b.(types.Literal); ok {
			return ref, lit, true
		}
	}
	if ref, ok := b.(types.SpecOptionRef); ok {
		if lit, ok := a.(types.Literal); ok {
			return ref, lit, true
		}
	}
	return types.SpecOptionRef{}, types.Literal{}, false
}

// softType returns the type of a value-producing constraint node
// without erroring; "" means unknown or not value-producing (Depends
// has no value type beyond its implicit Bool activation; Maximize and
// Minimize are never values).
func softType(c types.Constraint, r *Registry) types.OptionType {
	switch n := c.(type) {
	case types.Literal:
		return n.Value.Type
	case types.SpecOptionRef:
		t, _ := r.Type(n.Package, n.Option)
		return t
	case types.Depends:
		return types.OptionTypeBool
	case types.Cmp:
		return types.OptionTypeBool
	case types.IfThen:
		return types.OptionTypeBool
	case types.NumOf:
		return types.OptionTypeInt
	default:
		return ""
	}
}

// propagateOnce seeds any bare SpecOptionRef whose type is forced by
// its position (the other side of a Cmp, an IfThen condition or
// consequence, or a NumOf child) but is not yet allocated. Returns whether it allocated
// anything, so the fixed-point loop knows whether to run again.
func propagateOnce(c types.Constraint, r *Registry) (bool, error) {
	changed := false
	switch n := c.(type) {
	case types.Cmp:
		lt, rt := softType(n.LHS, r), softType(n.RHS, r)
		did, err := seedIfBareRef(n.LHS, rt, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
		did, err = seedIfBareRef(n.RHS, lt, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
		did, err = propagateOnce(n.LHS, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
		did, err = propagateOnce(n.RHS, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
	case types.IfThen:
		did, err := seedIfBareRef(n.Cond, types.OptionTypeBool, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
		did, err = seedIfBareRef(n.Then, types.OptionTypeBool, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
		did, err = propagateOnce(n.Cond, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
		did, err = propagateOnce(n.Then, r)
		if err != nil {
			return false, err
		}
		changed = changed || did
	case types.NumOf:
		for _, child := range n.Children {
			did, err := seedIfBareRef(child, types.OptionTypeBool, r)
			if err != nil {
				return false, err
			}
			changed = changed || did
			did, err = propagateOnce(child, r)
			if err != nil {
				return false, err
			}
			changed = changed || did
		}
	case types.Maximize:
		return propagateOnce(n.Child, r)
	case types.Minimize:
		return propagateOnce(n.Child, r)
	}
	return changed, nil
}

func seedIfBareRef(c types.Constraint, t types.OptionType, r *Registry) (bool, error) {
	ref, ok := c.(types.SpecOptionRef)
	if !ok || t == "" {
		return false, nil
	}
	if _, already := r.Lookup(ref.Package, ref.Option); already {
		return false, nil
	}
	if _, err := r.AllocateOption(ref.Package, ref.Option, t); err != nil {
		return false, err
	}
	return true, nil
}

// validateTop validates a package-level constraint, where Maximize and
// Minimize are permitted (they are only meaningful as top-level
// declarations); validate rejects them anywhere else in the tree.
func validateTop(c types.Constraint, r *Registry) (types.OptionType, error) {
	switch n := c.(type) {
	case types.Maximize:
		t, err := validate(n.Child, r)
		if err != nil {
			return "", err
		}
		if t != types.OptionTypeInt && t != types.OptionTypeFloat {
			return "", errInvalidConstraint("maximize objective must be int or float, got " + string(t))
		}
		return "", nil
	case types.Minimize:
		t, err := validate(n.Child, r)
		if err != nil {
			return "", err
		}
		if t != types.OptionTypeInt && t != types.OptionTypeFloat {
			return "", errInvalidConstraint("minimize objective must be int or float, got " + string(t))
		}
		return "", nil
	default:
		return validate(c, r)
	}
}

// hasWildcardVersion reports whether c is a Version literal carrying a
// wildcard part. Ordering comparators against such a literal are
// ill-typed (spec.md §4.G: "Ordering operators against a wildcard
// version are ill-typed and rejected at type-check.").
func hasWildcardVersion(c types.Constraint) bool {
	lit, ok := c.(types.Literal)
	if !ok || lit.Value.Type != types.OptionTypeVersion {
		return false
	}
	return lit.Value.Version.HasWildcard()
}

// validate type-checks a non-top-level constraint node and returns its
// value type (spec.md §4.F, §7).
func validate(c types.Constraint, r *Registry) (types.OptionType, error) {
	switch n := c.(type) {
	case types.Depends:
		return types.OptionTypeBool, nil
	case types.Literal:
		return n.Value.Type, nil
	case types.SpecOptionRef:
		t, ok := r.Lookup(n.Package, n.Option)
		if !ok {
			return "", errUnknownType(n.Package, n.Option)
		}
		return r.Entry(t).Type, nil
	case types.Cmp:
		lt, err := validate(n.LHS, r)
		if err != nil {
			return "", err
		}
		rt, err := validate(n.RHS, r)
		if err != nil {
			return "", err
		}
		if lt != rt {
			return "", errTypeMismatch(types.Describe(n.LHS), types.Describe(n.RHS), lt, rt)
		}
		if n.Op.Ordered() && lt == types.OptionTypeBool {
			return "", errInvalidConstraint("ordering comparator " + string(n.Op) + " not valid on bool")
		}
		if n.Op.Ordered() && (hasWildcardVersion(n.LHS) || hasWildcardVersion(n.RHS)) {
			return "", errInvalidConstraint("ordering comparator " + string(n.Op) + " is ill-typed against a wildcard version literal")
		}
		return types.OptionTypeBool, nil
	case types.IfThen:
		ct, err := validate(n.Cond, r)
		if err != nil {
			return "", err
		}
		if ct != types.OptionTypeBool {
			return "", errInvalidConstraint("if-then condition must be bool, got " + string(ct))
		}
		tt, err := validate(n.Then, r)
		if err != nil {
			return "", err
		}
		if tt != types.OptionTypeBool {
			return "", errInvalidConstraint("if-then consequence must be bool, got " + string(tt))
		}
		return types.OptionTypeBool, nil
	case types.NumOf:
		for _, child := range n.Children {
			ct, err := validate(child, r)
			if err != nil {
				return "", err
			}
			if ct != types.OptionTypeBool {
				return "", errInvalidConstraint("num_of child must be bool, got " + string(ct))
			}
		}
		return types.OptionTypeInt, nil
	case types.Maximize, types.Minimize:
		return "", errInvalidConstraint("objective used where a value was expected")
	default:
		return "", errInvalidConstraint("unrecognized constraint node")
	}
}
