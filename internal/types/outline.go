package types

// DefaultValue is one entry of a PackageOutline's set_defaults map. Clear
// means "None" in spec.md §3/§4.E: instead of passing a value on, the
// package removes any default its direct successors hold for this
// option.
type DefaultValue struct {
	Value OptionValue
	Clear bool
}

func SetDefault(v OptionValue) DefaultValue { return DefaultValue{Value: v} }
func ClearDefault() DefaultValue            { return DefaultValue{Clear: true} }

// PackageOutline describes one package's tunable options, dependencies,
// and constraints (spec.md §3). Outlines are constructed by the loader,
// inserted into the OutlineGraph exactly once, and are otherwise
// immutable except for SetDefaults, which default propagation (internal
// /core) mutates in place.
type PackageOutline struct {
	Name string

	// Constraints is the package's own constraint tree list: atoms,
	// comparisons, logical combinators, and objectives (spec.md §3).
	Constraints []Constraint

	// SetOptions are hard pins: a value assigned regardless of any
	// default propagated from a predecessor.
	SetOptions map[string]OptionValue

	// SetDefaults are values this package contributes to each direct
	// successor in the dependency graph, unless the successor already
	// has one (spec.md §4.E).
	SetDefaults map[string]DefaultValue
}

// NewPackageOutline returns an outline with initialized maps, so callers
// (loaders, tests) never need to nil-check SetOptions/SetDefaults.
func NewPackageOutline(name string) PackageOutline {
	return PackageOutline{
		Name:        name,
		SetOptions:  map[string]OptionValue{},
		SetDefaults: map[string]DefaultValue{},
	}
}

// Dependencies is a small convenience wrapper around
// ExtractDependencies across every constraint the outline owns.
func (o PackageOutline) Dependencies() map[string]struct{} {
	out := map[string]struct{}{}
	for _, c := range o.Constraints {
		for name := range ExtractDependencies(c) {
			out[name] = struct{}{}
		}
	}
	return out
}

// SpecOptions is a small convenience wrapper around ExtractSpecOptions
// across every constraint the outline owns.
func (o PackageOutline) SpecOptions() []PackageOption {
	var out []PackageOption
	for _, c := range o.Constraints {
		out = append(out, ExtractSpecOptions(c)...)
	}
	return out
}
