package core

import (
	"sort"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"configplanner/internal/types"
)

type registryPhase int

const (
	phaseWIP registryPhase = iota
	phaseBuilt
)

// toggleOption is the reserved option name for a package's own
// activation Bool, never a user-declared option name (spec.md §4.G).
const toggleOption = ""

type optionKey struct {
	Package string
	Option  string
}

type optionEntry struct {
	Package string
	Option  string
	Type    types.OptionType
	SatVar  int // assigned by the solver builder, Bool slots only
}

// Registry is the append-only option table of spec.md §4.C. It moves
// through two phases: WIP, while type inference is seeding and
// propagating types and allocating option slots, and Built, once
// allocation is frozen and clause generation/decoding can begin.
// Version interning (VersionRegistry) finalizes at the same transition.
type Registry struct {
	phase    registryPhase
	entries  []optionEntry
	index    map[optionKey]int
	Versions *VersionRegistry

	trackedDesc []string // tracked constraint id -> description, id == index
}

// NewRegistry returns an empty WIP registry.
func NewRegistry() *Registry {
	return &Registry{
		index:    map[optionKey]int{},
		Versions: newVersionRegistry(),
	}
}

// AllocateOption returns the index of (pkg, option)'s slot, creating it
// with type t if it does not yet exist. A second allocation of the same
// slot with a different type is a DuplicateOption error (spec.md §7);
// with the same type it is a no-op that returns the existing index, so
// repeated SpecOptionRef occurrences across many constraints share one
// slot. That no-op path is exempt from the WIP/Built phase guard below:
// clause generation re-derives a few already-allocated slots in passing
// (e.g. a Depends atom's activation toggle), and those idempotent
// re-reads must keep working after Build() even though allocating a
// genuinely new slot at that point is rejected.
func (r *Registry) AllocateOption(pkg, option string, t types.OptionType) (int, error) {
	key := optionKey{Package: pkg, Option: option}
	if idx, ok := r.index[key]; ok {
		existing := r.entries[idx]
		if existing.Type != t {
			return 0, errDuplicateOption(pkg, option, existing.Type, t)
		}
		return idx, nil
	}
	if r.phase != phaseWIP {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("registry is built: cannot allocate new option " + pkg + "/" + option)
	}
	idx := len(r.entries)
	r.entries = append(r.entries, optionEntry{Package: pkg, Option: option, Type: t})
	r.index[key] = idx
	return idx, nil
}

// ActivationToggle returns the index of pkg's activation Bool,
// allocating it on first use. Every package in the outline set gets one
// regardless of whether any Depends atom references it (spec.md §4.G).
func (r *Registry) ActivationToggle(pkg string) (int, error) {
	return r.AllocateOption(pkg, toggleOption, types.OptionTypeBool)
}

// Lookup returns the slot index for (pkg, option) if it has been
// allocated.
func (r *Registry) Lookup(pkg, option string) (int, bool) {
	idx, ok := r.index[optionKey{Package: pkg, Option: option}]
	return idx, ok
}

// Type returns the type fixed for (pkg, option), or MissingOption if the
// slot was never allocated (spec.md §7).
func (r *Registry) Type(pkg, option string) (types.OptionType, error) {
	idx, ok := r.Lookup(pkg, option)
	if !ok {
		return "", errMissingOption(pkg, option)
	}
	return r.entries[idx].Type, nil
}

// Entry returns the allocated slot at idx.
func (r *Registry) Entry(idx int) optionEntry { return r.entries[idx] }

// NumEntries returns how many option slots have been allocated.
func (r *Registry) NumEntries() int { return len(r.entries) }

// SetSATVar records the boolean variable id the solver builder assigned
// to a Bool option slot. idx selects the option slot; non-Bool slots use
// several literals each (one per domain threshold), and that mapping is
// kept by encodingContext in internal/core/solver.go, not here.
func (r *Registry) SetSATVar(idx, satVar int) { r.entries[idx].SatVar = satVar }

// TrackConstraint assigns a new tracked id to a constraint description
// (spec.md §4.C) and returns it. Ids are dense and start at 0, so they
// can index directly into a slice built during decoding.
func (r *Registry) TrackConstraint(desc string) int {
	id := len(r.trackedDesc)
	r.trackedDesc = append(r.trackedDesc, desc)
	return id
}

// Description returns the text registered for a tracked constraint id.
func (r *Registry) Description(id int) string { return r.trackedDesc[id] }

// NumTracked reports how many constraints have been tracked.
func (r *Registry) NumTracked() int { return len(r.trackedDesc) }

// Build freezes the registry: no new option slot can be allocated (an
// AllocateOption/ActivationToggle call that re-reads an existing slot
// still succeeds), and the version registry is interned.
func (r *Registry) Build() {
	r.Versions.build()
	r.phase = phaseBuilt
}

// IsBuilt reports whether Build has run.
func (r *Registry) IsBuilt() bool { return r.phase == phaseBuilt }

// VersionRegistry interns the distinct concrete Version values observed
// during type inference (spec.md §4.A), so the solver can order-encode
// Version-typed options over a dense, sorted domain instead of the
// infinite version space.
type VersionRegistry struct {
	built   bool
	seen    map[string]types.Version
	sorted  []types.Version
	indexOf map[string]int
}

func newVersionRegistry() *VersionRegistry {
	return &VersionRegistry{seen: map[string]types.Version{}}
}

// Observe records a concrete (wildcard-free) version as part of some
// option's domain. Safe to call repeatedly with the same version.
func (vr *VersionRegistry) Observe(v types.Version) {
	if vr.built || v.HasWildcard() {
		return
	}
	vr.seen[v.String()] = v
}

// build sorts and indexes every observed version using the spec.md §3
// total order. Ties (equal-but-differently-spelled versions, which the
// grammar does not produce) would collapse to one slot; none are
// expected in practice.
func (vr *VersionRegistry) build() {
	vr.sorted = make([]types.Version, 0, len(vr.seen))
	for _, v := range vr.seen {
		vr.sorted = append(vr.sorted, v)
	}
	sort.Slice(vr.sorted, func(i, j int) bool {
		cmp, err := types.CompareVersions(vr.sorted[i], vr.sorted[j])
		if err != nil {
			return vr.sorted[i].String() < vr.sorted[j].String()
		}
		return cmp < 0
	})
	vr.indexOf = make(map[string]int, len(vr.sorted))
	for i, v := range vr.sorted {
		vr.indexOf[v.String()] = i
	}
	vr.built = true
}

// IndexOf returns the version's position in the sorted domain, once
// built.
func (vr *VersionRegistry) IndexOf(v types.Version) (int, bool) {
	idx, ok := vr.indexOf[v.String()]
	return idx, ok
}

// Domain returns the full sorted, deduplicated version domain.
func (vr *VersionRegistry) Domain() []types.Version { return vr.sorted }
