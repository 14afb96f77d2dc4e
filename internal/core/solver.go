package core

import (
	"context"

	"github.com/crillab/gophersat/solver"

	"configplanner/internal/types"
)

// encodingContext accumulates SAT variables and CNF clauses while a
// package set is translated (spec.md §4.G). Variable ids are 1-based
// and dense, as gophersat's solver.ParseSliceNb requires.
type encodingContext struct {
	registry *Registry

	nextVar int
	clauses [][]int

	boolVar   map[int]int             // option slot idx -> SAT var (Bool-typed slots)
	orderEnc  map[int]*orderEncoding   // option slot idx -> order encoding (non-Bool slots)
	trueV     int
	falseV    int

	costLits    []solver.Lit
	costWeights []int

	// trackedUnits records, for every hard clause contributed by a
	// tracked constraint, the (trackedID, clause index) pair, so deletion-based
	// UNSAT core search (internal/core/decode.go) can drop one at a time.
	trackedUnits []trackedUnit
}

type trackedUnit struct {
	id          int
	clauseIndex int
}

func newEncodingContext(r *Registry) *encodingContext {
	ctx := &encodingContext{
		registry: r,
		boolVar:  map[int]int{},
		orderEnc: map[int]*orderEncoding{},
	}
	ctx.trueV = ctx.freshVar()
	ctx.falseV = ctx.freshVar()
	ctx.addClause(ctx.trueV)
	ctx.addClause(-ctx.falseV)
	return ctx
}

func (ctx *encodingContext) freshVar() int {
	ctx.nextVar++
	return ctx.nextVar
}

func (ctx *encodingContext) addClause(lits ...int) {
	clause := make([]int, len(lits))
	copy(clause, lits)
	ctx.clauses = append(ctx.clauses, clause)
}

// boolSlotVar returns the single SAT variable representing a Bool
// option slot's truth value, allocating it on first use.
func (ctx *encodingContext) boolSlotVar(idx int) int {
	if v, ok := ctx.boolVar[idx]; ok {
		return v
	}
	v := ctx.freshVar()
	ctx.boolVar[idx] = v
	ctx.registry.SetSATVar(idx, v)
	return v
}

// slotOrderEncoding returns the order encoding for a non-Bool option
// slot over the given sorted domain, allocating len(domain)+1 fresh
// variables and their monotonicity clauses on first use (spec.md §4.G).
func (ctx *encodingContext) slotOrderEncoding(idx int, domain []types.OptionValue) *orderEncoding {
	if oe, ok := ctx.orderEnc[idx]; ok {
		return oe
	}
	oe := &orderEncoding{domain: domain}
	oe.vars = make([]int, len(domain)+1)
	for i := range oe.vars {
		oe.vars[i] = ctx.freshVar()
	}
	ctx.clauses = append(ctx.clauses, oe.monotoneClauses()...)
	ctx.orderEnc[idx] = oe
	return oe
}

// SolverProblem is the finished CNF translation of an outline graph,
// ready to hand to gophersat (spec.md §4.G/§4.H).
type SolverProblem struct {
	registry     *Registry
	numVars      int
	clauses      [][]int
	costLits     []solver.Lit
	costWeights  []int
	trackedUnits []trackedUnit
	activation   map[string]int // package name -> activation SAT var
	boolVar      map[int]int
	orderEnc     map[int]*orderEncoding
	domains      map[int]*slotDomain
}

// BuildSolverProblem translates a type-checked outline graph into a CNF
// optimization problem (spec.md §4.G):
//
//   - every package gets a Bool activation toggle;
//   - required roots are asserted active;
//   - explicit option pins (CLI --set or outline SetOptions) are
//     asserted, gated on the owning package's activation;
//   - every other constraint a package declares is translated and gated
//     the same way, so a deactivated package imposes nothing (spec.md §8
//     testable property 6);
//   - Maximize/Minimize objectives and unsatisfied defaults contribute
//     to the cost function; optional packages being active costs 1 each,
//     so the solver prefers the smallest activation set that is still
//     feasible (spec.md §8 testable property 5).
func BuildSolverProblem(g *OutlineGraph, r *Registry, requiredRoots []string, explicit map[types.PackageOption]types.OptionValue) (*SolverProblem, error) {
	ctx := newEncodingContext(r)

	activation := make(map[string]int, g.Len())
	for _, name := range g.PackageNames() {
		idx, err := r.ActivationToggle(name)
		if err != nil {
			return nil, err
		}
		activation[name] = ctx.boolSlotVar(idx)
	}

	// Every slot variable creation is complete now (type inference already
	// ran; the only allocation left for this graph was one activation
	// toggle per package, just above). Build finalizes the version
	// registry's interning so CollectDomains/sortValues below can order
	// each Version-typed slot's domain by the shared canonical indices
	// (spec.md §4.A/§4.C) instead of re-deriving an equivalent order
	// independently. Nothing past this point allocates a new slot; the
	// few call sites that still call AllocateOption/ActivationToggle only
	// ever re-read one already allocated here or during TypeCheck.
	r.Build()
	domains := CollectDomains(g, r)

	required := make(map[string]bool, len(requiredRoots))
	for _, name := range requiredRoots {
		if _, ok := g.Node(name); !ok {
			return nil, errMissingPackage(name)
		}
		required[name] = true
	}
	for name, v := range activation {
		if required[name] {
			id := r.TrackConstraint(name + " required explicitly")
			ctx.addClause(v)
			ctx.trackedUnits = append(ctx.trackedUnits, trackedUnit{id: id, clauseIndex: len(ctx.clauses) - 1})
		} else {
			ctx.costLits = append(ctx.costLits, solver.IntToLit(int32(v))) //nolint:gosec // var ids stay within int32 range for realistic outline sizes
			ctx.costWeights = append(ctx.costWeights, 1)
		}
	}

	for pkgOpt, val := range explicit {
		idx, ok := r.Lookup(pkgOpt.Package, pkgOpt.Option)
		if !ok {
			return nil, errMissingOption(pkgOpt.Package, pkgOpt.Option)
		}
		lit, err := litForEquals(ctx, domains, idx, val)
		if err != nil {
			return nil, err
		}
		act, ok := activation[pkgOpt.Package]
		if !ok {
			return nil, errMissingPackage(pkgOpt.Package)
		}
		ctx.addClause(act) // pinning an option activates its package
		ctx.addClause(-act, lit)
	}

	for _, name := range g.PackageNames() {
		node, _ := g.Node(name)
		act := activation[name]

		for option, val := range node.Outline.SetOptions {
			idx, err := r.AllocateOption(name, option, val.Type)
			if err != nil {
				return nil, err
			}
			lit, err := litForEquals(ctx, domains, idx, val)
			if err != nil {
				return nil, err
			}
			desc := types.Describe(types.Cmp{
				LHS: types.SpecOptionRef{Package: name, Option: option},
				RHS: types.Literal{Value: val},
				Op:  types.CmpEq,
			})
			id := r.TrackConstraint(desc)
			ctx.addClause(-act, lit)
			ctx.trackedUnits = append(ctx.trackedUnits, trackedUnit{id: id, clauseIndex: len(ctx.clauses) - 1})
		}

		for option, dv := range node.Outline.SetDefaults {
			if dv.Clear {
				continue
			}
			idx, ok := r.Lookup(name, option)
			if !ok {
				continue
			}
			lit, err := litForEquals(ctx, domains, idx, dv.Value)
			if err != nil {
				return nil, err
			}
			// Soft: penalize the package being active while failing its
			// default, rather than forbidding it outright.
			conj, err := ctxAndLit(ctx, act, -lit)
			if err != nil {
				return nil, err
			}
			ctx.costLits = append(ctx.costLits, solver.IntToLit(int32(conj))) //nolint:gosec
			ctx.costWeights = append(ctx.costWeights, 1)
		}

		for _, c := range node.Outline.Constraints {
			switch n := c.(type) {
			case types.Maximize:
				if err := addObjective(ctx, r, domains, n.Child, -1); err != nil {
					return nil, err
				}
			case types.Minimize:
				if err := addObjective(ctx, r, domains, n.Child, 1); err != nil {
					return nil, err
				}
			default:
				lit, err := litFor(ctx, r, domains, c)
				if err != nil {
					return nil, err
				}
				desc := types.Describe(c)
				id := r.TrackConstraint(desc)
				ctx.addClause(-act, lit)
				ctx.trackedUnits = append(ctx.trackedUnits, trackedUnit{id: id, clauseIndex: len(ctx.clauses) - 1})
			}
		}
	}

	return &SolverProblem{
		registry:     r,
		numVars:      ctx.nextVar,
		clauses:      ctx.clauses,
		costLits:     ctx.costLits,
		costWeights:  ctx.costWeights,
		trackedUnits: ctx.trackedUnits,
		activation:   activation,
		boolVar:      ctx.boolVar,
		orderEnc:     ctx.orderEnc,
		domains:      domains,
	}, nil
}

// addObjective contributes an order-encoded value's thresholds to the
// cost function. sign is -1 for maximize (reward higher values, so
// penalize thresholds NOT reached) and +1 for minimize (penalize
// thresholds reached).
func addObjective(ctx *encodingContext, r *Registry, domains map[int]*slotDomain, child types.Constraint, sign int) error {
	thresholds, err := valueThresholds(ctx, r, domains, child)
	if err != nil {
		return err
	}
	for _, v := range thresholds {
		lit := v
		if sign < 0 {
			lit = -v
		}
		ctx.costLits = append(ctx.costLits, solver.IntToLit(int32(lit))) //nolint:gosec
		ctx.costWeights = append(ctx.costWeights, 1)
	}
	return nil
}

// Solve runs gophersat's weighted optimization over the built problem
// (spec.md §4.H): Sat with the optimal model, Unsat with a deletion-
// based minimal core. It never reports SolverInconclusive (see decode).
func (p *SolverProblem) Solve(ctx context.Context) (*PlanResult, error) {
	return decode(ctx, p)
}
