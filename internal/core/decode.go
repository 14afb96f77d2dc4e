package core

import (
	"context"
	"sort"

	"github.com/crillab/gophersat/solver"

	"configplanner/internal/types"
)

// PlanStatus is the outcome of one solve (spec.md §4.H).
type PlanStatus string

const (
	PlanSat     PlanStatus = "sat"
	PlanUnsat   PlanStatus = "unsat"
	PlanUnknown PlanStatus = "unknown"
)

// PackageResult is one package's record in a resolved plan (spec.md §2
// "For each package in the outline set, a record {package, activated,
// options}").
type PackageResult struct {
	Package   string
	Activated bool
	Options   map[string]types.OptionValue
}

// PlanResult is the decoded outcome of BuildSolverProblem+Solve.
type PlanResult struct {
	Status   PlanStatus
	Packages map[string]PackageResult // only populated when Status == PlanSat
}

// decode runs gophersat's weighted optimization over p and translates
// the result back into domain terms (spec.md §4.H):
//
//   - SAT: the optimal model is decoded into one PackageResult per
//     package, each with its activation flag and every option value the
//     order encoding can recover.
//   - UNSAT: a deletion-based minimal core is extracted (gophersat has
//     no incremental-assumption API to do this natively) and returned
//     as an UnsatError naming the conflicting tracked constraints.
//
// gophersat's Minimize always decides, so decode never returns
// SolverInconclusive; a cancelled ctx returns ctx.Err() instead.
func decode(ctx context.Context, p *SolverProblem) (*PlanResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	sat, ok := trySolve(p.clauses, p.numVars, p.costLits, p.costWeights)
	if !ok {
		core := minimalUnsatCore(ctx, p)
		return nil, &UnsatError{Core: core}
	}

	packages := make(map[string]PackageResult, len(p.activation))
	for name, actVar := range p.activation {
		packages[name] = PackageResult{
			Package:   name,
			Activated: modelBool(sat, actVar),
			Options:   decodeOptions(sat, p, name),
		}
	}
	return &PlanResult{Status: PlanSat, Packages: packages}, nil
}

// trySolve builds a fresh gophersat problem (problems are not reusable
// across solves with different clause sets) and runs its weighted
// minimization. ok is false for UNSAT: a negative cost from Minimize is
// read as UNSAT, matching gophersat's own convention.
func trySolve(clauses [][]int, numVars int, costLits []solver.Lit, costWeights []int) (model []bool, ok bool) {
	if numVars == 0 {
		return nil, true
	}
	problem := solver.ParseSliceNb(clauses, numVars)
	if len(costLits) > 0 {
		problem.SetCostFunc(costLits, costWeights)
	}
	s := solver.New(problem)
	if cost := s.Minimize(); cost < 0 {
		return nil, false
	}
	return s.Model(), true
}

func modelBool(model []bool, satVar int) bool {
	i := satVar - 1
	if i < 0 || i >= len(model) {
		return false
	}
	return model[i]
}

func decodeOptions(model []bool, p *SolverProblem, pkg string) map[string]types.OptionValue {
	out := map[string]types.OptionValue{}
	for idx := 0; idx < p.registry.NumEntries(); idx++ {
		entry := p.registry.Entry(idx)
		if entry.Package != pkg || entry.Option == toggleOption {
			continue
		}
		if v, ok := decodeSlotValue(model, p, idx, entry.Type); ok {
			out[entry.Option] = v
		}
	}
	return out
}

func decodeSlotValue(model []bool, p *SolverProblem, idx int, t types.OptionType) (types.OptionValue, bool) {
	if t == types.OptionTypeBool {
		v, ok := p.boolVar[idx]
		if !ok {
			return types.OptionValue{}, false
		}
		return types.BoolValue(modelBool(model, v)), true
	}
	oe, ok := p.orderEnc[idx]
	if !ok {
		return types.OptionValue{}, false
	}
	best := -1
	for i := 0; i < len(oe.domain); i++ {
		if modelBool(model, oe.vars[i]) {
			best = i
		}
	}
	if best < 0 {
		return types.OptionValue{}, false
	}
	return oe.domain[best], true
}

// minimalUnsatCore removes one tracked constraint's clause at a time
// and re-solves; any removal that makes the reduced problem SAT means
// that constraint was necessary for the original UNSAT result, so it
// stays in the core. This is the deletion-based core extraction
// strategy (spec.md §4.H), chosen because gophersat exposes no
// incremental-assumption API to do better.
func minimalUnsatCore(ctx context.Context, p *SolverProblem) []string {
	excluded := map[int]bool{} // clause indices proven unnecessary so far
	core := make([]int, 0, len(p.trackedUnits))
	for _, tu := range p.trackedUnits {
		core = append(core, tu.id)
	}

	for _, tu := range p.trackedUnits {
		if ctx.Err() != nil {
			break
		}
		reduced := clausesExcluding(p.clauses, excluded, tu.clauseIndex)
		if _, ok := trySolve(reduced, p.numVars, p.costLits, p.costWeights); !ok {
			// Still UNSAT without this constraint: it wasn't necessary.
			excluded[tu.clauseIndex] = true
			core = removeInt(core, tu.id)
		}
		// Otherwise dropping it made the problem SAT, so it belongs in
		// the core; leave it in place for the remaining iterations.
	}

	descriptions := make([]string, 0, len(core))
	for _, id := range core {
		descriptions = append(descriptions, p.registry.Description(id))
	}
	sort.Strings(descriptions)
	return descriptions
}

// clausesExcluding returns p's clauses with every index in excluded, plus
// extra, left out.
func clausesExcluding(clauses [][]int, excluded map[int]bool, extra int) [][]int {
	out := make([][]int, 0, len(clauses))
	for i, clause := range clauses {
		if excluded[i] || i == extra {
			continue
		}
		out = append(out, clause)
	}
	return out
}

func removeInt(values []int, v int) []int {
	out := make([]int, 0, len(values))
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
