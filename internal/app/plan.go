package app

import (
	"context"
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"configplanner/internal/core"
)

// Plan loads an outline set, propagates defaults, type-checks every
// constraint, translates the result into a CNF optimization problem,
// and solves it (spec.md §2, §4.G/§4.H).
func (s Service) Plan(ctx context.Context, req PlanRequest) (*core.PlanResult, error) {
	path := strings.TrimSpace(req.OutlinePath)
	if path == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("outline path is required (provide --outline)")
	}
	if len(req.Required) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one required package is needed (provide --require)")
	}

	outlines, err := s.OutlineLoader.LoadOutlines(path)
	if err != nil {
		return nil, err
	}
	graph, err := core.NewOutlineGraph(outlines)
	if err != nil {
		return nil, err
	}
	if err := core.PropagateDefaults(graph); err != nil {
		return nil, err
	}

	registry := core.NewRegistry()
	if err := core.TypeCheck(graph, registry); err != nil {
		return nil, err
	}

	problem, err := core.BuildSolverProblem(graph, registry, req.Required, req.Pins)
	if err != nil {
		return nil, err
	}
	return problem.Solve(ctx)
}
