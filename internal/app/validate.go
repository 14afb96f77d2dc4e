package app

import (
	"context"
	"strings"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"configplanner/internal/core"
)

// Validate loads an outline set, builds its dependency graph, propagates
// defaults, and type-checks every constraint, without invoking the
// solver (spec.md §2 "validate the outline set without producing a
// plan"). A clean return means the set is plannable.
func (s Service) Validate(_ context.Context, req ValidateRequest) (ValidateResult, error) {
	path := strings.TrimSpace(req.OutlinePath)
	if path == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("outline path is required (provide --outline)")
	}

	outlines, err := s.OutlineLoader.LoadOutlines(path)
	if err != nil {
		return ValidateResult{}, err
	}
	graph, err := core.NewOutlineGraph(outlines)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := core.PropagateDefaults(graph); err != nil {
		return ValidateResult{}, err
	}

	registry := core.NewRegistry()
	if err := core.TypeCheck(graph, registry); err != nil {
		return ValidateResult{}, err
	}

	return ValidateResult{Packages: graph.PackageNames()}, nil
}
