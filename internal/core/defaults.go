package core

import (
	"sort"

	"configplanner/internal/types"
)

// PropagateDefaults pushes each package's SetDefaults onto its direct
// successors in a package's Requires list, mutating each successor
// outline's SetDefaults map in place (spec.md §4.E). Propagation visits
// packages in topological order (a package is processed only after all
// of its predecessors), so "first setter wins" is well defined
// regardless of the outline set's declaration order.
//
// A successor that already carries a default for an option keeps it;
// a later predecessor proposing a different value for that option is a
// DefaultConflictError. Proposing the same value again is a no-op, so
// running PropagateDefaults twice over an already-propagated graph
// changes nothing (idempotence, spec.md §8 testable property 2).
//
// A cleared default (DefaultValue.Clear) installs nothing: it removes the
// option's default from each direct successor, and is a no-op for a
// successor that has none.
func PropagateDefaults(g *OutlineGraph) error {
	order, err := topologicalOrder(g)
	if err != nil {
		return err
	}

	setterOf := make(map[string]map[string]string, g.Len())
	for _, name := range order {
		node := g.nodes[name]
		for _, succ := range node.Requires {
			succNode := g.nodes[succ]
			for option, proposed := range node.Outline.SetDefaults {
				if proposed.Clear {
					delete(succNode.Outline.SetDefaults, option)
					delete(setterOf[succ], option)
					continue
				}
				origin := originalSetter(setterOf, name, option)
				existing, has := succNode.Outline.SetDefaults[option]
				if !has {
					succNode.Outline.SetDefaults[option] = proposed
					if setterOf[succ] == nil {
						setterOf[succ] = map[string]string{}
					}
					setterOf[succ][option] = origin
					continue
				}
				if defaultValuesEqual(existing, proposed) {
					continue
				}
				return &DefaultConflictError{
					Package:        succ,
					Option:         option,
					FirstSetter:    setterOf[succ][option],
					FirstValue:     existing.Value,
					ConflictSetter: origin,
					ConflictValue:  proposed.Value,
				}
			}
		}
	}
	return nil
}

// originalSetter resolves the transitive origin of a default a package is
// about to relay: if name itself received option via propagation, the
// origin is whoever set it first, not name (spec.md §4.E: "first setter"
// tracks the transitive origin, not the immediate relay).
func originalSetter(setterOf map[string]map[string]string, name, option string) string {
	if m, ok := setterOf[name]; ok {
		if origin, ok := m[option]; ok {
			return origin
		}
	}
	return name
}

func defaultValuesEqual(a, b types.DefaultValue) bool {
	if a.Clear != b.Clear {
		return false
	}
	if a.Clear {
		return true
	}
	return a.Value.Equal(b.Value)
}

// topologicalOrder orders packages so that every package appears before
// every package it Requires (Kahn's algorithm over the Requires edges).
// A non-empty remainder after the queue drains means a dependency cycle
// exists among those packages (spec.md §7 Cycle).
func topologicalOrder(g *OutlineGraph) ([]string, error) {
	indegree := make(map[string]int, g.Len())
	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, name := range g.order {
		for _, req := range g.nodes[name].Requires {
			indegree[req]++
		}
	}

	var queue []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)

		var freed []string
		for _, req := range g.nodes[name].Requires {
			indegree[req]--
			if indegree[req] == 0 {
				freed = append(freed, req)
			}
		}
		if len(freed) > 0 {
			queue = append(queue, freed...)
			sort.Strings(queue)
		}
	}

	if len(order) != len(g.order) {
		var remaining []string
		for _, name := range g.order {
			if indegree[name] > 0 {
				remaining = append(remaining, name)
			}
		}
		sort.Strings(remaining)
		return nil, errCycle(remaining)
	}
	return order, nil
}
