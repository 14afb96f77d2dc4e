package core

import (
	"sort"

	"configplanner/internal/types"
)

// OutlineNode is one package's position in the OutlineGraph: its outline
// plus the successor names reachable through its Depends atoms.
type OutlineNode struct {
	Outline  types.PackageOutline
	Requires []string // sorted, deduplicated Depends(name) targets
}

// OutlineGraph is the package dependency graph of spec.md §4.D: every
// node comes from a loaded PackageOutline, and every Depends edge must
// resolve to a node already in the graph. Graph construction does not
// reject cycles; default propagation does (spec.md §4.E).
type OutlineGraph struct {
	nodes map[string]*OutlineNode
	order []string // insertion order, for deterministic iteration
}

// NewOutlineGraph builds a graph from a set of outlines and validates
// that every Depends atom names a package present in the set
// (MissingPackage, spec.md §7).
func NewOutlineGraph(outlines []types.PackageOutline) (*OutlineGraph, error) {
	g := &OutlineGraph{nodes: make(map[string]*OutlineNode, len(outlines))}
	for _, o := range outlines {
		if _, exists := g.nodes[o.Name]; exists {
			return nil, errDuplicatePackage(o.Name)
		}
		g.nodes[o.Name] = &OutlineNode{Outline: o}
		g.order = append(g.order, o.Name)
	}
	for _, name := range g.order {
		node := g.nodes[name]
		deps := node.Outline.Dependencies()
		for dep := range deps {
			if _, ok := g.nodes[dep]; !ok {
				return nil, errMissingPackage(dep)
			}
		}
		node.Requires = types.SortedDependencyNames(deps)
	}
	return g, nil
}

// Node returns the package's node, or false if the package is unknown.
func (g *OutlineGraph) Node(name string) (*OutlineNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// PackageNames returns every package name in the graph, sorted.
func (g *OutlineGraph) PackageNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	sort.Strings(out)
	return out
}

// Predecessors returns the names of every package whose Requires list
// includes name, i.e. every package that directly depends on it.
func (g *OutlineGraph) Predecessors(name string) []string {
	var out []string
	for _, n := range g.order {
		node := g.nodes[n]
		for _, req := range node.Requires {
			if req == name {
				out = append(out, n)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// Len reports the number of packages in the graph.
func (g *OutlineGraph) Len() int { return len(g.nodes) }
