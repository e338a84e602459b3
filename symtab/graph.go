// Copyright (C) 2019-2026 The Leo Authors.
// This file is part of the Leo compiler core.
//
// Licensed under the GNU General Public License, Version 3.
// See the LICENSE file in the repository root for details.

package symtab

import (
	"fmt"

	"github.com/ProvableHQ/leo-sub003/ident"
)

// depGraph is a small directed-edge graph over ident.Location keyed nodes,
// used for both the composite dependency graph (struct-in-struct) and the
// cross-program import graph (spec.md §4.1). Topological ordering follows
// Kahn's algorithm, adapted from the teacher's
// `pgraph.Graph.TopologicalSort` (purpleidea/mgmt/pgraph/pgraph.go) to this
// package's Location-keyed nodes instead of pointer-identity vertices.
type depGraph struct {
	nodes map[ident.Location]bool
	edges map[ident.Location][]ident.Location // from -> [to]
}

func newDepGraph() *depGraph {
	return &depGraph{nodes: make(map[ident.Location]bool), edges: make(map[ident.Location][]ident.Location)}
}

func (g *depGraph) addNode(n ident.Location) {
	g.nodes[n] = true
}

func (g *depGraph) addEdge(from, to ident.Location) {
	g.addNode(from)
	g.addNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// postOrder returns a postorder topological sort (dependencies before
// dependents) or an error naming a node on a detected cycle.
func (g *depGraph) postOrder() ([]ident.Location, error) {
	inDegree := make(map[ident.Location]int)
	for n := range g.nodes {
		inDegree[n] = 0
	}
	for _, tos := range g.edges {
		for _, to := range tos {
			inDegree[to]++
		}
	}

	var ready []ident.Location
	for n, d := range inDegree {
		if d == 0 {
			ready = append(ready, n)
		}
	}

	remaining := make(map[ident.Location]int)
	for n, d := range inDegree {
		remaining[n] = d
	}

	var order []ident.Location
	for len(ready) > 0 {
		last := len(ready) - 1
		n := ready[last]
		ready = ready[:last]
		order = append(order, n)
		for _, to := range g.edges[n] {
			remaining[to]--
			if remaining[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) != len(g.nodes) {
		for n, rem := range remaining {
			if rem > 0 {
				return nil, fmt.Errorf("dependency cycle detected at %s", n)
			}
		}
	}

	// postOrder wants dependencies first; edges point from -> to meaning
	// "from depends on to", so a Kahn's-algorithm emission order (which
	// visits zero-indegree/"nothing depends on it yet" nodes first) is
	// already dependents-before-dependencies. Reverse it.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
