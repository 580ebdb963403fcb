package route

import (
	"slices"

	"github.com/aretw0/excursion/pkg/domain"
)

// Graph walks a directed route graph.
type Graph struct {
	start string
	end   string
	order []string // declaration order of the adjacency keys
	edges map[string][]string
}

// NewGraph creates a graph policy. Successor lists are copied.
func NewGraph(start, end string, edges map[string][]string) *Graph {
	g := &Graph{
		start: start,
		end:   end,
		edges: make(map[string][]string, len(edges)),
	}
	for id, next := range edges {
		g.edges[id] = slices.Clone(next)
		g.order = append(g.order, id)
	}
	slices.Sort(g.order)
	return g
}

// Variant implements Resolver.
func (g *Graph) Variant() Variant { return VariantGraph }

// NextOptions returns the declared successors of current.
func (g *Graph) NextOptions(current string) []string {
	return slices.Clone(g.edges[current])
}

// IsTerminal reports whether current is the declared end.
func (g *Graph) IsTerminal(current string) bool {
	return g.end != "" && current == g.end
}

// StartLocation returns the declared start.
func (g *Graph) StartLocation() (string, error) {
	if g.start == "" {
		return "", &domain.ConfigurationError{Reason: "route graph has no start location"}
	}
	return g.start, nil
}

// End returns the declared end location.
func (g *Graph) End() string { return g.end }

// Locations returns every id mentioned as start, end, node or successor.
func (g *Graph) Locations() []string {
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" {
			seen[id] = true
		}
	}
	add(g.start)
	add(g.end)
	for id, next := range g.edges {
		add(id)
		for _, n := range next {
			add(n)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns every connection, grouped by source in sorted order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.order {
		for _, to := range g.edges[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}
