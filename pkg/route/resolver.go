package route

import (
	"fmt"
	"strings"
)

// Variant names a navigation policy.
type Variant string

const (
	VariantLinear Variant = "linear"
	VariantGraph  Variant = "graph"
)

// ParseVariant converts a configuration value into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantLinear, "":
		return VariantLinear, nil
	case VariantGraph:
		return VariantGraph, nil
	default:
		return "", fmt.Errorf("unknown variant %q (expected linear or graph)", s)
	}
}

// Edge is a directed connection between two locations.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Resolver computes navigation options over a topology.
type Resolver interface {
	// Variant reports the active policy.
	Variant() Variant

	// NextOptions returns the ordered ids reachable from current in one step.
	NextOptions(current string) []string

	// IsTerminal reports whether current ends the tour.
	IsTerminal(current string) bool

	// StartLocation returns the entry location of the tour.
	StartLocation() (string, error)

	// Locations returns every id the topology mentions, sorted.
	Locations() []string

	// Edges returns the connections of the topology in declaration order.
	Edges() []Edge
}

// Unreachable returns the ids that cannot be reached from the start location, sorted.
func Unreachable(r Resolver) []string {
	start, err := r.StartLocation()
	if err != nil {
		return r.Locations()
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range r.NextOptions(current) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var missing []string
	for _, id := range r.Locations() {
		if !visited[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
