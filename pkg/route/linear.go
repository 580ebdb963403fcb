package route

import (
	"slices"

	"github.com/aretw0/excursion/pkg/domain"
)

// Linear walks locations in alphabetical order.
type Linear struct {
	ids   []string
	index map[string]int
}

// NewLinear creates a linear policy over ids. The input is copied and sorted.
func NewLinear(ids []string) *Linear {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[string]int, len(sorted))
	for i, id := range sorted {
		index[id] = i
	}
	return &Linear{ids: sorted, index: index}
}

// Variant implements Resolver.
func (l *Linear) Variant() Variant { return VariantLinear }

// NextOptions returns the location following current, or nothing at the end.
func (l *Linear) NextOptions(current string) []string {
	i, ok := l.index[current]
	if !ok || i == len(l.ids)-1 {
		return nil
	}
	return []string{l.ids[i+1]}
}

// IsTerminal reports whether current is the last location.
func (l *Linear) IsTerminal(current string) bool {
	i, ok := l.index[current]
	return ok && i == len(l.ids)-1
}

// StartLocation returns the first location.
func (l *Linear) StartLocation() (string, error) {
	if len(l.ids) == 0 {
		return "", &domain.ConfigurationError{Reason: "no locations found"}
	}
	return l.ids[0], nil
}

// Locations returns the sorted ids.
func (l *Linear) Locations() []string {
	return slices.Clone(l.ids)
}

// Edges returns the chain of consecutive locations.
func (l *Linear) Edges() []Edge {
	edges := make([]Edge, 0, len(l.ids))
	for i := 0; i+1 < len(l.ids); i++ {
		edges = append(edges, Edge{From: l.ids[i], To: l.ids[i+1]})
	}
	return edges
}
