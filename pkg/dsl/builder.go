package dsl

import (
	"fmt"

	"github.com/aretw0/excursion/pkg/adapters/memory"
	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/route"
)

// Builder manages the tour construction.
type Builder struct {
	locations map[string]*LocationBuilder
	order     []string
	start     string
	end       string
}

// New creates a new tour builder.
func New() *Builder {
	return &Builder{
		locations: make(map[string]*LocationBuilder),
	}
}

// Add creates a new location in the tour.
// If the location already exists, it returns the existing builder.
func (b *Builder) Add(id string) *LocationBuilder {
	if lb, ok := b.locations[id]; ok {
		return lb
	}
	lb := &LocationBuilder{
		loc:     domain.Location{ID: id},
		builder: b,
	}
	b.locations[id] = lb
	b.order = append(b.order, id)
	return lb
}

// Build compiles the tour into a repository and a route graph.
// The start defaults to the first location added. The graph is validated against
// the repository, so every Go target must have been added.
func (b *Builder) Build() (*memory.Repository, *route.Graph, error) {
	locations := make([]domain.Location, 0, len(b.order))
	edges := make(map[string][]string, len(b.order))
	for _, id := range b.order {
		lb := b.locations[id]
		locations = append(locations, lb.loc)
		if len(lb.next) > 0 {
			edges[id] = lb.next
		}
	}

	repo, err := memory.NewRepository(locations...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	start := b.start
	if start == "" && len(b.order) > 0 {
		start = b.order[0]
	}
	graph := route.NewGraph(start, b.end, edges)

	ids, err := repo.ListAll()
	if err != nil {
		return nil, nil, err
	}
	if err := route.Validate(graph, ids); err != nil {
		return nil, nil, err
	}
	return repo, graph, nil
}

// Linear compiles the locations into a repository walked in alphabetical order.
// Go, Start and End are ignored.
func (b *Builder) Linear() (*memory.Repository, *route.Linear, error) {
	locations := make([]domain.Location, 0, len(b.order))
	for _, id := range b.order {
		locations = append(locations, b.locations[id].loc)
	}
	repo, err := memory.NewRepository(locations...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}
	ids, err := repo.ListAll()
	if err != nil {
		return nil, nil, err
	}
	return repo, route.NewLinear(ids), nil
}
