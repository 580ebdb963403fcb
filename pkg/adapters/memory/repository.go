package memory

import (
	"fmt"
	"slices"

	"github.com/aretw0/excursion/pkg/domain"
)

// Repository implements ports.LocationRepository over a fixed set of locations.
// It is read-only after construction and safe for concurrent use.
type Repository struct {
	locations map[string]domain.Location
	ids       []string
}

// NewRepository creates a repository from domain objects.
// A location with an empty Text is stored without text, as a directory without a text file would be.
func NewRepository(locations ...domain.Location) (*Repository, error) {
	r := &Repository{locations: make(map[string]domain.Location, len(locations))}
	for _, loc := range locations {
		if loc.ID == "" {
			return nil, fmt.Errorf("location missing ID")
		}
		if _, dup := r.locations[loc.ID]; dup {
			return nil, fmt.Errorf("duplicate location: %s", loc.ID)
		}
		loc.Images = slices.Clone(loc.Images)
		r.locations[loc.ID] = loc
		r.ids = append(r.ids, loc.ID)
	}
	slices.Sort(r.ids) // Deterministic order
	return r, nil
}

// GetText returns the text body of a location.
func (r *Repository) GetText(id string) (string, bool) {
	loc, ok := r.locations[id]
	if !ok || loc.Text == "" {
		return "", false
	}
	return loc.Text, true
}

// GetImages returns the ordered image assets of a location.
func (r *Repository) GetImages(id string) []string {
	return slices.Clone(r.locations[id].Images)
}

// GetAudio returns the audio asset of a location.
func (r *Repository) GetAudio(id string) (string, bool) {
	loc, ok := r.locations[id]
	if !ok || !loc.HasAudio() {
		return "", false
	}
	return loc.Audio, true
}

// ListAll returns all location ids, sorted.
func (r *Repository) ListAll() ([]string, error) {
	return slices.Clone(r.ids), nil
}
