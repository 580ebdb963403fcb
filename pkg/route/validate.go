package route

import (
	"fmt"
	"strings"

	"github.com/aretw0/excursion/pkg/domain"
)

// Validate checks that every id the topology references resolves to a known location.
// It also requires a graph to declare both its start and end.
func Validate(r Resolver, known []string) error {
	if _, err := r.StartLocation(); err != nil {
		return err
	}
	if g, ok := r.(*Graph); ok && g.End() == "" {
		return &domain.ConfigurationError{Reason: "route graph has no end location"}
	}

	index := make(map[string]bool, len(known))
	for _, id := range known {
		index[id] = true
	}

	var missing []string
	for _, id := range r.Locations() {
		if !index[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{
			Reason: fmt.Sprintf("found %d unresolved locations:\n- %s", len(missing), strings.Join(missing, "\n- ")),
		}
	}
	return nil
}

// OversizedPayloads returns the ids whose selection payload exceeds domain.MaxPayloadBytes.
func OversizedPayloads(ids []string) []string {
	var out []string
	for _, id := range ids {
		if len(domain.LocationPayload(id)) > domain.MaxPayloadBytes {
			out = append(out, id)
		}
	}
	return out
}
