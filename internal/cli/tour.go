package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/excursion/internal/config"
	"github.com/aretw0/excursion/internal/presentation/tui"
	"github.com/aretw0/excursion/internal/runtime"
	"github.com/aretw0/excursion/pkg/adapters/fs"
	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/route"
)

// Tour is the read-only content a bot serves: the scanned locations and their topology.
type Tour struct {
	Repo     *fs.Repository
	Resolver route.Resolver
}

// LoadTour scans the data directory and builds the configured navigation policy.
// The linear variant orders the scanned ids, the graph variant reads the route document.
func LoadTour(cfg *config.Config, logger *slog.Logger) (*Tour, error) {
	variant, err := route.ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}

	repo, err := fs.Open(cfg.DataDir, fs.WithPatterns(cfg.Patterns), fs.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("error loading locations: %w", err)
	}

	var resolver route.Resolver
	switch variant {
	case route.VariantGraph:
		g, err := route.LoadGraph(cfg.Routes)
		if err != nil {
			return nil, fmt.Errorf("error loading routes: %w", err)
		}
		resolver = g
	default:
		ids, err := repo.ListAll()
		if err != nil {
			return nil, err
		}
		resolver = route.NewLinear(ids)
	}

	logger.Debug("tour loaded", "variant", string(variant), "root", repo.Root())
	return &Tour{Repo: repo, Resolver: resolver}, nil
}

// Report is the outcome of Check.
// Err and Oversized make a tour unusable, the other fields are warnings.
type Report struct {
	Locations   int
	Err         error
	Oversized   []string
	Unreachable []string
	NoText      []string
}

// OK reports whether the tour can be served.
func (r Report) OK() bool {
	return r.Err == nil && len(r.Oversized) == 0
}

// Check validates the topology against the scanned locations.
func (t *Tour) Check() Report {
	ids, err := t.Repo.ListAll()
	if err != nil {
		return Report{Err: err}
	}

	rep := Report{
		Locations:   len(ids),
		Err:         route.Validate(t.Resolver, ids),
		Oversized:   route.OversizedPayloads(ids),
		Unreachable: route.Unreachable(t.Resolver),
	}
	for _, id := range ids {
		if _, ok := t.Repo.GetText(id); !ok {
			rep.NoText = append(rep.NoText, id)
		}
	}
	return rep
}

// Preview renders location id (the start location when empty) as terminal markdown,
// with the controls a user arriving there for the first time would get.
func (t *Tour) Preview(id string, labels runtime.Labels, plain bool) (string, error) {
	if id == "" {
		start, err := t.Resolver.StartLocation()
		if err != nil {
			return "", err
		}
		id = start
	}

	ids, err := t.Repo.ListAll()
	if err != nil {
		return "", err
	}
	if !slices.Contains(ids, id) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownLocation, id)
	}

	text, ok := t.Repo.GetText(id)
	if !ok {
		return "", &domain.ContentMissingError{LocationID: id}
	}
	audio, _ := t.Repo.GetAudio(id)
	loc := domain.Location{
		ID:     id,
		Text:   text,
		Images: t.Repo.GetImages(id),
		Audio:  audio,
	}

	render, err := tui.NewRenderer(plain)
	if err != nil {
		return "", err
	}
	return render(tui.LocationMarkdown(loc, runtime.Controls(t.Resolver, labels, id, false)))
}
