// Package fs implements ports.LocationRepository over a data directory.
//
// Every non-hidden subdirectory of the root is a location named after the directory.
// Inside it, the first text file (in name order) holds the description, every image file is
// shown in name order and the first audio file is played after the text.
package fs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/pkg/domain"
)

// Patterns lists the glob patterns that classify location assets.
// Patterns are matched against lower-cased file names.
type Patterns struct {
	Text   []string `yaml:"text"`
	Images []string `yaml:"images"`
	Audio  []string `yaml:"audio"`
}

// DefaultPatterns returns the asset patterns of a standard data directory.
func DefaultPatterns() Patterns {
	return Patterns{
		Text:   []string{"*.txt"},
		Images: []string{"*.{jpg,jpeg,png,gif,bmp,webp}"},
		Audio:  []string{"*.{mp3,wav,ogg,m4a,aac,flac}"},
	}
}

type matcher []glob.Glob

func compile(kind string, patterns []string) (matcher, error) {
	m := make(matcher, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern '%s': %w", kind, pattern, err)
		}
		m = append(m, g)
	}
	return m, nil
}

func (m matcher) match(name string) bool {
	name = strings.ToLower(name)
	for _, g := range m {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Option configures Open.
type Option func(*options)

type options struct {
	patterns Patterns
	logger   *slog.Logger
}

// WithPatterns overrides DefaultPatterns. Empty kinds keep their defaults.
func WithPatterns(p Patterns) Option {
	return func(o *options) {
		if len(p.Text) > 0 {
			o.patterns.Text = p.Text
		}
		if len(p.Images) > 0 {
			o.patterns.Images = p.Images
		}
		if len(p.Audio) > 0 {
			o.patterns.Audio = p.Audio
		}
	}
}

// WithLogger sets the logger used while scanning.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Repository serves locations scanned once from disk. Content is immutable after Open.
type Repository struct {
	root      string
	locations map[string]domain.Location
	ids       []string
}

// Open scans root and loads every location.
func Open(root string, opts ...Option) (*Repository, error) {
	o := options{patterns: DefaultPatterns(), logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	text, err := compile("text", o.patterns.Text)
	if err != nil {
		return nil, err
	}
	images, err := compile("image", o.patterns.Images)
	if err != nil {
		return nil, err
	}
	audio, err := compile("audio", o.patterns.Audio)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	r := &Repository{root: root, locations: make(map[string]domain.Location)}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		loc, err := scan(filepath.Join(root, entry.Name()), entry.Name(), text, images, audio)
		if err != nil {
			return nil, err
		}
		if loc.Text == "" {
			o.logger.Warn("location has no text", "location_id", loc.ID)
		}
		r.locations[loc.ID] = loc
		r.ids = append(r.ids, loc.ID)
	}
	slices.Sort(r.ids)

	o.logger.Debug("data directory scanned", "root", root, "locations", len(r.ids))
	return r, nil
}

func scan(dir, id string, text, images, audio matcher) (domain.Location, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return domain.Location{}, fmt.Errorf("failed to read location %s: %w", id, err)
	}

	loc := domain.Location{ID: id}
	textFound := false
	// os.ReadDir returns entries sorted by name.
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		switch {
		case text.match(f.Name()):
			if textFound {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return domain.Location{}, fmt.Errorf("failed to read text of %s: %w", id, err)
			}
			loc.Text = string(data)
			textFound = true
		case images.match(f.Name()):
			loc.Images = append(loc.Images, path)
		case audio.match(f.Name()):
			if loc.Audio == "" {
				loc.Audio = path
			}
		}
	}
	return loc, nil
}

// Root returns the scanned data directory.
func (r *Repository) Root() string {
	return r.root
}

// GetText returns the text body of a location.
func (r *Repository) GetText(id string) (string, bool) {
	loc, ok := r.locations[id]
	if !ok || loc.Text == "" {
		return "", false
	}
	return loc.Text, true
}

// GetImages returns the image paths of a location in name order.
func (r *Repository) GetImages(id string) []string {
	return slices.Clone(r.locations[id].Images)
}

// GetAudio returns the audio path of a location.
func (r *Repository) GetAudio(id string) (string, bool) {
	loc, ok := r.locations[id]
	if !ok || !loc.HasAudio() {
		return "", false
	}
	return loc.Audio, true
}

// ListAll returns all location ids in alphabetical order.
func (r *Repository) ListAll() ([]string, error) {
	return slices.Clone(r.ids), nil
}
