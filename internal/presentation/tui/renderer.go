package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/excursion/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// Style is detected from the terminal background unless plain is set.
func NewRenderer(plain bool) (func(string) (string, error), error) {
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// LocationMarkdown describes a location and its affordances the way the chat shows them.
func LocationMarkdown(loc domain.Location, controls []domain.Control) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", loc.ID)

	if len(loc.Images) > 0 {
		sb.WriteString("**Images**\n\n")
		for _, img := range loc.Images {
			fmt.Fprintf(&sb, "- %s\n", filepath.Base(img))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.TrimSpace(loc.Text))
	sb.WriteString("\n\n")

	if loc.HasAudio() {
		fmt.Fprintf(&sb, "🎧 %s\n\n", filepath.Base(loc.Audio))
	}

	if len(controls) > 0 {
		sb.WriteString("---\n\n")
		for _, c := range controls {
			fmt.Fprintf(&sb, "- `[%s]` %s\n", c.Payload, c.Label)
		}
	}
	return sb.String()
}
