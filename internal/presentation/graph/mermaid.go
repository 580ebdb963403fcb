package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/excursion/pkg/route"
)

// Overlay contains per-user state to visualize on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a route.
// It applies semantic styling:
// - Start: ((Circle))
// - Terminal: (((Double circle)))
// - Dead end: >Flag]
// - Default: [Rectangle]
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(r route.Resolver, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	start, _ := r.StartLocation()
	for _, id := range r.Locations() {
		opener, closer := "[", "]"
		switch {
		case id == start:
			opener, closer = "((", "))"
		case r.IsTerminal(id):
			opener, closer = "(((", ")))"
		case len(r.NextOptions(id)) == 0:
			opener, closer = ">", "]"
		}
		label := strings.ReplaceAll(id, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(id), opener, label, closer)
	}

	for _, e := range r.Edges() {
		fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(e.From), sanitizeMermaidID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" && id != overlay.Current {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

var mermaidReplacer = strings.NewReplacer(
	".", "_",
	"-", "_",
	"/", "_",
	"\\", "_",
	" ", "_",
	"\"", "_",
)

func sanitizeMermaidID(id string) string {
	return "loc_" + mermaidReplacer.Replace(id)
}
