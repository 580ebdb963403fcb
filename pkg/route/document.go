package route

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/excursion/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Reserved keys of a route document.
const (
	KeyStart = "start"
	KeyEnd   = "end"
)

// document is the decoded shape of a route file.
// Every key besides start and end is a location id mapped to its successors.
type document struct {
	Start string         `mapstructure:"start"`
	End   string         `mapstructure:"end"`
	Nodes map[string]any `mapstructure:",remain"`
}

// ParseGraph decodes a route document. YAML and JSON are both accepted.
// A single successor may be written as a scalar ("A: B" is "A: [B]").
func ParseGraph(data []byte) (*Graph, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ConfigurationError{Reason: "route document is not valid YAML/JSON", Err: err}
	}
	if len(raw) == 0 {
		return nil, &domain.ConfigurationError{Reason: "route document is empty"}
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build route decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &domain.ConfigurationError{Reason: "malformed route document", Err: err}
	}

	edges := make(map[string][]string, len(doc.Nodes))
	for id, value := range doc.Nodes {
		var next []string
		if err := mapstructure.WeakDecode(value, &next); err != nil {
			return nil, &domain.ConfigurationError{
				Reason: fmt.Sprintf("successors of %q must be a list of location ids", id),
				Err:    err,
			}
		}
		cleaned := next[:0]
		for _, n := range next {
			if n = strings.TrimSpace(n); n != "" {
				cleaned = append(cleaned, n)
			}
		}
		edges[id] = cleaned
	}

	return NewGraph(strings.TrimSpace(doc.Start), strings.TrimSpace(doc.End), edges), nil
}

// LoadGraph reads and decodes a route document from disk.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("cannot read route file %s", path), Err: err}
	}
	return ParseGraph(data)
}
