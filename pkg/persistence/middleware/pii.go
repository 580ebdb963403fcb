package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/excursion/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultPIIPatterns match e-mail addresses and phone numbers typed into the chat.
// A phone number must stand alone; digits glued to letters or underscores are ids.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`(?:\+|\b)\d[\d\s().-]{6,}\d\b`,
}

type piiMiddleware struct {
	next     ports.Journal
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the parts of entry details matching the patterns.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.Journal) ports.Journal {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

// Record masks free-form details. Commands and button payloads come from the bot's own
// controls and are stored as-is.
func (m *piiMiddleware) Record(ctx context.Context, entry ports.JournalEntry) error {
	if entry.Action == ports.ActionButton || entry.Action == ports.ActionCommand {
		return m.next.Record(ctx, entry)
	}
	for _, p := range m.patterns {
		entry.Details = p.ReplaceAllString(entry.Details, Mask)
	}
	return m.next.Record(ctx, entry)
}

func (m *piiMiddleware) Entries(ctx context.Context, userID int64, limit int) ([]ports.JournalEntry, error) {
	return m.next.Entries(ctx, userID, limit)
}
