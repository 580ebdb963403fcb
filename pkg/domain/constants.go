package domain

import "strings"

// Button payloads carried by inline controls.
const (
	// PayloadStartExcursion begins (or restarts) the tour at its start location.
	PayloadStartExcursion = "start_excursion"
	// PayloadBackNavigation returns to the previous location on the back stack.
	PayloadBackNavigation = "back_navigation"
	// PayloadLocationPrefix prefixes the id of a location the user selected.
	PayloadLocationPrefix = "location_"
)

// MaxPayloadBytes is the largest callback payload chat platforms accept.
const MaxPayloadBytes = 64

// LocationPayload builds the button payload selecting a location.
func LocationPayload(id string) string {
	return PayloadLocationPrefix + id
}

// ParseLocationPayload extracts the location id from a selection payload.
func ParseLocationPayload(payload string) (string, bool) {
	if !strings.HasPrefix(payload, PayloadLocationPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(payload, PayloadLocationPrefix)
	return id, id != ""
}
