package domain

// Location is a single stop of the tour. It is immutable once loaded.
type Location struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
	// Audio is empty when the location has no audio track.
	Audio string `json:"audio,omitempty"`
}

// HasAudio reports whether the location carries an audio track.
func (l Location) HasAudio() bool {
	return l.Audio != ""
}
