package ports

// LocationRepository resolves location content.
// Implementations log their own I/O failures and report them as absent content.
type LocationRepository interface {
	// GetText returns the text body of a location, or false when it has none.
	GetText(id string) (string, bool)

	// GetImages returns the ordered image references of a location.
	GetImages(id string) []string

	// GetAudio returns the audio reference of a location, or false when it has none.
	GetAudio(id string) (string, bool)

	// ListAll returns every location id, sorted.
	ListAll() ([]string, error)
}
