package dispatch

// Messages holds the user-visible texts of the bot.
// Greeting is a format string receiving the user's first name.
type Messages struct {
	Greeting         string `yaml:"greeting"`
	Help             string `yaml:"help"`
	AllLocations     string `yaml:"all_locations"`
	MapNotFound      string `yaml:"map_not_found"`
	NoPrevious       string `yaml:"no_previous"`
	UnknownLocation  string `yaml:"unknown_location"`
	ContentMissing   string `yaml:"content_missing"`
	NoLocations      string `yaml:"no_locations"`
	DeliveryFailed   string `yaml:"delivery_failed"`
	UnknownCommand   string `yaml:"unknown_command"`
	UnsupportedInput string `yaml:"unsupported_input"`
}

// DefaultMessages returns the English texts.
func DefaultMessages() Messages {
	return Messages{
		Greeting: "Hello, %s! 👋\n\n" +
			"Welcome to the guided tour bot! 🗺️\n" +
			"I will walk you from stop to stop.\n\n" +
			"Press the button below to begin the excursion!",
		Help: "🤖 Available commands:\n\n" +
			"/start - Start the bot\n" +
			"/show_all_locations - Jump to any location\n" +
			"/map - Show the route map\n" +
			"/restart - Start the excursion over\n" +
			"/help - Show this help",
		AllLocations:     "🗺️ Pick a location to jump to:",
		MapNotFound:      "❌ The route map was not found!",
		NoPrevious:       "⚠️ There is no previous location.",
		UnknownLocation:  "❌ This location does not exist.",
		ContentMissing:   "❌ This location has no description yet.",
		NoLocations:      "❌ No locations found!",
		DeliveryFailed:   "❌ Something went wrong while sending the location. Please try again.",
		UnknownCommand:   "Unknown command. Send /help to see what I can do.",
		UnsupportedInput: "Use the buttons or send /help.",
	}
}

// merge fills empty fields of m from defaults.
func (m Messages) merge(defaults Messages) Messages {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&m.Greeting, defaults.Greeting)
	fill(&m.Help, defaults.Help)
	fill(&m.AllLocations, defaults.AllLocations)
	fill(&m.MapNotFound, defaults.MapNotFound)
	fill(&m.NoPrevious, defaults.NoPrevious)
	fill(&m.UnknownLocation, defaults.UnknownLocation)
	fill(&m.ContentMissing, defaults.ContentMissing)
	fill(&m.NoLocations, defaults.NoLocations)
	fill(&m.DeliveryFailed, defaults.DeliveryFailed)
	fill(&m.UnknownCommand, defaults.UnknownCommand)
	fill(&m.UnsupportedInput, defaults.UnsupportedInput)
	return m
}
