package scriptgen

// FormatConfig bounds the word count for one target format.
type FormatConfig struct {
	MinWords     int
	MaxWords     int
	DefaultWords int
	Description  string
}

// DefaultFormat is used when the request does not name one.
const DefaultFormat = "youtube_long"

// Formats enumerates the supported script formats.
var Formats = map[string]FormatConfig{
	"youtube_long": {
		MinWords:     800,
		MaxWords:     2500,
		DefaultWords: 1200,
		Description:  "Long-form YouTube video (6-15 minutes)",
	},
	"youtube_short": {
		MinWords:     100,
		MaxWords:     250,
		DefaultWords: 150,
		Description:  "YouTube Shorts (up to 60 seconds)",
	},
	"reels": {
		MinWords:     80,
		MaxWords:     200,
		DefaultWords: 120,
		Description:  "Instagram/TikTok Reels (30-60 seconds)",
	},
	"twitter_thread": {
		MinWords:     400,
		MaxWords:     1000,
		DefaultWords: 600,
		Description:  "Twitter/X thread (8-15 tweets)",
	},
}

// FormatNames returns the valid format tags, for error messages.
func FormatNames() []string {
	names := make([]string, 0, len(Formats))
	for name := range Formats {
		names = append(names, name)
	}
	return names
}
