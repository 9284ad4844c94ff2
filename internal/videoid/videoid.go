// Package videoid extracts canonical YouTube video and channel identifiers
// from the many URL shapes users paste in. Pure parsing, no I/O.
package videoid

import "regexp"

var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([\w-]{11})`),
	regexp.MustCompile(`youtu\.be/([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([\w-]{11})`),
	regexp.MustCompile(`^([\w-]{11})$`),
}

// Video returns the canonical 11-character video ID for any recognized URL
// shape, or for a bare ID passed through as-is. The second return is false
// when nothing matched.
func Video(input string) (string, bool) {
	for _, p := range videoPatterns {
		if m := p.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ChannelKind says what kind of identifier was extracted from a channel URL,
// which decides how the catalog lookup has to resolve it.
type ChannelKind string

const (
	ChannelID     ChannelKind = "id"     // already a canonical UC... ID
	ChannelHandle ChannelKind = "handle" // @handle, needs resolution
	ChannelName   ChannelKind = "name"   // legacy /c/ or /user/ name, needs resolution
)

// ChannelRef is a parsed channel identifier plus its kind.
type ChannelRef struct {
	Kind  ChannelKind
	Value string
}

var channelPatterns = []struct {
	re   *regexp.Regexp
	kind ChannelKind
}{
	{regexp.MustCompile(`youtube\.com/channel/(UC[\w-]+)`), ChannelID},
	{regexp.MustCompile(`youtube\.com/@([\w.-]+)`), ChannelHandle},
	{regexp.MustCompile(`youtube\.com/c/([\w.-]+)`), ChannelName},
	{regexp.MustCompile(`youtube\.com/user/([\w.-]+)`), ChannelName},
	{regexp.MustCompile(`^@([\w.-]+)$`), ChannelHandle},
	{regexp.MustCompile(`^(UC[\w-]+)$`), ChannelID},
}

// Channel parses a channel URL, @handle, or bare UC id. The second return is
// false when nothing matched.
func Channel(input string) (ChannelRef, bool) {
	for _, p := range channelPatterns {
		if m := p.re.FindStringSubmatch(input); m != nil {
			return ChannelRef{Kind: p.kind, Value: m[1]}, true
		}
	}
	return ChannelRef{}, false
}
