package videoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoURLVariants(t *testing.T) {
	const want = "dQw4w9WgXcQ"

	inputs := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
	}

	for _, input := range inputs {
		got, ok := Video(input)
		assert.True(t, ok, "expected a match for %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestVideoNoMatch(t *testing.T) {
	inputs := []string{
		"",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"not a url at all",
		"dQw4w9WgXc",            // 10 chars
		"dQw4w9WgXcQQ",          // 12 chars
		"https://youtu.be/short", // too-short path segment
	}

	for _, input := range inputs {
		got, ok := Video(input)
		assert.False(t, ok, "expected no match for %q (got %q)", input, got)
	}
}

func TestChannelVariants(t *testing.T) {
	cases := []struct {
		input string
		kind  ChannelKind
		value string
	}{
		{"https://www.youtube.com/channel/UC1234567890abcdefGHIJ", ChannelID, "UC1234567890abcdefGHIJ"},
		{"UC1234567890abcdefGHIJ", ChannelID, "UC1234567890abcdefGHIJ"},
		{"https://www.youtube.com/@somecreator", ChannelHandle, "somecreator"},
		{"@somecreator", ChannelHandle, "somecreator"},
		{"https://www.youtube.com/c/SomeCreator", ChannelName, "SomeCreator"},
		{"https://www.youtube.com/user/legacyname", ChannelName, "legacyname"},
	}

	for _, tc := range cases {
		ref, ok := Channel(tc.input)
		assert.True(t, ok, "expected a match for %q", tc.input)
		assert.Equal(t, tc.kind, ref.Kind, "input %q", tc.input)
		assert.Equal(t, tc.value, ref.Value, "input %q", tc.input)
	}
}

func TestChannelNoMatch(t *testing.T) {
	for _, input := range []string{"", "https://example.com/@x", "plainword"} {
		_, ok := Channel(input)
		assert.False(t, ok, "expected no match for %q", input)
	}
}
