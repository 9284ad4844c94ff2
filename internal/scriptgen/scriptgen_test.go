package scriptgen

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oryos/style-gateway/internal/llm"
)

type fakeLLM struct {
	reply string
	err   error
	calls []llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func validRequest() Request {
	return Request{
		Topic:          "why goroutines are cheap",
		PromptTemplate: "You are a scriptwriter who writes EXACTLY in the style of Some Creator.",
	}
}

func TestGenerateParsesScript(t *testing.T) {
	fake := &fakeLLM{reply: `{
		"title_suggestion": "Goroutines Are Cheaper Than You Think",
		"hook": "Your threads are lying to you.",
		"script_content": "Your threads are lying to you. Here is why goroutines cost almost nothing.",
		"thumbnail_ideas": ["stack diagram", "shocked gopher"],
		"estimated_duration_seconds": 300,
		"actual_word_count": 1200
	}`}
	g := New(fake, "test-model", testLogger())

	script, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Goroutines Are Cheaper Than You Think", script.TitleSuggestion)
	assert.Equal(t, 1200, script.ActualWordCount)
	assert.Equal(t, 300, script.EstimatedDurationSeconds)
	assert.Equal(t, []string{"stack diagram", "shocked gopher"}, []string(script.ThumbnailIdeas))

	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0].User, "why goroutines are cheap")
	assert.Contains(t, fake.calls[0].User, "Approximately 1200 words") // youtube_long default
}

func TestGenerateDerivesWordCount(t *testing.T) {
	body := "one two three four five six seven eight nine ten"
	fake := &fakeLLM{reply: fmt.Sprintf(`{
		"title_suggestion": "t",
		"hook": "h",
		"script_content": %q,
		"thumbnail_ideas": ["x"],
		"estimated_duration_seconds": 60
	}`, body)}
	g := New(fake, "test-model", testLogger())

	script, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, len(strings.Fields(body)), script.ActualWordCount)
	assert.Equal(t, 10, script.ActualWordCount)
}

func TestGenerateDerivesDuration(t *testing.T) {
	fake := &fakeLLM{reply: `{
		"title_suggestion": "t",
		"hook": "h",
		"script_content": "irrelevant",
		"thumbnail_ideas": ["x"],
		"actual_word_count": 375
	}`}
	g := New(fake, "test-model", testLogger())

	script, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	// round(375 / 150 * 60) = 150
	assert.Equal(t, 150, script.EstimatedDurationSeconds)
}

func TestGenerateWrapsScalarThumbnailIdeas(t *testing.T) {
	fake := &fakeLLM{reply: `{
		"title_suggestion": "t",
		"hook": "h",
		"script_content": "body text here",
		"thumbnail_ideas": "a single idea",
		"estimated_duration_seconds": 60,
		"actual_word_count": 100
	}`}
	g := New(fake, "test-model", testLogger())

	script, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"a single idea"}, []string(script.ThumbnailIdeas))
}

func TestGenerateStripsMarkdownFences(t *testing.T) {
	fake := &fakeLLM{reply: "```json\n" + `{
		"title_suggestion": "t",
		"hook": "h",
		"script_content": "body",
		"thumbnail_ideas": ["x"],
		"estimated_duration_seconds": 60,
		"actual_word_count": 1
	}` + "\n```"}
	g := New(fake, "test-model", testLogger())

	script, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "body", script.ScriptContent)
}

func TestGenerateInvalidWordCountNeverCallsModel(t *testing.T) {
	fake := &fakeLLM{}
	g := New(fake, "test-model", testLogger())

	cases := []struct {
		format    string
		wordCount int
	}{
		{"youtube_long", 100},    // below min 800
		{"youtube_long", 3000},   // above max 2500
		{"youtube_short", 99},    // below min 100
		{"youtube_short", 251},   // above max 250
		{"twitter_thread", 1001}, // above max 1000
	}

	for _, tc := range cases {
		req := validRequest()
		req.Format = tc.format
		req.WordCount = tc.wordCount

		_, err := g.Generate(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidWordCount, "format %s count %d", tc.format, tc.wordCount)
	}

	assert.Empty(t, fake.calls, "the model must never be invoked for invalid word counts")
}

func TestGenerateUnknownFormat(t *testing.T) {
	fake := &fakeLLM{}
	g := New(fake, "test-model", testLogger())

	req := validRequest()
	req.Format = "vine"

	_, err := g.Generate(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Empty(t, fake.calls)
}

func TestGenerateMalformedReply(t *testing.T) {
	fake := &fakeLLM{reply: "sorry, I can't produce that script"}
	g := New(fake, "test-model", testLogger())

	_, err := g.Generate(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestGenerateMissingTopic(t *testing.T) {
	fake := &fakeLLM{}
	g := New(fake, "test-model", testLogger())

	req := validRequest()
	req.Topic = "   "

	_, err := g.Generate(context.Background(), req)
	assert.Error(t, err)
	assert.Empty(t, fake.calls)
}
