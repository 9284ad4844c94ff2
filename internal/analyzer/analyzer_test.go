package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oryos/style-gateway/internal/llm"
)

const validProfileJSON = `{
  "creator_name": "echoed name",
  "videos_analyzed": 99,
  "analysis_date": "2020-01-01T00:00:00Z",
  "hook_analysis": {
    "first_hook_type": "incomplete_promise",
    "hook_examples": ["you won't believe what happened next"],
    "time_to_conflict": "immediate",
    "information_gap": {"used": true, "examples": ["there's one detail I'm saving for later"]}
  },
  "retention_analysis": {
    "loop_type": "explicit",
    "loop_examples": ["I'll show you 5 things"],
    "reward_frequency": "high",
    "reward_types": ["insight", "humor"],
    "cognitive_alternation": {"patterns": ["problem->solution"], "examples": ["first the bug, then the fix"]},
    "complexity_escalation": "moderate"
  },
  "language_analysis": {
    "controlled_friction": {"level": "medium", "examples": ["you're doing this wrong"]},
    "attention_direction": {"used": true, "typical_phrases": ["look at this"]},
    "verbal_economy": "good",
    "information_density": "high"
  },
  "narrative_functions": {
    "open_tension": "opens with an unresolved problem",
    "install_stakes": "shows the cost of ignoring it",
    "sustain_curiosity": "repeats a teaser mid-video",
    "micro_payoff": "delivers a concrete tip every minute",
    "raise_stakes": "escalates to a bigger claim",
    "resolve_transform": "closes by reframing the problem"
  },
  "signature": {
    "keywords": ["speed", "sarcasm", "density"],
    "dominant_tone": "fast and irreverent",
    "preferred_format": "tutorial with narrative framing",
    "unique_elements": ["self-deprecating asides"]
  },
  "language_patterns": {
    "frequent_words": [{"word": "basically", "frequency": 12}],
    "typical_expressions": ["here's the thing"],
    "favorite_connectors": ["so", "but"],
    "catchphrases": ["let's get into it"]
  },
  "typical_structure": {
    "opening": "cold open on the problem",
    "development": "three escalating examples",
    "closing": "recap plus a challenge",
    "average_duration_minutes": 10
  }
}`

// fakeLLM records requests and returns a canned reply.
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

func TestAnalyzeParsesProfile(t *testing.T) {
	fake := &fakeLLM{reply: validProfileJSON}
	a := New(fake, "test-model", testLogger())

	profile, err := a.Analyze(context.Background(), "Some Creator", []string{"transcript one", "transcript two", "transcript three"})
	require.NoError(t, err)

	// bookkeeping fields are ours, not the model's echo
	assert.Equal(t, "Some Creator", profile.CreatorName)
	assert.Equal(t, 3, profile.VideosAnalyzed)
	assert.NotEqual(t, "2020-01-01T00:00:00Z", profile.AnalysisDate)

	assert.Equal(t, "incomplete_promise", profile.Hook.FirstHookType)
	assert.Equal(t, "explicit", profile.Retention.LoopType)
	assert.Equal(t, []string{"speed", "sarcasm", "density"}, profile.Signature.Keywords)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "test-model", fake.calls[0].Model)
	assert.Contains(t, fake.calls[0].User, "transcript two")
}

func TestAnalyzeAcceptsProseWrappedJSON(t *testing.T) {
	fake := &fakeLLM{reply: "Sure, here is the profile:\n```json\n" + validProfileJSON + "\n```\nLet me know if you need more."}
	a := New(fake, "test-model", testLogger())

	profile, err := a.Analyze(context.Background(), "Some Creator", []string{"transcript"})
	require.NoError(t, err)
	assert.Equal(t, "fast and irreverent", profile.Signature.DominantTone)
}

func TestAnalyzeRejectsMissingFields(t *testing.T) {
	fake := &fakeLLM{reply: `{"hook_analysis": {"first_hook_type": "confession"}}`}
	a := New(fake, "test-model", testLogger())

	_, err := a.Analyze(context.Background(), "Some Creator", []string{"transcript"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestAnalyzeRejectsEmptyTemplateFields(t *testing.T) {
	// every field the compiled prompt embeds must come back populated
	cases := map[string]struct {
		old, emptied string
	}{
		"catchphrases":     {`"catchphrases": ["let's get into it"]`, `"catchphrases": []`},
		"loop examples":    {`"loop_examples": ["I'll show you 5 things"]`, `"loop_examples": []`},
		"preferred format": {`"preferred_format": "tutorial with narrative framing"`, `"preferred_format": ""`},
		"unique elements":  {`"unique_elements": ["self-deprecating asides"]`, `"unique_elements": []`},
		"frequent words":   {`"frequent_words": [{"word": "basically", "frequency": 12}]`, `"frequent_words": []`},
		"average duration": {`"average_duration_minutes": 10`, `"average_duration_minutes": 0`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			reply := strings.Replace(validProfileJSON, tc.old, tc.emptied, 1)
			require.NotEqual(t, validProfileJSON, reply, "fixture drifted, nothing was replaced")

			fake := &fakeLLM{reply: reply}
			a := New(fake, "test-model", testLogger())

			_, err := a.Analyze(context.Background(), "Some Creator", []string{"transcript"})
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestAnalyzeRejectsUnparseableReply(t *testing.T) {
	fake := &fakeLLM{reply: "I couldn't analyze those transcripts, sorry."}
	a := New(fake, "test-model", testLogger())

	_, err := a.Analyze(context.Background(), "Some Creator", []string{"transcript"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestAnalyzePropagatesServiceError(t *testing.T) {
	upstream := errors.New("upstream exploded")
	fake := &fakeLLM{err: upstream}
	a := New(fake, "test-model", testLogger())

	_, err := a.Analyze(context.Background(), "Some Creator", []string{"transcript"})
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestAnalyzeTruncatesLongTranscripts(t *testing.T) {
	long := make([]byte, maxTranscriptChars+500)
	for i := range long {
		long[i] = 'x'
	}

	fake := &fakeLLM{reply: validProfileJSON}
	a := New(fake, "test-model", testLogger())

	_, err := a.Analyze(context.Background(), "Some Creator", []string{string(long)})
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	// prompt scaffolding plus one truncated transcript, never the full input
	assert.LessOrEqual(t, len(fake.calls[0].User), maxTranscriptChars+5000)
}

func TestAnalyzeTruncatesOnRuneBoundary(t *testing.T) {
	// 3-byte runes, so a byte-index cut at maxTranscriptChars lands mid-rune
	long := strings.Repeat("世", maxTranscriptChars)

	fake := &fakeLLM{reply: validProfileJSON}
	a := New(fake, "test-model", testLogger())

	_, err := a.Analyze(context.Background(), "Some Creator", []string{long})
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	assert.True(t, utf8.ValidString(fake.calls[0].User))
}
