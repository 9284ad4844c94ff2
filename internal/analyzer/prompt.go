package analyzer

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const systemPrompt = `You are an expert at analyzing YouTube scripts with a focus on retention and CTR.

Your task is to analyze a creator's video transcripts and extract a DETAILED, STRUCTURED profile of their style.

## ANALYSIS FRAMEWORK (4 LAYERS):

### LAYER 1: TEXTUAL CTR (before the play button exists)
Analyze the first real sentence (not the "hey everyone"):
- Type: counterintuitive_claim | implicit_accusation | incomplete_promise | confession | existential_question
- Sentences until conflict/tension appears: immediate | 1-2_sentences | 3-5_sentences | more_than_5
- Information gap: does the creator hint at something big while holding back details?

### LAYER 2: STRUCTURAL RETENTION
- Loop: explicit (direct promises like "I'll show you 5 things") | implicit (unresolved tension) | mixed
- Micro-reward frequency: very_high (15-30s) | high (30-60s) | medium (60-90s) | low (90s+)
- Micro-reward types: insight, humor, revealed_fact, visual_result, validation, etc
- Cognitive alternation: patterns like abstract->concrete, problem->solution, theory->example
- Complexity escalation: strong | moderate | low | none

### LAYER 3: LANGUAGE THAT HOLDS
- Controlled friction: high | medium | low (how much does the creator confront the viewer's beliefs?)
- Attention direction: does the creator use phrases like "look at this", "notice", "the point is"?
- Verbal economy: excellent | good | moderate | low
- Information density: very_high | high | medium | low

### LAYER 4: SCRIPT FUNCTIONS
Identify how the creator executes each function:
- Open tension: how do they create the need to keep watching?
- Install stakes: how do they show the cost of not knowing?
- Sustain curiosity: how do they promise more ahead?
- Micro-payoff: how do they reward attention?
- Raise stakes: how do they show it gets better?
- Resolve/transform: how do they deliver on the promise?

### UNIQUE SIGNATURE
Identify 3-4 words that define the style (e.g. "Speed + Sarcasm + Density")

### LANGUAGE PATTERNS
- Most repeated words (with estimated frequency)
- Typical expressions and catchphrases
- Favorite connectors

### TYPICAL STRUCTURE
- How they usually open videos
- How they develop the content
- How they close

## IMPORTANT INSTRUCTIONS:
1. Be SPECIFIC - use real examples from the transcripts
2. Identify PATTERNS that repeat across videos
3. Focus on what makes this creator UNIQUE
4. The output must be valid JSON following the provided schema
5. Return ONLY the JSON, with no additional text before or after`

// truncateOnRune cuts s to at most n bytes without splitting a multi-byte
// rune, so the prompt stays valid UTF-8.
func truncateOnRune(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// buildUserPrompt embeds the (truncated) transcripts and the exact target
// schema. The schema is spelled out inline because the model is far more
// reliable when it can see every field it has to fill.
func buildUserPrompt(creatorName string, transcripts []string, now time.Time) string {
	var combined strings.Builder
	for i, t := range transcripts {
		if i > 0 {
			combined.WriteString("\n\n")
		}
		if len(t) > maxTranscriptChars {
			t = truncateOnRune(t, maxTranscriptChars)
		}
		fmt.Fprintf(&combined, "=== VIDEO %d ===\n%s", i+1, t)
	}

	return fmt.Sprintf(`Analyze the transcripts of creator %q and produce a complete style profile.

## VIDEO TRANSCRIPTS:

%s

## EXPECTED OUTPUT:
Return ONLY valid JSON following this exact schema:

{
  "creator_name": %q,
  "videos_analyzed": %d,
  "analysis_date": %q,
  "hook_analysis": {
    "first_hook_type": "counterintuitive_claim | implicit_accusation | incomplete_promise | confession | existential_question",
    "hook_examples": ["example1", "example2", "example3"],
    "time_to_conflict": "immediate | 1-2_sentences | 3-5_sentences | more_than_5",
    "information_gap": {
      "used": true,
      "examples": ["example1", "example2"]
    }
  },
  "retention_analysis": {
    "loop_type": "explicit | implicit | mixed",
    "loop_examples": ["example1", "example2"],
    "reward_frequency": "very_high | high | medium | low",
    "reward_types": ["insight", "humor", "revealed_fact"],
    "cognitive_alternation": {
      "patterns": ["abstract->concrete", "problem->solution"],
      "examples": ["example1"]
    },
    "complexity_escalation": "strong | moderate | low | none"
  },
  "language_analysis": {
    "controlled_friction": {
      "level": "high | medium | low",
      "examples": ["example1"]
    },
    "attention_direction": {
      "used": true,
      "typical_phrases": ["look at this", "notice"]
    },
    "verbal_economy": "excellent | good | moderate | low",
    "information_density": "very_high | high | medium | low"
  },
  "narrative_functions": {
    "open_tension": "description of how the creator does it",
    "install_stakes": "description",
    "sustain_curiosity": "description",
    "micro_payoff": "description",
    "raise_stakes": "description",
    "resolve_transform": "description"
  },
  "signature": {
    "keywords": ["word1", "word2", "word3"],
    "dominant_tone": "description of the tone",
    "preferred_format": "description of the format",
    "unique_elements": ["element1", "element2"]
  },
  "language_patterns": {
    "frequent_words": [{"word": "example", "frequency": 15}],
    "typical_expressions": ["expression1", "expression2"],
    "favorite_connectors": ["so", "but"],
    "catchphrases": ["catchphrase1"]
  },
  "typical_structure": {
    "opening": "description of how they open",
    "development": "description of how they develop",
    "closing": "description of how they close",
    "average_duration_minutes": 10
  }
}

IMPORTANT: Return ONLY the JSON, no markdown, no explanations, no text before or after.`,
		creatorName, combined.String(), creatorName, len(transcripts), now.UTC().Format(time.RFC3339))
}
