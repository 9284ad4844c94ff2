// Package scriptgen turns a topic plus a stored prompt template into a
// structured script via the model API.
package scriptgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"oryos/style-gateway/internal/llm"
	"oryos/style-gateway/models"
)

// wordsPerMinute is the assumed reading rate when the model omits a duration
// estimate.
const wordsPerMinute = 150

const defaultMaxTokens = 4096

var (
	// ErrInvalidWordCount means the requested word count is outside the
	// format's range. Raised before any network call.
	ErrInvalidWordCount = errors.New("word count outside the format's allowed range")
	// ErrUnknownFormat means the request named a format that does not exist.
	ErrUnknownFormat = errors.New("unknown script format")
	// ErrMalformed means the model reply could not be parsed into a script.
	ErrMalformed = errors.New("model reply is not a valid script")
)

// Request describes one script to generate.
type Request struct {
	Topic                  string
	PromptTemplate         string
	Format                 string // empty means DefaultFormat
	WordCount              int    // 0 means the format's default
	AdditionalInstructions string
	Language               string // empty means English
}

// Script is the structured generation result after post-processing.
type Script struct {
	TitleSuggestion          string            `json:"title_suggestion"`
	Hook                     string            `json:"hook"`
	ScriptContent            string            `json:"script_content"`
	ThumbnailIdeas           models.StringList `json:"thumbnail_ideas"`
	EstimatedDurationSeconds int               `json:"estimated_duration_seconds"`
	ActualWordCount          int               `json:"actual_word_count"`
}

const systemPrompt = `You are a professional scriptwriter specialized in YouTube content.

Your task is to create scripts that:
1. Follow EXACTLY the creator style supplied in the prompt template
2. Are optimized for retention and CTR
3. Apply every storytelling technique of the 4-layer framework

MANDATORY RULES:
- The script must read as if the creator wrote it themselves
- Use the same language patterns, catchphrases and expressions
- Keep the same micro-reward cadence
- Follow the same opening/development/closing structure
- Apply the same level of controlled friction
- Use the same kinds of loops and hooks

OUTPUT:
Return ONLY valid JSON with the specified structure.
Do NOT include markdown, explanations or any text outside the JSON.
Do NOT use backticks or code fences.`

// Generator produces scripts.
type Generator struct {
	llm   llm.Client
	model string
	log   *logrus.Logger
}

func New(client llm.Client, model string, log *logrus.Logger) *Generator {
	return &Generator{llm: client, model: model, log: log}
}

// Generate validates the request, runs the model and normalizes the reply.
// Validation failures never reach the network.
func (g *Generator) Generate(ctx context.Context, req Request) (*Script, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if strings.TrimSpace(req.PromptTemplate) == "" {
		return nil, fmt.Errorf("prompt template is required")
	}

	formatName := req.Format
	if formatName == "" {
		formatName = DefaultFormat
	}
	format, ok := Formats[formatName]
	if !ok {
		names := FormatNames()
		sort.Strings(names)
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, req.Format, strings.Join(names, ", "))
	}

	wordCount := req.WordCount
	if wordCount == 0 {
		wordCount = format.DefaultWords
	} else if wordCount < format.MinWords || wordCount > format.MaxWords {
		return nil, fmt.Errorf("%w: %d not in [%d, %d] for format %s",
			ErrInvalidWordCount, wordCount, format.MinWords, format.MaxWords, formatName)
	}

	g.log.WithFields(logrus.Fields{
		"format":     formatName,
		"word_count": wordCount,
	}).Info("Generating script")

	reply, err := g.llm.Complete(ctx, llm.Request{
		System:          systemPrompt,
		User:            buildUserPrompt(req, formatName, format, wordCount),
		Model:           g.model,
		MaxOutputTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("script generation failed: %w", err)
	}

	jsonStr, err := llm.ExtractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var script Script
	if err := json.Unmarshal([]byte(jsonStr), &script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Derive the numeric fields the model sometimes omits. The derivations
	// are deterministic so regenerating metadata never drifts.
	if script.ActualWordCount == 0 {
		script.ActualWordCount = len(strings.Fields(script.ScriptContent))
	}
	if script.EstimatedDurationSeconds == 0 && script.ActualWordCount > 0 {
		script.EstimatedDurationSeconds = int(math.Round(float64(script.ActualWordCount) / wordsPerMinute * 60))
	}

	return &script, nil
}

func buildUserPrompt(req Request, formatName string, format FormatConfig, wordCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## CREATOR STYLE PROFILE:\n%s\n\n", req.PromptTemplate)
	fmt.Fprintf(&b, "## SCRIPT TOPIC:\n%s\n\n", req.Topic)
	fmt.Fprintf(&b, "## FORMAT:\n%s - %s\n\n", formatName, format.Description)
	fmt.Fprintf(&b, "## WORD COUNT:\nApproximately %d words\n\n", wordCount)

	if req.AdditionalInstructions != "" {
		fmt.Fprintf(&b, "## ADDITIONAL INSTRUCTIONS:\n%s\n\n", req.AdditionalInstructions)
	}

	language := req.Language
	if language == "" {
		language = "English"
	}
	fmt.Fprintf(&b, "## LANGUAGE:\n%s\n\n", language)

	fmt.Fprintf(&b, `## EXPECTED OUTPUT:
Return ONLY valid JSON with this exact structure:

{
  "title_suggestion": "CTR-optimized title (max 60 characters)",
  "hook": "The first sentence of the video (the main hook)",
  "script_content": "The full script here, ready to be read/recorded. Plain flowing text without markers.",
  "thumbnail_ideas": ["Thumbnail idea 1", "Idea 2", "Idea 3"],
  "estimated_duration_seconds": 480,
  "actual_word_count": %d
}

IMPORTANT:
- script_content must be approximately %d words
- The script must be flowing text, ready to record
- Do NOT include markers like [INTRO], [CUT], etc
- The text must flow naturally as spoken language
- Return ONLY the JSON, no text before or after
- Do NOT use backticks or markdown code fences`, wordCount, wordCount)

	return b.String()
}
