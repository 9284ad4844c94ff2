// Package llm wraps the model API behind a small interface so the analyzer
// and generator can be tested against fakes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"oryos/style-gateway/config"
)

const completionTimeout = 30 * time.Second

// ErrEmptyCompletion means the model returned no text at all.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Request is one completion call: a fixed system instruction plus a user
// message, against a named model.
type Request struct {
	System          string
	User            string
	Model           string
	MaxOutputTokens int32
}

// Client is the completion interface the pipeline components depend on.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// GeminiClient is the production Client backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	log    *logrus.Logger
}

func NewGeminiClient(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, log: log}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(req.User)}, genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
	}
	if req.MaxOutputTokens > 0 {
		genConfig.MaxOutputTokens = req.MaxOutputTokens
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, req.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	g.log.WithFields(logrus.Fields{
		"model":      req.Model,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("Model completion finished")

	text := result.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// ExtractJSON pulls the single JSON object out of a model reply that may be
// wrapped in prose or a markdown fence: everything from the first '{' to the
// last '}' is taken verbatim.
func ExtractJSON(reply string) (string, error) {
	cleaned := strings.ReplaceAll(reply, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in model reply")
	}
	return cleaned[start : end+1], nil
}
