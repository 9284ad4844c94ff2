// Package analyzer turns a batch of transcripts into a validated style
// profile via the model API. Malformed replies are rejected outright; a
// partially wrong profile is worse than an explicit failure because the
// template compiled from it is reused by every later generation.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"oryos/style-gateway/internal/llm"
	"oryos/style-gateway/models"
)

// maxTranscriptChars bounds each transcript embedded in the prompt to stay
// inside the model's context window.
const maxTranscriptChars = 8000

const defaultMaxTokens = 4096

// ErrMalformed means the model reply could not be parsed into a complete
// style profile. No partial recovery is attempted.
var ErrMalformed = errors.New("model reply is not a valid style profile")

// Analyzer produces style profiles.
type Analyzer struct {
	llm   llm.Client
	model string
	log   *logrus.Logger
}

func New(client llm.Client, model string, log *logrus.Logger) *Analyzer {
	return &Analyzer{llm: client, model: model, log: log}
}

// Analyze sends the transcripts through the four-layer analysis prompt and
// returns the validated profile. The bookkeeping fields (creator name, video
// count, date) are set here rather than trusted from the model's echo.
func (a *Analyzer) Analyze(ctx context.Context, creatorName string, transcripts []string) (*models.StyleProfile, error) {
	if creatorName == "" {
		return nil, fmt.Errorf("creator name is required")
	}
	if len(transcripts) == 0 {
		return nil, fmt.Errorf("at least one transcript is required")
	}

	a.log.WithFields(logrus.Fields{
		"creator":     creatorName,
		"transcripts": len(transcripts),
	}).Info("Running style analysis")

	reply, err := a.llm.Complete(ctx, llm.Request{
		System:          systemPrompt,
		User:            buildUserPrompt(creatorName, transcripts, time.Now()),
		Model:           a.model,
		MaxOutputTokens: defaultMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("style analysis failed: %w", err)
	}

	jsonStr, err := llm.ExtractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var profile models.StyleProfile
	if err := json.Unmarshal([]byte(jsonStr), &profile); err != nil {
		a.log.WithField("reply_prefix", truncate(jsonStr, 500)).Warn("Analysis reply failed to parse")
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	profile.CreatorName = creatorName
	profile.VideosAnalyzed = len(transcripts)
	profile.AnalysisDate = time.Now().UTC().Format(time.RFC3339)

	return &profile, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
