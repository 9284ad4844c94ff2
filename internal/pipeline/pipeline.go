// Package pipeline sequences the cloning and generation flows. Each flow is
// a strict step ladder: a step only starts after the previous one resolved,
// and the first fatal failure ends the run with no rollback of completed
// steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"oryos/style-gateway/internal/promptc"
	"oryos/style-gateway/internal/scriptgen"
	"oryos/style-gateway/internal/store"
	"oryos/style-gateway/internal/usage"
	"oryos/style-gateway/internal/videoid"
	"oryos/style-gateway/models"
)

const (
	// MinVideos is the minimum viable sample for a style analysis. Fewer
	// usable transcripts than this and the clone run is rejected outright
	// rather than attempted.
	MinVideos = 3
	// MaxVideos caps one clone run.
	MaxVideos = 10
)

var (
	ErrTooFewVideos            = errors.New("at least 3 videos are required")
	ErrTooManyVideos           = errors.New("at most 10 videos per clone")
	ErrInsufficientTranscripts = errors.New("fewer than 3 transcripts could be fetched")
	ErrCreatorNotFound         = errors.New("creator not found")
)

// ProgressFunc receives step updates. Percent is monotonically
// non-decreasing within one run. May be nil.
type ProgressFunc func(message string, percent int)

// TranscriptFetcher is the batch side of the transcript client.
type TranscriptFetcher interface {
	FetchBatch(ctx context.Context, videoIDs []string) (*models.TranscriptBatch, error)
}

// StyleAnalyzer runs the four-layer analysis over fetched transcripts.
type StyleAnalyzer interface {
	Analyze(ctx context.Context, creatorName string, transcripts []string) (*models.StyleProfile, error)
}

// ScriptGenerator produces one script from a compiled template.
type ScriptGenerator interface {
	Generate(ctx context.Context, req scriptgen.Request) (*scriptgen.Script, error)
}

// QuotaGuard gates and records metered operations.
type QuotaGuard interface {
	Check(ctx context.Context, userID string, kind usage.Kind) error
	Record(ctx context.Context, userID string, kind usage.Kind) error
}

// CreatorStore persists cloned creators.
type CreatorStore interface {
	CreateCreator(ctx context.Context, creator *models.Creator) (*models.Creator, error)
	GetCreator(ctx context.Context, userID string, id uuid.UUID) (*models.Creator, error)
}

// ScriptStore persists generated scripts.
type ScriptStore interface {
	CreateScript(ctx context.Context, script *models.GeneratedScript) (*models.GeneratedScript, error)
}

// Pipeline wires the components together.
type Pipeline struct {
	transcripts TranscriptFetcher
	analyzer    StyleAnalyzer
	generator   ScriptGenerator
	guard       QuotaGuard
	creators    CreatorStore
	scripts     ScriptStore
	log         *logrus.Logger
}

func New(
	transcripts TranscriptFetcher,
	analyzer StyleAnalyzer,
	generator ScriptGenerator,
	guard QuotaGuard,
	creators CreatorStore,
	scripts ScriptStore,
	log *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		transcripts: transcripts,
		analyzer:    analyzer,
		generator:   generator,
		guard:       guard,
		creators:    creators,
		scripts:     scripts,
		log:         log,
	}
}

// CloneRequest describes one clone run.
type CloneRequest struct {
	UserID      string
	CreatorName string
	StyleName   string
	ChannelID   *string
	ChannelURL  *string
	AvatarURL   *string
	// VideoInputs are URLs or bare 11-character IDs; 3 to 10 entries.
	VideoInputs []string
	Progress    ProgressFunc
}

// Clone runs the full cloning flow: quota check, batch transcript fetch,
// style analysis, template compilation, persistence, usage increment.
func (p *Pipeline) Clone(ctx context.Context, req CloneRequest) (*models.Creator, error) {
	report := req.Progress
	if report == nil {
		report = func(string, int) {}
	}

	report("Checking quota", 5)
	if err := p.guard.Check(ctx, req.UserID, usage.KindAnalyses); err != nil {
		return nil, err
	}

	if len(req.VideoInputs) < MinVideos {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVideos, len(req.VideoInputs))
	}
	if len(req.VideoInputs) > MaxVideos {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyVideos, len(req.VideoInputs))
	}

	videoIDs := make([]string, 0, len(req.VideoInputs))
	for _, input := range req.VideoInputs {
		id, ok := videoid.Video(input)
		if !ok {
			return nil, fmt.Errorf("unrecognized video reference %q", input)
		}
		videoIDs = append(videoIDs, id)
	}

	report("Fetching transcripts", 10)
	batch, err := p.transcripts.FetchBatch(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("transcript fetch failed: %w", err)
	}
	if batch.TotalSucceeded < MinVideos {
		return nil, fmt.Errorf("%w: %d of %d usable", ErrInsufficientTranscripts,
			batch.TotalSucceeded, batch.TotalRequested)
	}

	texts := make([]string, 0, len(batch.Results))
	usedIDs := make([]string, 0, len(batch.Results))
	for _, r := range batch.Results {
		texts = append(texts, r.Transcript)
		usedIDs = append(usedIDs, r.VideoID)
	}

	p.log.WithFields(logrus.Fields{
		"user_id":     req.UserID,
		"creator":     req.CreatorName,
		"transcripts": len(texts),
		"failed":      batch.TotalFailed,
	}).Info("Analyzing creator style")

	report("Analyzing style", 40)
	profile, err := p.analyzer.Analyze(ctx, req.CreatorName, texts)
	if err != nil {
		return nil, fmt.Errorf("style analysis failed: %w", err)
	}

	report("Compiling prompt template", 70)
	template := promptc.Compile(profile)

	styleName := strings.TrimSpace(req.StyleName)
	if styleName == "" {
		styleName = req.CreatorName + " style"
	}

	report("Saving creator", 80)
	creator := &models.Creator{
		UserID:              req.UserID,
		ChannelID:           req.ChannelID,
		ChannelName:         req.CreatorName,
		ChannelURL:          req.ChannelURL,
		AvatarURL:           req.AvatarURL,
		StyleName:           styleName,
		VideoIDs:            usedIDs,
		TotalVideosAnalyzed: len(usedIDs),
		Analysis:            *profile,
		PromptTemplate:      template,
	}
	saved, err := p.creators.CreateCreator(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("saving creator failed: %w", err)
	}

	if err := p.guard.Record(ctx, req.UserID, usage.KindAnalyses); err != nil {
		// The creator is already persisted; losing the counter bump is
		// preferable to failing the whole run here.
		p.log.WithError(err).WithField("user_id", req.UserID).Warn("Failed to record analysis usage")
	}

	report("Done", 100)
	return saved, nil
}

// GenerateRequest describes one script generation run.
type GenerateRequest struct {
	UserID                 string
	CreatorID              uuid.UUID
	Topic                  string
	Format                 string
	WordCount              int
	AdditionalInstructions string
	Language               string
	Progress               ProgressFunc
}

// Generate runs the generation flow: quota check, creator load, model call,
// persistence, usage increment.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*models.GeneratedScript, error) {
	report := req.Progress
	if report == nil {
		report = func(string, int) {}
	}

	report("Checking quota", 5)
	if err := p.guard.Check(ctx, req.UserID, usage.KindScripts); err != nil {
		return nil, err
	}

	report("Loading creator", 15)
	creator, err := p.creators.GetCreator(ctx, req.UserID, req.CreatorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCreatorNotFound, req.CreatorID)
		}
		return nil, fmt.Errorf("loading creator failed: %w", err)
	}

	report("Generating script", 30)
	script, err := p.generator.Generate(ctx, scriptgen.Request{
		Topic:                  req.Topic,
		PromptTemplate:         creator.PromptTemplate,
		Format:                 req.Format,
		WordCount:              req.WordCount,
		AdditionalInstructions: req.AdditionalInstructions,
		Language:               req.Language,
	})
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = scriptgen.DefaultFormat
	}

	record := &models.GeneratedScript{
		UserID:                   req.UserID,
		CreatorID:                &creator.ID,
		Topic:                    req.Topic,
		Format:                   format,
		TitleSuggestion:          script.TitleSuggestion,
		Hook:                     script.Hook,
		ScriptContent:            script.ScriptContent,
		ThumbnailIdeas:           script.ThumbnailIdeas,
		ActualWordCount:          script.ActualWordCount,
		EstimatedDurationSeconds: script.EstimatedDurationSeconds,
	}
	if req.WordCount > 0 {
		wc := req.WordCount
		record.WordCountTarget = &wc
	}
	if req.AdditionalInstructions != "" {
		instructions := req.AdditionalInstructions
		record.AdditionalInstructions = &instructions
	}

	report("Saving script", 80)
	saved, err := p.scripts.CreateScript(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("saving script failed: %w", err)
	}

	if err := p.guard.Record(ctx, req.UserID, usage.KindScripts); err != nil {
		p.log.WithError(err).WithField("user_id", req.UserID).Warn("Failed to record script usage")
	}

	report("Done", 100)
	return saved, nil
}
