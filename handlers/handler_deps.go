package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"oryos/style-gateway/internal/analyzer"
	"oryos/style-gateway/internal/catalog"
	"oryos/style-gateway/internal/pipeline"
	"oryos/style-gateway/internal/scriptgen"
	"oryos/style-gateway/internal/store"
	"oryos/style-gateway/internal/transcript"
	"oryos/style-gateway/internal/usage"
	"oryos/style-gateway/models"
	"oryos/style-gateway/utils"
)

// TranscriptService is the transcript surface handlers depend on.
type TranscriptService interface {
	Fetch(ctx context.Context, videoID string) (*models.TranscriptRecord, error)
	FetchBatch(ctx context.Context, videoIDs []string) (*models.TranscriptBatch, error)
}

// CatalogService resolves channels and lists their videos.
type CatalogService interface {
	Lookup(ctx context.Context, channelURL string, maxVideos int) (*models.ChannelPage, error)
}

// PipelineService runs the clone and generate flows.
type PipelineService interface {
	Clone(ctx context.Context, req pipeline.CloneRequest) (*models.Creator, error)
	Generate(ctx context.Context, req pipeline.GenerateRequest) (*models.GeneratedScript, error)
}

// UsageService reads the user's quota snapshot and meters operations that
// run outside the pipeline flows.
type UsageService interface {
	Snapshot(ctx context.Context, userID string) (*models.UserUsage, error)
	Check(ctx context.Context, userID string, kind usage.Kind) error
	Record(ctx context.Context, userID string, kind usage.Kind) error
}

// DataStore is the CRUD surface for creators and generated scripts.
type DataStore interface {
	GetCreator(ctx context.Context, userID string, id uuid.UUID) (*models.Creator, error)
	ListCreators(ctx context.Context, userID string) ([]models.Creator, error)
	UpdateCreator(ctx context.Context, userID string, id uuid.UUID, fields map[string]interface{}) (*models.Creator, error)
	DeleteCreator(ctx context.Context, userID string, id uuid.UUID) error
	GetScript(ctx context.Context, userID string, id uuid.UUID) (*models.GeneratedScript, error)
	ListScripts(ctx context.Context, userID string, creatorID *uuid.UUID, limit int) ([]models.GeneratedScript, error)
	UpdateScript(ctx context.Context, userID string, id uuid.UUID, fields map[string]interface{}) (*models.GeneratedScript, error)
	DeleteScript(ctx context.Context, userID string, id uuid.UUID) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Transcripts TranscriptService
	Catalog     CatalogService
	Pipeline    PipelineService
	Usage       UsageService
	Store       DataStore
	Logger      *logrus.Logger
	Validate    *validator.Validate
}

func NewApplicationHandler(
	transcripts TranscriptService,
	cat CatalogService,
	pipe PipelineService,
	usageSvc UsageService,
	dataStore DataStore,
	logger *logrus.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		Transcripts: transcripts,
		Catalog:     cat,
		Pipeline:    pipe,
		Usage:       usageSvc,
		Store:       dataStore,
		Logger:      logger,
		Validate:    validator.New(),
	}
}

// respondWithDomainError maps service errors onto HTTP statuses. Validation
// failures get 400, quota denials 403, missing records 404, upstream rate
// limits 429, upstream/model failures 502, everything else 500.
func (h *ApplicationHandler) respondWithDomainError(c *fiber.Ctx, err error) error {
	var quotaErr *usage.QuotaError
	if errors.As(err, &quotaErr) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": quotaErr.Error(),
			"quota": fiber.Map{
				"kind":    string(quotaErr.Kind),
				"current": quotaErr.Current,
				"limit":   quotaErr.Limit,
			},
		})
	}

	switch {
	case errors.Is(err, pipeline.ErrTooFewVideos),
		errors.Is(err, pipeline.ErrTooManyVideos),
		errors.Is(err, scriptgen.ErrInvalidWordCount),
		errors.Is(err, scriptgen.ErrUnknownFormat),
		errors.Is(err, catalog.ErrInvalidChannelURL):
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, pipeline.ErrCreatorNotFound),
		errors.Is(err, catalog.ErrChannelNotFound),
		errors.Is(err, transcript.ErrNotFound),
		errors.Is(err, transcript.ErrUnavailable):
		return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, transcript.ErrRateLimited):
		return utils.RespondWithError(c, fiber.StatusTooManyRequests, err.Error())

	case errors.Is(err, pipeline.ErrInsufficientTranscripts),
		errors.Is(err, analyzer.ErrMalformed),
		errors.Is(err, scriptgen.ErrMalformed),
		errors.Is(err, transcript.ErrAuth):
		return utils.RespondWithError(c, fiber.StatusBadGateway, err.Error())
	}

	h.Logger.WithError(err).Error("Unhandled service error")
	return utils.RespondWithError(c, fiber.StatusInternalServerError, "An internal error occurred")
}
