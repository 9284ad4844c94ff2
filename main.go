package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"oryos/style-gateway/config"
	"oryos/style-gateway/handlers"
	"oryos/style-gateway/internal/analyzer"
	"oryos/style-gateway/internal/catalog"
	"oryos/style-gateway/internal/llm"
	"oryos/style-gateway/internal/pipeline"
	"oryos/style-gateway/internal/scriptgen"
	"oryos/style-gateway/internal/store"
	"oryos/style-gateway/internal/transcript"
	"oryos/style-gateway/internal/usage"
	"oryos/style-gateway/middleware"
)

func main() {
	log := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := store.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Supabase store")
	}

	gemini, err := llm.NewGeminiClient(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize Gemini client")
	}

	transcripts := transcript.NewClient(cfg, log)
	channels := catalog.NewClient(cfg, log)
	styleAnalyzer := analyzer.New(gemini, cfg.AnalysisModel, log)
	generator := scriptgen.New(gemini, cfg.GenerationModel, log)
	guard := usage.NewGuard(db, log)
	pipe := pipeline.New(transcripts, styleAnalyzer, generator, guard, db, db, log)

	h := handlers.NewApplicationHandler(transcripts, channels, pipe, guard, db, log)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-User-ID",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Style gateway is healthy",
		})
	})

	apiV1 := app.Group("/api/v1", middleware.UserScope())

	apiV1.Post("/transcripts/extract", h.ExtractTranscript)
	apiV1.Post("/channels/lookup", h.LookupChannel)

	apiV1.Post("/creators/clone", h.CloneCreator)
	apiV1.Get("/creators", h.ListCreators)
	apiV1.Get("/creators/:id", h.GetCreator)
	apiV1.Patch("/creators/:id", h.UpdateCreator)
	apiV1.Delete("/creators/:id", h.DeleteCreator)

	apiV1.Post("/scripts/generate", h.GenerateScript)
	apiV1.Get("/scripts", h.ListScripts)
	apiV1.Get("/scripts/:id", h.GetScript)
	apiV1.Delete("/scripts/:id", h.DeleteScript)
	apiV1.Patch("/scripts/:id/favorite", h.FavoriteScript)
	apiV1.Patch("/scripts/:id/rating", h.RateScript)

	apiV1.Get("/usage", h.GetUsage)

	log.WithField("port", cfg.Port).Info("Starting style gateway")
	if err := app.Listen(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
