package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Default Piped-compatible catalog instances, tried in order until one answers.
var defaultCatalogMirrors = []string{
	"https://pipedapi.kavin.rocks",
	"https://pipedapi.adminforge.de",
	"https://pipedapi.in.projectsegfau.lt",
}

// Config holds every credential and endpoint the service talks to. It is
// loaded once at startup and passed by reference into the service adapters,
// so tests can construct adapters against fake endpoints without touching
// the process environment.
type Config struct {
	Port string

	SupabaseURL        string
	SupabaseServiceKey string

	TranscriptAPIURL string
	TranscriptAPIKey string

	CatalogMirrors []string

	GeminiAPIKey    string
	AnalysisModel   string
	GenerationModel string
}

// Load reads the configuration from the environment (a .env file is honored
// when present) and validates that every required credential is set. There
// is deliberately no degraded mode: a missing credential is a startup error,
// never a silent fallback to canned data.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               os.Getenv("PORT"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		TranscriptAPIURL:   os.Getenv("TRANSCRIPT_API_URL"),
		TranscriptAPIKey:   os.Getenv("TRANSCRIPT_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		AnalysisModel:      os.Getenv("ANALYSIS_MODEL"),
		GenerationModel:    os.Getenv("GENERATION_MODEL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.TranscriptAPIURL == "" {
		cfg.TranscriptAPIURL = "https://transcriptapi.com/api/v2/youtube/transcript"
	}
	if cfg.AnalysisModel == "" {
		cfg.AnalysisModel = "gemini-2.5-pro"
	}
	if cfg.GenerationModel == "" {
		cfg.GenerationModel = "gemini-2.5-flash"
	}

	if mirrors := os.Getenv("CATALOG_MIRRORS"); mirrors != "" {
		for _, m := range strings.Split(mirrors, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.CatalogMirrors = append(cfg.CatalogMirrors, m)
			}
		}
	}
	if len(cfg.CatalogMirrors) == 0 {
		cfg.CatalogMirrors = defaultCatalogMirrors
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.TranscriptAPIKey == "" {
		return fmt.Errorf("TRANSCRIPT_API_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}
