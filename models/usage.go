package models

import "time"

// UserUsage is the per-user monthly counter row. A limit of -1 means
// unlimited. The counters are only ever mutated through the usage guard's
// atomic increment.
type UserUsage struct {
	UserID               string    `json:"user_id"`
	PeriodStart          time.Time `json:"period_start"`
	AnalysesThisMonth    int       `json:"analyses_this_month"`
	ScriptsThisMonth     int       `json:"scripts_this_month"`
	TranscriptsThisMonth int       `json:"transcripts_this_month"`
	Plan                 string    `json:"plan"`
	MaxAnalysesPerMonth  int       `json:"max_analyses_per_month"`
	MaxScriptsPerMonth   int       `json:"max_scripts_per_month"`
	MaxCreatorsSaved     int       `json:"max_creators_saved"`
}
