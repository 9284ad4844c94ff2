package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StringList unmarshals either a JSON array of strings or a bare string.
// Models occasionally return a scalar where the schema asks for a list; the
// scalar is normalized into a single-element list at this boundary instead of
// leaking the inconsistent shape into the stored record.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = []string{single}
	return nil
}

// GeneratedScript is one script produced by the generate flow. It holds a
// weak reference to the creator whose template steered it: deleting the
// creator leaves the script in place with a dangling creator_id.
type GeneratedScript struct {
	ID        uuid.UUID  `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	CreatorID *uuid.UUID `json:"creator_id,omitempty"`

	Topic                  string  `json:"topic"`
	Format                 string  `json:"format"`
	WordCountTarget        *int    `json:"word_count_target,omitempty"`
	AdditionalInstructions *string `json:"additional_instructions,omitempty"`

	TitleSuggestion          string     `json:"title_suggestion"`
	Hook                     string     `json:"hook"`
	ScriptContent            string     `json:"script_content"`
	ThumbnailIdeas           StringList `json:"thumbnail_ideas"`
	ActualWordCount          int        `json:"actual_word_count"`
	EstimatedDurationSeconds int        `json:"estimated_duration_seconds"`

	IsFavorite bool      `json:"is_favorite"`
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
