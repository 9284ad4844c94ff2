package models

import (
	"time"

	"github.com/google/uuid"
)

// Creator is a cloned style: one creator's analyzed profile plus the prompt
// template compiled from it. Owned by exactly one user; the profile and
// template are replaced only by re-running the full analysis.
type Creator struct {
	ID              uuid.UUID `json:"id,omitempty"`
	UserID          string    `json:"user_id"`
	ChannelID       *string   `json:"channel_id,omitempty"`
	ChannelName     string    `json:"channel_name"`
	ChannelURL      *string   `json:"channel_url,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	SubscriberCount *int64    `json:"subscriber_count,omitempty"`

	StyleName           string   `json:"style_name"`
	VideoIDs            []string `json:"video_ids"`
	TotalVideosAnalyzed int      `json:"total_videos_analyzed"`

	Analysis       StyleProfile `json:"analysis"`
	PromptTemplate string       `json:"prompt_template"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
