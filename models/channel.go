package models

import "time"

// ChannelInfo is the canonical identity of a channel as returned by the
// catalog lookup.
type ChannelInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	SubscriberCount int64  `json:"subscriber_count"`
	Description     string `json:"description,omitempty"`
}

// VideoInfo is one video's metadata from the catalog, normalized from
// whatever shape the upstream instance returned.
type VideoInfo struct {
	VideoID         string     `json:"video_id"`
	Title           string     `json:"title"`
	ThumbnailURL    string     `json:"thumbnail_url"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	ViewCount       int64      `json:"view_count"`
	DurationSeconds int        `json:"duration_seconds"`
	URL             string     `json:"url"`
}

// ChannelPage is a channel plus its videos, sorted by view count descending.
type ChannelPage struct {
	Channel     ChannelInfo `json:"channel"`
	Videos      []VideoInfo `json:"videos"`
	TotalVideos int         `json:"total_videos"`
}
