// Package transcript calls the transcript-extraction service and normalizes
// its responses into uniform records. The batch operation is deliberately
// sequential with a fixed pacing delay: the upstream enforces a rate limit
// and serialized calls are the agreed way to stay under it.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"oryos/style-gateway/config"
	"oryos/style-gateway/models"
)

const (
	// MaxBatchSize caps how many videos one batch call will process; extra
	// identifiers are dropped.
	MaxBatchSize = 10

	// MinTranscriptLength is the shortest transcript that can support style
	// analysis. Anything shorter is treated the same as no transcript.
	MinTranscriptLength = 50

	batchDelay     = 300 * time.Millisecond
	requestTimeout = 15 * time.Second
)

var (
	// ErrUnavailable means the video has no usable transcript.
	ErrUnavailable = errors.New("transcript unavailable")
	// ErrAuth means the upstream rejected our credentials.
	ErrAuth = errors.New("transcript service rejected the API key")
	// ErrNotFound means the video does not exist or has no captions.
	ErrNotFound = errors.New("video not found or has no transcript")
	// ErrRateLimited means the upstream request quota was exhausted.
	ErrRateLimited = errors.New("transcript service rate limit reached")
)

// bracketed non-speech annotations such as [Music] or [Applause]
var annotationRe = regexp.MustCompile(`\[.*?\]`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// upstream wire shape
type apiResponse struct {
	VideoID    string       `json:"video_id"`
	Language   string       `json:"language"`
	Transcript []apiSegment `json:"transcript"`
	Metadata   *apiMetadata `json:"metadata"`
}

type apiSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type apiMetadata struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Client talks to the transcript-extraction service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Logger
}

func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.TranscriptAPIURL,
		apiKey:     cfg.TranscriptAPIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(batchDelay), 1),
		log:        log,
	}
}

// Fetch extracts and normalizes the transcript for one video: segments are
// concatenated, bracketed annotations stripped and whitespace collapsed.
// Upstream status codes map onto the package's sentinel errors so callers
// can tell an auth problem from a missing video.
func (c *Client) Fetch(ctx context.Context, videoID string) (*models.TranscriptRecord, error) {
	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transcript API URL: %w", err)
	}
	q := reqURL.Query()
	q.Set("video_url", "https://youtube.com/watch?v="+videoID)
	q.Set("format", "json")
	q.Set("include_timestamp", "false")
	q.Set("send_metadata", "true")
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript request for %s failed: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrAuth
		case http.StatusNotFound:
			return nil, ErrNotFound
		case http.StatusTooManyRequests:
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("transcript service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding transcript response for %s: %w", videoID, err)
	}

	text := normalize(payload.Transcript)
	if len(text) < MinTranscriptLength {
		return nil, ErrUnavailable
	}

	record := &models.TranscriptRecord{
		VideoID:    payload.VideoID,
		Transcript: text,
		WordCount:  len(strings.Fields(text)),
		Language:   payload.Language,
	}
	if record.VideoID == "" {
		record.VideoID = videoID
	}
	if payload.Metadata != nil {
		record.Title = payload.Metadata.Title
		record.ChannelName = payload.Metadata.AuthorName
		record.ThumbnailURL = payload.Metadata.ThumbnailURL
	}

	return record, nil
}

// FetchBatch runs Fetch for up to MaxBatchSize identifiers sequentially,
// pacing calls through the rate limiter. One video's failure never aborts
// the batch; failures are collected per item instead.
func (c *Client) FetchBatch(ctx context.Context, videoIDs []string) (*models.TranscriptBatch, error) {
	if len(videoIDs) == 0 {
		return nil, fmt.Errorf("no video ids supplied")
	}
	if len(videoIDs) > MaxBatchSize {
		c.log.WithField("requested", len(videoIDs)).Warn("Batch truncated to maximum size")
		videoIDs = videoIDs[:MaxBatchSize]
	}

	batch := &models.TranscriptBatch{TotalRequested: len(videoIDs)}

	for _, id := range videoIDs {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		record, err := c.Fetch(ctx, id)
		if err != nil {
			c.log.WithFields(logrus.Fields{"video_id": id, "error": err.Error()}).Warn("Transcript extraction failed")
			batch.Errors = append(batch.Errors, models.TranscriptError{VideoID: id, Reason: err.Error()})
			continue
		}
		batch.Results = append(batch.Results, *record)
	}

	batch.TotalSucceeded = len(batch.Results)
	batch.TotalFailed = len(batch.Errors)
	return batch, nil
}

func normalize(segments []apiSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	text := strings.Join(parts, " ")
	text = annotationRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
