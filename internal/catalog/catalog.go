// Package catalog resolves channel URLs and handles against a set of
// Piped-compatible catalog instances. Lookups fall back across the mirror
// list, then to a generic search, before giving up.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"oryos/style-gateway/config"
	"oryos/style-gateway/internal/videoid"
	"oryos/style-gateway/models"
)

const requestTimeout = 15 * time.Second

var (
	// ErrChannelNotFound means every resolution strategy was exhausted.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrInvalidChannelURL means the input matched no recognized channel shape.
	ErrInvalidChannelURL = errors.New("invalid channel URL or handle")
)

var channelIDRe = regexp.MustCompile(`/channel/(UC[\w-]+)`)

// upstream wire shapes (loosely typed on purpose; normalization happens here
// and nowhere else)
type channelResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Uploader        string         `json:"uploader"`
	AvatarURL       string         `json:"avatarUrl"`
	Avatar          string         `json:"avatar"`
	SubscriberCount int64          `json:"subscriberCount"`
	Description     string         `json:"description"`
	RelatedStreams  []streamEntry  `json:"relatedStreams"`
	NextPage        string         `json:"nextpage"`
}

type streamEntry struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Uploaded  int64  `json:"uploaded"` // unix millis
	Views     int64  `json:"views"`
	Duration  int    `json:"duration"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Client looks up channels and their videos.
type Client struct {
	mirrors    []string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		mirrors:    cfg.CatalogMirrors,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// Lookup resolves a channel URL or handle to its canonical identity and
// returns up to maxVideos of its videos, paginating as needed and sorted by
// view count descending.
func (c *Client) Lookup(ctx context.Context, channelURL string, maxVideos int) (*models.ChannelPage, error) {
	ref, ok := videoid.Channel(channelURL)
	if !ok {
		return nil, ErrInvalidChannelURL
	}
	if maxVideos <= 0 {
		maxVideos = 20
	}

	channelID, err := c.resolveID(ctx, ref)
	if err != nil {
		return nil, err
	}

	page, err := c.channelData(ctx, channelID, maxVideos)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(page.Videos, func(i, j int) bool {
		return page.Videos[i].ViewCount > page.Videos[j].ViewCount
	})
	page.TotalVideos = len(page.Videos)
	return page, nil
}

// resolveID turns a handle or legacy name into a canonical UC id, trying the
// direct endpoint first and a channel search when that fails.
func (c *Client) resolveID(ctx context.Context, ref videoid.ChannelRef) (string, error) {
	if ref.Kind == videoid.ChannelID {
		return ref.Value, nil
	}

	path := "/c/" + ref.Value
	if ref.Kind == videoid.ChannelHandle {
		path = "/channel/@" + ref.Value
	}

	var direct channelResponse
	if err := c.getJSON(ctx, path, &direct); err == nil && direct.ID != "" {
		return direct.ID, nil
	}

	return c.searchChannel(ctx, ref.Value)
}

func (c *Client) searchChannel(ctx context.Context, query string) (string, error) {
	var result searchResponse
	path := "/search?q=" + url.QueryEscape(query) + "&filter=channels"
	if err := c.getJSON(ctx, path, &result); err != nil {
		return "", fmt.Errorf("%w: search failed: %v", ErrChannelNotFound, err)
	}

	lowered := strings.ToLower(query)
	for _, item := range result.Items {
		if item.Type != "channel" {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Name), lowered) && !strings.Contains(item.URL, query) {
			continue
		}
		if m := channelIDRe.FindStringSubmatch(item.URL); m != nil {
			return m[1], nil
		}
	}

	return "", ErrChannelNotFound
}

func (c *Client) channelData(ctx context.Context, channelID string, maxVideos int) (*models.ChannelPage, error) {
	var data channelResponse
	if err := c.getJSON(ctx, "/channel/"+channelID, &data); err != nil {
		return nil, err
	}

	page := &models.ChannelPage{
		Channel: models.ChannelInfo{
			ID:              firstNonEmpty(data.ID, channelID),
			Name:            firstNonEmpty(data.Name, data.Uploader, "Unknown"),
			URL:             "https://youtube.com/channel/" + channelID,
			AvatarURL:       firstNonEmpty(data.AvatarURL, data.Avatar),
			SubscriberCount: data.SubscriberCount,
			Description:     data.Description,
		},
		Videos: normalizeStreams(data.RelatedStreams),
	}

	// paginate until the requested count is met or the upstream runs out
	nextPage := data.NextPage
	for len(page.Videos) < maxVideos && nextPage != "" {
		var more channelResponse
		path := "/nextpage/channel/" + channelID + "?nextpage=" + url.QueryEscape(nextPage)
		if err := c.getJSON(ctx, path, &more); err != nil {
			c.log.WithError(err).Warn("Channel pagination failed, returning what we have")
			break
		}
		page.Videos = append(page.Videos, normalizeStreams(more.RelatedStreams)...)
		nextPage = more.NextPage
	}

	if len(page.Videos) > maxVideos {
		page.Videos = page.Videos[:maxVideos]
	}
	return page, nil
}

// getJSON performs a GET against the mirror list in order, decoding the
// first successful response. A 404 is remembered as not-found but the
// remaining mirrors are still tried, in case one instance is merely stale.
// Each attempt decodes into a fresh value; out is only written on success,
// so a mirror that fails mid-decode cannot leave partial fields behind.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	var lastErr error

	for _, mirror := range c.mirrors {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "ORYOS/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.log.WithFields(logrus.Fields{"mirror": mirror, "error": err.Error()}).Debug("Catalog mirror unreachable")
			continue
		}

		if resp.StatusCode == http.StatusOK {
			fresh := reflect.New(reflect.TypeOf(out).Elem())
			err = json.NewDecoder(resp.Body).Decode(fresh.Interface())
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("decoding catalog response from %s: %w", mirror, err)
				continue
			}
			reflect.ValueOf(out).Elem().Set(fresh.Elem())
			return nil
		}

		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			lastErr = ErrChannelNotFound
		} else {
			lastErr = fmt.Errorf("catalog mirror %s returned %d", mirror, resp.StatusCode)
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no catalog mirrors configured")
	}
	return lastErr
}

func normalizeStreams(streams []streamEntry) []models.VideoInfo {
	videos := make([]models.VideoInfo, 0, len(streams))
	for _, s := range streams {
		if s.Type != "stream" && s.Duration <= 0 {
			continue
		}

		videoURL := s.URL
		if !strings.HasPrefix(videoURL, "http") {
			videoURL = "https://youtube.com" + videoURL
		}

		id, ok := videoid.Video(videoURL)
		if !ok {
			id = s.URL
		}

		v := models.VideoInfo{
			VideoID:         id,
			Title:           firstNonEmpty(s.Title, "Untitled"),
			ThumbnailURL:    s.Thumbnail,
			ViewCount:       s.Views,
			DurationSeconds: s.Duration,
			URL:             videoURL,
		}
		if s.Uploaded > 0 {
			published := time.UnixMilli(s.Uploaded).UTC()
			v.PublishedAt = &published
		}
		videos = append(videos, v)
	}
	return videos
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
