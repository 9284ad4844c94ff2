package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"oryos/style-gateway/internal/usage"
	"oryos/style-gateway/internal/videoid"
	"oryos/style-gateway/middleware"
	"oryos/style-gateway/utils"
)

// ExtractTranscriptPayload accepts either a single video reference or a
// batch. URLs and bare 11-character IDs are both accepted.
type ExtractTranscriptPayload struct {
	VideoURL  string   `json:"video_url"`
	VideoID   string   `json:"video_id"`
	VideoURLs []string `json:"video_urls"`
	VideoIDs  []string `json:"video_ids"`
}

// ExtractTranscript fetches transcripts for one video or a batch of up
// to ten.
// POST /api/v1/transcripts/extract
func (h *ApplicationHandler) ExtractTranscript(c *fiber.Ctx) error {
	payload := new(ExtractTranscriptPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}

	batch := append(append([]string{}, payload.VideoURLs...), payload.VideoIDs...)
	single := payload.VideoURL
	if single == "" {
		single = payload.VideoID
	}

	switch {
	case single != "" && len(batch) > 0:
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Provide either a single video or a batch, not both")
	case single == "" && len(batch) == 0:
		return utils.RespondWithError(c, fiber.StatusBadRequest, "A video_url, video_id, video_urls or video_ids field is required")
	}

	userID := middleware.UserID(c)
	if err := h.Usage.Check(c.Context(), userID, usage.KindTranscripts); err != nil {
		return h.respondWithDomainError(c, err)
	}

	if single != "" {
		id, ok := videoid.Video(single)
		if !ok {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Unrecognized video reference: %q", single))
		}
		record, err := h.Transcripts.Fetch(c.Context(), id)
		if err != nil {
			return h.respondWithDomainError(c, err)
		}
		h.recordTranscriptUsage(c, userID, 1)
		return utils.RespondWithJSON(c, fiber.StatusOK, record)
	}

	ids := make([]string, 0, len(batch))
	for _, input := range batch {
		id, ok := videoid.Video(input)
		if !ok {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Unrecognized video reference: %q", input))
		}
		ids = append(ids, id)
	}

	result, err := h.Transcripts.FetchBatch(c.Context(), ids)
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	h.recordTranscriptUsage(c, userID, result.TotalSucceeded)
	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// recordTranscriptUsage bumps the counter once per fetched transcript. The
// fetch already happened, so a failed bump is logged rather than failing
// the response.
func (h *ApplicationHandler) recordTranscriptUsage(c *fiber.Ctx, userID string, count int) {
	for i := 0; i < count; i++ {
		if err := h.Usage.Record(c.Context(), userID, usage.KindTranscripts); err != nil {
			h.Logger.WithError(err).WithField("user_id", userID).Warn("Failed to record transcript usage")
			return
		}
	}
}
