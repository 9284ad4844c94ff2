package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"oryos/style-gateway/utils"
)

const (
	defaultLookupVideos = 10
	maxLookupVideos     = 50
)

// LookupChannelPayload identifies a channel by URL, @handle or bare id.
type LookupChannelPayload struct {
	ChannelURL string `json:"channel_url" validate:"required"`
	MaxVideos  int    `json:"max_videos" validate:"omitempty,min=1,max=50"`
}

// LookupChannel resolves a channel and returns its most viewed videos.
// POST /api/v1/channels/lookup
func (h *ApplicationHandler) LookupChannel(c *fiber.Ctx) error {
	payload := new(LookupChannelPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	maxVideos := payload.MaxVideos
	if maxVideos == 0 {
		maxVideos = defaultLookupVideos
	}
	if maxVideos > maxLookupVideos {
		maxVideos = maxLookupVideos
	}

	page, err := h.Catalog.Lookup(c.Context(), payload.ChannelURL, maxVideos)
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, page)
}
