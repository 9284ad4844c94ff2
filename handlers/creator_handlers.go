package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"oryos/style-gateway/internal/pipeline"
	"oryos/style-gateway/middleware"
	"oryos/style-gateway/utils"
)

// CloneCreatorPayload starts one clone run. Between 3 and 10 video
// references are required.
type CloneCreatorPayload struct {
	CreatorName string   `json:"creator_name" validate:"required"`
	StyleName   string   `json:"style_name"`
	ChannelID   *string  `json:"channel_id"`
	ChannelURL  *string  `json:"channel_url"`
	AvatarURL   *string  `json:"avatar_url"`
	VideoURLs   []string `json:"video_urls" validate:"required,min=3,max=10"`
}

// CloneCreator runs the full cloning flow and returns the persisted creator.
// POST /api/v1/creators/clone
func (h *ApplicationHandler) CloneCreator(c *fiber.Ctx) error {
	payload := new(CloneCreatorPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	userID := middleware.UserID(c)
	log := h.Logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"creator": payload.CreatorName,
	})

	creator, err := h.Pipeline.Clone(c.Context(), pipeline.CloneRequest{
		UserID:      userID,
		CreatorName: payload.CreatorName,
		StyleName:   payload.StyleName,
		ChannelID:   payload.ChannelID,
		ChannelURL:  payload.ChannelURL,
		AvatarURL:   payload.AvatarURL,
		VideoInputs: payload.VideoURLs,
		Progress: func(message string, percent int) {
			log.WithField("percent", percent).Info(message)
		},
	})
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, creator)
}

// ListCreators returns the user's cloned creators.
// GET /api/v1/creators
func (h *ApplicationHandler) ListCreators(c *fiber.Ctx) error {
	creators, err := h.Store.ListCreators(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, creators)
}

// GetCreator returns one creator.
// GET /api/v1/creators/:id
func (h *ApplicationHandler) GetCreator(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid creator ID format")
	}

	creator, err := h.Store.GetCreator(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, creator)
}

// UpdateCreatorPayload patches creator metadata. The analyzed profile and
// template are immutable here; regenerating them means a new clone run.
type UpdateCreatorPayload struct {
	StyleName *string `json:"style_name" validate:"omitempty,min=1"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateCreator patches the creator's metadata fields.
// PATCH /api/v1/creators/:id
func (h *ApplicationHandler) UpdateCreator(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid creator ID format")
	}

	payload := new(UpdateCreatorPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	fields := make(map[string]interface{})
	if payload.StyleName != nil {
		fields["style_name"] = *payload.StyleName
	}
	if payload.AvatarURL != nil {
		fields["avatar_url"] = *payload.AvatarURL
	}
	if len(fields) == 0 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "No updatable fields provided")
	}

	creator, err := h.Store.UpdateCreator(c.Context(), middleware.UserID(c), id, fields)
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, creator)
}

// DeleteCreator removes a creator. Generated scripts keep their dangling
// creator reference.
// DELETE /api/v1/creators/:id
func (h *ApplicationHandler) DeleteCreator(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid creator ID format")
	}

	if err := h.Store.DeleteCreator(c.Context(), middleware.UserID(c), id); err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": id})
}
