package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"oryos/style-gateway/internal/pipeline"
	"oryos/style-gateway/middleware"
	"oryos/style-gateway/utils"
)

// GenerateScriptPayload starts one generation run against a saved creator.
type GenerateScriptPayload struct {
	CreatorID              uuid.UUID `json:"creator_id" validate:"required"`
	Topic                  string    `json:"topic" validate:"required"`
	Format                 string    `json:"format"`
	WordCount              int       `json:"word_count" validate:"omitempty,min=1"`
	AdditionalInstructions string    `json:"additional_instructions"`
	Language               string    `json:"language"`
}

// GenerateScript runs the generation flow and returns the persisted script.
// POST /api/v1/scripts/generate
func (h *ApplicationHandler) GenerateScript(c *fiber.Ctx) error {
	payload := new(GenerateScriptPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	script, err := h.Pipeline.Generate(c.Context(), pipeline.GenerateRequest{
		UserID:                 middleware.UserID(c),
		CreatorID:              payload.CreatorID,
		Topic:                  payload.Topic,
		Format:                 payload.Format,
		WordCount:              payload.WordCount,
		AdditionalInstructions: payload.AdditionalInstructions,
		Language:               payload.Language,
	})
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, script)
}

// ListScripts returns the user's generated scripts, optionally narrowed to
// one creator via ?creator_id=.
// GET /api/v1/scripts
func (h *ApplicationHandler) ListScripts(c *fiber.Ctx) error {
	var creatorID *uuid.UUID
	if raw := c.Query("creator_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid creator_id filter")
		}
		creatorID = &id
	}

	limit := c.QueryInt("limit")
	if limit < 0 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid limit")
	}

	scripts, err := h.Store.ListScripts(c.Context(), middleware.UserID(c), creatorID, limit)
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, scripts)
}

// GetScript returns one generated script.
// GET /api/v1/scripts/:id
func (h *ApplicationHandler) GetScript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid script ID format")
	}

	script, err := h.Store.GetScript(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, script)
}

// DeleteScript removes one generated script.
// DELETE /api/v1/scripts/:id
func (h *ApplicationHandler) DeleteScript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid script ID format")
	}

	if err := h.Store.DeleteScript(c.Context(), middleware.UserID(c), id); err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"deleted": id})
}

// FavoriteScriptPayload toggles the favorite flag.
type FavoriteScriptPayload struct {
	IsFavorite *bool `json:"is_favorite" validate:"required"`
}

// FavoriteScript sets or clears the favorite flag.
// PATCH /api/v1/scripts/:id/favorite
func (h *ApplicationHandler) FavoriteScript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid script ID format")
	}

	payload := new(FavoriteScriptPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	script, err := h.Store.UpdateScript(c.Context(), middleware.UserID(c), id,
		map[string]interface{}{"is_favorite": *payload.IsFavorite})
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, script)
}

// RateScriptPayload assigns a 1-5 rating.
type RateScriptPayload struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// RateScript stores the user's rating for a script.
// PATCH /api/v1/scripts/:id/rating
func (h *ApplicationHandler) RateScript(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid script ID format")
	}

	payload := new(RateScriptPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request payload: %s", err.Error()))
	}
	if err := h.Validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, utils.ValidationMessage(err))
	}

	script, err := h.Store.UpdateScript(c.Context(), middleware.UserID(c), id,
		map[string]interface{}{"rating": payload.Rating})
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, script)
}
