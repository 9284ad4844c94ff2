package handlers

import (
	"github.com/gofiber/fiber/v2"

	"oryos/style-gateway/middleware"
	"oryos/style-gateway/utils"
)

// GetUsage returns the user's current-period usage counters. Users without
// a usage row yet get a null payload; provisioning happens on first metered
// operation.
// GET /api/v1/usage
func (h *ApplicationHandler) GetUsage(c *fiber.Ctx) error {
	snapshot, err := h.Usage.Snapshot(c.Context(), middleware.UserID(c))
	if err != nil {
		return h.respondWithDomainError(c, err)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, snapshot)
}
