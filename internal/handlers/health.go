package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/services"
)

// HealthHandler reports storage health
type HealthHandler struct {
	Container *services.Container
}

// GetHealth handles GET /api/health
// @Summary Storage health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	sc := h.Container
	result := services.HealthCheck(c.UserContext(), sc.Config, sc.DB, sc.Tables)
	if result.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(result)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
