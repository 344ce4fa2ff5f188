package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abhinavparupati/skillrank-hackathon/internal/repository"
	"github.com/abhinavparupati/skillrank-hackathon/internal/service"
)

const apiVersion = "1.0.0"

type DashboardHandler struct {
	service service.DashboardService
	queries repository.QueryRepository
}

func NewDashboardHandler(s service.DashboardService, q repository.QueryRepository) *DashboardHandler {
	return &DashboardHandler{service: s, queries: q}
}

func (h *DashboardHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   apiVersion,
	})
}

// Schema exposes table/column introspection for the query builder UI and
// the model prompt.
func (h *DashboardHandler) Schema(c *fiber.Ctx) error {
	schema, err := h.queries.Schema()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to retrieve database schema"})
	}
	return c.JSON(fiber.Map{"success": true, "schema": schema})
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to retrieve database statistics"})
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

func (h *DashboardHandler) KPIs(c *fiber.Ctx) error {
	kpis, err := h.service.KPIs()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to calculate business KPIs"})
	}
	return c.JSON(fiber.Map{"success": true, "kpis": kpis})
}

type chartDataRequest struct {
	ChartType string `json:"chart_type"`
}

func (h *DashboardHandler) ChartData(c *fiber.Ctx) error {
	var req chartDataRequest
	if err := c.BodyParser(&req); err != nil || req.ChartType == "" {
		return c.Status(400).JSON(fiber.Map{
			"success":    false,
			"error":      "Chart type is required",
			"error_type": "validation_error",
		})
	}

	data, err := h.service.ChartData(req.ChartType)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "chart_data": data})
}
