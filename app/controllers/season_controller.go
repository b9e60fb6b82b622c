package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shamsear/ssleague/internal/pkg/docstore"
	"github.com/Shamsear/ssleague/internal/pkg/statistics"
)

var seasonStore *docstore.Client

// HandleGetSeason returns one season document by its code
func HandleGetSeason(c *fiber.Ctx) error {
	seasonID := c.Params("id")
	if seasonID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "season id missing"})
	}

	season, err := seasonStore.GetSeason(c.Context(), seasonID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load season"})
	}
	if season == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "season not found"})
	}

	return c.JSON(season)
}

// HandleSeasonStatistics returns the imported row counts for a season
func HandleSeasonStatistics(c *fiber.Ctx) error {
	seasonID := c.Params("id")
	if seasonID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "season id missing"})
	}

	season, err := seasonStore.GetSeason(c.Context(), seasonID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load season"})
	}
	if season == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "season not found"})
	}

	stats, err := statistics.GetSeasonStatistics(seasonID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load statistics"})
	}

	return c.JSON(fiber.Map{
		"season":     season,
		"statistics": stats,
	})
}
