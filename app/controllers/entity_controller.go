package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Shamsear/ssleague/app/models"
	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
)

var (
	entityStore *docstore.Client
	statsRepos  *repository.Repositories
)

// HandleGetTeam returns one team document by ID. With ?season=<code>
// the team's stats row for that season is included, null when the team
// did not play it.
func HandleGetTeam(c *fiber.Ctx) error {
	teamID := c.Params("id")

	team, err := entityStore.GetTeam(c.Context(), teamID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load team"})
	}
	if team == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "team not found"})
	}

	resp := fiber.Map{"team": team}
	if seasonID := c.Query("season"); seasonID != "" {
		row, err := statsRepos.TeamStats.GetByTeamAndSeason(teamID, seasonID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load team stats"})
		}
		resp["stats"] = teamStatsOrNil(row, err)
	}
	return c.JSON(resp)
}

// HandleGetPlayer returns one player document by ID, with the same
// optional ?season= stats row as the team endpoint.
func HandleGetPlayer(c *fiber.Ctx) error {
	playerID := c.Params("id")

	player, err := entityStore.GetPlayer(c.Context(), playerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load player"})
	}
	if player == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "player not found"})
	}

	resp := fiber.Map{"player": player}
	if seasonID := c.Query("season"); seasonID != "" {
		row, err := statsRepos.PlayerStats.GetByPlayerAndSeason(playerID, seasonID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to load player stats"})
		}
		resp["stats"] = playerStatsOrNil(row, err)
	}
	return c.JSON(resp)
}

// The GORM repositories signal a missing row with ErrRecordNotFound;
// the JSON response carries null instead.
func teamStatsOrNil(row *models.TeamStats, err error) interface{} {
	if err != nil || row == nil {
		return nil
	}
	return row
}

func playerStatsOrNil(row *models.RealPlayerStats, err error) interface{} {
	if err != nil || row == nil {
		return nil
	}
	return row
}
