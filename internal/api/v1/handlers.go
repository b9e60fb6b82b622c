package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/Shamsear/ssleague/app/controllers"
	"github.com/Shamsear/ssleague/internal/pkg/middleware"
)

// Pong is the ping response body
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the v1 API surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// PostSeasonImport starts a season import job.
// Security: admin API key required via router middleware.
func (s *APIServer) PostSeasonImport(c *fiber.Ctx) error {
	return controllers.HandleStartImport(c)
}

// GetImportProgress returns the progress snapshot for an import job
func (s *APIServer) GetImportProgress(c *fiber.Ctx) error {
	return controllers.HandleImportProgress(c)
}

// GetImportCounters returns the lifetime import job counters.
// Security: admin API key required via router middleware.
func (s *APIServer) GetImportCounters(c *fiber.Ctx) error {
	return controllers.HandleImportCounters(c)
}

// GetSeason returns one season document
func (s *APIServer) GetSeason(c *fiber.Ctx) error {
	return controllers.HandleGetSeason(c)
}

// GetTeam returns one team document, optionally with a season stats row
func (s *APIServer) GetTeam(c *fiber.Ctx) error {
	return controllers.HandleGetTeam(c)
}

// GetPlayer returns one player document, optionally with a season stats row
func (s *APIServer) GetPlayer(c *fiber.Ctx) error {
	return controllers.HandleGetPlayer(c)
}

// GetSeasonStatistics returns the imported row counts for a season
func (s *APIServer) GetSeasonStatistics(c *fiber.Ctx) error {
	return controllers.HandleSeasonStatistics(c)
}

// RegisterHandlers attaches the v1 routes to the given router group.
// Write endpoints and operational counters sit behind the admin API
// key; season reads are public.
func RegisterHandlers(router fiber.Router, server *APIServer) {
	router.Get("/ping", server.GetPing)

	adminOnly := middleware.APIKeyAuthMiddleware()
	router.Post("/seasons/import", adminOnly, server.PostSeasonImport)
	router.Get("/seasons/import/progress", server.GetImportProgress)
	router.Get("/seasons/import/counters", adminOnly, server.GetImportCounters)

	router.Get("/seasons/:id", server.GetSeason)
	router.Get("/seasons/:id/statistics", server.GetSeasonStatistics)
	router.Get("/teams/:id", server.GetTeam)
	router.Get("/players/:id", server.GetPlayer)
}
