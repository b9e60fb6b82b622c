package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Shamsear/ssleague/app/repository"
	"github.com/Shamsear/ssleague/internal/pkg/docstore"
	"github.com/Shamsear/ssleague/internal/pkg/identity"
	"github.com/Shamsear/ssleague/internal/pkg/importer"
	"github.com/Shamsear/ssleague/internal/pkg/metrics/counter"
)

var (
	importOrchestrator *importer.Orchestrator
	importTracker      *importer.Tracker
)

// InitializeImportController wires the import pipeline onto the shared
// Redis connection and the global repository factory.
func InitializeImportController() {
	client := docstore.NewDefault()
	seasonStore = client
	entityStore = client
	statsRepos = repository.GetGlobalRepositories()
	store := importer.NewStore(client)
	importTracker = importer.NewTracker(importer.NewProgressStore())
	importOrchestrator = importer.NewOrchestrator(
		store,
		statsRepos,
		identity.NewProvider(client),
		importTracker,
	)
}

// HandleStartImport accepts a season payload, starts the background
// import job and returns its ID for progress polling.
func HandleStartImport(c *fiber.Ctx) error {
	payload := new(importer.ImportPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid JSON body"})
	}
	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	importID, err := importOrchestrator.Start(c.Context(), payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to start import"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"importId": importID,
		"message":  "Import started. Track progress using the import ID.",
	})
}

// HandleImportProgress returns the current snapshot for one import job
func HandleImportProgress(c *fiber.Ctx) error {
	importID := c.Query("importId")
	if importID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "importId missing"})
	}

	job, err := importTracker.Get(c.Context(), importID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to read progress"})
	}
	if job == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "import not found"})
	}

	return c.JSON(job)
}

// HandleImportCounters returns the lifetime import job counters
func HandleImportCounters(c *fiber.Ctx) error {
	started, completed, failed, err := counter.ImportJobCounts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error", "message": "failed to read counters"})
	}
	return c.JSON(fiber.Map{
		"started":   started,
		"completed": completed,
		"failed":    failed,
	})
}
