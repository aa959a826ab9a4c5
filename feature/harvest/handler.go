package harvest

import (
	"errors"

	"metadata-harvester/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the harvest feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the harvest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/datasets", h.HandleDatasets)
	app.Get("/stac/items", h.HandleStacItems)
	app.Get("/dcat/catalog", h.HandleDcatCatalog)

	group := app.Group("/harvest")
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/runs", h.HandleRuns)
}

// HandleDatasets serves the normalized records with last-pass statistics.
// A stale cache triggers an on-demand harvest first; harvest failures are
// reported as a bad-gateway error rather than serving partial data.
func (h *Handler) HandleDatasets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	response, err := h.service.Datasets(c.Context())
	if err != nil {
		l.Error("Harvest failed while serving datasets", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(response)
}

// HandleStacItems serves the persisted STAC item collection.
func (h *Handler) HandleStacItems(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	raw, err := h.service.StacItems(c.Context())
	if err != nil {
		l.Error("Harvest failed while serving STAC items", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Type("json").Send(raw)
}

// HandleDcatCatalog serves the persisted DCAT catalog.
func (h *Handler) HandleDcatCatalog(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	raw, err := h.service.DcatCatalog(c.Context())
	if err != nil {
		l.Error("Harvest failed while serving DCAT catalog", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Type("json").Send(raw)
}

// HandleRefresh triggers a harvest pass. With ?force=true the staleness
// check is bypassed.
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	force := c.Query("force") == "true"

	if err := h.service.Refresh(c.Context(), force); err != nil {
		l.Error("Manual refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	stats := h.service.Cache().LastStats()
	return c.JSON(fiber.Map{
		"status":      "refreshed",
		"incremental": stats,
	})
}

// HandleRuns lists recent harvest runs from the optional run history.
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	limit := c.QueryInt("limit", 20)

	runs, err := h.service.Runs(limit)
	if err != nil {
		if errors.Is(err, ErrNoDatabase) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to list harvest runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"count": len(runs), "runs": runs})
}
