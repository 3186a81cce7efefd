package integrity

import (
	"media-offload/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/bucket", h.HandleBucketCheck)
	group.Get("/catalog", h.HandleCatalogCheck)
	group.Get("/uploads", h.HandleUploadsCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Bucket, Catalog, Uploads).
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	return c.JSON(h.service.Report(c.Context()))
}

// HandleBucketCheck checks the bucket.
// @Summary Check Bucket
// @Description Checks that the storage bucket exists. With probe=true, writes a small object and reads it back before deleting it.
// @Tags integrity
// @Accept json
// @Produce json
// @Param probe query boolean false "Run a write probe"
// @Success 200 {object} checks.BucketReport "Bucket Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/bucket [get]
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	probe := c.Query("probe") == "true"

	report, err := h.service.CheckBucket(c.Context(), probe)
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Status != "ok" {
		l.Warn("Bucket check reported a problem", zap.String("error", report.Error))
	}

	return c.JSON(report)
}

// HandleCatalogCheck checks catalog schema integrity.
// @Summary Check Catalog Schema
// @Description Checks that the CMS tables carry the columns media offload reads and writes.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.CatalogReport "Catalog Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/catalog [get]
func (h *Handler) HandleCatalogCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting catalog schema check")

	report, err := h.service.CheckCatalog()
	if err != nil {
		l.Error("Catalog schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleUploadsCheck checks the upload directory.
// @Summary Check Upload Directory
// @Description Checks that the local upload directory exists and is writable.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.UploadsReport "Uploads Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/uploads [get]
func (h *Handler) HandleUploadsCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckUploads()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Uploads check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
