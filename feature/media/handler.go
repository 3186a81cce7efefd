package media

import (
	"errors"
	"slices"
	"strconv"

	"media-offload/core/catalog"
	"media-offload/core/logger"
	"media-offload/core/middleware/nonce"
	"media-offload/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BulkResponse is the result of a bulk operation.
type BulkResponse struct {
	// Status is "success" when every asset and file went through, "partial" otherwise.
	Status string                 `json:"status"`
	Report *reconcile.BatchReport `json:"report"`
}

// NonceResponse carries an anti-replay token for one action.
type NonceResponse struct {
	Action string `json:"action"`
	Nonce  string `json:"nonce"`
}

// Handler handles HTTP requests for media offload.
type Handler struct {
	service *Service
	nonces  *nonce.Store
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, nonces *nonce.Store) *Handler {
	return &Handler{service: service, nonces: nonces}
}

// RegisterRoutes registers the media routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/media")
	group.Get("/nonce/:action", h.HandleIssueNonce)
	group.Get("/status", h.HandleStatus)
	group.Post("/migrate", h.nonces.Require(string(reconcile.OpMigrate)), h.HandleMigrate)
	group.Post("/purge-local", h.nonces.Require(string(reconcile.OpPurgeLocal)), h.HandlePurgeLocal)
	group.Post("/revert", h.nonces.Require(string(reconcile.OpRevert)), h.HandleRevert)
	group.Post("/reupload", h.nonces.Require(string(reconcile.OpReupload)), h.HandleReupload)
	group.Post("/:id/offload", h.HandleOffload)
	group.Get("/:id/url", h.HandleURL)
}

// HandleIssueNonce issues a single-use token for a bulk action.
// @Summary Issue Action Nonce
// @Description Issues a single-use token that must accompany the next request for the given bulk action.
// @Tags media
// @Produce json
// @Param action path string true "Action (migrate, purge-local, revert, reupload)"
// @Success 200 {object} NonceResponse "Nonce"
// @Failure 400 {object} map[string]string "Unknown action"
// @Router /media/nonce/{action} [get]
func (h *Handler) HandleIssueNonce(c *fiber.Ctx) error {
	action := c.Params("action")
	if !slices.Contains(Operations, reconcile.Operation(action)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown action: " + action})
	}
	return c.JSON(NonceResponse{Action: action, Nonce: h.nonces.Issue(action)})
}

// HandleMigrate offloads every local asset.
// @Summary Migrate All
// @Description Offloads every asset without an offload record whose local file exists.
// @Tags media
// @Produce json
// @Param X-Nonce header string true "Token from /media/nonce/migrate"
// @Success 200 {object} BulkResponse "Batch Report"
// @Failure 403 {object} map[string]string "Invalid nonce"
// @Failure 409 {object} map[string]string "Another bulk operation is running"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/migrate [post]
func (h *Handler) HandleMigrate(c *fiber.Ctx) error {
	return h.runBulk(c, reconcile.OpMigrate)
}

// HandlePurgeLocal deletes local copies of every offloaded asset.
// @Summary Purge Local Copies
// @Description Deletes the local files of every offloaded asset. Offload records are kept.
// @Tags media
// @Produce json
// @Param X-Nonce header string true "Token from /media/nonce/purge-local"
// @Success 200 {object} BulkResponse "Batch Report"
// @Failure 403 {object} map[string]string "Invalid nonce"
// @Failure 409 {object} map[string]string "Another bulk operation is running"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/purge-local [post]
func (h *Handler) HandlePurgeLocal(c *fiber.Ctx) error {
	return h.runBulk(c, reconcile.OpPurgeLocal)
}

// HandleRevert brings every offloaded asset back to local delivery.
// @Summary Revert All
// @Description Downloads missing local files, rewrites references to the upload URL and deletes offload records.
// @Tags media
// @Produce json
// @Param X-Nonce header string true "Token from /media/nonce/revert"
// @Success 200 {object} BulkResponse "Batch Report"
// @Failure 403 {object} map[string]string "Invalid nonce"
// @Failure 409 {object} map[string]string "Another bulk operation is running"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/revert [post]
func (h *Handler) HandleRevert(c *fiber.Ctx) error {
	return h.runBulk(c, reconcile.OpRevert)
}

// HandleReupload uploads assets whose remote copy is missing.
// @Summary Reupload Missing
// @Description Checks every asset with a local file against the bucket and uploads the missing ones.
// @Tags media
// @Produce json
// @Param X-Nonce header string true "Token from /media/nonce/reupload"
// @Success 200 {object} BulkResponse "Batch Report"
// @Failure 403 {object} map[string]string "Invalid nonce"
// @Failure 409 {object} map[string]string "Another bulk operation is running"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/reupload [post]
func (h *Handler) HandleReupload(c *fiber.Ctx) error {
	return h.runBulk(c, reconcile.OpReupload)
}

func (h *Handler) runBulk(c *fiber.Ctx, op reconcile.Operation) error {
	l := logger.WithRayID(h.service.logger, c).With(zap.String("operation", string(op)))
	l.Info("Bulk operation requested")

	report, err := h.service.RunBulk(c.Context(), op)
	if err != nil {
		l.Error("Bulk operation failed", zap.Error(err))
		if report != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  err.Error(),
				"report": report,
			})
		}
		return h.fail(c, err)
	}

	status := "success"
	if report.Partial() {
		status = "partial"
	}
	return c.JSON(BulkResponse{Status: status, Report: report})
}

// HandleOffload offloads a single asset.
// @Summary Offload Asset
// @Description Pushes an asset and its renditions to the bucket. Called after the CMS generated the upload's renditions.
// @Tags media
// @Produce json
// @Param id path int true "Attachment ID"
// @Success 200 {object} reconcile.Result "Result"
// @Failure 404 {object} map[string]string "Asset not found"
// @Failure 502 {object} reconcile.Result "Primary file transfer failed"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/{id}/offload [post]
func (h *Handler) HandleOffload(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid asset id"})
	}
	l := logger.WithRayID(h.service.logger, c).With(zap.Uint64("asset_id", id))

	res, err := h.service.Offload(c.Context(), id)
	if errors.Is(err, reconcile.ErrPrimaryTransfer) {
		l.Warn("Offload failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(res)
	}
	if err != nil {
		l.Error("Offload failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(res)
}

// HandleStatus reports drift between catalog, local files and bucket.
// @Summary Offload Status
// @Description Compares offload records with local files and bucket contents.
// @Tags media
// @Produce json
// @Success 200 {object} reconcile.StatusReport "Status Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	report, err := h.service.Status(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Status check failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandleURL resolves the delivery URL of an asset.
// @Summary Resolve Asset URL
// @Description Returns the URL clients should load for an asset, optionally for a named size or exact dimensions.
// @Tags media
// @Produce json
// @Param id path int true "Attachment ID"
// @Param size query string false "Size name (e.g. thumbnail, medium, full)"
// @Param w query int false "Width"
// @Param h query int false "Height"
// @Success 200 {object} URLReport "Resolved URL"
// @Failure 404 {object} map[string]string "Asset not found"
// @Failure 503 {object} map[string]string "Not configured"
// @Router /media/{id}/url [get]
func (h *Handler) HandleURL(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid asset id"})
	}

	report, err := h.service.ResolveURL(c.Context(), id, c.Query("size"), c.QueryInt("w"), c.QueryInt("h"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// fail maps service errors to HTTP responses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, reconcile.ErrNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": reconcile.ErrNotConfigured.Error()})
	case errors.Is(err, ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, catalog.ErrAssetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownOperation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
