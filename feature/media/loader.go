package media

import (
	"media-offload/core/middleware/nonce"
	"media-offload/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the media feature. With a nil reconciler the routes
// still mount and answer 503.
func NewFeature(reconciler *reconcile.Reconciler, unavailable error, nonces *nonce.Store, logger *zap.Logger) *Feature {
	svc := NewService(reconciler, unavailable, logger)
	return &Feature{service: svc, handler: NewHandler(svc, nonces)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "media"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
