package harvest

import (
	"metadata-harvester/core/metrics"
	"metadata-harvester/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the harvest feature.
func NewFeature(cfg Config, fetcher Fetcher, db *gorm.DB, mirror storage.Client, bucket string, m *metrics.Metrics, logger *zap.Logger) *Feature {
	svc := NewService(cfg, fetcher, NewStore(cfg), db, mirror, bucket, m, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "harvest"
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

// Service exposes the underlying service for commands that need it.
func (f *Feature) Service() *Service {
	return f.service
}
