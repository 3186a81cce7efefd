package integrity

import (
	"context"

	"media-offload/core/catalog"
	"media-offload/core/storage"
	"media-offload/feature/integrity/checks"

	"go.uber.org/zap"
)

// Service handles integrity checks. Any dependency may be nil when its
// configuration is missing; the matching check then reports an error.
type Service struct {
	client    storage.Client
	bucket    string
	catalog   *catalog.Catalog
	uploadDir string
	logger    *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, cat *catalog.Catalog, uploadDir string, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		bucket:    bucket,
		catalog:   cat,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// CheckBucket verifies the bucket, optionally with a write probe.
func (s *Service) CheckBucket(ctx context.Context, probe bool) (*checks.BucketReport, error) {
	return checks.CheckBucket(ctx, s.client, s.bucket, probe, s.logger)
}

// CheckCatalog verifies the catalog schema.
func (s *Service) CheckCatalog() (*checks.CatalogReport, error) {
	return checks.CheckCatalog(s.catalog)
}

// CheckUploads verifies the upload directory.
func (s *Service) CheckUploads() (*checks.UploadsReport, error) {
	return checks.CheckUploads(s.uploadDir)
}

// Report runs every check. Failing checks are reported in place.
func (s *Service) Report(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if r, err := s.CheckBucket(ctx, false); err != nil {
		report["bucket"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["bucket"] = r
	}

	if r, err := s.CheckCatalog(); err != nil {
		report["catalog"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["catalog"] = r
	}

	if r, err := s.CheckUploads(); err != nil {
		report["uploads"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["uploads"] = r
	}

	return report
}
