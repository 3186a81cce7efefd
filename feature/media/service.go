package media

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"media-offload/core/reconcile"

	"go.uber.org/zap"
)

// ErrBusy is returned when a bulk operation is already running.
var ErrBusy = errors.New("another bulk operation is running")

// ErrUnknownOperation is returned for bulk operations that do not exist.
var ErrUnknownOperation = errors.New("unknown operation")

// Operations lists the bulk operations in the order they are offered.
var Operations = []reconcile.Operation{
	reconcile.OpMigrate,
	reconcile.OpPurgeLocal,
	reconcile.OpRevert,
	reconcile.OpReupload,
}

// URLReport is the resolved delivery URL of one asset.
type URLReport struct {
	ID        uint64                 `json:"id"`
	Offloaded bool                   `json:"offloaded"`
	URL       string                 `json:"url"`
	Image     *reconcile.ImageSource `json:"image,omitempty"`
}

// Service runs offload transitions for the HTTP and CLI surfaces.
type Service struct {
	reconciler  *reconcile.Reconciler
	unavailable error
	logger      *zap.Logger

	// bulk serializes bulk operations.
	bulk sync.Mutex
}

// NewService creates a media service. A nil reconciler yields a service
// whose every operation fails with unavailable, wrapped in
// reconcile.ErrNotConfigured.
func NewService(reconciler *reconcile.Reconciler, unavailable error, logger *zap.Logger) *Service {
	if reconciler == nil {
		switch {
		case unavailable == nil:
			unavailable = reconcile.ErrNotConfigured
		case !errors.Is(unavailable, reconcile.ErrNotConfigured):
			unavailable = fmt.Errorf("%w: %v", reconcile.ErrNotConfigured, unavailable)
		}
	}
	return &Service{
		reconciler:  reconciler,
		unavailable: unavailable,
		logger:      logger,
	}
}

// Available reports whether offload operations can run.
func (s *Service) Available() error {
	if s.reconciler == nil {
		return s.unavailable
	}
	return nil
}

// RunBulk runs a bulk operation. Only one bulk operation runs at a time;
// a concurrent call fails with ErrBusy.
func (s *Service) RunBulk(ctx context.Context, op reconcile.Operation) (*reconcile.BatchReport, error) {
	if err := s.Available(); err != nil {
		return nil, err
	}

	var run func(context.Context) (*reconcile.BatchReport, error)
	switch op {
	case reconcile.OpMigrate:
		run = s.reconciler.MigrateAll
	case reconcile.OpRevert:
		run = s.reconciler.RevertAll
	case reconcile.OpReupload:
		run = s.reconciler.ReuploadMissing
	case reconcile.OpPurgeLocal:
		run = s.reconciler.PurgeAllLocal
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	if !s.bulk.TryLock() {
		return nil, ErrBusy
	}
	defer s.bulk.Unlock()

	return run(ctx)
}

// Offload offloads a single asset. It is called once the CMS has generated
// an upload's renditions.
func (s *Service) Offload(ctx context.Context, id uint64) (reconcile.Result, error) {
	if err := s.Available(); err != nil {
		return reconcile.Result{AssetID: id}, err
	}
	return s.reconciler.OffloadByID(ctx, id)
}

// Status returns the drift report.
func (s *Service) Status(ctx context.Context) (*reconcile.StatusReport, error) {
	if err := s.Available(); err != nil {
		return nil, err
	}
	return s.reconciler.Status(ctx)
}

// ResolveURL returns the delivery URL of an asset. With a size name, or
// with both width and height, the matching image rendition is resolved too.
func (s *Service) ResolveURL(ctx context.Context, id uint64, size string, width, height int) (*URLReport, error) {
	if err := s.Available(); err != nil {
		return nil, err
	}
	asset, err := s.reconciler.Asset(ctx, id)
	if err != nil {
		return nil, err
	}

	r := s.reconciler.Resolver()
	report := &URLReport{
		ID:        asset.ID,
		Offloaded: asset.Offloaded(),
		URL:       r.AttachmentURL(*asset),
	}
	switch {
	case width > 0 && height > 0:
		img := r.ImageSourceForDims(*asset, width, height)
		report.Image = &img
	case size != "":
		img := r.ImageSource(*asset, size)
		report.Image = &img
	}
	return report, nil
}
