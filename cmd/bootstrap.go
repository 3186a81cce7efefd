package cmd

import (
	"errors"
	"fmt"

	"media-offload/core/catalog"
	"media-offload/core/config"
	"media-offload/core/database"
	"media-offload/core/logger"
	"media-offload/core/reconcile"
	"media-offload/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the dependencies shared by the server and CLI commands.
// Storage, catalog and reconciler are nil when their settings are missing
// or their backends are unreachable; unavailable explains why.
type runtime struct {
	cfg         *config.Config
	logger      *zap.Logger
	db          *gorm.DB
	catalog     *catalog.Catalog
	store       storage.Client
	reconciler  *reconcile.Reconciler
	unavailable error
}

// bootstrap loads configuration and connects what it can. Only a broken
// configuration or logger fails; missing backends are logged and leave the
// offload features unavailable.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}
	var problems []error

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Database connection failed", zap.Error(err))
		problems = append(problems, err)
	} else {
		rt.db = conn
		rt.catalog, err = catalog.New(conn, cfg.Catalog, cfg.Offload.UploadDir)
		if err != nil {
			logg.Warn("Catalog unavailable", zap.Error(err))
			problems = append(problems, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		logg.Warn("Media offload not fully configured", zap.Error(err))
		problems = append(problems, err)
	}

	// The integrity checks use the bucket even when offload settings are incomplete.
	if cfg.Storage.Validate() == nil {
		if store, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Failed to create storage client", zap.Error(err))
			problems = append(problems, err)
		} else {
			rt.store = store
		}
	}

	if len(problems) > 0 {
		rt.unavailable = fmt.Errorf("%w: %w", reconcile.ErrNotConfigured, errors.Join(problems...))
		return rt, nil
	}

	rt.reconciler, err = reconcile.New(rt.catalog, rt.store, cfg.Storage.Bucket, cfg.Offload, logg)
	if err != nil {
		rt.unavailable = err
	}
	return rt, nil
}

// requireReconciler returns the reconciler or the reason it is missing.
func (rt *runtime) requireReconciler() (*reconcile.Reconciler, error) {
	if rt.reconciler == nil {
		return nil, rt.unavailable
	}
	return rt.reconciler, nil
}
