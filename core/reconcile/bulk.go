package reconcile

import (
	"context"

	"go.uber.org/zap"
)

type transition func(ctx context.Context, asset Asset) (Result, error)

// MigrateAll offloads every asset without an offload record whose local
// primary file exists.
func (r *Reconciler) MigrateAll(ctx context.Context) (*BatchReport, error) {
	return r.runBatch(ctx, OpMigrate, FilterLocal, func(ctx context.Context, asset Asset) (Result, error) {
		if asset.PrimaryPath == "" || !fileExists(asset.PrimaryPath) {
			return Result{AssetID: asset.ID, Outcome: OutcomeSkipped, Reason: "local file missing"}, nil
		}
		return r.Offload(ctx, asset)
	})
}

// RevertAll reverts every offloaded asset.
func (r *Reconciler) RevertAll(ctx context.Context) (*BatchReport, error) {
	return r.runBatch(ctx, OpRevert, FilterOffloaded, r.Revert)
}

// ReuploadMissing runs RepairMissing over every asset.
func (r *Reconciler) ReuploadMissing(ctx context.Context) (*BatchReport, error) {
	return r.runBatch(ctx, OpReupload, FilterAll, r.RepairMissing)
}

// PurgeAllLocal deletes the local copies of every offloaded asset.
func (r *Reconciler) PurgeAllLocal(ctx context.Context) (*BatchReport, error) {
	return r.runBatch(ctx, OpPurgeLocal, FilterOffloaded, r.PurgeLocal)
}

// runBatch applies fn to every asset matching filter, one at a time. An
// asset's failure is recorded and the batch moves on; only a catalog
// listing error or a cancelled context ends it early.
func (r *Reconciler) runBatch(ctx context.Context, op Operation, filter Filter, fn transition) (*BatchReport, error) {
	l := r.logger.With(zap.String("operation", string(op)))

	assets, err := r.catalog.ListAssets(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{Operation: op, Total: len(assets), Results: make([]Result, 0, len(assets))}
	l.Info("Batch started", zap.Int("assets", len(assets)), zap.String("filter", filter.String()))

	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			l.Warn("Batch interrupted", zap.Int("processed", len(report.Results)), zap.Error(err))
			return report, err
		}

		res, err := fn(ctx, asset)
		if err != nil {
			if res.Outcome == "" {
				res.Outcome = OutcomeFailed
			}
			if res.Reason == "" {
				res.Reason = err.Error()
			}
			l.Error("Asset failed", zap.Uint64("asset_id", asset.ID), zap.Error(err))
		}
		report.add(res)
	}

	l.Info("Batch finished",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("file_failures", report.FileFailures),
		zap.Int("rewrite_failures", report.RewriteFailures))

	return report, nil
}
