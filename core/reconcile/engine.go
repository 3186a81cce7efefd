package reconcile

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"media-offload/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	// ErrNotOffloaded is returned by transitions that need an offload record.
	ErrNotOffloaded = errors.New("asset is not offloaded")
	// ErrPrimaryTransfer is returned when the original file could not be moved.
	ErrPrimaryTransfer = errors.New("primary file transfer failed")
	// ErrNoFile is returned for assets the catalog holds no file for.
	ErrNoFile = errors.New("asset has no attached file")
)

// Reconciler keeps the local upload directory and the bucket consistent
// with the catalog's offload records.
type Reconciler struct {
	catalog  Catalog
	client   storage.Client
	bucket   string
	cfg      Config
	resolver Resolver
	logger   *zap.Logger
	remote   *indexCache
}

// New creates a Reconciler. It fails with ErrNotConfigured when the bucket
// or any offload setting is missing.
func New(catalog Catalog, client storage.Client, bucket string, cfg Config, logger *zap.Logger) (*Reconciler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bucket == "" {
		return nil, fmt.Errorf("%w: missing bucket", ErrNotConfigured)
	}
	if catalog == nil || client == nil {
		return nil, fmt.Errorf("%w: catalog and storage client are required", ErrNotConfigured)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.UploadDir = normalizePath(cfg.UploadDir)
	return &Reconciler{
		catalog:  catalog,
		client:   client,
		bucket:   bucket,
		cfg:      cfg,
		resolver: NewResolver(cfg),
		logger:   logger,
		remote:   newIndexCache(cfg.StatusTTL()),
	}, nil
}

// Resolver returns the URL resolver bound to this Reconciler's settings.
func (r *Reconciler) Resolver() Resolver {
	return r.resolver
}

// Asset loads a single asset from the catalog.
func (r *Reconciler) Asset(ctx context.Context, id uint64) (*Asset, error) {
	return r.catalog.GetAsset(ctx, id)
}

// Offload pushes the primary file and every variant present on disk to the
// bucket. Single file failures are logged and skipped. The offload record
// is written only when the primary file was pushed; references to each
// pushed file are then rewritten to the bucket URL. When every push and
// rewrite succeeded and local copies are not kept, the local files are purged.
func (r *Reconciler) Offload(ctx context.Context, asset Asset) (Result, error) {
	res := Result{AssetID: asset.ID}
	if asset.PrimaryPath == "" {
		res.Outcome = OutcomeSkipped
		res.Reason = ErrNoFile.Error()
		return res, nil
	}
	l := r.logger.With(zap.Uint64("asset_id", asset.ID))

	files := r.files(asset, true)
	failed := make(map[string]struct{})
	for _, f := range files {
		if err := r.push(ctx, f); err != nil {
			l.Error("Upload failed", zap.String("file", f.path), zap.String("key", f.key), zap.Error(err))
			res.FailedKeys = append(res.FailedKeys, f.key)
			failed[f.key] = struct{}{}
			continue
		}
		res.Transferred++
	}
	if res.Transferred > 0 {
		r.remote.invalidate()
	}

	primary := files[0]
	if _, bad := failed[primary.key]; bad {
		res.Outcome = OutcomeFailed
		res.Reason = ErrPrimaryTransfer.Error()
		return res, fmt.Errorf("asset %d: %w", asset.ID, ErrPrimaryTransfer)
	}

	url := r.resolver.RemoteURL(primary.key)
	if err := r.catalog.SetOffloadURL(ctx, asset.ID, url); err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res, fmt.Errorf("asset %d: failed to record offload: %w", asset.ID, err)
	}
	res.URL = url
	res.Outcome = OutcomeOffloaded

	for _, f := range files {
		if _, bad := failed[f.key]; bad {
			continue
		}
		r.rewrite(ctx, l, &res, r.resolver.LocalURL(f.key), r.resolver.RemoteURL(f.key))
	}

	l.Info("Asset offloaded",
		zap.String("url", url),
		zap.Int("files", res.Transferred),
		zap.Int("failed", len(res.FailedKeys)),
		zap.Int64("rewritten", res.Rewritten),
		zap.Int("rewrite_failures", len(res.FailedRewrites)))

	if !r.cfg.KeepLocal && len(res.FailedKeys) == 0 && len(res.FailedRewrites) == 0 {
		asset.OffloadURL = url
		purge, err := r.purge(ctx, asset, false)
		if err != nil {
			l.Warn("Local purge after offload failed", zap.Error(err))
		}
		res.Purged = purge.Outcome == OutcomePurged
	}

	return res, nil
}

// PurgeLocal deletes the local primary and variant files of an offloaded
// asset, then tries to remove the containing directory, which only
// succeeds when it is empty. A file is deleted only after its object was
// found in the bucket; files whose check fails stay and are listed in
// FailedKeys.
func (r *Reconciler) PurgeLocal(ctx context.Context, asset Asset) (Result, error) {
	return r.purge(ctx, asset, true)
}

// purge removes local copies. verify is false right after a complete
// offload, when every object was just written.
func (r *Reconciler) purge(ctx context.Context, asset Asset, verify bool) (Result, error) {
	res := Result{AssetID: asset.ID}
	if !asset.Offloaded() {
		res.Outcome = OutcomeSkipped
		res.Reason = ErrNotOffloaded.Error()
		return res, nil
	}
	if asset.PrimaryPath == "" {
		res.Outcome = OutcomeSkipped
		res.Reason = ErrNoFile.Error()
		return res, nil
	}
	l := r.logger.With(zap.Uint64("asset_id", asset.ID))

	for _, f := range r.files(asset, true) {
		if !fileExists(f.path) {
			continue
		}
		if verify {
			if _, err := r.client.StatObject(ctx, r.bucket, f.key, minio.StatObjectOptions{}); err != nil {
				l.Warn("Keeping local file without a remote copy", zap.String("file", f.path), zap.String("key", f.key), zap.Error(err))
				res.FailedKeys = append(res.FailedKeys, f.key)
				continue
			}
		}
		if err := os.Remove(f.path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			l.Error("Failed to delete local file", zap.String("file", f.path), zap.Error(err))
			res.FailedKeys = append(res.FailedKeys, f.key)
			continue
		}
		res.Transferred++
	}

	// Non-empty directories stay.
	_ = os.Remove(filepath.Dir(asset.PrimaryPath))

	res.Outcome = OutcomePurged
	l.Debug("Local copies purged", zap.Int("files", res.Transferred), zap.Int("kept", len(res.FailedKeys)))
	return res, nil
}

// Revert brings an offloaded asset back to local delivery. Files are
// fetched from the bucket only when the local primary is missing; variant
// fetch failures are logged and skipped. References are rewritten back to
// the upload URL and the offload record is deleted. A failed primary fetch
// leaves the asset offloaded, since clearing the record would point
// content at a file that does not exist.
func (r *Reconciler) Revert(ctx context.Context, asset Asset) (Result, error) {
	res := Result{AssetID: asset.ID}
	if !asset.Offloaded() {
		res.Outcome = OutcomeSkipped
		res.Reason = ErrNotOffloaded.Error()
		return res, nil
	}
	if asset.PrimaryPath == "" {
		res.Outcome = OutcomeSkipped
		res.Reason = ErrNoFile.Error()
		return res, nil
	}
	l := r.logger.With(zap.Uint64("asset_id", asset.ID))

	files := r.files(asset, false)
	if !fileExists(asset.PrimaryPath) {
		if err := os.MkdirAll(filepath.Dir(asset.PrimaryPath), 0o755); err != nil {
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			return res, fmt.Errorf("asset %d: failed to create upload directory: %w", asset.ID, err)
		}
		for _, f := range files {
			if err := r.fetch(ctx, f); err != nil {
				if f.primary {
					l.Error("Download failed", zap.String("key", f.key), zap.Error(err))
					res.Outcome = OutcomeFailed
					res.FailedKeys = append(res.FailedKeys, f.key)
					res.Reason = ErrPrimaryTransfer.Error()
					return res, fmt.Errorf("asset %d: %w: %v", asset.ID, ErrPrimaryTransfer, err)
				}
				l.Warn("Variant download failed", zap.String("key", f.key), zap.Error(err))
				res.FailedKeys = append(res.FailedKeys, f.key)
				continue
			}
			res.Transferred++
		}
	}

	primary := files[0]
	localURL := r.resolver.LocalURL(primary.key)
	r.rewrite(ctx, l, &res, asset.OffloadURL, localURL)
	for _, f := range files[1:] {
		r.rewrite(ctx, l, &res, r.resolver.RemoteURL(f.key), r.resolver.LocalURL(f.key))
	}

	if err := r.catalog.DeleteOffloadURL(ctx, asset.ID); err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res, fmt.Errorf("asset %d: failed to delete offload record: %w", asset.ID, err)
	}

	res.URL = localURL
	res.Outcome = OutcomeReverted
	l.Info("Asset reverted",
		zap.String("url", localURL),
		zap.Int("fetched", res.Transferred),
		zap.Int("failed", len(res.FailedKeys)))
	return res, nil
}

// RepairMissing checks the bucket for the primary file and offloads the
// asset when it is absent. Any existence check failure counts as absent.
// Assets without a local primary are skipped since there is nothing to push.
func (r *Reconciler) RepairMissing(ctx context.Context, asset Asset) (Result, error) {
	res := Result{AssetID: asset.ID}
	if asset.PrimaryPath == "" || !fileExists(asset.PrimaryPath) {
		res.Outcome = OutcomeSkipped
		res.Reason = "local file missing"
		return res, nil
	}

	key := RemoteKey(r.cfg.UploadDir, asset.PrimaryPath)
	_, err := r.client.StatObject(ctx, r.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		res.Outcome = OutcomePresent
		return res, nil
	}
	if !storage.IsNotFound(err) {
		r.logger.Warn("Existence check failed, uploading again",
			zap.Uint64("asset_id", asset.ID), zap.String("key", key), zap.Error(err))
	}
	return r.Offload(ctx, asset)
}

// OffloadByID loads an asset and offloads it. This is the upload hook:
// the CMS calls it once an attachment's renditions have been generated.
func (r *Reconciler) OffloadByID(ctx context.Context, id uint64) (Result, error) {
	asset, err := r.catalog.GetAsset(ctx, id)
	if err != nil {
		return Result{AssetID: id, Outcome: OutcomeFailed, Reason: err.Error()}, err
	}
	return r.Offload(ctx, *asset)
}

// RevertByID loads an asset and reverts it.
func (r *Reconciler) RevertByID(ctx context.Context, id uint64) (Result, error) {
	asset, err := r.catalog.GetAsset(ctx, id)
	if err != nil {
		return Result{AssetID: id, Outcome: OutcomeFailed, Reason: err.Error()}, err
	}
	return r.Revert(ctx, *asset)
}

func (r *Reconciler) push(ctx context.Context, f file) error {
	opts := minio.PutObjectOptions{
		ContentType:  mime.TypeByExtension(filepath.Ext(f.path)),
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	}
	_, err := r.client.FPutObject(ctx, r.bucket, f.key, f.path, opts)
	return err
}

func (r *Reconciler) fetch(ctx context.Context, f file) error {
	return r.client.FGetObject(ctx, r.bucket, f.key, f.path, minio.GetObjectOptions{})
}

// rewrite substitutes references into res. A failure does not undo the
// transition since the remote and catalog state are already committed; the
// old URL is recorded in res.FailedRewrites instead.
func (r *Reconciler) rewrite(ctx context.Context, l *zap.Logger, res *Result, oldURL, newURL string) {
	if oldURL == newURL {
		return
	}
	n, err := r.catalog.ReplaceURL(ctx, oldURL, newURL)
	if err != nil {
		l.Error("Reference rewrite failed", zap.String("from", oldURL), zap.String("to", newURL), zap.Error(err))
		res.FailedRewrites = append(res.FailedRewrites, oldURL)
		return
	}
	res.Rewritten += n
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
