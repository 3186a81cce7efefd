// Package reconcile keeps a CMS media library and an S3-compatible bucket
// consistent.
//
// Each asset is in one of two states, decided solely by whether the catalog
// holds an offload record (the asset's remote URL):
//
//   - Local: served from the upload directory.
//   - Offloaded: served from the bucket's public URL. Local copies may still exist.
//
// # Transitions
//
//   - Offload: push the primary file and variants, record the URL, rewrite references.
//   - PurgeLocal: delete local copies of an offloaded asset.
//   - Revert: fetch files back if needed, rewrite references, delete the record.
//   - RepairMissing: HEAD the primary key and offload when it is absent.
//
// Bulk runs (MigrateAll, RevertAll, ReuploadMissing, PurgeAllLocal) apply a
// transition to every matching asset sequentially. One asset's failure never
// aborts the run; the BatchReport says what happened to each asset.
//
// # Keys
//
// RemoteKey strips the upload directory from a local path:
//
//	RemoteKey("/srv/uploads", "/srv/uploads/2024/01/photo.jpg") == "2024/01/photo.jpg"
//
// # Concurrency
//
// Transitions are synchronous and make one blocking remote call per file.
// Nothing here guards an asset against two runs at once; callers serialize
// bulk runs (the media feature holds a lock while one is in progress).
//
// # Usage
//
//	rec, err := reconcile.New(cat, client, cfg.Storage.Bucket, cfg.Offload, logger)
//	if errors.Is(err, reconcile.ErrNotConfigured) {
//	    // tell the operator which settings are missing
//	}
//	report, err := rec.MigrateAll(ctx)
package reconcile
