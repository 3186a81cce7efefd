// Package storage provides an abstraction layer for the S3-compatible object store.
//
// It wraps the MinIO Go client so the same code talks to Cloudflare R2, AWS S3
// or a self-hosted MinIO. R2 needs region "auto" and path-style addressing,
// both of which are the configuration defaults.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider, making it easy to mock
// storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - FPutObject: Uploads a local file under a key (offload).
//   - FGetObject: Downloads a key into a local file (revert).
//   - StatObject: HEAD on a key (repair-missing existence check).
//   - ListObjects: Lists keys for drift reports.
//   - BucketExists: Verifies access to the target bucket.
//   - PutObject, GetObject: Write and read back the integrity probe object.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	_, err = client.FPutObject(ctx, cfg.Storage.Bucket, "2024/01/photo.jpg", "/var/www/uploads/2024/01/photo.jpg", minio.PutObjectOptions{})
package storage
