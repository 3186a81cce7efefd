package checks

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"media-offload/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ProbeKey is the object written by a bucket write probe.
const ProbeKey = ".media-offload-probe"

var probeBody = []byte("media-offload")

// BucketReport is the result of a bucket check.
type BucketReport struct {
	Bucket   string `json:"bucket"`
	Exists   bool   `json:"exists"`
	Probed   bool   `json:"probed"`
	Writable bool   `json:"writable"`
	Status   string `json:"status"` // "ok", "error"
	Error    string `json:"error,omitempty"`
}

// CheckBucket verifies that the bucket exists. With probe, it also writes
// a small object and reads it back to confirm the credentials can upload.
// The object is deleted afterwards.
func CheckBucket(ctx context.Context, client storage.Client, bucket string, probe bool, logger *zap.Logger) (*BucketReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is not configured")
	}

	report := &BucketReport{Bucket: bucket, Status: "ok"}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		report.Status = "error"
		report.Error = fmt.Sprintf("bucket %s does not exist", bucket)
		return report, nil
	}

	if !probe {
		return report, nil
	}
	report.Probed = true

	_, err = client.PutObject(ctx, bucket, ProbeKey, bytes.NewReader(probeBody), int64(len(probeBody)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		logger.Warn("Bucket write probe failed", zap.String("bucket", bucket), zap.Error(err))
		report.Status = "error"
		report.Error = fmt.Sprintf("write probe failed: %v", err)
		return report, nil
	}
	defer func() {
		if err := client.RemoveObject(ctx, bucket, ProbeKey, minio.RemoveObjectOptions{}); err != nil {
			logger.Warn("Failed to remove bucket probe object", zap.String("bucket", bucket), zap.String("key", ProbeKey), zap.Error(err))
		}
	}()

	obj, err := client.GetObject(ctx, bucket, ProbeKey, minio.GetObjectOptions{})
	if err != nil {
		report.Status = "error"
		report.Error = fmt.Sprintf("read probe failed: %v", err)
		return report, nil
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil || !bytes.Equal(body, probeBody) {
		report.Status = "error"
		report.Error = "read probe returned unexpected content"
		return report, nil
	}

	report.Writable = true
	return report, nil
}
