package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMigrateAll_FailureDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	var assets []Asset
	for id := uint64(1); id <= 10; id++ {
		assets = append(assets, photoAsset(t, dir, id))
	}
	cat := newFakeCatalog(assets...)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo5.jpg", mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("503 slow down"))
	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := r.MigrateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OpMigrate, report.Operation)
	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 9, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, report.Partial())
	require.Len(t, report.Results, 10)
	assert.Equal(t, OutcomeFailed, report.Results[4].Outcome)

	for id := uint64(1); id <= 10; id++ {
		assert.Equal(t, id != 5, cat.asset(id).Offloaded(), "asset %d", id)
	}
}

func TestMigrateAll_ExcludesOffloadedAndMissing(t *testing.T) {
	dir := t.TempDir()
	local := photoAsset(t, dir, 1)
	offloaded := photoAsset(t, dir, 2)
	offloaded.OffloadURL = testPublicURL + "/2024/01/photo2.jpg"
	missing := Asset{ID: 3, PrimaryPath: filepath.Join(dir, "2024", "01", "gone.jpg")}

	r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(local, offloaded, missing))
	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := r.MigrateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.Partial())
	client.AssertNotCalled(t, "FPutObject", mock.Anything, testBucket, "2024/01/photo2.jpg", mock.Anything, mock.Anything)
	client.AssertNumberOfCalls(t, "FPutObject", 2)
}

func TestRevertAll(t *testing.T) {
	dir := t.TempDir()
	a := photoAsset(t, dir, 1)
	a.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
	b := photoAsset(t, dir, 2)
	cat := newFakeCatalog(a, b)
	r, _ := setupReconciler(t, testConfig(dir, true), cat)

	report, err := r.RevertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.False(t, cat.asset(1).Offloaded())
}

func TestReuploadMissing(t *testing.T) {
	dir := t.TempDir()
	a := photoAsset(t, dir, 1)
	b := photoAsset(t, dir, 2)
	b.OffloadURL = testPublicURL + "/2024/01/photo2.jpg"
	cat := newFakeCatalog(a, b)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	client.On("StatObject", mock.Anything, testBucket, "2024/01/photo2.jpg", mock.Anything).
		Return(minio.ObjectInfo{Key: "2024/01/photo2.jpg"}, nil)
	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	report, err := r.ReuploadMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, OutcomePresent, report.Results[1].Outcome)
	assert.True(t, cat.asset(1).Offloaded())
}

func TestPurgeAllLocal(t *testing.T) {
	dir := t.TempDir()
	a := photoAsset(t, dir, 1)
	a.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
	b := photoAsset(t, dir, 2)
	r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(a, b))

	client.On("StatObject", mock.Anything, testBucket, mock.Anything, mock.Anything).Return(minio.ObjectInfo{}, nil)

	report, err := r.PurgeAllLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.False(t, report.Partial())
	assert.NoFileExists(t, a.PrimaryPath)
	assert.FileExists(t, b.PrimaryPath)
}

func TestPurgeAllLocal_PartialWhenVariantNotOffloaded(t *testing.T) {
	dir := t.TempDir()
	a := photoAsset(t, dir, 1)
	a.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
	r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(a))

	client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything).Return(minio.ObjectInfo{}, nil)
	client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1-150x150.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	report, err := r.PurgeAllLocal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.FileFailures)
	assert.True(t, report.Partial())
	assert.FileExists(t, a.VariantPath(a.Variants[0]))
}

func TestRunBatch_ListError(t *testing.T) {
	cat := newFakeCatalog()
	cat.listErr = errors.New("db down")
	r, _ := setupReconciler(t, testConfig(t.TempDir(), true), cat)

	report, err := r.RevertAll(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestRunBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	a := photoAsset(t, dir, 1)
	r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(a))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.MigrateAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Total)
	assert.Empty(t, report.Results)
	client.AssertNotCalled(t, "FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchReport_Partial(t *testing.T) {
	r := &BatchReport{}
	r.add(Result{Outcome: OutcomeOffloaded})
	r.add(Result{Outcome: OutcomeSkipped})
	assert.False(t, r.Partial())

	r.add(Result{Outcome: OutcomeOffloaded, FailedKeys: []string{"a-150x150.jpg"}})
	assert.True(t, r.Partial())
	assert.Equal(t, 2, r.Succeeded)
	assert.Equal(t, 1, r.FileFailures)

	clean := &BatchReport{}
	clean.add(Result{Outcome: OutcomeOffloaded, FailedRewrites: []string{"https://site.example/a.jpg"}})
	assert.True(t, clean.Partial())
	assert.Equal(t, 1, clean.RewriteFailures)
}
