package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"media-offload/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBucket    = "media"
	testPublicURL = "https://cdn.example.com"
	testUploadURL = "https://site.example/wp-content/uploads"
)

func testConfig(dir string, keepLocal bool) Config {
	return Config{
		PublicURL: testPublicURL,
		UploadDir: dir,
		UploadURL: testUploadURL,
		KeepLocal: keepLocal,
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
}

// photoAsset creates 2024/01/photo.jpg and its thumbnail under dir.
func photoAsset(t *testing.T, dir string, id uint64) Asset {
	t.Helper()
	name := fmt.Sprintf("photo%d", id)
	primary := filepath.Join(dir, "2024", "01", name+".jpg")
	writeFile(t, primary)
	writeFile(t, filepath.Join(dir, "2024", "01", name+"-150x150.jpg"))
	return Asset{
		ID:          id,
		PrimaryPath: primary,
		Width:       1200,
		Height:      800,
		Variants: []Variant{
			{Name: "thumbnail", File: name + "-150x150.jpg", Width: 150, Height: 150, MimeType: "image/jpeg"},
		},
	}
}

func setupReconciler(t *testing.T, cfg Config, cat *fakeCatalog) (*Reconciler, *mocks.Client) {
	t.Helper()
	client := new(mocks.Client)
	r, err := New(cat, client, testBucket, cfg, nil)
	require.NoError(t, err)
	return r, client
}

func TestNew_NotConfigured(t *testing.T) {
	client := new(mocks.Client)
	cat := newFakeCatalog()

	_, err := New(cat, client, testBucket, Config{UploadDir: "/tmp"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "public_url")
	assert.Contains(t, err.Error(), "upload_url")

	_, err = New(cat, client, "", testConfig("/tmp", true), nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = New(nil, client, testBucket, testConfig("/tmp", true), nil)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestOffload_PurgesWhenNotKeepingLocal(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	cat.content = []string{`<img src="` + testUploadURL + `/2024/01/photo1.jpg">`}
	r, client := setupReconciler(t, testConfig(dir, false), cat)

	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1.jpg", asset.PrimaryPath, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "image/jpeg" && o.UserMetadata["x-amz-acl"] == "public-read"
	})).Return(minio.UploadInfo{}, nil)
	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1-150x150.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	res, err := r.Offload(context.Background(), asset)
	require.NoError(t, err)

	assert.Equal(t, OutcomeOffloaded, res.Outcome)
	assert.Equal(t, 2, res.Transferred)
	assert.True(t, res.Purged)
	assert.Equal(t, testPublicURL+"/2024/01/photo1.jpg", cat.asset(1).OffloadURL)
	assert.Equal(t, `<img src="`+testPublicURL+`/2024/01/photo1.jpg">`, cat.content[0])

	assert.NoFileExists(t, asset.PrimaryPath)
	assert.NoFileExists(t, asset.VariantPath(asset.Variants[0]))
	assert.NoDirExists(t, filepath.Dir(asset.PrimaryPath))
	client.AssertExpectations(t)
}

func TestOffload_KeepLocal(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	res, err := r.Offload(context.Background(), asset)
	require.NoError(t, err)
	assert.False(t, res.Purged)
	assert.FileExists(t, asset.PrimaryPath)
	assert.True(t, cat.asset(1).Offloaded())
}

func TestOffload_PrimaryFailureLeavesNoRecord(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	cat.content = []string{testUploadURL + "/2024/01/photo1-150x150.jpg"}
	r, client := setupReconciler(t, testConfig(dir, false), cat)

	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("connection reset"))
	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1-150x150.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	res, err := r.Offload(context.Background(), asset)
	assert.True(t, errors.Is(err, ErrPrimaryTransfer))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, []string{"2024/01/photo1.jpg"}, res.FailedKeys)

	assert.False(t, cat.asset(1).Offloaded())
	assert.Equal(t, testUploadURL+"/2024/01/photo1-150x150.jpg", cat.content[0])
	assert.FileExists(t, asset.PrimaryPath)
}

func TestOffload_VariantFailureKeepsLocal(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, false), cat)

	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1-150x150.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("timeout"))

	res, err := r.Offload(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOffloaded, res.Outcome)
	assert.Equal(t, []string{"2024/01/photo1-150x150.jpg"}, res.FailedKeys)
	assert.False(t, res.Purged)
	assert.FileExists(t, asset.PrimaryPath)
	assert.True(t, cat.asset(1).Offloaded())
}

func TestOffload_SkipsMissingVariants(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	asset.Variants = append(asset.Variants, Variant{Name: "large", File: "photo1-1024x768.jpg", Width: 1024, Height: 768})
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	res, err := r.Offload(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transferred)
	client.AssertNotCalled(t, "FPutObject", mock.Anything, testBucket, "2024/01/photo1-1024x768.jpg", mock.Anything, mock.Anything)
}

func TestPurgeLocal_RequiresOffloaded(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	r, _ := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset))

	res, err := r.PurgeLocal(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, res.Outcome)
	assert.FileExists(t, asset.PrimaryPath)
}

func TestPurgeLocal_KeepsNonEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	other := photoAsset(t, dir, 2)
	asset.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
	r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset, other))

	client.On("StatObject", mock.Anything, testBucket, mock.Anything, mock.Anything).Return(minio.ObjectInfo{}, nil)

	res, err := r.PurgeLocal(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, OutcomePurged, res.Outcome)
	assert.Equal(t, 2, res.Transferred)
	assert.Empty(t, res.FailedKeys)
	assert.NoFileExists(t, asset.PrimaryPath)
	assert.FileExists(t, other.PrimaryPath)
	assert.DirExists(t, filepath.Dir(asset.PrimaryPath))
}

func TestPurgeLocal_KeepsFilesMissingRemotely(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, true), cat)
	variant := asset.VariantPath(asset.Variants[0])

	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("FPutObject", mock.Anything, testBucket, "2024/01/photo1-150x150.jpg", mock.Anything, mock.Anything).Return(minio.UploadInfo{}, errors.New("timeout"))
	client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything).Return(minio.ObjectInfo{Key: "2024/01/photo1.jpg"}, nil)
	client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1-150x150.jpg", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	ctx := context.Background()
	_, err := r.Offload(ctx, asset)
	require.NoError(t, err)

	res, err := r.PurgeLocal(ctx, cat.asset(1))
	require.NoError(t, err)
	assert.Equal(t, OutcomePurged, res.Outcome)
	assert.Equal(t, 1, res.Transferred)
	assert.Equal(t, []string{"2024/01/photo1-150x150.jpg"}, res.FailedKeys)
	assert.NoFileExists(t, asset.PrimaryPath)
	assert.FileExists(t, variant)
}

func TestPurgeLocal_CheckErrorKeepsFile(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	asset.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
	r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset))

	client.On("StatObject", mock.Anything, testBucket, mock.Anything, mock.Anything).
		Return(minio.ObjectInfo{}, errors.New("access denied"))

	res, err := r.PurgeLocal(context.Background(), asset)
	require.NoError(t, err)
	assert.Zero(t, res.Transferred)
	assert.Len(t, res.FailedKeys, 2)
	assert.FileExists(t, asset.PrimaryPath)
	assert.FileExists(t, asset.VariantPath(asset.Variants[0]))
}

func TestOffload_RewriteFailureIsRecorded(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	cat.replaceErr = errors.New("deadlock found")
	r, client := setupReconciler(t, testConfig(dir, false), cat)

	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	res, err := r.Offload(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOffloaded, res.Outcome)
	assert.Equal(t, []string{
		testUploadURL + "/2024/01/photo1.jpg",
		testUploadURL + "/2024/01/photo1-150x150.jpg",
	}, res.FailedRewrites)
	assert.False(t, res.Purged)
	assert.FileExists(t, asset.PrimaryPath)
	assert.True(t, cat.asset(1).Offloaded())
}

func TestRevert_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	localURL := testUploadURL + "/2024/01/photo1.jpg"
	cat := newFakeCatalog(asset)
	cat.content = []string{`<img src="` + localURL + `">`, testUploadURL + "/2024/01/photo1-150x150.jpg"}
	r, client := setupReconciler(t, testConfig(dir, false), cat)

	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	client.On("FGetObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			path := args.String(3)
			_ = os.WriteFile(path, []byte("data"), 0o644)
		}).
		Return(nil)

	ctx := context.Background()
	_, err := r.Offload(ctx, asset)
	require.NoError(t, err)
	require.NoFileExists(t, asset.PrimaryPath)

	res, err := r.RevertByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReverted, res.Outcome)
	assert.Equal(t, 2, res.Transferred)
	assert.Equal(t, localURL, res.URL)

	assert.FileExists(t, asset.PrimaryPath)
	assert.FileExists(t, asset.VariantPath(asset.Variants[0]))
	assert.False(t, cat.asset(1).Offloaded())
	assert.Equal(t, `<img src="`+localURL+`">`, cat.content[0])
	assert.Equal(t, testUploadURL+"/2024/01/photo1-150x150.jpg", cat.content[1])
	client.AssertCalled(t, "FGetObject", mock.Anything, testBucket, "2024/01/photo1.jpg", asset.PrimaryPath, mock.Anything)
}

func TestRevert_LocalPresentSkipsDownload(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	asset.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	res, err := r.Revert(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReverted, res.Outcome)
	assert.Zero(t, res.Transferred)
	client.AssertNotCalled(t, "FGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRevert_PrimaryMissingRemotelyKeepsRecord(t *testing.T) {
	dir := t.TempDir()
	asset := Asset{
		ID:          7,
		PrimaryPath: filepath.Join(dir, "2023", "12", "gone.png"),
		OffloadURL:  testPublicURL + "/2023/12/gone.png",
	}
	cat := newFakeCatalog(asset)
	cat.content = []string{testPublicURL + "/2023/12/gone.png"}
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("FGetObject", mock.Anything, testBucket, "2023/12/gone.png", mock.Anything, mock.Anything).
		Return(errors.New("The specified key does not exist."))

	res, err := r.Revert(context.Background(), asset)
	assert.True(t, errors.Is(err, ErrPrimaryTransfer))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.True(t, cat.asset(7).Offloaded())
	assert.Equal(t, testPublicURL+"/2023/12/gone.png", cat.content[0])
}

func TestRevert_VariantFailureStillReverts(t *testing.T) {
	dir := t.TempDir()
	asset := Asset{
		ID:          3,
		PrimaryPath: filepath.Join(dir, "2024", "03", "a.jpg"),
		OffloadURL:  testPublicURL + "/2024/03/a.jpg",
		Variants:    []Variant{{Name: "thumbnail", File: "a-150x150.jpg", Width: 150, Height: 150}},
	}
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("FGetObject", mock.Anything, testBucket, "2024/03/a.jpg", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { _ = os.WriteFile(args.String(3), []byte("x"), 0o644) }).
		Return(nil)
	client.On("FGetObject", mock.Anything, testBucket, "2024/03/a-150x150.jpg", mock.Anything, mock.Anything).
		Return(errors.New("not found"))

	res, err := r.Revert(context.Background(), asset)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReverted, res.Outcome)
	assert.Equal(t, []string{"2024/03/a-150x150.jpg"}, res.FailedKeys)
	assert.False(t, cat.asset(3).Offloaded())
}

func TestRepairMissing(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		dir := t.TempDir()
		asset := photoAsset(t, dir, 1)
		asset.OffloadURL = testPublicURL + "/2024/01/photo1.jpg"
		r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset))

		client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything).Return(minio.ObjectInfo{Key: "2024/01/photo1.jpg"}, nil)

		res, err := r.RepairMissing(context.Background(), asset)
		require.NoError(t, err)
		assert.Equal(t, OutcomePresent, res.Outcome)
		client.AssertNotCalled(t, "FPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing is uploaded", func(t *testing.T) {
		dir := t.TempDir()
		asset := photoAsset(t, dir, 1)
		cat := newFakeCatalog(asset)
		r, client := setupReconciler(t, testConfig(dir, true), cat)

		client.On("StatObject", mock.Anything, testBucket, "2024/01/photo1.jpg", mock.Anything).
			Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
		client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		res, err := r.RepairMissing(context.Background(), asset)
		require.NoError(t, err)
		assert.Equal(t, OutcomeOffloaded, res.Outcome)
		assert.Equal(t, testPublicURL+"/2024/01/photo1.jpg", cat.asset(1).OffloadURL)
	})

	t.Run("any check error uploads", func(t *testing.T) {
		dir := t.TempDir()
		asset := photoAsset(t, dir, 1)
		r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset))

		client.On("StatObject", mock.Anything, testBucket, mock.Anything, mock.Anything).
			Return(minio.ObjectInfo{}, errors.New("access denied"))
		client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

		res, err := r.RepairMissing(context.Background(), asset)
		require.NoError(t, err)
		assert.Equal(t, OutcomeOffloaded, res.Outcome)
	})

	t.Run("no local file", func(t *testing.T) {
		dir := t.TempDir()
		asset := Asset{ID: 9, PrimaryPath: filepath.Join(dir, "missing.jpg")}
		r, client := setupReconciler(t, testConfig(dir, true), newFakeCatalog(asset))

		res, err := r.RepairMissing(context.Background(), asset)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSkipped, res.Outcome)
		client.AssertNotCalled(t, "StatObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRepairMissing_Idempotent(t *testing.T) {
	dir := t.TempDir()
	asset := photoAsset(t, dir, 1)
	cat := newFakeCatalog(asset)
	r, client := setupReconciler(t, testConfig(dir, true), cat)

	client.On("StatObject", mock.Anything, testBucket, mock.Anything, mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}).Once()
	client.On("StatObject", mock.Anything, testBucket, mock.Anything, mock.Anything).
		Return(minio.ObjectInfo{}, nil)
	client.On("FPutObject", mock.Anything, testBucket, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	ctx := context.Background()
	_, err := r.RepairMissing(ctx, asset)
	require.NoError(t, err)
	first := cat.asset(1)

	res, err := r.RepairMissing(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, OutcomePresent, res.Outcome)
	assert.Equal(t, first, cat.asset(1))
	client.AssertNumberOfCalls(t, "FPutObject", 2)
}

func TestOffloadByID_NotFound(t *testing.T) {
	r, _ := setupReconciler(t, testConfig(t.TempDir(), true), newFakeCatalog())

	res, err := r.OffloadByID(context.Background(), 404)
	assert.Error(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)
}
