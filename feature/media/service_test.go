package media

import (
	"context"
	"errors"
	"testing"

	"media-offload/core/reconcile"
	"media-offload/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptyCatalog struct{}

func (emptyCatalog) ListAssets(context.Context, reconcile.Filter) ([]reconcile.Asset, error) {
	return nil, nil
}
func (emptyCatalog) GetAsset(context.Context, uint64) (*reconcile.Asset, error) {
	return nil, errors.New("not found")
}
func (emptyCatalog) SetOffloadURL(context.Context, uint64, string) error {
	return nil
}
func (emptyCatalog) DeleteOffloadURL(context.Context, uint64) error {
	return nil
}
func (emptyCatalog) ReplaceURL(context.Context, string, string) (int64, error) {
	return 0, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	rec, err := reconcile.New(emptyCatalog{}, new(mocks.Client), "media", reconcile.Config{
		PublicURL: "https://cdn.example.com",
		UploadDir: t.TempDir(),
		UploadURL: "https://site.example/uploads",
	}, zap.NewNop())
	require.NoError(t, err)
	return NewService(rec, nil, zap.NewNop())
}

func TestRunBulk_Busy(t *testing.T) {
	s := newTestService(t)

	s.bulk.Lock()
	_, err := s.RunBulk(context.Background(), reconcile.OpMigrate)
	assert.ErrorIs(t, err, ErrBusy)
	s.bulk.Unlock()

	report, err := s.RunBulk(context.Background(), reconcile.OpMigrate)
	require.NoError(t, err)
	assert.Zero(t, report.Total)
}

func TestRunBulk_UnknownOperation(t *testing.T) {
	s := newTestService(t)

	_, err := s.RunBulk(context.Background(), reconcile.Operation("wipe"))
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestService_Unavailable(t *testing.T) {
	cause := errors.New("storage config missing: bucket")
	s := NewService(nil, cause, zap.NewNop())

	assert.ErrorIs(t, s.Available(), reconcile.ErrNotConfigured)
	assert.Contains(t, s.Available().Error(), "bucket")
	_, err := s.Status(context.Background())
	assert.ErrorIs(t, err, reconcile.ErrNotConfigured)

	s = NewService(nil, nil, zap.NewNop())
	assert.ErrorIs(t, s.Available(), reconcile.ErrNotConfigured)
}
