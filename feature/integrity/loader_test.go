package integrity

import (
	"testing"

	"media-offload/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	mockClient := new(mocks.Client)
	logger := zap.NewNop()
	// Pass nil catalog for this test as we don't access it unless we use the service
	feature := NewFeature(mockClient, "test-bucket", nil, t.TempDir(), logger)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
