package nonce

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s := NewStore(time.Minute)

	token := s.Issue("migrate")
	assert.False(t, s.Consume("revert", token), "wrong action")

	token = s.Issue("migrate")
	assert.True(t, s.Consume("migrate", token))
	assert.False(t, s.Consume("migrate", token), "replayed")

	assert.False(t, s.Consume("migrate", ""))
	assert.False(t, s.Consume("migrate", "unknown"))
}

func TestStore_Expiry(t *testing.T) {
	s := NewStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token := s.Issue("revert")
	now = now.Add(2 * time.Minute)
	assert.False(t, s.Consume("revert", token))

	// Expired tokens are swept on the next issue.
	s.Issue("revert")
	s.Issue("revert")
	now = now.Add(2 * time.Minute)
	s.Issue("revert")
	assert.Len(t, s.tokens, 1)
}

func TestRequire(t *testing.T) {
	s := NewStore(time.Minute)
	app := fiber.New()
	app.Post("/media/migrate", s.Require("migrate"), func(c *fiber.Ctx) error {
		return c.SendString("ran")
	})

	t.Run("Header", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/media/migrate", nil)
		req.Header.Set(HeaderName, s.Issue("migrate"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Form", func(t *testing.T) {
		form := url.Values{FormField: {s.Issue("migrate")}}
		req := httptest.NewRequest("POST", "/media/migrate", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/media/migrate", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Other action", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/media/migrate", nil)
		req.Header.Set(HeaderName, s.Issue("revert"))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
