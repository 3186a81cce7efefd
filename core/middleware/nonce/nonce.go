package nonce

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName is the request header carrying a token.
	HeaderName = "X-Nonce"
	// FormField is the form field carrying a token when the header is absent.
	FormField = "nonce"
)

type entry struct {
	action  string
	expires time.Time
}

// Store issues single-use tokens bound to an action name.
type Store struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]entry
	now    func() time.Time
}

// NewStore creates a Store whose tokens expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:    ttl,
		tokens: make(map[string]entry),
		now:    time.Now,
	}
}

// Issue returns a new token for action.
func (s *Store) Issue(action string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.tokens[token] = entry{action: action, expires: s.now().Add(s.ttl)}
	return token
}

// Consume reports whether token was issued for action and is still valid.
// A token is accepted at most once.
func (s *Store) Consume(action, token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok {
		return false
	}
	delete(s.tokens, token)
	return e.action == action && s.now().Before(e.expires)
}

// sweep drops expired tokens. Callers hold mu.
func (s *Store) sweep() {
	now := s.now()
	for token, e := range s.tokens {
		if !now.Before(e.expires) {
			delete(s.tokens, token)
		}
	}
}

// Require returns a middleware rejecting requests without a valid token
// for action with 403.
func (s *Store) Require(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(HeaderName)
		if token == "" {
			token = c.FormValue(FormField)
		}
		if !s.Consume(action, token) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid or expired nonce"})
		}
		return c.Next()
	}
}
