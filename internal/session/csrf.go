package session

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
)

// One token per session, created lazily and reused for the session's
// whole life. Known limitation: the token is global to the session,
// not per form, so in-session replay across forms is possible.

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err) // rand.Read failing means the process is unusable
	}
	return hex.EncodeToString(b)
}

// CSRF rejects every state-changing request whose csrf_token form field
// does not exactly match the session's token. Hard stop: 403, no
// further processing, no side effects.
func (m *Manager) CSRF() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		rc := FromCtx(c)
		sent := c.FormValue("csrf_token")
		if sent == "" || rc.CSRFToken == "" || sent != rc.CSRFToken {
			return c.Status(fiber.StatusForbidden).SendString("CSRF token validation failed")
		}
		return c.Next()
	}
}
