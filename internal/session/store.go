package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"freelancehub/internal/models"
)

// Manager owns the server-side session store. All durable login state
// lives behind the session cookie; handlers only ever see the
// request-scoped Context this package builds.
type Manager struct {
	Store *fsession.Store
}

func New(redisAddr string) *Manager {
	cfg := fsession.Config{
		KeyLookup:      "cookie:fh_session",
		Expiration:     7 * 24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if redisAddr != "" {
		cfg.Storage = NewRedisStorage(redisAddr)
	}
	return &Manager{Store: fsession.New(cfg)}
}

// Middleware loads the session, guarantees a CSRF token, resolves the
// logged-in user and attaches the request Context.
func (m *Manager) Middleware(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.Store.Get(c)
		if err != nil {
			return fiber.ErrInternalServerError
		}

		rc := &Context{}
		dirty := false

		tok, _ := sess.Get(keyCSRFToken).(string)
		if tok == "" {
			tok = generateToken()
			sess.Set(keyCSRFToken, tok)
			dirty = true
		}
		rc.CSRFToken = tok

		if uid, ok := sess.Get(keyUserID).(uint); ok {
			var u models.User
			if err := gdb.First(&u, uid).Error; err == nil {
				rc.User = &u
			} else {
				// stale login (user deleted since); drop it
				sess.Delete(keyUserID)
				dirty = true
			}
		}

		if dirty {
			if err := sess.Save(); err != nil {
				return fiber.ErrInternalServerError
			}
		}

		c.Locals(localsContext, rc)
		return c.Next()
	}
}

// SignIn records the user in the session.
func (m *Manager) SignIn(c *fiber.Ctx, u *models.User) error {
	sess, err := m.Store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyUserID, u.ID)
	sess.Set(keyUsername, u.Username)
	sess.Set(keyName, u.Name)
	sess.Set(keyIsAdmin, u.IsAdmin)
	return sess.Save()
}

// SignOut destroys the whole session, CSRF token included.
func (m *Manager) SignOut(c *fiber.Ctx) error {
	sess, err := m.Store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

const (
	keyUserID    = "uid"
	keyUsername  = "username"
	keyName      = "name"
	keyIsAdmin   = "is_admin"
	keyCSRFToken = "csrf_token"

	keyFlashError   = "flash_error"
	keyFlashSuccess = "flash_success"

	keyOAuthState = "oauth_state"
	keyOAuthNext  = "oauth_next"
)
