package session

import (
	"github.com/gofiber/fiber/v2"

	"freelancehub/internal/models"
)

const localsContext = "reqctx"

// Context carries everything a page handler needs from the session:
// the authenticated user (nil for guests), the anti-forgery token and
// any one-shot flash messages. It replaces ambient session reads; every
// component that needs login state takes it as an explicit value.
type Context struct {
	User      *models.User
	CSRFToken string
}

func FromCtx(c *fiber.Ctx) *Context {
	if rc, ok := c.Locals(localsContext).(*Context); ok {
		return rc
	}
	return &Context{}
}

// FlashError stores a one-shot error notice shown on the next page.
func (m *Manager) FlashError(c *fiber.Ctx, msg string) {
	m.setFlash(c, keyFlashError, msg)
}

func (m *Manager) FlashSuccess(c *fiber.Ctx, msg string) {
	m.setFlash(c, keyFlashSuccess, msg)
}

func (m *Manager) setFlash(c *fiber.Ctx, key, msg string) {
	sess, err := m.Store.Get(c)
	if err != nil {
		return
	}
	sess.Set(key, msg)
	_ = sess.Save()
}

// PopFlashes returns and clears the pending flash messages.
func (m *Manager) PopFlashes(c *fiber.Ctx) (errMsg, successMsg string) {
	sess, err := m.Store.Get(c)
	if err != nil {
		return "", ""
	}
	errMsg, _ = sess.Get(keyFlashError).(string)
	successMsg, _ = sess.Get(keyFlashSuccess).(string)
	if errMsg != "" || successMsg != "" {
		sess.Delete(keyFlashError)
		sess.Delete(keyFlashSuccess)
		_ = sess.Save()
	}
	return errMsg, successMsg
}

// SetOAuthState stashes the state nonce and post-login destination for
// the duration of the OAuth round trip.
func (m *Manager) SetOAuthState(c *fiber.Ctx, state, next string) error {
	sess, err := m.Store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyOAuthState, state)
	sess.Set(keyOAuthNext, next)
	return sess.Save()
}

// TakeOAuthState returns and clears the stored OAuth round-trip state.
func (m *Manager) TakeOAuthState(c *fiber.Ctx) (state, next string) {
	sess, err := m.Store.Get(c)
	if err != nil {
		return "", ""
	}
	state, _ = sess.Get(keyOAuthState).(string)
	next, _ = sess.Get(keyOAuthNext).(string)
	sess.Delete(keyOAuthState)
	sess.Delete(keyOAuthNext)
	_ = sess.Save()
	return state, next
}

// RequireLogin redirects guests to the login page with a flash notice.
func (m *Manager) RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if FromCtx(c).User == nil {
			m.FlashError(c, "You must be logged in to access this page")
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAdmin implies RequireLogin.
func (m *Manager) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc := FromCtx(c)
		if rc.User == nil {
			m.FlashError(c, "You must be logged in to access this page")
			return c.Redirect("/login")
		}
		if !rc.User.IsAdmin {
			m.FlashError(c, "You don't have permission to access this page")
			return c.Redirect("/")
		}
		return c.Next()
	}
}
