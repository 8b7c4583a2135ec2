package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"freelancehub/internal/session"
)

// base is embedded by every page handler: the store, the session
// manager and a render helper that folds the request context and any
// flash messages into the template bind.
type base struct {
	DB       *gorm.DB
	Sessions *session.Manager
}

func (b base) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	rc := session.FromCtx(c)
	if bind == nil {
		bind = fiber.Map{}
	}
	bind["User"] = rc.User
	bind["CSRFToken"] = rc.CSRFToken

	flashErr, flashOK := b.Sessions.PopFlashes(c)
	if _, set := bind["FlashError"]; !set {
		bind["FlashError"] = flashErr
	}
	if _, set := bind["FlashSuccess"]; !set {
		bind["FlashSuccess"] = flashOK
	}

	return c.Render(name, bind, "layouts/main")
}
