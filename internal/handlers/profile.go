package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"freelancehub/internal/session"
	"freelancehub/internal/utils"
)

type ProfileHandler struct {
	base
	UploadDir string
}

func NewProfileHandler(db *gorm.DB, sessions *session.Manager, uploadDir string) *ProfileHandler {
	return &ProfileHandler{base: base{DB: db, Sessions: sessions}, UploadDir: uploadDir}
}

func (h *ProfileHandler) EditPage(c *fiber.Ctx) error {
	return h.render(c, "profile", fiber.Map{})
}

func (h *ProfileHandler) Edit(c *fiber.Ctx) error {
	user := session.FromCtx(c).User

	name := strings.TrimSpace(c.FormValue("name"))
	bio := strings.TrimSpace(c.FormValue("bio"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	var errs []string
	if msg := utils.ValidateName(name); msg != "" {
		errs = append(errs, msg)
	}
	if password != "" {
		if msg := utils.ValidatePassword(password); msg != "" {
			errs = append(errs, msg)
		}
		if password != confirm {
			errs = append(errs, "Passwords do not match")
		}
	}

	imagePath := ""
	if f, err := c.FormFile("profile_image"); err == nil && f != nil {
		if !allowedImageTypes[f.Header.Get("Content-Type")] {
			errs = append(errs, fmt.Sprintf("File '%s' is not a valid image type. Only JPG, PNG, and GIF are allowed.", f.Filename))
		} else if f.Size > maxImageBytes {
			errs = append(errs, fmt.Sprintf("File '%s' exceeds the maximum file size of 5MB.", f.Filename))
		} else {
			dir := filepath.Join(h.UploadDir, "profiles")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				errs = append(errs, "Failed to store the profile image")
			} else {
				ext := strings.ToLower(filepath.Ext(f.Filename))
				fname := fmt.Sprintf("profile_%d_%s%s", user.ID, uuid.NewString(), ext)
				if err := c.SaveFile(f, filepath.Join(dir, fname)); err != nil {
					errs = append(errs, "Failed to store the profile image")
				} else {
					imagePath = "uploads/profiles/" + fname
				}
			}
		}
	}

	if len(errs) > 0 {
		return h.render(c, "profile", fiber.Map{"Errors": errs})
	}

	updates := map[string]interface{}{
		"name": name,
		"bio":  bio,
	}
	if imagePath != "" {
		updates["profile_image"] = imagePath
	}
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return fiber.ErrInternalServerError
		}
		updates["password"] = hash
	}

	if err := h.DB.Model(user).Updates(updates).Error; err != nil {
		h.Sessions.FlashError(c, "Failed to update your profile")
		return c.Redirect("/profile")
	}

	h.Sessions.FlashSuccess(c, "Profile updated successfully")
	return c.Redirect("/profile")
}
