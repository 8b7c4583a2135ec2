package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"freelancehub/internal/models"
	"freelancehub/internal/session"
	"freelancehub/internal/utils"
)

// GoogleOAuthHandler signs users in with their Google account. A
// matching account (by email) is reused; otherwise one is created with
// a generated username and an unusable random password.
type GoogleOAuthHandler struct {
	base
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewGoogleOAuthHandler(db *gorm.DB, sessions *session.Manager, clientID, secret, redirect string) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		base:         base{DB: db, Sessions: sessions},
		ClientID:     clientID,
		ClientSecret: secret,
		RedirectURL:  redirect,
	}
}

// Enabled reports whether Google credentials are configured.
func (h *GoogleOAuthHandler) Enabled() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) Start(c *fiber.Ctx) error {
	next := c.Query("next", "/dashboard")
	if !strings.HasPrefix(next, "/") {
		next = "/dashboard"
	}

	state := randomState(32)
	if err := h.Sessions.SetOAuthState(c, state, next); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Redirect(h.oauthCfg().AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *GoogleOAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	wantState, next := h.Sessions.TakeOAuthState(c)

	if code == "" || state == "" || wantState == "" || state != wantState {
		h.Sessions.FlashError(c, "Sign in with Google failed. Please try again.")
		return c.Redirect("/login")
	}

	tok, err := h.oauthCfg().Exchange(c.Context(), code)
	if err != nil {
		h.Sessions.FlashError(c, "Sign in with Google failed. Please try again.")
		return c.Redirect("/login")
	}

	client := h.oauthCfg().Client(c.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		h.Sessions.FlashError(c, "Sign in with Google failed. Please try again.")
		return c.Redirect("/login")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		h.Sessions.FlashError(c, "Sign in with Google failed. Please try again.")
		return c.Redirect("/login")
	}

	email := strings.ToLower(strings.TrimSpace(gu.Email))
	if email == "" {
		h.Sessions.FlashError(c, "Google did not return an email address.")
		return c.Redirect("/login")
	}

	var u models.User
	err = h.DB.Where("email = ?", email).First(&u).Error
	switch {
	case err == nil:
		// existing account, nothing to update
	case err == gorm.ErrRecordNotFound:
		u, err = h.createFromGoogle(email, strings.TrimSpace(gu.Name))
		if err != nil {
			h.Sessions.FlashError(c, "Could not create an account from your Google profile.")
			return c.Redirect("/login")
		}
	default:
		return fiber.ErrInternalServerError
	}

	if err := h.Sessions.SignIn(c, &u); err != nil {
		return fiber.ErrInternalServerError
	}
	h.Sessions.FlashSuccess(c, "Login successful! Welcome back, "+u.Name+".")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/dashboard"
	}
	return c.Redirect(next)
}

var nonUsernameRe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func (h *GoogleOAuthHandler) createFromGoogle(email, name string) (models.User, error) {
	local := email[:strings.Index(email, "@")]
	base := nonUsernameRe.ReplaceAllString(local, "_")
	if len(base) < 3 {
		base = base + "_user"
	}
	if len(base) > 16 {
		base = base[:16]
	}

	username := base
	for i := 1; ; i++ {
		var count int64
		if err := h.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return models.User{}, err
		}
		if count == 0 {
			break
		}
		username = fmt.Sprintf("%s%d", base, i)
	}

	if name == "" {
		name = local
	}
	if len(name) > 50 {
		name = name[:50]
	}
	if len(name) < 2 {
		name = name + "_"
	}

	// random password; Google accounts never log in with it
	hash, err := utils.HashPassword(randomState(24))
	if err != nil {
		return models.User{}, err
	}

	u := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Name:     name,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return models.User{}, err
	}
	return u, nil
}
