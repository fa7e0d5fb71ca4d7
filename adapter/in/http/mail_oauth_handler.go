package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/chadBookW/email-final/core/service/auth"
	"github.com/chadBookW/email-final/pkg/apperr"
	"github.com/chadBookW/email-final/pkg/logger"
)

// OAuthHandler drives the one-time Google consent flow that provisions the
// mailbox token. After the callback succeeds the process must be restarted to
// pick up the token; the core never mutates a live mailbox handle.
type OAuthHandler struct {
	creds *auth.Credentials
}

func NewOAuthHandler(creds *auth.Credentials) *OAuthHandler {
	return &OAuthHandler{creds: creds}
}

func (h *OAuthHandler) Register(app fiber.Router) {
	app.Get("/auth/login", h.Login)
	app.Get("/auth/callback", h.Callback)
}

// Login redirects to the Google consent page.
func (h *OAuthHandler) Login(c *fiber.Ctx) error {
	if !h.creds.Configured() {
		return AppErrorResponse(c, apperr.ConfigError("google oauth is not configured"))
	}
	state := uuid.New().String()
	return c.Redirect(h.creds.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// Callback exchanges the authorization code and persists the token file.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return AppErrorResponse(c, apperr.MissingField("code"))
	}

	if _, err := h.creds.Exchange(c.Context(), code); err != nil {
		return AppErrorResponse(c, apperr.ProviderError("oauth code exchange failed", err))
	}

	logger.Info("OAuth token saved; restart the server to activate the mailbox")
	return c.JSON(fiber.Map{
		"status":  "authorized",
		"message": "token saved, restart to activate the mailbox",
	})
}
