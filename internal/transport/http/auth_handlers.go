package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kuank/studychat-server/internal/auth"
)

const stateCookieName = "studychat_oauth_state"

// AuthHandlers provides the GitHub login and session endpoints.
type AuthHandlers struct {
	authService  *auth.Service
	cookieMaxAge int
	log          *zerolog.Logger
}

// NewAuthHandlers creates the auth handler set. cookieMaxAge is in seconds.
func NewAuthHandlers(authService *auth.Service, cookieMaxAge int, logger *zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		log:          logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse is returned by GET /auth/user.
type UserResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

// UserInfo is the profile shape exposed over the auth endpoints.
type UserInfo struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// GitHubLogin redirects the browser to the GitHub authorization page.
// GET /auth/github
func (h *AuthHandlers) GitHubLogin(c *gin.Context) {
	if !h.authService.LoginEnabled() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "github login not configured"})
		return
	}

	state := uuid.NewString()
	c.SetCookie(stateCookieName, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, h.authService.AuthCodeURL(state))
}

// GitHubCallback completes the OAuth exchange and issues the session cookie.
// GET /auth/github/callback
func (h *AuthHandlers) GitHubCallback(c *gin.Context) {
	if !h.authService.LoginEnabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	state, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != c.Query("state") {
		h.log.Warn().Msg("oauth state mismatch")
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	token, err := h.authService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		h.log.Error().Err(err).Msg("github callback failed")
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.SetCookie(SessionCookieName, token, h.cookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/?github_auth=success")
}

// CurrentUser reports the session's linked profile, if any.
// GET /auth/user
func (h *AuthHandlers) CurrentUser(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, UserResponse{Authenticated: false})
		return
	}

	sess, err := h.authService.SessionForToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, UserResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		Authenticated: true,
		User: &UserInfo{
			Username:    sess.Username,
			DisplayName: sess.DisplayName,
			Avatar:      sess.AvatarURL,
		},
	})
}

// Logout deletes the session and clears the cookie.
// POST /auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.log.Error().Err(err).Msg("logout failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "logout failed"})
			return
		}
	}

	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
