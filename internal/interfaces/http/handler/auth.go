package handler

import (
	"net/http"
	"time"

	appidentity "github.com/schoolfees/backend/internal/application/identity"
	"github.com/schoolfees/backend/internal/infrastructure/config"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const refreshTokenCookie = "refresh_token"

// AuthHandler exposes login, token refresh, logout and self-service
// account operations
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookieCfg   config.CookieConfig
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, cookieCfg config.CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieCfg:   cookieCfg,
		logger:      logger,
	}
}

// RegisterRoutes registers the public auth routes. loginLimiter throttles
// credential guessing; the remaining routes sit behind authMW.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, loginLimiter gin.HandlerFunc, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", loginLimiter, h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", authMW, h.Logout)
		auth.GET("/me", authMW, h.Me)
		auth.POST("/change-password", authMW, h.ChangePassword)
	}
}

// Login authenticates a user and returns a token pair. The refresh token is
// additionally set as an httpOnly cookie for browser clients.
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Username and password are required")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken, int(time.Until(resp.RefreshTokenExpiresAt).Seconds()))
	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair. The token comes
// from the request body or, for browser clients, the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req appidentity.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cookie, cookieErr := c.Cookie(refreshTokenCookie)
		if cookieErr != nil || cookie == "" {
			h.BadRequest(c, "Refresh token is required")
			return
		}
		req.RefreshToken = cookie
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken, int(time.Until(resp.RefreshTokenExpiresAt).Seconds()))
	h.Success(c, resp)
}

// Logout revokes the current access token and, when supplied, the refresh
// token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.RefreshToken == "" {
		body.RefreshToken, _ = c.Cookie(refreshTokenCookie)
	}

	req := appidentity.LogoutRequest{
		UserID:       middleware.GetUserID(c),
		TokenJTI:     claims.ID,
		TokenTTL:     claims.GetRemainingTTL(),
		RefreshToken: body.RefreshToken,
	}
	if err := h.authService.Logout(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.NoContent(c)
}

// Me returns the authenticated user's account
func (h *AuthHandler) Me(c *gin.Context) {
	info, err := h.authService.GetCurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ChangePassword changes the caller's own password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req appidentity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Old and new passwords are required")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.NoContent(c)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(parseSameSite(h.cookieCfg.SameSite))
	c.SetCookie(refreshTokenCookie, token, maxAge, h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookieCfg.SameSite))
	c.SetCookie(refreshTokenCookie, "", -1, h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
