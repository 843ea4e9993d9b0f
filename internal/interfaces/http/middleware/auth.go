package middleware

import (
	"errors"
	"net/http"
	"strings"

	appidentity "github.com/schoolfees/backend/internal/application/identity"
	"github.com/schoolfees/backend/internal/domain/identity"
	"github.com/schoolfees/backend/internal/domain/shared"
	"github.com/schoolfees/backend/internal/infrastructure/auth"
	"github.com/schoolfees/backend/internal/infrastructure/logger"
	"github.com/schoolfees/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	UserIDKey     = "auth_user_id"
	UsernameKey   = "auth_username"
	RoleKey       = "auth_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Auth returns a middleware that requires a valid access token. Claims are
// stored in the gin context and the user ID is pushed into the request
// context so log lines carry it.
func Auth(authService *appidentity.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Authentication required")
			return
		}

		claims, err := authService.VerifyAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			if log != nil {
				log.Warn("token verification failed",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			}
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				abortUnauthorized(c, domainErr.Code, domainErr.Message)
				return
			}
			abortUnauthorized(c, "TOKEN_INVALID", "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	status := dto.GetHTTPStatus(code)
	if status < http.StatusBadRequest {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}

// GetClaims retrieves the verified claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID, or uuid.Nil when the
// request is unauthenticated
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(UserIDKey); exists {
		if s, ok := v.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				return id
			}
		}
	}
	return uuid.Nil
}

// GetRole retrieves the authenticated user's role
func GetRole(c *gin.Context) identity.Role {
	if v, exists := c.Get(RoleKey); exists {
		if s, ok := v.(string); ok {
			return identity.Role(s)
		}
	}
	return ""
}
