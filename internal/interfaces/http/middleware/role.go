package middleware

import (
	"net/http"

	"github.com/schoolfees/backend/internal/domain/identity"
	"github.com/schoolfees/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireRoles allows only the listed roles through. It must run after Auth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireLedgerAccess allows roles that may manage invoices and payments
func RequireLedgerAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetRole(c).CanManageLedger() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("FORBIDDEN", "Ledger access requires admin or staff role"))
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleAdmin)
}
