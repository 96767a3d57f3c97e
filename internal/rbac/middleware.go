package rbac

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows access if the caller's role is one of allowed.
// It must run after the middleware that resolves the caller and stores its role.
//
//   - no role in context -> 401
//   - role not in allowed -> 403
func RequireAnyRole(allowed ...Role) gin.HandlerFunc {
	names := make([]string, 0, len(allowed))
	for _, r := range allowed {
		names = append(names, r.String())
	}
	required := strings.Join(names, ", ")

	return func(c *gin.Context) {
		role, err := RoleFromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !Allows(role, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"required": required,
			})
			return
		}
		c.Next()
	}
}
