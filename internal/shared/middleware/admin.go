package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"dat-backend/internal/shared/response"
	"dat-backend/pkg/jwt"
)

// AdminGate protects the admin surface. Two accepted credentials:
// the shared admin key header (compared in constant time), or a Bearer
// token minted for the editing surface. Header name is configurable
// because the deployed site historically used X-Admin-Key.
func AdminGate(headerName, apiKey string, jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" {
			if key := c.GetHeader(headerName); key != "" &&
				subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Next()
				return
			}
		}

		if jwtManager != nil {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token := strings.TrimPrefix(auth, "Bearer ")
				if claims, err := jwtManager.ValidateAdminToken(token); err == nil {
					c.Set("admin_subject", claims.Subject)
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "admin credentials required")
		c.Abort()
	}
}
