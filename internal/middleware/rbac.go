package middleware

import (
	"net/http"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/aura-hq/staffmanager/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireCapability checks that the caller's role grants the capability.
// The role-to-capability mapping lives in one place (model.Role); routes
// and views never compare roles directly.
func RequireCapability(cap model.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if !claims.Role.Can(cap) {
			response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}

		c.Next()
	}
}
