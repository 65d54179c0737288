package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/domain/user"
)

const (
	CtxIdentity = "identity"
	CtxIsAdmin  = "isAdmin"

	AuthCookieName = "auth_token"
)

// AuthMiddleware accepts a Bearer header or the auth cookie. The admin flag
// is derived for this request only.
func AuthMiddleware(authenticator ports.Authenticator, adminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader {
				c.AbortWithStatusJSON(
					http.StatusUnauthorized,
					gin.H{"error": "invalid token format"},
				)
				return
			}
		} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
			tokenStr = cookie
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing credentials"},
			)
			return
		}

		identity, err := authenticator.Authenticate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		c.Set(CtxIdentity, identity)
		c.Set(CtxIsAdmin, user.IsAdministrator(identity, adminEmail))

		c.Next()
	}
}

func Identity(c *gin.Context) (user.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return user.Identity{}, false
	}
	id, ok := v.(user.Identity)
	return id, ok
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(CtxIsAdmin)
}
