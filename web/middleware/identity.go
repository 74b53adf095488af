// Package middleware holds the gin middleware of the blog: identity
// resolution, access guards, panic recovery and request metrics.
package middleware

import (
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/session"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityMiddleware resolves the acting identity from the session once per
// request and stores it in the context.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, session.GetIdentity(c))
		c.Next()
	}
}

// GetIdentity returns the identity stored by IdentityMiddleware, anonymous
// when there is none.
func GetIdentity(c *gin.Context) entity.Identity {
	if v, ok := c.Get(identityKey); ok {
		if who, ok := v.(entity.Identity); ok {
			return who
		}
	}
	return entity.Identity{}
}
