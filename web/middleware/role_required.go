package middleware

import (
	"net/http"

	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/locale"
	"github.com/techinsight/blog/web/session"

	"github.com/gin-gonic/gin"
)

// Guard describes who may pass and where the others are sent.
type Guard struct {
	Roles    []entity.Role
	Redirect string
	FlashKey string
}

var (
	UserOnly  = Guard{Roles: []entity.Role{entity.RoleUser}, Redirect: "/user/login", FlashKey: "flash.userRequired"}
	AdminOnly = Guard{Roles: []entity.Role{entity.RoleAdmin}, Redirect: "/admin/login", FlashKey: "flash.adminRequired"}
	LoggedIn  = Guard{Roles: []entity.Role{entity.RoleUser, entity.RoleAdmin}, Redirect: "/login", FlashKey: "flash.loginRequired"}
)

// RoleRequired lets through identities holding one of the roles of g. Ajax
// requests are refused with 401, page requests get a flash and a redirect.
func RoleRequired(g Guard) gin.HandlerFunc {
	allowed := make(map[entity.Role]bool, len(g.Roles))
	for _, r := range g.Roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		who := GetIdentity(c)
		if allowed[who.Role] {
			c.Next()
			return
		}
		msg := locale.I18n(g.FlashKey)
		if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Success: false, Msg: msg})
			return
		}
		session.AddFlash(c, entity.FlashError, msg)
		c.Redirect(http.StatusFound, g.Redirect)
		c.Abort()
	}
}
