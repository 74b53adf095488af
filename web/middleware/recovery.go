package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/locale"
	"github.com/techinsight/blog/web/session"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into a logged error, a flash message
// and a redirect to the home page.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("panic serving %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
				if c.Writer.Written() {
					c.Abort()
					return
				}
				msg := locale.I18n("flash.unexpected")
				if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
					c.AbortWithStatusJSON(http.StatusInternalServerError, entity.Msg{Success: false, Msg: msg})
					return
				}
				session.AddFlash(c, entity.FlashError, msg)
				c.Redirect(http.StatusFound, "/")
				c.Abort()
			}
		}()
		c.Next()
	}
}
