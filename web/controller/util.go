package controller

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/techinsight/blog/config"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/middleware"
	"github.com/techinsight/blog/web/service"
	"github.com/techinsight/blog/web/session"

	"github.com/gin-gonic/gin"
)

var userService service.UserService

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonObj sends obj as the JSON body, or an error envelope when err is set.
func jsonObj(c *gin.Context, obj any, err error) {
	if err != nil {
		logger.Warning("api request failed:", err)
		pureJsonMsg(c, http.StatusInternalServerError, false, I18nWeb(c, "flash.unexpected"))
		return
	}
	c.JSON(http.StatusOK, obj)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// html renders template name with the page title and the data every page needs.
func html(c *gin.Context, name string, title string, data gin.H) {
	htmlStatus(c, http.StatusOK, name, title, data)
}

func htmlStatus(c *gin.Context, status int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = I18nWeb(c, title)
	data["request_uri"] = c.Request.RequestURI
	data["flashes"] = session.Flashes(c)

	who := middleware.GetIdentity(c)
	data["identity"] = who
	if !who.IsAnonymous() {
		if user, err := userService.GetUser(who.UserId); err == nil {
			data["current_user"] = user
		}
	}
	c.HTML(status, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver":  config.GetVersion(),
		"app_name": config.GetName(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// redirectWithFlash queues the localized message key and redirects to location.
func redirectWithFlash(c *gin.Context, category, key, location string, params ...string) {
	session.AddFlash(c, category, I18nWeb(c, key, params...))
	c.Redirect(http.StatusFound, location)
}

// flashNow queues a message shown by the page rendered in the same request.
func flashNow(c *gin.Context, category, key string, params ...string) {
	session.AddFlash(c, category, I18nWeb(c, key, params...))
}

// idParam parses the :id route parameter.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

func postURL(id int) string {
	return "/post/" + strconv.Itoa(id)
}
