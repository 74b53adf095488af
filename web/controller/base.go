// Package controller provides the HTTP handlers of the blog: authentication,
// the post listing and detail pages, post editing, profiles, the admin pages
// and the JSON API.
package controller

import (
	"github.com/techinsight/blog/web/locale"
	"github.com/techinsight/blog/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

func (a *BaseController) requireUser() gin.HandlerFunc {
	return middleware.RoleRequired(middleware.UserOnly)
}

func (a *BaseController) requireAdmin() gin.HandlerFunc {
	return middleware.RoleRequired(middleware.AdminOnly)
}

func (a *BaseController) requireLogin() gin.HandlerFunc {
	return middleware.RoleRequired(middleware.LoggedIn)
}

// I18nWeb localizes name with the localizer of the request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	if v, ok := c.Get("localizer"); ok {
		if localizer, ok := v.(*i18n.Localizer); ok {
			return locale.Localize(localizer, name, params...)
		}
	}
	return locale.I18n(name, params...)
}
