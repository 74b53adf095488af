package controller

import (
	"errors"

	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/middleware"
	"github.com/techinsight/blog/web/service"

	"github.com/gin-gonic/gin"
)

// profileRoutes are the pages and messages of one profile flavor.
type profileRoutes struct {
	page, editPage   string
	title, editTitle string
	self, fallback   string
	login            string
	notFoundKey      string
	updatedKey       string
}

var (
	userProfile = profileRoutes{
		page: "profile.html", editPage: "edit_profile.html",
		title: "pages.profile.title", editTitle: "pages.editProfile.title",
		self: "/profile", fallback: "/blog", login: "/user/login",
		notFoundKey: "flash.userNotFound", updatedKey: "flash.profileUpdated",
	}
	adminProfile = profileRoutes{
		page: "admin_profile.html", editPage: "admin_edit_profile.html",
		title: "pages.adminProfile.title", editTitle: "pages.editProfile.title",
		self: "/admin/profile", fallback: "/admin", login: "/admin/login",
		notFoundKey: "flash.adminNotFound", updatedKey: "flash.adminProfileUpdated",
	}
)

// ProfileController serves the profile pages of users and admins.
type ProfileController struct {
	BaseController

	profileService service.ProfileService
	userService    service.UserService
}

func NewProfileController(g *gin.RouterGroup) *ProfileController {
	a := &ProfileController{}
	a.initRouter(g)
	return a
}

func (a *ProfileController) initRouter(g *gin.RouterGroup) {
	user := g.Group("/profile")
	user.Use(a.requireUser())
	user.GET("", a.show(userProfile))
	user.GET("/edit", a.editPage(userProfile))
	user.POST("/edit", a.edit(userProfile))

	admin := g.Group("/admin/profile")
	admin.Use(a.requireAdmin())
	admin.GET("", a.show(adminProfile))
	admin.GET("/edit", a.editPage(adminProfile))
	admin.POST("/edit", a.edit(adminProfile))
}

func (a *ProfileController) show(r profileRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := a.profileService.GetProfile(middleware.GetIdentity(c))
		if errors.Is(err, service.ErrNotFound) {
			redirectWithFlash(c, entity.FlashError, r.notFoundKey, r.login)
			return
		}
		if err != nil {
			logger.Error("profile page failed:", err)
			redirectWithFlash(c, entity.FlashError, "flash.profileError", r.fallback, "Error=="+err.Error())
			return
		}
		html(c, r.page, r.title, gin.H{"profile": profile})
	}
}

func (a *ProfileController) editPage(r profileRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.userService.GetUser(middleware.GetIdentity(c).UserId)
		if err != nil {
			redirectWithFlash(c, entity.FlashError, r.notFoundKey, r.login)
			return
		}
		html(c, r.editPage, r.editTitle, gin.H{"user": user})
	}
}

func (a *ProfileController) edit(r profileRoutes) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := middleware.GetIdentity(c)
		var form service.ProfileForm
		if err := c.ShouldBind(&form); err != nil {
			redirectWithFlash(c, entity.FlashError, "flash.invalidForm", r.self+"/edit")
			return
		}
		err := a.userService.UpdateProfile(who.UserId, form)
		switch {
		case errors.Is(err, service.ErrDuplicate):
			flashNow(c, entity.FlashError, "flash.emailInUse")
			user, _ := a.userService.GetUser(who.UserId)
			html(c, r.editPage, r.editTitle, gin.H{"user": user})
		case errors.Is(err, service.ErrNotFound):
			redirectWithFlash(c, entity.FlashError, r.notFoundKey, r.login)
		case err != nil:
			logger.Error("update profile failed:", err)
			redirectWithFlash(c, entity.FlashError, "flash.profileError", r.self, "Error=="+err.Error())
		default:
			redirectWithFlash(c, entity.FlashSuccess, r.updatedKey, r.self)
		}
	}
}
