package controller

import (
	"errors"
	"net/http"

	"github.com/techinsight/blog/config"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/middleware"
	"github.com/techinsight/blog/web/service"
	"github.com/techinsight/blog/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// IndexController handles the home redirect, registration, login and logout.
type IndexController struct {
	BaseController

	userService service.UserService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/dashboard", a.index)
	g.GET("/user/dashboard", a.requireUser(), a.userDashboard)

	g.GET("/register", a.registerPage)
	g.POST("/register", a.register)

	g.GET("/login", a.loginChoice)
	g.POST("/login", a.loginChoice)
	g.GET("/admin/login", a.adminLoginPage)
	g.POST("/admin/login", a.adminLogin)
	g.GET("/user/login", a.userLoginPage)
	g.POST("/user/login", a.userLogin)

	g.GET("/logout", a.logout)
	g.GET("/admin/logout", a.adminLogout)
	g.GET("/user/logout", a.userLogout)
}

// index sends each identity to its home page.
func (a *IndexController) index(c *gin.Context) {
	switch middleware.GetIdentity(c).Role {
	case entity.RoleAdmin:
		c.Redirect(http.StatusFound, "/admin")
	case entity.RoleUser:
		c.Redirect(http.StatusFound, "/blog")
	default:
		c.Redirect(http.StatusFound, "/login")
	}
}

func (a *IndexController) userDashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, "/blog")
}

func (a *IndexController) loginChoice(c *gin.Context) {
	html(c, "login_choice.html", "pages.login.title", nil)
}

func (a *IndexController) registerPage(c *gin.Context) {
	html(c, "register.html", "pages.register.title", nil)
}

func (a *IndexController) register(c *gin.Context) {
	var form service.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		flashNow(c, entity.FlashError, "flash.invalidForm")
		html(c, "register.html", "pages.register.title", gin.H{"form": form})
		return
	}

	_, err := a.userService.Register(form)
	switch {
	case errors.Is(err, service.ErrDuplicate):
		flashNow(c, entity.FlashError, "flash.duplicateUser")
		html(c, "register.html", "pages.register.title", gin.H{"form": form})
	case errors.Is(err, service.ErrInvalidInput):
		flashNow(c, entity.FlashError, "flash.invalidForm")
		html(c, "register.html", "pages.register.title", gin.H{"form": form})
	case err != nil:
		logger.Error("register failed:", err)
		flashNow(c, entity.FlashError, "flash.unexpected")
		html(c, "register.html", "pages.register.title", gin.H{"form": form})
	default:
		redirectWithFlash(c, entity.FlashSuccess, "flash.registered", "/login")
	}
}

func (a *IndexController) adminLoginPage(c *gin.Context) {
	html(c, "admin_login.html", "pages.adminLogin.title", nil)
}

func (a *IndexController) userLoginPage(c *gin.Context) {
	html(c, "user_login.html", "pages.userLogin.title", nil)
}

func (a *IndexController) adminLogin(c *gin.Context) {
	a.login(c, entity.RoleAdmin)
}

func (a *IndexController) userLogin(c *gin.Context) {
	a.login(c, entity.RoleUser)
}

// login checks the credentials against accounts of role only.
func (a *IndexController) login(c *gin.Context, role entity.Role) {
	page, title, invalidKey, successKey, home := "user_login.html", "pages.userLogin.title", "flash.invalidUser", "flash.loginSuccess", "/user/dashboard"
	if role == entity.RoleAdmin {
		page, title, invalidKey, successKey, home = "admin_login.html", "pages.adminLogin.title", "flash.invalidAdmin", "flash.adminLoginSuccess", "/admin"
	}

	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		flashNow(c, entity.FlashError, invalidKey)
		html(c, page, title, nil)
		return
	}

	user := a.userService.CheckUser(form.Username, form.Password, role)
	if user == nil {
		logger.Warningf("wrong %s login: %q, IP: %q", role, form.Username, getRemoteIp(c))
		flashNow(c, entity.FlashError, invalidKey)
		html(c, page, title, gin.H{"username": form.Username})
		return
	}

	if err := session.SetMaxAge(c, config.GetSessionMaxAge()*60); err != nil {
		logger.Warning("Unable to set session max age:", err)
	}
	var err error
	if role == entity.RoleAdmin {
		err = session.SetAdmin(c, user.Id, user.Username)
	} else {
		err = session.SetUser(c, user.Id, user.Username)
	}
	if err != nil {
		logger.Warning("Unable to save session:", err)
		flashNow(c, entity.FlashError, "flash.unexpected")
		html(c, page, title, nil)
		return
	}

	logger.Infof("%s logged in successfully, Ip Address: %s", user.Username, getRemoteIp(c))
	redirectWithFlash(c, entity.FlashSuccess, successKey, home)
}

func (a *IndexController) clear(c *gin.Context) {
	who := middleware.GetIdentity(c)
	if !who.IsAnonymous() {
		logger.Infof("%s logged out successfully", who.Username)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to save session after clearing:", err)
	}
}

func (a *IndexController) logout(c *gin.Context) {
	a.clear(c)
	redirectWithFlash(c, entity.FlashInfo, "flash.loggedOut", "/login")
}

func (a *IndexController) adminLogout(c *gin.Context) {
	a.clear(c)
	redirectWithFlash(c, entity.FlashInfo, "flash.adminLoggedOut", "/admin/login")
}

func (a *IndexController) userLogout(c *gin.Context) {
	a.clear(c)
	redirectWithFlash(c, entity.FlashInfo, "flash.userLoggedOut", "/user/login")
}
