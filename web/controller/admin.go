package controller

import (
	"errors"
	"strconv"

	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/service"

	"github.com/gin-gonic/gin"
)

// AdminController serves the admin dashboard and catalog management pages.
type AdminController struct {
	BaseController

	adminService    service.AdminService
	userService     service.UserService
	categoryService service.CategoryService
	serverService   service.ServerService
}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/admin")
	g.Use(a.requireAdmin())

	g.GET("", a.dashboard)
	g.GET("/users", a.users)
	g.GET("/posts", a.posts)
	g.GET("/categories", a.categories)
	g.POST("/categories", a.addCategory)
	g.GET("/delete_category/:id", a.deleteCategory)

	g.GET("/api/status", a.status)
	g.GET("/api/logs", a.logs)
}

func (a *AdminController) dashboard(c *gin.Context) {
	dashboard, err := a.adminService.GetDashboard()
	if err != nil {
		logger.Error("admin dashboard failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.error", "/admin/profile", "Error=="+err.Error())
		return
	}
	html(c, "admin_dashboard.html", "pages.admin.dashboard.title", gin.H{"dashboard": dashboard})
}

func (a *AdminController) users(c *gin.Context) {
	users, err := a.userService.GetUsers()
	if err != nil {
		logger.Error("admin users failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.error", "/admin", "Error=="+err.Error())
		return
	}
	html(c, "admin_users.html", "pages.admin.users.title", gin.H{"users": users})
}

func (a *AdminController) posts(c *gin.Context) {
	posts, err := a.adminService.GetPosts()
	if err != nil {
		logger.Error("admin posts failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.error", "/admin", "Error=="+err.Error())
		return
	}
	html(c, "admin_posts.html", "pages.admin.posts.title", gin.H{"posts": posts})
}

func (a *AdminController) renderCategories(c *gin.Context) {
	categories, err := a.categoryService.GetCategories()
	if err != nil {
		logger.Error("admin categories failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.error", "/admin", "Error=="+err.Error())
		return
	}
	html(c, "admin_categories.html", "pages.admin.categories.title", gin.H{"categories": categories})
}

func (a *AdminController) categories(c *gin.Context) {
	a.renderCategories(c)
}

func (a *AdminController) addCategory(c *gin.Context) {
	var form service.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		flashNow(c, entity.FlashError, "flash.invalidForm")
		a.renderCategories(c)
		return
	}
	_, err := a.categoryService.AddCategory(form)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		flashNow(c, entity.FlashError, "flash.invalidForm")
	case err != nil:
		logger.Error("add category failed:", err)
		flashNow(c, entity.FlashError, "flash.unexpected")
	default:
		flashNow(c, entity.FlashSuccess, "flash.categoryAdded")
	}
	a.renderCategories(c)
}

func (a *AdminController) deleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, entity.FlashError, "flash.categoryNotFound", "/admin/categories")
		return
	}
	err := a.categoryService.DeleteCategory(id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		redirectWithFlash(c, entity.FlashError, "flash.categoryNotFound", "/admin/categories")
	case err != nil:
		logger.Error("delete category failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.unexpected", "/admin/categories")
	default:
		redirectWithFlash(c, entity.FlashSuccess, "flash.categoryDeleted", "/admin/categories")
	}
}

func (a *AdminController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}

// logs returns the buffered log lines, newest first. Query: count, level.
func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "100"))
	if err != nil || count < 1 || count > 10000 {
		count = 100
	}
	jsonObj(c, a.serverService.GetLogs(count, c.DefaultQuery("level", "info")), nil)
}
