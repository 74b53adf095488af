package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/middleware"
	"github.com/techinsight/blog/web/service"

	"github.com/gin-gonic/gin"
)

// CommentForm is the comment box of a post page.
type CommentForm struct {
	Content string `form:"content" binding:"required"`
}

// BlogController serves the listing, post pages and post editing.
type BlogController struct {
	BaseController

	listingService  service.ListingService
	postService     service.PostService
	commentService  service.CommentService
	categoryService service.CategoryService
}

func NewBlogController(g *gin.RouterGroup) *BlogController {
	a := &BlogController{}
	a.initRouter(g)
	return a
}

func (a *BlogController) initRouter(g *gin.RouterGroup) {
	g.GET("/blog", a.requireUser(), a.blog)
	g.GET("/post/:id", a.post)

	author := g.Group("/")
	author.Use(a.requireLogin())
	author.GET("/new", a.newPostPage)
	author.POST("/new", a.newPost)
	author.GET("/edit/:id", a.editPostPage)
	author.POST("/edit/:id", a.editPost)
	author.GET("/delete/:id", a.deletePost)
	author.POST("/comment/:id", a.addComment)
}

func (a *BlogController) blog(c *gin.Context) {
	var q entity.ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		q = entity.ListingQuery{
			Search:   c.Query("search"),
			Category: c.Query("category"),
			Tag:      c.Query("tag"),
			Sort:     c.Query("sort"),
		}
	}
	page, err := a.listingService.List(q)
	if err != nil {
		logger.Error("blog listing failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.error", "/login", "Error=="+err.Error())
		return
	}
	html(c, "blog.html", "pages.blog.title", gin.H{"listing": page})
}

func (a *BlogController) post(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		a.notFound(c)
		return
	}
	detail, err := a.listingService.ViewPost(c.Request.Context(), id, middleware.GetIdentity(c))
	if errors.Is(err, service.ErrNotFound) {
		a.notFound(c)
		return
	}
	if err != nil {
		logger.Error("post page failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.unexpected", "/")
		return
	}
	html(c, "post.html", "pages.post.title", gin.H{"detail": detail})
}

func (a *BlogController) notFound(c *gin.Context) {
	NotFound(c)
}

// NotFound renders the 404 page.
func NotFound(c *gin.Context) {
	htmlStatus(c, http.StatusNotFound, "404.html", "pages.notFound.title", nil)
}

func (a *BlogController) renderEditor(c *gin.Context, page, title string, data gin.H) {
	categories, err := a.categoryService.GetCategories()
	if err != nil {
		logger.Warning("load categories failed:", err)
	}
	data["categories"] = categories
	html(c, page, title, data)
}

func (a *BlogController) newPostPage(c *gin.Context) {
	a.renderEditor(c, "new_post.html", "pages.newPost.title", gin.H{})
}

func (a *BlogController) newPost(c *gin.Context) {
	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		flashNow(c, entity.FlashError, "flash.invalidForm")
		a.renderEditor(c, "new_post.html", "pages.newPost.title", gin.H{"form": form})
		return
	}
	post, err := a.postService.CreatePost(middleware.GetIdentity(c), form)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		flashNow(c, entity.FlashError, "flash.invalidForm")
		a.renderEditor(c, "new_post.html", "pages.newPost.title", gin.H{"form": form})
	case errors.Is(err, service.ErrForbidden):
		redirectWithFlash(c, entity.FlashError, "flash.sessionExpired", "/login")
	case err != nil:
		logger.Error("create post failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.unexpected", "/")
	default:
		redirectWithFlash(c, entity.FlashSuccess, "flash.postCreated", postURL(post.Id))
	}
}

func (a *BlogController) editPostPage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
		return
	}
	post, err := a.postService.GetPost(id)
	if err != nil {
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
		return
	}
	if !service.CanModify(middleware.GetIdentity(c), post) {
		redirectWithFlash(c, entity.FlashError, "flash.editForbidden", postURL(id))
		return
	}
	form := service.PostForm{
		Title:    post.Title,
		Content:  post.Content,
		Category: post.Category,
		Tags:     strings.Join(post.Tags, ", "),
	}
	a.renderEditor(c, "edit_post.html", "pages.editPost.title", gin.H{"post": post, "form": form})
}

func (a *BlogController) editPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
		return
	}
	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, entity.FlashError, "flash.invalidForm", "/edit/"+c.Param("id"))
		return
	}
	_, err := a.postService.UpdatePost(middleware.GetIdentity(c), id, form)
	switch {
	case errors.Is(err, service.ErrNotFound):
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
	case errors.Is(err, service.ErrForbidden):
		redirectWithFlash(c, entity.FlashError, "flash.editForbidden", postURL(id))
	case errors.Is(err, service.ErrInvalidInput):
		redirectWithFlash(c, entity.FlashError, "flash.invalidForm", "/edit/"+c.Param("id"))
	case err != nil:
		logger.Error("update post failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.unexpected", postURL(id))
	default:
		redirectWithFlash(c, entity.FlashSuccess, "flash.postUpdated", postURL(id))
	}
}

func (a *BlogController) deletePost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
		return
	}
	err := a.postService.DeletePost(middleware.GetIdentity(c), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
	case errors.Is(err, service.ErrForbidden):
		redirectWithFlash(c, entity.FlashError, "flash.deleteForbidden", postURL(id))
	case err != nil:
		logger.Error("delete post failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.unexpected", postURL(id))
	default:
		redirectWithFlash(c, entity.FlashSuccess, "flash.postDeleted", "/")
	}
}

func (a *BlogController) addComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
		return
	}
	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, entity.FlashError, "flash.invalidForm", postURL(id))
		return
	}
	_, err := a.commentService.AddComment(middleware.GetIdentity(c), id, form.Content)
	switch {
	case errors.Is(err, service.ErrNotFound):
		redirectWithFlash(c, entity.FlashError, "flash.postNotFound", "/")
	case errors.Is(err, service.ErrInvalidInput):
		redirectWithFlash(c, entity.FlashError, "flash.invalidForm", postURL(id))
	case err != nil:
		logger.Error("add comment failed:", err)
		redirectWithFlash(c, entity.FlashError, "flash.unexpected", postURL(id))
	default:
		redirectWithFlash(c, entity.FlashSuccess, "flash.commentAdded", postURL(id))
	}
}
