package controller

import (
	"github.com/techinsight/blog/web/service"

	"github.com/gin-gonic/gin"
)

// APIController serves the JSON endpoints used by the listing page.
type APIController struct {
	BaseController

	listingService service.ListingService
}

func NewAPIController(g *gin.RouterGroup) *APIController {
	a := &APIController{}
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/api")
	g.Use(a.requireUser())

	g.GET("/posts/trending", a.trending)
	g.GET("/search", a.search)
}

// trending returns the trending posts with their views and reading time.
func (a *APIController) trending(c *gin.Context) {
	cards, err := a.listingService.Trending(service.APITrendingLimit)
	jsonObj(c, cards, err)
}

// search returns the live search results for the q parameter.
func (a *APIController) search(c *gin.Context) {
	results, err := a.listingService.Search(c.Query("q"))
	jsonObj(c, results, err)
}
