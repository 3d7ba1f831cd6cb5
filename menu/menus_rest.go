package menu

import (
	"net/http"

	"venuedesk/session"

	"github.com/gin-gonic/gin"
)

var PathMenus = "/v1/menus"

var FilterMenuFunc = FilterMenu

func RegisterMenusRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathMenus, middleWares...)
	g.GET("", handleQueryMenus)
}

func handleQueryMenus(c *gin.Context) {
	sec := session.ExtractSessionFromGinContext(c)
	c.JSON(http.StatusOK, FilterMenuFunc(sec))
}
