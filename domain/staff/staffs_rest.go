package staff

import (
	"fmt"
	"net/http"

	"venuedesk/bizerror"
	"venuedesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathStaffs = "/v1/vendor-staffs"
)

func RegisterStaffsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathStaffs, middleWares...)
	g.GET("", handleQueryStaffs)
	g.POST("", handleCreateStaff)
	g.GET(":id", handleDetailStaff)
	g.PUT(":id", handleUpdateStaff)
	g.DELETE(":id", handleDeleteStaff)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: fmt.Errorf("invalid id '%s'", c.Param("id"))})
	}
	return id
}

func handleQueryStaffs(c *gin.Context) {
	query := StaffQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := QueryStaffsFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleCreateStaff(c *gin.Context) {
	creation := StaffCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateStaffFunc(creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDetailStaff(c *gin.Context) {
	record, err := DetailStaffFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateStaff(c *gin.Context) {
	id := parseIdParam(c)
	updating := StaffUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateStaffFunc(id, updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteStaff(c *gin.Context) {
	if err := DeleteStaffFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
