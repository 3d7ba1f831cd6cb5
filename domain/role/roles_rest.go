package role

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
	PathRoles                = "/v1/vendor-roles"
	PathAvailablePermissions = "/v1/vendor-role-permissions"
)

func RegisterRolesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathRoles, middleWares...)
	g.GET("", handleQueryRoles)
	g.POST("", handleCreateRole)
	g.GET(":id", handleDetailRole)
	g.PUT(":id", handleUpdateRole)
	g.DELETE(":id", handleDeleteRole)

	p := r.Group(PathAvailablePermissions, middleWares...)
	p.GET("", handleQueryAvailablePermissions)
}

func parseIdParam(c *gin.Context) types.ID {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: fmt.Errorf("invalid id '%s'", c.Param("id"))})
	}
	return id
}

func handleQueryRoles(c *gin.Context) {
	query := RoleQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := QueryRolesFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleCreateRole(c *gin.Context) {
	creation := RoleCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateRoleFunc(creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDetailRole(c *gin.Context) {
	record, err := DetailRoleFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateRole(c *gin.Context) {
	id := parseIdParam(c)
	updating := RoleUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateRoleFunc(id, updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteRole(c *gin.Context) {
	if err := DeleteRoleFunc(parseIdParam(c), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleQueryAvailablePermissions(c *gin.Context) {
	result, err := QueryAvailablePermissionsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
