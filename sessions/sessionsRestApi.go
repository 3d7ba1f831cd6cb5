package sessions

import (
	"net/http"

	"venuedesk/bizerror"
	"venuedesk/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathSessions      = "/v1/sessions"
	PathStaffSessions = "/v1/staff-sessions"
	PathOauthSessions = "/v1/oauth-sessions"
	PathSession       = "/v1/session"
)

func RegisterSessionsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSessions, middleWares...)
	g.POST("", handleLogin)

	s := r.Group(PathStaffSessions, middleWares...)
	s.POST("", handleStaffLogin)

	o := r.Group(PathOauthSessions, middleWares...)
	o.POST("", handleOauthLogin)
}

func RegisterSessionRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSession, middleWares...)
	g.GET("", handleSessionInfo)
}

func handleLogin(c *gin.Context) {
	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	sec, err := LoginFunc(login, c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, sec)
}

func handleStaffLogin(c *gin.Context) {
	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	sec, err := StaffLoginFunc(login, c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, sec)
}

func handleOauthLogin(c *gin.Context) {
	login := OauthLoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	sec, err := OauthLoginFunc(login, c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, sec)
}

func handleSessionInfo(c *gin.Context) {
	sec := session.ExtractSessionFromGinContext(c)
	if sec.Token == "" {
		panic(bizerror.ErrUnauthenticated)
	}
	c.JSON(http.StatusOK, sec)
}
