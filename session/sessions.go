package session

import (
	"strings"

	"venuedesk/bizerror"

	"github.com/gin-gonic/gin"
)

const KeySecCtx = "SecCtx"

func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return &Session{Context: ctx.Request.Context()}
	}
	s0, ok := value.(*Session)
	if !ok || s0.Token == "" {
		return &Session{Context: ctx.Request.Context()}
	}
	s := s0.Clone()
	s.Context = ctx.Request.Context() // trace context
	return &s
}

func InjectSessionIntoGinContext(ctx *gin.Context, secCtx *Session) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

// AuthFilter verifies the bearer token and injects the decoded session.
func AuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			panic(bizerror.ErrUnauthenticated)
		}
		secCtx, err := ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSessionIntoGinContext(ctx, secCtx)
		ctx.Next()
	}
}

// RequireKind rejects principals whose kind label differs from the
// required one. Owners do not pass a vendor_staff gate and vice versa.
func RequireKind(kind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		secCtx := ExtractSessionFromGinContext(ctx)
		if secCtx.Token == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		if secCtx.Kind != kind {
			panic(bizerror.ErrForbidden)
		}
		ctx.Next()
	}
}

// RequirePermission rejects principals whose embedded permission set does
// not contain the required permission. Vendor owners bypass the check.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		secCtx := ExtractSessionFromGinContext(ctx)
		if secCtx.Token == "" {
			panic(bizerror.ErrUnauthenticated)
		}
		if !secCtx.HasPermission(permission) {
			panic(bizerror.ErrForbidden)
		}
		ctx.Next()
	}
}
