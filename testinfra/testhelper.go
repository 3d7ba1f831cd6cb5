package testinfra

import (
	"net/http"
	"net/http/httptest"

	"venuedesk/authority"
	"venuedesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// ExecuteRequest runs the request through the router and returns the
// response status, body and raw response.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	return resp.StatusCode, w.Body.String(), resp
}

// BuildSession builds a staff session carrying the given permissions.
func BuildSession(uid, vendorId types.ID, perms ...string) *session.Session {
	return &session.Session{
		Token:    "test-token",
		Identity: session.Identity{ID: uid, Name: "test user"},
		Kind:     authority.KindVendorStaff,
		VendorID: vendorId,
		Perms:    authority.Permissions(perms),
	}
}

// BuildOwnerSession builds a vendor owner session, which passes every
// permission check.
func BuildOwnerSession(uid types.ID) *session.Session {
	return &session.Session{
		Token:    "test-token",
		Identity: session.Identity{ID: uid, Name: "test owner"},
		Kind:     authority.KindVendor,
		VendorID: uid,
		Perms:    authority.Catalog(),
	}
}

// SessionInjector injects a fixed session ahead of the handlers under test.
func SessionInjector(sec *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.InjectSessionIntoGinContext(c, sec)
		c.Next()
	}
}
