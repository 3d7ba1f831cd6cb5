package sessions_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"venuedesk/bizerror"
	"venuedesk/sessions"
	"venuedesk/testinfra"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestLoginThrottleFilter(t *testing.T) {
	RegisterTestingT(t)

	router := gin.New()
	router.Use(bizerror.ErrorHandling(), sessions.LoginThrottleFilter())
	router.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	attempt := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		status, _, _ := testinfra.ExecuteRequest(req, router)
		return status
	}

	t.Run("should throttle one client address after its burst", func(t *testing.T) {
		limited := false
		for i := 0; i < 30; i++ {
			if attempt("10.1.1.1:5000") == http.StatusTooManyRequests {
				limited = true
				break
			}
		}
		Expect(limited).To(BeTrue())

		// other clients keep their own bucket
		Expect(attempt("10.1.1.2:5000")).To(Equal(http.StatusNoContent))
	})
}
