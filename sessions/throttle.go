package sessions

import (
	"time"

	"venuedesk/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var (
	loginRateLimit = rate.Every(time.Second)
	loginRateBurst = 10

	loginLimiters = cache.New(10*time.Minute, 5*time.Minute)
)

// LoginThrottleFilter limits login attempts per client address.
func LoginThrottleFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		var limiter *rate.Limiter
		if cached, found := loginLimiters.Get(key); found {
			limiter = cached.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(loginRateLimit, loginRateBurst)
			loginLimiters.SetDefault(key, limiter)
		}
		if !limiter.Allow() {
			panic(bizerror.ErrTooManyRequests)
		}
		c.Next()
	}
}
