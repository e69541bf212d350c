package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/pkg/response"
)

// ReadinessChecker reports whether the initial data load has succeeded.
type ReadinessChecker interface {
	Ready() error
}

// RequireReady answers 503 with the load error until data has been loaded.
// Routes that recover from a failed load (settings, import, reconnect) are
// mounted outside this middleware.
func RequireReady(loader ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := loader.Ready(); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, err.Error()))
			return
		}
		c.Next()
	}
}
