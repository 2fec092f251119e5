package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetgrid/booking-api/internal/service"
)

// Metrics records per-route request counts and latencies. Unmatched
// requests fall back to the raw path so 404 traffic is still visible.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
