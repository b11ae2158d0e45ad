package middleware

import (
	"strconv"

	"bj-service/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		monitoring.HttpRequests.
			WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).
			Inc()
	}
}
