package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/auditor/logging"
	"github.com/seo-optimizer/auditor/metrics"
)

// StatsMiddleware tracks unique visitors and records Prometheus HTTP metrics.
// Requests are labelled by route pattern so path parameters stay out of the
// label set.
func StatsMiddleware(stats *logging.Statistics, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if stats != nil {
			stats.TrackVisitor(c.ClientIP())
		}
		if m != nil {
			m.HTTPRequestsActive.Inc()
			defer m.HTTPRequestsActive.Dec()
		}

		c.Next()

		if m == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
