package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count, latency and in-flight requests. Paths are
// labelled by route template so unmatched URLs share one "unmatched" label.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
