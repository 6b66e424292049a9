package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) statistics(c *gin.Context) {
	if s.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Statistics are disabled",
		})
		return
	}
	c.JSON(http.StatusOK, s.stats.Summary())
}

// usageStats returns the counters of the current month, or of ?month=YYYY-MM
func (s *Server) usageStats(c *gin.Context) {
	if s.usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Usage statistics are disabled",
		})
		return
	}

	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusOK, gin.H{
			"current": s.usage.GetCurrentStats(),
			"months":  s.usage.GetAllMonths(),
		})
		return
	}

	monthly, ok := s.usage.GetMonthlyStats(month)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No statistics for month " + month,
		})
		return
	}
	c.JSON(http.StatusOK, monthly)
}
