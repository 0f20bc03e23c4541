package httpresp

import "github.com/gin-gonic/gin"

// Page writes the paginated list envelope shared by the bookings and users
// endpoints. The collection is keyed by its resource name, so responses read
// {"bookings": [...], "total": n, "page": p, "totalPages": tp}.
func Page(c *gin.Context, key string, data any, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	c.JSON(200, gin.H{
		key:          data,
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}
