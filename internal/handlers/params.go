package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pagination reads page/limit query params with the defaults every list
// endpoint shares.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	return page, limit
}
