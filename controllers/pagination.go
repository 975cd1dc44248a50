package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseSkipLimit extracts skip/limit query parameters with sane bounds.
func parseSkipLimit(ctx *gin.Context) (int, int) {
	const maxLimit = 100

	skip := 0
	limit := maxLimit

	if s, err := strconv.Atoi(ctx.DefaultQuery("skip", "0")); err == nil && s >= 0 {
		skip = s
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "100")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	return skip, limit
}
