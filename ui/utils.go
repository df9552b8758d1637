package ui

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"chocobox/internal/errors"
)

// clampedCount reads a slider value, falling back to def and clamping to [1, max]
func clampedCount(c *gin.Context, key string, def, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidArgument(key + " must be an integer")
	}
	if v < 1 {
		return 1, nil
	}
	if v > max {
		return max, nil
	}
	return v, nil
}

// seedParam reads an optional replay seed, falling back to def
func seedParam(c *gin.Context, def uint64) (uint64, error) {
	raw := strings.TrimSpace(c.Query("seed"))
	if raw == "" {
		return def, nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.InvalidArgument("seed must be an unsigned integer")
	}
	return seed, nil
}

func errorBody(err error) gin.H {
	return gin.H{"error": err.Error(), "code": errors.GetCode(err)}
}
