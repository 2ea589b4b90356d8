package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's id set by the auth
// middleware, or 0 when unauthenticated
func getUserIDFromContext(c echo.Context) uint {
	if id, ok := c.Get("userID").(uint); ok {
		return id
	}
	return 0
}

// parseUintParam parses a numeric route parameter
func parseUintParam(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
