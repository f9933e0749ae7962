package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/api/middleware"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// listOptions reads the pagination query parameters shared by every
// collection read. Malformed numbers fall back to the zero value, which the
// repositories treat as "no limit".
func listOptions(c echo.Context) ports.ListOptions {
	opts := ports.ListOptions{Sort: c.QueryParam("sort")}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		opts.Limit = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("offset"), 10, 64); err == nil && v > 0 {
		opts.Offset = v
	}
	return opts
}

// accessorRole is the redaction role of the caller.
func accessorRole(c echo.Context) string {
	return middleware.Identity(c).Role
}
