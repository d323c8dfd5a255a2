package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PageParams are the raw pagination query parameters with defaults applied.
type PageParams struct {
	Page  int
	Limit int
}

// ParsePageParams reads page/limit from the query string, defaulting to the
// first page of 20. Values below 1 fall back to the defaults.
func ParsePageParams(c *fiber.Ctx) PageParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return PageParams{Page: page, Limit: limit}
}
