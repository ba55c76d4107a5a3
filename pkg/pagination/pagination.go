package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Year parses an optional tax year query parameter; 0 means unfiltered.
func Year(c *gin.Context) int {
	year, _ := strconv.Atoi(c.DefaultQuery("tax_year", "0"))
	if year < 0 {
		return 0
	}
	return year
}

// Quarter parses an optional quarter query parameter; 0 means the whole year.
func Quarter(c *gin.Context) int {
	quarter, _ := strconv.Atoi(c.DefaultQuery("quarter", "0"))
	if quarter < 1 || quarter > 4 {
		return 0
	}
	return quarter
}
