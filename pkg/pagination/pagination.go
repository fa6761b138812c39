package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// Params represents pagination and sorting query parameters.
type Params struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string
}

// Metadata is returned alongside paged lists.
type Metadata struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Extract reads pagination parameters from the request query string.
// sortable maps public sort keys to column names; unknown keys fall back to createdAt.
func Extract(c *gin.Context, sortable map[string]string) Params {
	return FromValues(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"), sortable)
}

// FromValues normalizes raw query values into Params.
func FromValues(pageRaw, limitRaw, sortByRaw, sortOrderRaw string, sortable map[string]string) Params {
	page := parsePositiveInt(pageRaw, DefaultPage)
	limit := parsePositiveInt(limitRaw, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := DefaultSortBy
	if _, ok := sortable[strings.TrimSpace(sortByRaw)]; ok {
		sortBy = strings.TrimSpace(sortByRaw)
	}

	sortOrder := DefaultSortOrder
	if strings.EqualFold(strings.TrimSpace(sortOrderRaw), "asc") {
		sortOrder = "asc"
	}

	return Params{
		Page:      page,
		Limit:     limit,
		Skip:      (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// OrderClause renders a safe ORDER BY expression using the sortable whitelist.
func (p Params) OrderClause(sortable map[string]string) string {
	column, ok := sortable[p.SortBy]
	if !ok {
		column = "created_at"
	}
	if p.SortOrder == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

// CacheKey identifies the page for caching purposes.
func (p Params) CacheKey() string {
	return strconv.Itoa(p.Page) + ":" + strconv.Itoa(p.Limit) + ":" + p.SortBy + ":" + p.SortOrder
}

// MetadataFrom builds response metadata given totals.
func MetadataFrom(total int64, params Params) Metadata {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return Metadata{
		Page:        params.Page,
		Limit:       params.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
	}
}

func parsePositiveInt(value string, fallback int) int {
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}
