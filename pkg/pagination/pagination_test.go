package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var sortable = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
}

func TestFromValuesDefaults(t *testing.T) {
	p := FromValues("", "", "", "", sortable)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
	assert.Equal(t, "created_at DESC", p.OrderClause(sortable))
}

func TestFromValuesClampsAndWhitelists(t *testing.T) {
	p := FromValues("3", "500", "password; DROP TABLE", "ASC", sortable)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 200, p.Skip)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "created_at ASC", p.OrderClause(sortable))

	p = FromValues("-2", "abc", "price", "asc", sortable)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, "price ASC", p.OrderClause(sortable))
}

func TestExtractReadsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&limit=5&sortBy=name&sortOrder=asc", nil)

	p := Extract(c, sortable)

	assert.Equal(t, Params{Page: 2, Limit: 5, Skip: 5, SortBy: "name", SortOrder: "asc"}, p)
	assert.Equal(t, "2:5:name:asc", p.CacheKey())
}

func TestMetadataFrom(t *testing.T) {
	meta := MetadataFrom(21, Params{Page: 2, Limit: 10})

	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(21), meta.Total)
	assert.True(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)

	meta = MetadataFrom(0, Params{Page: 1, Limit: 10})
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
}
