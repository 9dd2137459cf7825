package helpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/eren/driveshare/internal/pkg/helpers"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := helpers.CalculateOffsetLimit(1, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = helpers.CalculateOffsetLimit(3, 25)
	assert.Equal(t, uint64(50), offset)
	assert.Equal(t, 25, limit)

	// Out-of-range inputs fall back to defaults
	offset, limit = helpers.CalculateOffsetLimit(0, 0)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, helpers.DefaultPageSize, limit)

	_, limit = helpers.CalculateOffsetLimit(1, helpers.MaxPageSize+1)
	assert.Equal(t, helpers.DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := helpers.NewPaginationInfo(45, 2, 10)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 5, info.TotalPages)
	assert.Equal(t, 10, info.PageSize)
	assert.Equal(t, int64(45), info.TotalItems)

	// Empty result set still reports a single page for the first request
	info = helpers.NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, info.TotalPages)
	assert.Equal(t, 1, info.CurrentPage)

	// Page beyond the last one is clamped
	info = helpers.NewPaginationInfo(5, 9, 10)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 1, info.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string) (int, int) {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest("GET", "/cars"+query, nil)
		return helpers.ParsePaginationParams(ctx)
	}

	page, size := parse("")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parse("?page=3&size=20")
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, size)

	page, size = parse("?page=abc&size=-5")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	_, size = parse("?size=1000")
	assert.Equal(t, 10, size)
}
