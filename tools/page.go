package tools

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPage 从 query 中读取 page / page_size，可变参数依次是 defaultPage, defaultPageSize, maxPageSize
func GetPage(c *gin.Context, defaults ...uint) (page, pageSize int) {
	defaultPage, defaultPageSize, maxPageSize := 1, 10, 100
	if len(defaults) > 0 && defaults[0] <= math.MaxInt {
		defaultPage = int(defaults[0])
	}
	if len(defaults) > 1 && defaults[1] <= math.MaxInt {
		defaultPageSize = int(defaults[1])
	}
	if len(defaults) > 2 && defaults[2] <= math.MaxInt {
		maxPageSize = int(defaults[2])
	}

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	pageSize, err = strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	} else if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Offset 页码转偏移量
func Offset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}
