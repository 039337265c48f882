package shared

import (
	"strings"

	"github.com/shopdesk/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductFilterFromQuery 解析商品列表筛选参数
func ProductFilterFromQuery(c *gin.Context) repository.ProductListFilter {
	page, limit := PageQuery(c)
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		keyword = strings.TrimSpace(c.Query("q"))
	}
	if keyword == "" {
		keyword = strings.TrimSpace(c.Query("search"))
	}
	return repository.ProductListFilter{
		Page:       page,
		PageSize:   limit,
		Keyword:    keyword,
		BrandID:    QueryUint(c, "brandId"),
		CategoryID: QueryUint(c, "categoryId"),
		MaterialID: QueryUint(c, "materialId"),
		ColorID:    QueryUint(c, "colorId"),
		SizeID:     QueryUint(c, "sizeId"),
		Status:     strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		MinPrice:   QueryFloat(c, "minPrice"),
		MaxPrice:   QueryFloat(c, "maxPrice"),
		SortBy:     strings.TrimSpace(c.Query("sortBy")),
	}
}

// OrderFilterFromQuery 解析订单列表筛选参数
func OrderFilterFromQuery(c *gin.Context) (repository.OrderListFilter, bool) {
	page, limit := PageQuery(c)
	from, to, ok := QueryDateRange(c, "fromDate", "toDate")
	if !ok {
		return repository.OrderListFilter{}, false
	}
	return repository.OrderListFilter{
		Page:          page,
		PageSize:      limit,
		CustomerID:    QueryUint(c, "customerId"),
		OrderStatus:   strings.ToUpper(strings.TrimSpace(c.Query("orderStatus"))),
		PaymentStatus: strings.ToUpper(strings.TrimSpace(c.Query("paymentStatus"))),
		Code:          strings.TrimSpace(c.Query("code")),
		CreatedFrom:   from,
		CreatedTo:     to,
	}, true
}

// ReturnFilterFromQuery 解析退货列表筛选参数
func ReturnFilterFromQuery(c *gin.Context) (repository.ReturnListFilter, bool) {
	page, limit := PageQuery(c)
	from, to, ok := QueryDateRange(c, "fromDate", "toDate")
	if !ok {
		return repository.ReturnListFilter{}, false
	}
	return repository.ReturnListFilter{
		Page:        page,
		PageSize:    limit,
		Status:      strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		CustomerID:  QueryUint(c, "customerId"),
		CreatedFrom: from,
		CreatedTo:   to,
	}, true
}
