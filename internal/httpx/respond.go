// Package httpx writes the JSON response envelope shared by every
// endpoint: {success, data?, message?, pagination?}. The key names and
// the per-resource total fields are an external contract consumed by
// the frontend tables.
package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	CurrentPage   int    `json:"currentPage"`
	TotalPages    int    `json:"totalPages"`
	TotalInvoices *int64 `json:"totalInvoices,omitempty"`
	TotalProducts *int64 `json:"totalProducts,omitempty"`
	HasNext       bool   `json:"hasNext"`
	HasPrev       bool   `json:"hasPrev"`
}

func newPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// InvoicePagination labels the total as totalInvoices.
func InvoicePagination(page, limit int, total int64) Pagination {
	p := newPagination(page, limit, total)
	p.TotalInvoices = &total
	return p
}

// ProductPagination labels the total as totalProducts.
func ProductPagination(page, limit int, total int64) Pagination {
	p := newPagination(page, limit, total)
	p.TotalProducts = &total
	return p
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func OKWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func Paginated(c *gin.Context, data any, p Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
