package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/idriss-elouiri/Stock-Management-System/internal/httpx"
	"github.com/idriss-elouiri/Stock-Management-System/internal/services"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// TopProducts: GET /api/reports/top-products
func (h *ReportHandler) TopProducts(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 10)
	rows, err := h.svc.TopProducts(c.Request.Context(), limit, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true, "data": rows, "total": len(rows)})
}

// LowStock: GET /api/reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	threshold := intQuery(c, "threshold", 5)
	products, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"success": true, "data": products, "total": len(products), "threshold": threshold})
}

// SalesSummary: GET /api/reports/sales-summary
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	summary, err := h.svc.SalesSummary(c.Request.Context(), services.SalesSummaryInput{
		Period:    c.DefaultQuery("period", "month"),
		StartDate: from,
		EndDate:   to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, summary)
}

// QuickStats: GET /api/reports/quick-stats
func (h *ReportHandler) QuickStats(c *gin.Context) {
	stats, err := h.svc.QuickStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, stats)
}
