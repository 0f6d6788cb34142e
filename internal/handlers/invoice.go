package handlers

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/idriss-elouiri/Stock-Management-System/internal/httpx"
	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
	"github.com/idriss-elouiri/Stock-Management-System/internal/services"
)

type InvoiceHandler struct {
	svc *services.InvoiceService
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

type invoiceItemRequest struct {
	ProductID      snowflake.ID `json:"productId"`
	Quantity       int          `json:"quantity"`
	Remise         float64      `json:"remise"`
	DiscountAmount float64      `json:"discountAmount"`
}

type createInvoiceRequest struct {
	CustomerName  string               `json:"customerName"`
	CustomerPhone string               `json:"customerPhone"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerICE   string               `json:"customerICE"`
	Items         []invoiceItemRequest `json:"items"`
	Tax           float64              `json:"tax"`
	Discount      float64              `json:"discount"`
	TaxRate       *float64             `json:"taxRate"`
	DiscountRate  *float64             `json:"discountRate"`
	PaymentMethod string               `json:"paymentMethod"`
	Notes         string               `json:"notes"`
}

// Create: POST /api/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "invalid request body")
		return
	}
	items := make([]services.CreateInvoiceItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.CreateInvoiceItemInput{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			Remise:         it.Remise,
			DiscountAmount: it.DiscountAmount,
		})
	}
	inv, err := h.svc.Create(c.Request.Context(), services.CreateInvoiceInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CustomerICE:   req.CustomerICE,
		Items:         items,
		Tax:           req.Tax,
		Discount:      req.Discount,
		TaxRate:       req.TaxRate,
		DiscountRate:  req.DiscountRate,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.Created(c, "invoice created", inv)
}

// List: GET /api/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	invoices, total, err := h.svc.List(c.Request.Context(), services.ListInvoicesInput{
		Status:       models.InvoiceStatus(c.Query("status")),
		CustomerName: c.Query("customerName"),
		StartDate:    from,
		EndDate:      to,
		SortBy:       c.DefaultQuery("sortBy", "createdAt"),
		SortOrder:    c.DefaultQuery("sortOrder", "desc"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.Paginated(c, invoices, httpx.InvoicePagination(page, limit, total))
}

// Get: GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, inv)
}

// GetByNumber: GET /api/invoices/number/:invoiceNumber
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	inv, err := h.svc.GetByNumber(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, inv)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus: PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "invalid request body")
		return
	}
	inv, err := h.svc.UpdateStatus(c.Request.Context(), id, models.InvoiceStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OKWithMessage(c, "invoice status updated", inv)
}

type updateInvoiceRequest struct {
	CustomerName  *string `json:"customerName"`
	CustomerPhone *string `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail"`
	CustomerICE   *string `json:"customerICE"`
	PaymentMethod *string `json:"paymentMethod"`
	Notes         *string `json:"notes"`
}

// Update: PUT /api/invoices/:id — customer and payment details only;
// items and monetary fields are immutable once issued.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "invalid request body")
		return
	}
	var pm *models.PaymentMethod
	if req.PaymentMethod != nil {
		m := models.PaymentMethod(*req.PaymentMethod)
		pm = &m
	}
	inv, err := h.svc.Update(c.Request.Context(), id, services.UpdateInvoiceInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CustomerICE:   req.CustomerICE,
		PaymentMethod: pm,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OKWithMessage(c, "invoice updated", inv)
}

// Delete: DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	httpx.Message(c, "invoice deleted")
}

// Stats: GET /api/invoices/stats
func (h *InvoiceHandler) Stats(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, stats)
}
