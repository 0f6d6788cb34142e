package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/idriss-elouiri/Stock-Management-System/internal/httpx"
	"github.com/idriss-elouiri/Stock-Management-System/internal/services"
)

type ProductHandler struct {
	svc *services.ProductService
}

func NewProductHandler(svc *services.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type createProductRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	PurchasePrice float64 `json:"purchasePrice"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	MinStockLevel int     `json:"minStockLevel"`
}

// Create: POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "invalid request body")
		return
	}
	p, err := h.svc.Create(c.Request.Context(), services.CreateProductInput{
		Code:          req.Code,
		Name:          req.Name,
		PurchasePrice: req.PurchasePrice,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Description:   req.Description,
		Category:      req.Category,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.Created(c, "product created", p)
}

// List: GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	products, total, err := h.svc.List(c.Request.Context(), services.ListProductsInput{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.Paginated(c, products, httpx.ProductPagination(page, limit, total))
}

// ListAll: GET /api/products/all — unpaginated catalog for pickers.
func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, products)
}

// Get: GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, p)
}

// GetByCode: GET /api/products/code/:code
func (h *ProductHandler) GetByCode(c *gin.Context) {
	p, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OK(c, p)
}

type updateProductRequest struct {
	Code          *string  `json:"code"`
	Name          *string  `json:"name"`
	PurchasePrice *float64 `json:"purchasePrice"`
	Price         *float64 `json:"price"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	MinStockLevel *int     `json:"minStockLevel"`
}

// Update: PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "invalid request body")
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, services.UpdateProductInput{
		Code:          req.Code,
		Name:          req.Name,
		PurchasePrice: req.PurchasePrice,
		Price:         req.Price,
		Description:   req.Description,
		Category:      req.Category,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OKWithMessage(c, "product updated", p)
}

// Delete: DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	httpx.Message(c, "product deleted")
}

type adjustQuantityRequest struct {
	Quantity  int    `json:"quantity"`
	Operation string `json:"operation"`
}

// AdjustQuantity: PATCH /api/products/:id/quantity
func (h *ProductHandler) AdjustQuantity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, 400, "invalid request body")
		return
	}
	p, err := h.svc.AdjustQuantity(c.Request.Context(), id, req.Quantity, services.QuantityOp(req.Operation))
	if err != nil {
		respondError(c, err)
		return
	}
	httpx.OKWithMessage(c, "quantity updated", p)
}

// intQuery reads a positive integer query parameter, falling back to
// the default on anything unparsable.
func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
