package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

// InvoiceService owns the invoice lifecycle: creation with atomic stock
// reconciliation, status transitions with their inventory side effects,
// and the read paths. Every mutation runs in a single transaction so
// invoice and stock state can never diverge.
type InvoiceService struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewInvoiceService(db *gorm.DB, node *snowflake.Node) *InvoiceService {
	return &InvoiceService{db: db, node: node}
}

type CreateInvoiceItemInput struct {
	ProductID      snowflake.ID
	Quantity       int
	Remise         float64
	DiscountAmount float64
}

type CreateInvoiceInput struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	CustomerICE   string
	Items         []CreateInvoiceItemInput
	Tax           float64
	Discount      float64
	TaxRate       *float64
	DiscountRate  *float64
	PaymentMethod models.PaymentMethod
	Notes         string
}

func (in *CreateInvoiceInput) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return &ValidationError{Msg: "customerName is required"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Msg: "invoice requires at least one item"}
	}
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return &ValidationError{Msg: "item productId is required"}
		}
		if it.Quantity < 1 {
			return &ValidationError{Msg: "item quantity must be at least 1"}
		}
		if it.Remise < 0 || it.Remise > 100 {
			return &ValidationError{Msg: "item remise must be between 0 and 100"}
		}
		if it.DiscountAmount < 0 {
			return &ValidationError{Msg: "item discountAmount must not be negative"}
		}
	}
	if in.Tax < 0 || in.Discount < 0 {
		return &ValidationError{Msg: "tax and discount must not be negative"}
	}
	if in.TaxRate != nil && (*in.TaxRate < 0 || *in.TaxRate > 100) {
		return &ValidationError{Msg: "taxRate must be between 0 and 100"}
	}
	if in.DiscountRate != nil && (*in.DiscountRate < 0 || *in.DiscountRate > 100) {
		return &ValidationError{Msg: "discountRate must be between 0 and 100"}
	}
	if in.PaymentMethod != "" && !in.PaymentMethod.Valid() {
		return &ValidationError{Msg: "invalid payment method"}
	}
	return nil
}

// Create validates the requested lines against current stock, snapshots
// product data into the lines, computes the monetary fields, reserves
// the next invoice number and debits stock — all in one transaction.
// A failure on any line rolls back every already-applied change.
func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	pm := in.PaymentMethod
	if pm == "" {
		pm = models.PaymentCash
	}

	var inv *models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		items := make([]models.InvoiceItem, 0, len(in.Items))
		for _, it := range in.Items {
			var p models.Product
			err := lockForUpdate(tx).First(&p, "id = ?", it.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "product", ID: it.ProductID.String()}
			}
			if err != nil {
				return err
			}
			if p.Quantity < it.Quantity {
				return &InsufficientStockError{ProductName: p.Name, Requested: it.Quantity, Available: p.Quantity}
			}
			total := lineTotal(it.Quantity, p.Price, it.Remise, it.DiscountAmount).Round(2)
			if total.IsNegative() {
				return &ValidationError{Msg: "item discount exceeds line total for product " + p.Code}
			}
			subtotal = subtotal.Add(total)
			items = append(items, models.InvoiceItem{
				ProductID:      p.ID,
				ProductCode:    p.Code,
				ProductName:    p.Name,
				Quantity:       it.Quantity,
				UnitPrice:      p.Price,
				Remise:         it.Remise,
				DiscountAmount: it.DiscountAmount,
				Total:          round2(total),
			})
			if err := decrementStock(tx, p.ID, it.Quantity); err != nil {
				return err
			}
		}

		taxAmt, discountAmt := invoiceAdjustments(subtotal, in.Tax, in.Discount, in.TaxRate, in.DiscountRate)
		taxAmt = taxAmt.Round(2)
		discountAmt = discountAmt.Round(2)
		total := subtotal.Add(taxAmt).Sub(discountAmt)
		if total.IsNegative() {
			return &ValidationError{Msg: "discount exceeds invoice total"}
		}

		number, err := nextInvoiceNumber(tx, time.Now().Year())
		if err != nil {
			return err
		}

		inv = &models.Invoice{
			ID:            s.node.Generate(),
			InvoiceNumber: number,
			CustomerName:  strings.TrimSpace(in.CustomerName),
			CustomerPhone: strings.TrimSpace(in.CustomerPhone),
			CustomerEmail: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
			CustomerICE:   strings.TrimSpace(in.CustomerICE),
			Items:         items,
			Subtotal:      round2(subtotal),
			Tax:           round2(taxAmt),
			Discount:      round2(discountAmt),
			Total:         round2(total),
			PaymentMethod: pm,
			Status:        models.StatusCompleted,
			Notes:         strings.TrimSpace(in.Notes),
		}
		return tx.Create(inv).Error
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) Get(ctx context.Context, id snowflake.ID) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Preload("Items").First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "invoice", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *InvoiceService) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Preload("Items").First(&inv, "invoice_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "invoice", ID: number}
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

type ListInvoicesInput struct {
	Status       models.InvoiceStatus
	CustomerName string
	StartDate    *time.Time
	EndDate      *time.Time
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// invoiceSortColumns whitelists client-supplied sort keys.
var invoiceSortColumns = map[string]string{
	"createdAt":     "created_at",
	"invoiceNumber": "invoice_number",
	"customerName":  "customer_name",
	"total":         "total",
	"status":        "status",
}

func (s *InvoiceService) List(ctx context.Context, in ListInvoicesInput) ([]models.Invoice, int64, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, 0, &ValidationError{Msg: "invalid invoice status"}
	}
	page, limit := normalizePage(in.Page, in.Limit)

	q := s.db.WithContext(ctx).Model(&models.Invoice{})
	if in.Status != "" {
		q = q.Where("status = ?", in.Status)
	}
	if name := strings.TrimSpace(in.CustomerName); name != "" {
		q = q.Where("lower(customer_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if in.StartDate != nil {
		q = q.Where("created_at >= ?", *in.StartDate)
	}
	if in.EndDate != nil {
		q = q.Where("created_at <= ?", *in.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := invoiceSortColumns[in.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(in.SortOrder, "asc") {
		dir = "ASC"
	}

	var invs []models.Invoice
	err := q.Preload("Items").
		Order(column + " " + dir).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&invs).Error
	if err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// UpdateStatus applies a status transition and its stock side effect
// atomically. When re-reserving stock fails, the transaction aborts and
// the stored status is untouched.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id snowflake.ID, status models.InvoiceStatus) (*models.Invoice, error) {
	if !status.Valid() {
		return nil, &ValidationError{Msg: "invalid invoice status"}
	}
	var inv models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Items").First(&inv, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "invoice", ID: id.String()}
		}
		if err != nil {
			return err
		}
		switch transitionEffect(inv.Status, status) {
		case stockCredit:
			if err := applyCredit(tx, inv.Items); err != nil {
				return err
			}
		case stockDebit:
			if err := applyDebit(tx, inv.Items); err != nil {
				return err
			}
		}
		inv.Status = status
		return tx.Model(&models.Invoice{}).Where("id = ?", id).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvoiceInput is the exhaustive set of fields an update may
// touch. Monetary fields, items and the invoice number are immutable
// after creation; there is deliberately no raw partial-document merge.
type UpdateInvoiceInput struct {
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	CustomerICE   *string
	PaymentMethod *models.PaymentMethod
	Notes         *string
}

func (s *InvoiceService) Update(ctx context.Context, id snowflake.ID, in UpdateInvoiceInput) (*models.Invoice, error) {
	if in.CustomerName != nil && strings.TrimSpace(*in.CustomerName) == "" {
		return nil, &ValidationError{Msg: "customerName must not be empty"}
	}
	if in.PaymentMethod != nil && !in.PaymentMethod.Valid() {
		return nil, &ValidationError{Msg: "invalid payment method"}
	}
	var inv models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Items").First(&inv, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "invoice", ID: id.String()}
		}
		if err != nil {
			return err
		}
		if in.CustomerName != nil {
			inv.CustomerName = strings.TrimSpace(*in.CustomerName)
		}
		if in.CustomerPhone != nil {
			inv.CustomerPhone = strings.TrimSpace(*in.CustomerPhone)
		}
		if in.CustomerEmail != nil {
			inv.CustomerEmail = strings.ToLower(strings.TrimSpace(*in.CustomerEmail))
		}
		if in.CustomerICE != nil {
			inv.CustomerICE = strings.TrimSpace(*in.CustomerICE)
		}
		if in.PaymentMethod != nil {
			inv.PaymentMethod = *in.PaymentMethod
		}
		if in.Notes != nil {
			inv.Notes = strings.TrimSpace(*in.Notes)
		}
		return tx.Omit("Items").Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Delete removes an invoice and its lines. Unless the invoice was
// already cancelled its stock debit is still live, so the quantities
// are credited back first — a hard delete must not leak inventory.
func (s *InvoiceService) Delete(ctx context.Context, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		err := tx.Preload("Items").First(&inv, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "invoice", ID: id.String()}
		}
		if err != nil {
			return err
		}
		if inv.Status != models.StatusCancelled {
			if err := applyCredit(tx, inv.Items); err != nil {
				return err
			}
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
}

type MonthlySales struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type InvoiceStats struct {
	TotalSales   float64        `json:"totalSales"`
	InvoiceCount int64          `json:"invoiceCount"`
	MonthlySales []MonthlySales `json:"monthlySales"`
	TopProducts  []TopProduct   `json:"topProducts"`
}

// Stats aggregates completed invoices in the optional date range.
func (s *InvoiceService) Stats(ctx context.Context, from, to *time.Time) (*InvoiceStats, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("status = ?", models.StatusCompleted)
		if from != nil {
			q = q.Where("created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to)
		}
		return q
	}

	stats := &InvoiceStats{MonthlySales: []MonthlySales{}, TopProducts: []TopProduct{}}
	if err := base().Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalSales).Error; err != nil {
		return nil, err
	}
	if err := base().Count(&stats.InvoiceCount).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		CreatedAt time.Time
		Total     float64
	}
	if err := base().Select("created_at, total").Scan(&rows).Error; err != nil {
		return nil, err
	}
	byMonth := map[[2]int]*MonthlySales{}
	for _, r := range rows {
		key := [2]int{r.CreatedAt.Year(), int(r.CreatedAt.Month())}
		b, ok := byMonth[key]
		if !ok {
			b = &MonthlySales{Year: key[0], Month: key[1]}
			byMonth[key] = b
		}
		b.Total += r.Total
		b.Count++
	}
	for _, b := range byMonth {
		stats.MonthlySales = append(stats.MonthlySales, *b)
	}
	sort.Slice(stats.MonthlySales, func(i, j int) bool {
		a, b := stats.MonthlySales[i], stats.MonthlySales[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})

	top, err := topProducts(s.db.WithContext(ctx), 10, from, to)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = top
	return stats, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
