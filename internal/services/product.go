package services

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

// ProductService owns catalog CRUD. Stock movements triggered by the
// invoice lifecycle live in the invoice service; the only direct
// quantity writer here is AdjustQuantity.
type ProductService struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewProductService(db *gorm.DB, node *snowflake.Node) *ProductService {
	return &ProductService{db: db, node: node}
}

type CreateProductInput struct {
	Code          string
	Name          string
	PurchasePrice float64
	Price         float64
	Quantity      int
	Description   string
	Category      string
	MinStockLevel int
}

func (in *CreateProductInput) validate() error {
	if strings.TrimSpace(in.Code) == "" {
		return &ValidationError{Msg: "code is required"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Msg: "name is required"}
	}
	if in.Price < 0 || in.PurchasePrice < 0 {
		return &ValidationError{Msg: "price must not be negative"}
	}
	if in.Quantity < 0 {
		return &ValidationError{Msg: "quantity must not be negative"}
	}
	if in.MinStockLevel < 0 {
		return &ValidationError{Msg: "minStockLevel must not be negative"}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))

	p := &models.Product{
		ID:            s.node.Generate(),
		Code:          code,
		Name:          strings.TrimSpace(in.Name),
		PurchasePrice: in.PurchasePrice,
		Price:         in.Price,
		Quantity:      in.Quantity,
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		MinStockLevel: in.MinStockLevel,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Msg: "product code already exists: " + code}
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id snowflake.ID) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product", ID: code}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type ListProductsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

func (s *ProductService) List(ctx context.Context, in ListProductsInput) ([]models.Product, int64, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	q := s.db.WithContext(ctx).Model(&models.Product{})
	if c := strings.TrimSpace(in.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if search := strings.TrimSpace(in.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(code) LIKE ? OR lower(name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []models.Product
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAll returns the whole catalog without pagination, for the invoice
// form's product picker.
func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProductInput is the explicit update schema; absent pointers
// leave the stored value untouched. Quantity is deliberately excluded —
// stock moves only through AdjustQuantity or the invoice lifecycle.
type UpdateProductInput struct {
	Code          *string
	Name          *string
	PurchasePrice *float64
	Price         *float64
	Description   *string
	Category      *string
	MinStockLevel *int
}

func (s *ProductService) Update(ctx context.Context, id snowflake.ID, in UpdateProductInput) (*models.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, &ValidationError{Msg: "name must not be empty"}
	}
	if in.Code != nil && strings.TrimSpace(*in.Code) == "" {
		return nil, &ValidationError{Msg: "code must not be empty"}
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, &ValidationError{Msg: "price must not be negative"}
	}
	if in.PurchasePrice != nil && *in.PurchasePrice < 0 {
		return nil, &ValidationError{Msg: "purchasePrice must not be negative"}
	}
	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		return nil, &ValidationError{Msg: "minStockLevel must not be negative"}
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product", ID: id.String()}
		}
		if err != nil {
			return err
		}
		if in.Code != nil {
			code := strings.ToUpper(strings.TrimSpace(*in.Code))
			if code != p.Code {
				var count int64
				if err := tx.Model(&models.Product{}).
					Where("code = ? AND id <> ?", code, id).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return &ConflictError{Msg: "product code already exists: " + code}
				}
				p.Code = code
			}
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.PurchasePrice != nil {
			p.PurchasePrice = *in.PurchasePrice
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Category != nil {
			p.Category = strings.TrimSpace(*in.Category)
		}
		if in.MinStockLevel != nil {
			p.MinStockLevel = *in.MinStockLevel
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete refuses to remove a product still referenced by invoice lines:
// historical invoices must keep resolving their weak references.
func (s *ProductService) Delete(ctx context.Context, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		err := tx.First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product", ID: id.String()}
		}
		if err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&models.InvoiceItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return &ConflictError{Msg: "product is referenced by existing invoices: " + p.Code}
		}
		return tx.Delete(&p).Error
	})
}

type QuantityOp string

const (
	QuantityAdd      QuantityOp = "add"
	QuantitySubtract QuantityOp = "subtract"
	QuantitySet      QuantityOp = "set"
)

// AdjustQuantity applies a manual stock correction. Subtracting below
// zero fails with the same insufficient-stock error the invoice
// workflow uses.
func (s *ProductService) AdjustQuantity(ctx context.Context, id snowflake.ID, quantity int, op QuantityOp) (*models.Product, error) {
	if op == "" {
		op = QuantitySet
	}
	switch op {
	case QuantityAdd, QuantitySubtract, QuantitySet:
	default:
		return nil, &ValidationError{Msg: "operation must be add, subtract or set"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Msg: "quantity must not be negative"}
	}

	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product", ID: id.String()}
		}
		if err != nil {
			return err
		}
		switch op {
		case QuantityAdd:
			p.Quantity += quantity
		case QuantitySubtract:
			if p.Quantity < quantity {
				return &InsufficientStockError{ProductName: p.Name, Requested: quantity, Available: p.Quantity}
			}
			p.Quantity -= quantity
		case QuantitySet:
			p.Quantity = quantity
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
