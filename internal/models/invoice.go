package models

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus values. Completed is the default entry state; cancelled
// is the only state carrying inventory semantics (entering it credits
// stock back, leaving it re-debits).
type InvoiceStatus string

const (
	StatusCompleted InvoiceStatus = "completed"
	StatusPending   InvoiceStatus = "pending"
	StatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "cash"
	PaymentCreditCard     PaymentMethod = "credit-card"
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentCheque         PaymentMethod = "cheque"
	PaymentBillOfExchange PaymentMethod = "bill-of-exchange"
	PaymentOther          PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentBankTransfer, PaymentCheque, PaymentBillOfExchange, PaymentOther:
		return true
	}
	return false
}

// Invoice is a sales document. InvoiceNumber (INV-YYYY-NNNN) is assigned
// at creation and immutable; the monetary fields are fixed at creation
// time and never recomputed from live catalog data.
type Invoice struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"size:20;not null;uniqueIndex" json:"invoiceNumber"`
	CustomerName  string        `gorm:"not null;index" json:"customerName"`
	CustomerPhone string        `json:"customerPhone,omitempty"`
	CustomerEmail string        `json:"customerEmail,omitempty"`
	CustomerICE   string        `json:"customerICE,omitempty"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      float64       `gorm:"not null" json:"subtotal"`
	Tax           float64       `gorm:"not null;default:0" json:"tax"`
	Discount      float64       `gorm:"not null;default:0" json:"discount"`
	Total         float64       `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"paymentMethod"`
	Status        InvoiceStatus `gorm:"size:12;not null;default:'completed';index" json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// InvoiceItem snapshots product code, name and unit price at commit time
// so historical invoices stay stable when the catalog changes. The
// product reference is weak: the product keeps its own lifecycle.
type InvoiceItem struct {
	ID             uint         `gorm:"primaryKey" json:"-"`
	InvoiceID      snowflake.ID `gorm:"not null;index" json:"-"`
	ProductID      snowflake.ID `gorm:"not null;index" json:"productId"`
	ProductCode    string       `gorm:"not null" json:"productCode"`
	ProductName    string       `gorm:"not null" json:"productName"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	UnitPrice      float64      `gorm:"not null" json:"unitPrice"`
	Remise         float64      `gorm:"not null;default:0" json:"remise"`
	DiscountAmount float64      `gorm:"not null;default:0" json:"discountAmount"`
	Total          float64      `gorm:"not null" json:"total"`
}

// InvoiceCounter is the keyed per-year sequence behind invoice numbers.
// A single atomic row update inside the creation transaction replaces
// the old scan-for-last-number lookup.
type InvoiceCounter struct {
	Year int   `gorm:"primaryKey" json:"year"`
	Seq  int64 `gorm:"not null;default:0" json:"seq"`
}
