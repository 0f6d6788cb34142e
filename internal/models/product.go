package models

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a catalog entry. Quantity is the available stock and must
// never go negative; the invoice workflow is the only writer allowed to
// decrement it.
type Product struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"size:40;not null;uniqueIndex" json:"code"`
	Name          string       `gorm:"not null;index" json:"name"`
	PurchasePrice float64      `json:"purchasePrice"`
	Price         float64      `gorm:"not null" json:"price"`
	Quantity      int          `gorm:"not null;default:0" json:"quantity"`
	Description   string       `json:"description,omitempty"`
	Category      string       `gorm:"index" json:"category,omitempty"`
	MinStockLevel int          `gorm:"not null;default:0" json:"minStockLevel"`
	CreatedAt     time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
