package services

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

// lockForUpdate takes a row lock on the selected products so the
// check-then-decrement below stays correct under concurrent requests.
// SQLite has no FOR UPDATE; its single-writer transactions give the
// same guarantee.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// applyDebit re-validates and decrements stock for every line of an
// invoice. Any failure aborts the enclosing transaction, so a partial
// debit is never observable. Products deleted since the invoice was
// written are skipped, matching the credit path.
func applyDebit(tx *gorm.DB, items []models.InvoiceItem) error {
	for _, it := range items {
		var p models.Product
		err := lockForUpdate(tx).First(&p, "id = ?", it.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if p.Quantity < it.Quantity {
			return &InsufficientStockError{ProductName: p.Name, Requested: it.Quantity, Available: p.Quantity}
		}
		if err := decrementStock(tx, p.ID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// applyCredit returns the invoiced quantities to stock. Missing
// products are tolerated: crediting a deleted product is a no-op.
func applyCredit(tx *gorm.DB, items []models.InvoiceItem) error {
	for _, it := range items {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", it.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", it.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

func decrementStock(tx *gorm.DB, id snowflake.ID, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty)).Error
}
