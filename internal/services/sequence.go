package services

import (
	"fmt"
	"regexp"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

var invoiceNumberRe = regexp.MustCompile(`^INV-(\d{4})-(\d+)$`)

// nextInvoiceNumber reserves the next sequential number for the given
// year. It must run inside the same transaction as the invoice insert:
// the row update locks the counter so two concurrent creations cannot
// allocate the same number.
func nextInvoiceNumber(tx *gorm.DB, year int) (string, error) {
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "year"}},
		DoNothing: true,
	}).Create(&models.InvoiceCounter{Year: year}).Error; err != nil {
		return "", fmt.Errorf("ensure counter for %d: %w", year, err)
	}
	if err := tx.Model(&models.InvoiceCounter{}).
		Where("year = ?", year).
		Update("seq", gorm.Expr("seq + 1")).Error; err != nil {
		return "", fmt.Errorf("increment counter for %d: %w", year, err)
	}
	var ctr models.InvoiceCounter
	if err := tx.First(&ctr, "year = ?", year).Error; err != nil {
		return "", fmt.Errorf("read counter for %d: %w", year, err)
	}
	return FormatInvoiceNumber(year, ctr.Seq), nil
}

// FormatInvoiceNumber renders the external INV-YYYY-NNNN contract. The
// counter is zero-padded to four digits and keeps growing past 9999.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// ParseInvoiceNumber extracts year and sequence from a stored number.
func ParseInvoiceNumber(number string) (year int, seq int64, err error) {
	m := invoiceNumberRe.FindStringSubmatch(number)
	if m == nil {
		return 0, 0, &SequenceError{InvoiceNumber: number}
	}
	year, _ = strconv.Atoi(m[1])
	seq, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, &SequenceError{InvoiceNumber: number}
	}
	return year, seq, nil
}

// SeedInvoiceCounters backfills the per-year counters from invoices
// issued before the counter table existed. Safe to re-run: counters are
// only raised, never lowered.
func SeedInvoiceCounters(db *gorm.DB) error {
	var numbers []string
	if err := db.Model(&models.Invoice{}).Pluck("invoice_number", &numbers).Error; err != nil {
		return err
	}
	maxSeq := map[int]int64{}
	for _, n := range numbers {
		year, seq, err := ParseInvoiceNumber(n)
		if err != nil {
			return err
		}
		if seq > maxSeq[year] {
			maxSeq[year] = seq
		}
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for year, seq := range maxSeq {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "year"}},
				DoNothing: true,
			}).Create(&models.InvoiceCounter{Year: year}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.InvoiceCounter{}).
				Where("year = ? AND seq < ?", year, seq).
				Update("seq", seq).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
