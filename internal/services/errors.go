package services

import "fmt"

// ValidationError reports malformed or missing input. Surfaced to
// clients as a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports an unknown product or invoice.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ConflictError reports a uniqueness violation (duplicate product code)
// or a state conflict (deleting a product still referenced by invoices).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// InsufficientStockError names the product and the quantity still
// available so the caller can show a precise message.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

// SequenceError reports a stored invoice number that does not parse as
// INV-YYYY-NNNN. Defensive: it should not occur under normal operation
// and surfaces as a server error rather than corrupting the counter.
type SequenceError struct {
	InvoiceNumber string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("invoice number %q does not match INV-YYYY-NNNN", e.InvoiceNumber)
}
