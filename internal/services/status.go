package services

import "github.com/idriss-elouiri/Stock-Management-System/internal/models"

type stockEffect int

const (
	stockNone stockEffect = iota
	// stockCredit returns the invoiced quantities to the catalog.
	stockCredit
	// stockDebit re-reserves them; it can fail on insufficient stock.
	stockDebit
)

// transitionEffect maps a status transition to its inventory side
// effect. Only crossing the cancelled boundary moves stock: entering
// cancelled credits every line back, leaving it re-debits. completed
// and pending both hold a live debit, so moving between them is
// stock-neutral.
func transitionEffect(from, to models.InvoiceStatus) stockEffect {
	switch {
	case from == to:
		return stockNone
	case to == models.StatusCancelled:
		return stockCredit
	case from == models.StatusCancelled:
		return stockDebit
	}
	return stockNone
}
