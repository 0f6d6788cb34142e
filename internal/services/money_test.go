package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

func TestLineTotal(t *testing.T) {
	cases := []struct {
		name           string
		quantity       int
		unitPrice      float64
		remise         float64
		discountAmount float64
		want           float64
	}{
		{"plain", 3, 10, 0, 0, 30},
		{"remise only", 2, 100, 10, 0, 180},
		{"discount only", 2, 100, 0, 15, 185},
		{"remise then discount", 2, 100, 10, 5, 175},
		{"full remise", 1, 50, 100, 0, 0},
		{"fractional price", 3, 19.99, 0, 0, 59.97},
	}
	for _, tc := range cases {
		got := round2(lineTotal(tc.quantity, tc.unitPrice, tc.remise, tc.discountAmount))
		if got != tc.want {
			t.Errorf("%s: lineTotal = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLineTotal_NoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style inputs must not leak binary float noise.
	got := round2(lineTotal(3, 0.1, 0, 0))
	if got != 0.3 {
		t.Errorf("lineTotal = %v, want 0.3", got)
	}
}

func TestInvoiceAdjustments(t *testing.T) {
	subtotal := decimal.NewFromInt(200)

	// Absolute amounts pass through.
	tax, discount := invoiceAdjustments(subtotal, 15, 10, nil, nil)
	if round2(tax) != 15 || round2(discount) != 10 {
		t.Errorf("absolute: tax = %v, discount = %v", round2(tax), round2(discount))
	}

	// Rates override: discount first, tax on the discounted amount.
	taxRate, discountRate := 20.0, 10.0
	tax, discount = invoiceAdjustments(subtotal, 15, 10, &taxRate, &discountRate)
	if round2(discount) != 20 {
		t.Errorf("rate discount = %v, want 20", round2(discount))
	}
	if round2(tax) != 36 {
		t.Errorf("rate tax = %v, want 36 (20%% of 180)", round2(tax))
	}

	// A lone tax rate applies to the subtotal net of the absolute discount.
	tax, discount = invoiceAdjustments(subtotal, 0, 50, &taxRate, nil)
	if round2(discount) != 50 || round2(tax) != 30 {
		t.Errorf("mixed: tax = %v, discount = %v, want 30/50", round2(tax), round2(discount))
	}
}

func TestTransitionEffect(t *testing.T) {
	cases := []struct {
		from, to models.InvoiceStatus
		want     stockEffect
	}{
		{models.StatusCompleted, models.StatusCompleted, stockNone},
		{models.StatusCompleted, models.StatusPending, stockNone},
		{models.StatusPending, models.StatusCompleted, stockNone},
		{models.StatusCompleted, models.StatusCancelled, stockCredit},
		{models.StatusPending, models.StatusCancelled, stockCredit},
		{models.StatusCancelled, models.StatusCompleted, stockDebit},
		{models.StatusCancelled, models.StatusPending, stockDebit},
		{models.StatusCancelled, models.StatusCancelled, stockNone},
	}
	for _, tc := range cases {
		if got := transitionEffect(tc.from, tc.to); got != tc.want {
			t.Errorf("transitionEffect(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
