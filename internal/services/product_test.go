package services

import (
	"context"
	"errors"
	"testing"
)

func TestCreateProduct_NormalizesCodeAndRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	node := newTestNode(t)
	products := NewProductService(db, node)
	ctx := context.Background()

	p, err := products.Create(ctx, CreateProductInput{
		Code: " ab-001 ", Name: "Widget", Price: 9.5, Quantity: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Code != "AB-001" {
		t.Errorf("code = %s, want AB-001", p.Code)
	}

	_, err = products.Create(ctx, CreateProductInput{Code: "ab-001", Name: "Other", Price: 1})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db, newTestNode(t))
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateProductInput
	}{
		{"missing code", CreateProductInput{Name: "Widget", Price: 1}},
		{"missing name", CreateProductInput{Code: "A1", Price: 1}},
		{"negative price", CreateProductInput{Code: "A1", Name: "Widget", Price: -1}},
		{"negative quantity", CreateProductInput{Code: "A1", Name: "Widget", Price: 1, Quantity: -1}},
	}
	for _, tc := range cases {
		_, err := products.Create(ctx, tc.in)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestUpdateProduct_PartialAndCodeConflict(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db, newTestNode(t))
	ctx := context.Background()

	a := seedProduct(t, products, "A001", 10, 5)
	seedProduct(t, products, "B001", 20, 5)

	price := 12.5
	got, err := products.Update(ctx, a.ID, UpdateProductInput{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Price != 12.5 || got.Name != a.Name || got.Quantity != 5 {
		t.Errorf("partial update changed unexpected fields: %+v", got)
	}

	taken := "b001"
	_, err = products.Update(ctx, a.ID, UpdateProductInput{Code: &taken})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for taken code, got %v", err)
	}
}

func TestAdjustQuantity_Operations(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db, newTestNode(t))
	ctx := context.Background()

	p := seedProduct(t, products, "A001", 10, 5)

	got, err := products.AdjustQuantity(ctx, p.ID, 3, QuantityAdd)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.Quantity != 8 {
		t.Errorf("after add = %d, want 8", got.Quantity)
	}

	got, err = products.AdjustQuantity(ctx, p.ID, 2, QuantitySubtract)
	if err != nil {
		t.Fatalf("subtract: %v", err)
	}
	if got.Quantity != 6 {
		t.Errorf("after subtract = %d, want 6", got.Quantity)
	}

	_, err = products.AdjustQuantity(ctx, p.ID, 100, QuantitySubtract)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	got, err = products.AdjustQuantity(ctx, p.ID, 42, QuantitySet)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if got.Quantity != 42 {
		t.Errorf("after set = %d, want 42", got.Quantity)
	}

	if _, err := products.AdjustQuantity(ctx, p.ID, 1, "divide"); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestListProducts_SearchAndPagination(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db, newTestNode(t))
	ctx := context.Background()

	for _, c := range []struct {
		code, name, category string
	}{
		{"A001", "Blue Widget", "widgets"},
		{"A002", "Red Widget", "widgets"},
		{"B001", "Gadget", "gadgets"},
	} {
		if _, err := products.Create(ctx, CreateProductInput{
			Code: c.code, Name: c.name, Price: 1, Category: c.category,
		}); err != nil {
			t.Fatalf("create %s: %v", c.code, err)
		}
	}

	got, total, err := products.List(ctx, ListProductsInput{Search: "widget"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("search total = %d, rows = %d, want 2/2", total, len(got))
	}

	got, total, err = products.List(ctx, ListProductsInput{Category: "gadgets"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 1 || got[0].Code != "B001" {
		t.Errorf("category filter got %+v", got)
	}

	_, total, err = products.List(ctx, ListProductsInput{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	all, err := products.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("list all = %d rows, want 3", len(all))
	}
}

func TestDeleteProduct_RefusedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	node := newTestNode(t)
	products := NewProductService(db, node)
	invoices := NewInvoiceService(db, node)
	ctx := context.Background()

	p := seedProduct(t, products, "A001", 10, 5)
	inv, err := invoices.Create(ctx, CreateInvoiceInput{
		CustomerName: "Acme",
		Items:        []CreateInvoiceItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	err = products.Delete(ctx, p.ID)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// Once the invoice is gone the product can be deleted.
	if err := invoices.Delete(ctx, inv.ID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	_, err = products.Get(ctx, p.ID)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}
