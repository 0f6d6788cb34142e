package services

import (
	"context"
	"testing"
	"time"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

func TestTopProducts_RanksByQuantitySold(t *testing.T) {
	db := newTestDB(t)
	node := newTestNode(t)
	products := NewProductService(db, node)
	invoices := NewInvoiceService(db, node)
	reports := NewReportService(db)
	ctx := context.Background()

	a := seedProduct(t, products, "A001", 10, 100)
	b := seedProduct(t, products, "B001", 20, 100)

	if _, err := invoices.Create(ctx, CreateInvoiceInput{
		CustomerName: "Acme",
		Items: []CreateInvoiceItemInput{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 5},
		},
	}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	cancelled, err := invoices.Create(ctx, CreateInvoiceInput{
		CustomerName: "Globex",
		Items:        []CreateInvoiceItemInput{{ProductID: a.ID, Quantity: 50}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := invoices.UpdateStatus(ctx, cancelled.ID, models.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	rows, err := reports.TopProducts(ctx, 10, nil, nil)
	if err != nil {
		t.Fatalf("top products: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ProductCode != "B001" || rows[0].TotalSold != 5 {
		t.Errorf("first row = %+v, want B001 sold 5", rows[0])
	}
	if rows[0].TotalRevenue != 100 {
		t.Errorf("revenue = %v, want 100", rows[0].TotalRevenue)
	}
	// Cancelled invoices do not count.
	if rows[1].ProductCode != "A001" || rows[1].TotalSold != 2 {
		t.Errorf("second row = %+v, want A001 sold 2", rows[1])
	}
	if rows[1].CurrentStock != 98 {
		t.Errorf("currentStock = %d, want 98", rows[1].CurrentStock)
	}
}

func TestLowStock_OrdersAscendingAndRespectsThreshold(t *testing.T) {
	db := newTestDB(t)
	products := NewProductService(db, newTestNode(t))
	reports := NewReportService(db)
	ctx := context.Background()

	seedProduct(t, products, "A001", 10, 0)
	seedProduct(t, products, "B001", 10, 3)
	seedProduct(t, products, "C001", 10, 50)

	rows, err := reports.LowStock(ctx, 5)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Code != "A001" || rows[1].Code != "B001" {
		t.Errorf("order = %s, %s, want A001, B001", rows[0].Code, rows[1].Code)
	}

	if _, err := reports.LowStock(ctx, -1); err == nil {
		t.Error("expected error for negative threshold")
	}
}

func TestSalesSummary_MonthBuckets(t *testing.T) {
	db := newTestDB(t)
	node := newTestNode(t)
	products := NewProductService(db, node)
	invoices := NewInvoiceService(db, node)
	reports := NewReportService(db)
	ctx := context.Background()

	p := seedProduct(t, products, "A001", 50, 100)
	for i := 0; i < 2; i++ {
		if _, err := invoices.Create(ctx, CreateInvoiceInput{
			CustomerName: "Acme",
			Items:        []CreateInvoiceItemInput{{ProductID: p.ID, Quantity: 2}},
		}); err != nil {
			t.Fatalf("create invoice: %v", err)
		}
	}

	out, err := reports.SalesSummary(ctx, SalesSummaryInput{Period: "month"})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if out.InvoiceCount != 2 || out.TotalSales != 200 {
		t.Errorf("count = %d, total = %v, want 2/200", out.InvoiceCount, out.TotalSales)
	}
	if out.AverageInvoice != 100 {
		t.Errorf("averageInvoice = %v, want 100", out.AverageInvoice)
	}
	if out.TotalProductsSold != 4 {
		t.Errorf("totalProductsSold = %d, want 4", out.TotalProductsSold)
	}
	now := time.Now()
	if len(out.SalesByPeriod) != 1 {
		t.Fatalf("buckets = %d, want 1", len(out.SalesByPeriod))
	}
	b := out.SalesByPeriod[0]
	if b.Year != now.Year() || b.Month != int(now.Month()) || b.InvoiceCount != 2 {
		t.Errorf("bucket = %+v", b)
	}

	if _, err := reports.SalesSummary(ctx, SalesSummaryInput{Period: "decade"}); err == nil {
		t.Error("expected error for unknown period")
	}
}

func TestBucketSales_Periods(t *testing.T) {
	mk := func(s string, total float64) struct {
		CreatedAt time.Time
		Total     float64
	} {
		ts, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		return struct {
			CreatedAt time.Time
			Total     float64
		}{ts, total}
	}
	rows := []struct {
		CreatedAt time.Time
		Total     float64
	}{
		mk("2026-01-05", 10),
		mk("2026-01-05", 20),
		mk("2026-01-06", 5),
		mk("2026-02-01", 100),
	}

	days := bucketSales(rows, "day")
	if len(days) != 3 {
		t.Fatalf("day buckets = %d, want 3", len(days))
	}
	if days[0].Day != 5 || days[0].TotalSales != 30 || days[0].InvoiceCount != 2 {
		t.Errorf("first day bucket = %+v", days[0])
	}

	months := bucketSales(rows, "month")
	if len(months) != 2 {
		t.Fatalf("month buckets = %d, want 2", len(months))
	}
	if months[1].Month != 2 || months[1].TotalSales != 100 {
		t.Errorf("february bucket = %+v", months[1])
	}

	weeks := bucketSales(rows, "week")
	// Jan 5 and 6 2026 share ISO week 2; Feb 1 is week 5.
	if len(weeks) != 2 {
		t.Fatalf("week buckets = %d, want 2", len(weeks))
	}
	if weeks[0].Week != 2 || weeks[0].InvoiceCount != 3 {
		t.Errorf("first week bucket = %+v", weeks[0])
	}
}

func TestQuickStats(t *testing.T) {
	db := newTestDB(t)
	node := newTestNode(t)
	products := NewProductService(db, node)
	invoices := NewInvoiceService(db, node)
	reports := NewReportService(db)
	ctx := context.Background()

	a := seedProduct(t, products, "A001", 40, 3)
	seedProduct(t, products, "B001", 10, 50)

	if _, err := invoices.Create(ctx, CreateInvoiceInput{
		CustomerName: "Acme",
		Items:        []CreateInvoiceItemInput{{ProductID: a.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	out, err := reports.QuickStats(ctx)
	if err != nil {
		t.Fatalf("quick stats: %v", err)
	}
	if out.TodayInvoices != 1 || out.TodaySales != 40 {
		t.Errorf("today = %d invoices / %v sales, want 1/40", out.TodayInvoices, out.TodaySales)
	}
	// A001 is down to 2 after the sale, under the fixed threshold of 5.
	if out.LowStockCount != 1 {
		t.Errorf("lowStockCount = %d, want 1", out.LowStockCount)
	}
	if out.TotalInventory != 52 {
		t.Errorf("totalInventory = %d, want 52", out.TotalInventory)
	}
}
