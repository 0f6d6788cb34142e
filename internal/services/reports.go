package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

// ReportService is read-only: it aggregates persisted invoices and
// products and never mutates either.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type TopProduct struct {
	ProductID    snowflake.ID `json:"productId"`
	ProductCode  string       `json:"productCode"`
	ProductName  string       `json:"productName"`
	TotalSold    int          `json:"totalSold"`
	TotalRevenue float64      `json:"totalRevenue"`
	CurrentStock int          `json:"currentStock"`
	Price        float64      `json:"price"`
}

// topProducts ranks products by quantity sold across completed
// invoices, then enriches each row with the product's current stock and
// price. Sold-out or since-deleted products keep zero values there.
func topProducts(db *gorm.DB, limit int, from, to *time.Time) ([]TopProduct, error) {
	q := db.Table("invoice_items").
		Select("invoice_items.product_id AS product_id, " +
			"MIN(invoice_items.product_code) AS product_code, " +
			"MIN(invoice_items.product_name) AS product_name, " +
			"SUM(invoice_items.quantity) AS total_sold, " +
			"SUM(invoice_items.quantity * invoice_items.unit_price) AS total_revenue").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.status = ?", models.StatusCompleted)
	if from != nil {
		q = q.Where("invoices.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("invoices.created_at <= ?", *to)
	}

	var rows []TopProduct
	if err := q.Group("invoice_items.product_id").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []TopProduct{}, nil
	}

	ids := make([]snowflake.ID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ProductID)
	}
	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for i := range rows {
		if p, ok := byID[rows[i].ProductID]; ok {
			rows[i].CurrentStock = p.Quantity
			rows[i].Price = p.Price
		}
	}
	return rows, nil
}

func (s *ReportService) TopProducts(ctx context.Context, limit int, from, to *time.Time) ([]TopProduct, error) {
	if limit < 1 {
		limit = 10
	}
	return topProducts(s.db.WithContext(ctx), limit, from, to)
}

// LowStock lists products at or under the threshold, lowest first.
func (s *ReportService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold < 0 {
		return nil, &ValidationError{Msg: "threshold must not be negative"}
	}
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

type SalesBucket struct {
	Year         int     `json:"year"`
	Month        int     `json:"month,omitempty"`
	Week         int     `json:"week,omitempty"`
	Day          int     `json:"day,omitempty"`
	TotalSales   float64 `json:"totalSales"`
	InvoiceCount int     `json:"invoiceCount"`
}

type SalesSummary struct {
	TotalSales        float64       `json:"totalSales"`
	InvoiceCount      int64         `json:"invoiceCount"`
	AverageInvoice    float64       `json:"averageInvoice"`
	TotalProductsSold int           `json:"totalProductsSold"`
	SalesByPeriod     []SalesBucket `json:"salesByPeriod"`
	Period            string        `json:"period"`
}

// SalesSummaryInput defaults to the last 30 days when no range is
// given, matching the historical behavior of the reports screen.
type SalesSummaryInput struct {
	Period    string // day, week or month (default month)
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *ReportService) SalesSummary(ctx context.Context, in SalesSummaryInput) (*SalesSummary, error) {
	period := in.Period
	switch period {
	case "":
		period = "month"
	case "day", "week", "month":
	default:
		return nil, &ValidationError{Msg: "period must be day, week or month"}
	}

	from, to := in.StartDate, in.EndDate
	if from == nil && to == nil {
		t := time.Now().AddDate(0, 0, -30)
		from = &t
	}

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("status = ?", models.StatusCompleted)
		if from != nil {
			q = q.Where("created_at >= ?", *from)
		}
		if to != nil {
			q = q.Where("created_at <= ?", *to)
		}
		return q
	}

	out := &SalesSummary{Period: period, SalesByPeriod: []SalesBucket{}}
	if err := base().Select("COALESCE(SUM(total), 0)").Scan(&out.TotalSales).Error; err != nil {
		return nil, err
	}
	if err := base().Count(&out.InvoiceCount).Error; err != nil {
		return nil, err
	}
	if out.InvoiceCount > 0 {
		out.AverageInvoice = math.Round(out.TotalSales / float64(out.InvoiceCount))
	}

	var sold *int
	err := s.db.WithContext(ctx).Table("invoice_items").
		Select("SUM(invoice_items.quantity)").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.status = ?", models.StatusCompleted).
		Scopes(func(q *gorm.DB) *gorm.DB {
			if from != nil {
				q = q.Where("invoices.created_at >= ?", *from)
			}
			if to != nil {
				q = q.Where("invoices.created_at <= ?", *to)
			}
			return q
		}).
		Scan(&sold).Error
	if err != nil {
		return nil, err
	}
	if sold != nil {
		out.TotalProductsSold = *sold
	}

	var rows []struct {
		CreatedAt time.Time
		Total     float64
	}
	if err := base().Select("created_at, total").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out.SalesByPeriod = bucketSales(rows, period)
	return out, nil
}

// bucketSales groups invoice rows into calendar buckets. Grouping runs
// in Go rather than SQL so day/week/month semantics stay identical on
// sqlite and postgres.
func bucketSales(rows []struct {
	CreatedAt time.Time
	Total     float64
}, period string) []SalesBucket {
	type key struct{ a, b, c int }
	buckets := map[key]*SalesBucket{}
	for _, r := range rows {
		var k key
		var b SalesBucket
		switch period {
		case "day":
			k = key{r.CreatedAt.Year(), int(r.CreatedAt.Month()), r.CreatedAt.Day()}
			b = SalesBucket{Year: k.a, Month: k.b, Day: k.c}
		case "week":
			y, w := r.CreatedAt.ISOWeek()
			k = key{y, w, 0}
			b = SalesBucket{Year: y, Week: w}
		default:
			k = key{r.CreatedAt.Year(), int(r.CreatedAt.Month()), 0}
			b = SalesBucket{Year: k.a, Month: k.b}
		}
		got, ok := buckets[k]
		if !ok {
			b.TotalSales = r.Total
			b.InvoiceCount = 1
			buckets[k] = &b
			continue
		}
		got.TotalSales += r.Total
		got.InvoiceCount++
	}
	out := make([]SalesBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.Day < b.Day
	})
	return out
}

type QuickStats struct {
	TodaySales     float64 `json:"todaySales"`
	TodayInvoices  int64   `json:"todayInvoices"`
	LowStockCount  int64   `json:"lowStockCount"`
	TotalInventory int     `json:"totalInventory"`
}

// quickStatsLowStockThreshold mirrors the dashboard's fixed alert level.
const quickStatsLowStockThreshold = 5

func (s *ReportService) QuickStats(ctx context.Context) (*QuickStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	out := &QuickStats{}
	completedToday := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Invoice{}).
			Where("status = ?", models.StatusCompleted).
			Where("created_at >= ? AND created_at < ?", today, tomorrow)
	}
	if err := completedToday().Select("COALESCE(SUM(total), 0)").Scan(&out.TodaySales).Error; err != nil {
		return nil, err
	}
	if err := completedToday().Count(&out.TodayInvoices).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("quantity <= ?", quickStatsLowStockThreshold).
		Count(&out.LowStockCount).Error; err != nil {
		return nil, err
	}
	var inventory *int
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("SUM(quantity)").Scan(&inventory).Error; err != nil {
		return nil, err
	}
	if inventory != nil {
		out.TotalInventory = *inventory
	}
	return out, nil
}
