package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/idriss-elouiri/Stock-Management-System/internal/models"
)

// newTestDB opens a private in-memory sqlite database per test. The
// shared cache keeps the database alive across the pooled connections
// gorm opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	for _, m := range []interface{}{
		&models.Product{}, &models.Invoice{}, &models.InvoiceItem{}, &models.InvoiceCounter{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			t.Fatalf("automigrate %T: %v", m, err)
		}
	}
	return conn
}

func newTestNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func seedProduct(t *testing.T, svc *ProductService, code string, price float64, quantity int) *models.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateProductInput{
		Code:     code,
		Name:     "Product " + code,
		Price:    price,
		Quantity: quantity,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
	return p
}
