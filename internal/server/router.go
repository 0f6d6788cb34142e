package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/idriss-elouiri/Stock-Management-System/internal/config"
	"github.com/idriss-elouiri/Stock-Management-System/internal/handlers"
	"github.com/idriss-elouiri/Stock-Management-System/internal/services"
)

// New wires services, handlers and middleware into a gin engine.
func New(conn *gorm.DB, node *snowflake.Node, log *zap.Logger, cfg config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))

	corsCfg := cors.DefaultConfig()
	if cfg.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{cfg.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	health := func(c *gin.Context) {
		if err := conn.Exec("SELECT 1").Error; err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	}
	r.GET("/health", health)
	r.GET("/healthz", health)

	products := handlers.NewProductHandler(services.NewProductService(conn, node))
	invoices := handlers.NewInvoiceHandler(services.NewInvoiceService(conn, node))
	reports := handlers.NewReportHandler(services.NewReportService(conn))

	api := r.Group("/api")
	{
		p := api.Group("/products")
		{
			p.POST("", products.Create)
			p.GET("", products.List)
			p.GET("/all", products.ListAll)
			p.GET("/code/:code", products.GetByCode)
			p.GET("/:id", products.Get)
			p.PUT("/:id", products.Update)
			p.DELETE("/:id", products.Delete)
			p.PATCH("/:id/quantity", products.AdjustQuantity)
		}

		inv := api.Group("/invoices")
		{
			inv.POST("", invoices.Create)
			inv.GET("", invoices.List)
			inv.GET("/stats", invoices.Stats)
			inv.GET("/number/:invoiceNumber", invoices.GetByNumber)
			inv.GET("/:id", invoices.Get)
			inv.PUT("/:id", invoices.Update)
			inv.PATCH("/:id/status", invoices.UpdateStatus)
			inv.DELETE("/:id", invoices.Delete)
		}

		rep := api.Group("/reports")
		{
			rep.GET("/top-products", reports.TopProducts)
			rep.GET("/low-stock", reports.LowStock)
			rep.GET("/sales-summary", reports.SalesSummary)
			rep.GET("/quick-stats", reports.QuickStats)
		}
	}

	return r
}
