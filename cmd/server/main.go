package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/idriss-elouiri/Stock-Management-System/internal/config"
	"github.com/idriss-elouiri/Stock-Management-System/internal/db"
	"github.com/idriss-elouiri/Stock-Management-System/internal/logger"
	"github.com/idriss-elouiri/Stock-Management-System/internal/server"
	"github.com/idriss-elouiri/Stock-Management-System/internal/services"
)

var (
	migrateOnlyFlag      = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	backfillCountersFlag = flag.Bool("backfill-counters", false, "Rebuild invoice counters from existing invoices and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN, zlog)
	if err != nil {
		zlog.Fatal("database setup failed", zap.Error(err))
	}

	if *migrateOnlyFlag {
		zlog.Info("migrations completed")
		return
	}

	if *backfillCountersFlag {
		if err := services.SeedInvoiceCounters(dbConn); err != nil {
			zlog.Fatal("counter backfill failed", zap.Error(err))
		}
		zlog.Info("invoice counters backfilled")
		return
	}

	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		zlog.Fatal("snowflake node setup failed", zap.Error(err))
	}

	router := server.New(dbConn, node, zlog, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server stopped gracefully")
}
