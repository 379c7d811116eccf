package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Laptop-Academy1999/store/internal/api"
	"github.com/Laptop-Academy1999/store/internal/config"
	"github.com/Laptop-Academy1999/store/internal/database"
	"github.com/Laptop-Academy1999/store/internal/listing"
	"github.com/Laptop-Academy1999/store/internal/logger"
	"github.com/Laptop-Academy1999/store/internal/store"
	"github.com/Laptop-Academy1999/store/internal/upload"
	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	lg, err := logger.Init(cfg.Logger)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer lg.Sync()

	var repo listing.Repository
	switch cfg.Database.Driver {
	case "memory":
		repo = store.NewMemory()
		lg.Warn("using in-memory catalog, data is lost on exit")
	default:
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			lg.Fatal("connect to database", zap.Error(err))
		}
		defer db.Close()
		repo = store.New(db)
		lg.Info("connected to database")
	}

	uploads, err := upload.NewLocalStore(cfg.Upload)
	if err != nil {
		lg.Fatal("init uploads", zap.Error(err))
	}

	var rdb *rd.Client
	if cfg.Redis.Addr != "" {
		rdb = rd.NewClient(&rd.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			lg.Warn("redis unreachable, rate limiting fails open", zap.Error(err))
		}
	}

	if cfg.Logger.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	h := api.NewHandler(listing.NewService(repo), uploads, cfg.Listing)
	router := api.NewRouter(h, rdb, cfg.RateLimit, cfg.Upload.PublicPrefix)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		lg.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
