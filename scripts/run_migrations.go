package main

import (
	"context"
	"log"
	"os"

	"github.com/Laptop-Academy1999/store/internal/config"
	"github.com/Laptop-Academy1999/store/internal/database"
	"github.com/Laptop-Academy1999/store/internal/logger"
	"github.com/Laptop-Academy1999/store/migrations"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down]")
	}

	direction := os.Args[1]
	if direction != "up" && direction != "down" {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	lg, err := logger.Init(cfg.Logger)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		lg.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	n, err := database.Migrate(context.Background(), db, migrations.FS, direction)
	if err != nil {
		lg.Fatal("migrate", zap.Error(err))
	}

	lg.Info("migrations complete", zap.Int("count", n), zap.String("direction", direction))
}
