// Command cleanup physically removes push subscriptions that were
// deactivated and not used for the configured retention period. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine. Notifications are never deleted here.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/subscription"
	"github.com/heartmarshall/notify-backend/internal/app"
	"github.com/heartmarshall/notify-backend/internal/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	dryRun := flag.Bool("dry-run", false, "report the threshold without deleting")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	threshold := time.Now().AddDate(0, 0, -cfg.Push.InactiveRetentionDays)
	if *dryRun {
		logger.Info("dry run, nothing purged", slog.Time("threshold", threshold))
		return
	}

	purged, err := subscription.New(pool).PurgeInactive(ctx, threshold)
	if err != nil {
		logger.Error("purge inactive subscriptions failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("purge inactive subscriptions completed",
		slog.Int("purged", purged),
		slog.Time("threshold", threshold),
	)
}
