package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.etcd.io/bbolt"

	"github.com/olexh/taxiscout/internal/config"
	"github.com/olexh/taxiscout/internal/dal"
	"github.com/olexh/taxiscout/internal/dal/migrations"
	"github.com/olexh/taxiscout/internal/ingest"
	"github.com/olexh/taxiscout/internal/service"
	"github.com/olexh/taxiscout/internal/telegram"
	"github.com/olexh/taxiscout/pkg/clock"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conf, err := config.New(ctx)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := mustLogger(conf.Dev)

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		log.Error("Failed to load timezone", "timezone", conf.Timezone, "error", err)
		os.Exit(1)
	}
	clk := clock.NewWithLocation(loc)

	db, err := bbolt.Open(conf.DBPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		log.Error("Failed to open database", "path", conf.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.RunMigrations(db, log); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := dal.NewBoltDB(db)
	if err != nil {
		log.Error("Failed to create store", "error", err)
		os.Exit(1)
	}

	bot, err := telegram.NewBot(conf.TelegramToken)
	if err != nil {
		log.Error("Failed to create telegram bot", "error", err)
		os.Exit(1)
	}
	messenger := telegram.NewWithAPI(bot, log)

	renderer := service.NewRenderer(conf.ServiceGroupIDs)
	selector := service.NewSelector(store, conf.ServiceGroupIDs, log)
	merges := service.NewMerges(store, conf.MergeWindowsTTL, log)
	dispatcher := service.NewDispatcher(store, store, messenger, renderer, selector, clk, conf.SendTimeout, conf.NotificationsTTL, log)
	pipeline := service.NewPipeline(merges, selector, dispatcher, clk, conf.Workers, log)

	fanIn := ingest.NewFanIn(conf.IngestBuffer, log)
	fanIn.Add(telegram.NewListener(bot, log))

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		cleanupLoop(ctx, pipeline, conf.CleanupInterval, log.With("component", "schedule").With("action", "cleanup"))
	}()

	log.Info("Starting pipeline")
	pipeline.Run(ctx, fanIn.Run(ctx))

	wg.Wait()
	log.Info("Stopped")
}

func cleanupLoop(ctx context.Context, pipeline *service.Pipeline, delay time.Duration, log *slog.Logger) {
	defer func() {
		log.InfoContext(ctx, "Stopped cleanup schedule")
	}()

	log.InfoContext(ctx, "Starting cleanup schedule")
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			err := pipeline.Cleanup(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.ErrorContext(ctx, "Error cleaning up storage", "error", err)
			}
		}
	}
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
