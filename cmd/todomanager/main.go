package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-manager/internal/bot"
	"todo-manager/internal/config"
	"todo-manager/internal/repository"
	"todo-manager/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var store repository.Store
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		store, err = repository.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
	default:
		store = repository.NewFileStore(cfg.SnapshotPath)
	}

	coordinator := service.NewCoordinator(store)
	if err := coordinator.Load(ctx); err != nil {
		log.Fatalf("load: %v", err)
	}

	facade := service.NewFacade(coordinator)
	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.TickInterval, func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		facade.Tick(tickCtx, time.Now())
	}); err != nil {
		log.Fatalf("schedule tick: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Todo manager started.")

	if cfg.TelegramToken != "" {
		telegramBot, err := bot.New(cfg.TelegramToken, coordinator)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("bot stopped with error: %v", err)
		}
	} else {
		log.Println("[info] no telegram token, running headless")
		<-ctx.Done()
	}

	log.Println("Shutdown complete.")
}
