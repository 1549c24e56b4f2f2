package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/alex30free/swedish-stock-screener/internal/collector"
	"github.com/alex30free/swedish-stock-screener/internal/config"
	"github.com/alex30free/swedish-stock-screener/internal/logging"
	"github.com/alex30free/swedish-stock-screener/internal/recorder"
	"github.com/alex30free/swedish-stock-screener/internal/scheduler"
	"github.com/alex30free/swedish-stock-screener/internal/screener"
)

func main() {
	once := flag.Bool("once", false, "run a single screen and exit")
	flag.Parse()

	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.New(logging.Options{}).Fatalf("load config: %v", err)
	}

	log := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	log.WithField("config", cfgPath).Info("screener starting")

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	// Data source
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "stooq":
		fetcher = collector.NewStooqFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		fetcher = yf
	}
	log.WithField("source", fetcher.Name()).Info("data source selected")

	col := collector.NewCollector(
		fetcher, cfg.Universe, cfg.Screen.LookbackDays,
		cfg.DataSource.RequestsPerSecond,
		log.WithField("component", "collector"),
	)

	eng, err := screener.New(cfg.ScreenConfig())
	if err != nil {
		log.Fatalf("init engine: %v", err)
	}

	// Run history
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, eng, rec, cfg.Output.JSONPath,
		log.WithField("component", "scheduler"))

	if *once {
		if err := sched.RunScreen(); err != nil {
			log.Fatalf("screen run: %v", err)
		}
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.WeeklyCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing screen now")
		go func() {
			if err := sched.RunScreen(); err != nil {
				log.WithError(err).Error("startup screen failed")
			}
		}()
	}

	log.Info("screener is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	cancel()
}
