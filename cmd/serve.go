package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hrdash/analytics"
	"hrdash/config"
	"hrdash/db"
	qhttp "hrdash/http"
	"hrdash/logger"
	"hrdash/monitoring"
	"hrdash/prediction"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return err
	}
	defer log.Close()
	if path == "" {
		log.Warn("no config file found, using defaults")
	} else {
		log.Info("config loaded", zap.String("path", path))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := loadCore(ctx, cfg)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	log.Info("reference data loaded",
		zap.String("dataset", cfg.Data.Path),
		zap.Int("records", c.dataset.Len()),
		zap.String("model", cfg.Model.Type),
		zap.String("scaling", string(c.encoder.Scaling())))

	reporter, err := analytics.NewReporter(c.dataset, cfg.Cache.Size)
	if err != nil {
		return err
	}

	var store *db.Store
	if cfg.History.Path != "" {
		store, err = db.Open(cfg.History.Path)
		if err != nil {
			log.Error("open prediction history", zap.Error(err))
			return err
		}
		defer store.Close()
	}

	metrics := monitoring.NewMetrics()
	hub := monitoring.NewHub(log.Logger, cfg.HTTP.AllowedOrigins)
	go hub.Run()
	defer hub.Stop()

	metrics.WatchGauge("ws_clients", "Connected live feed clients.", func() float64 {
		return float64(hub.Clients())
	})
	metrics.WatchGauge("report_cache_entries", "Filter reports held in the cache.", func() float64 {
		return float64(reporter.Cached())
	})

	sinks := []prediction.Sink{hub}
	deps := qhttp.Deps{
		Reporter:     reporter,
		HistoryLimit: cfg.History.Limit,
		Feed:         hub,
		Metrics:      metrics,
		Logger:       log.Logger,
	}
	if store != nil {
		sinks = append(sinks, store)
		deps.History = store
	}
	deps.Predictor = prediction.NewService(c.encoder, c.model,
		prediction.WithSinks(sinks...),
		prediction.WithRecorder(metrics),
		prediction.WithLogger(log.Logger))

	server, err := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		Timeout:        cfg.HTTP.Timeout,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RateLimit:      cfg.HTTP.RateLimit,
		Burst:          cfg.HTTP.Burst,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	}, deps)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return server.Stop(context.Background())
	})
	if path != "" {
		g.Go(func() error {
			// only the log level is applied live; other sections need a restart
			return config.Watch(gctx, path, log.Logger, func(next *config.Config) {
				if err := log.SetLevel(next.Log.Level); err != nil {
					log.Warn("log level not changed", zap.Error(err))
					return
				}
				log.Info("log level updated", zap.String("level", log.Level()))
			})
		})
	}

	err = g.Wait()
	log.Info("exiting")
	return err
}
