package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"budgetron/internal/config"
	"budgetron/internal/database"
	"budgetron/internal/events"
	"budgetron/internal/logger"
	"budgetron/internal/server"
	"budgetron/internal/services"
	"budgetron/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting budgetron",
		"environment", cfg.Server.Environment,
		"db_driver", cfg.Database.Driver)

	db, err := database.Initialize(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := storage.NewLocalStore(cfg.Reports.Directory, cfg.Reports.BaseURL)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := server.NewServices(cfg, db.DB, store, publisher, registry, log)
	srv := server.New(cfg, db.DB, svc, registry, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// newPublisher connects to RabbitMQ when AMQP_URL is set. Events are
// optional, so the server runs without a broker.
func newPublisher(cfg *config.Config, log *slog.Logger) (services.EventPublisher, func(), error) {
	if cfg.Events.AMQPURL == "" {
		log.Info("AMQP_URL not set, report events are not published")
		return events.NopPublisher{}, func() {}, nil
	}

	eventLog := logger.Component(log, "events")
	broker, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.ExchangeName,
		cfg.Events.QueueName, eventLog)
	if err != nil {
		return nil, nil, err
	}
	publisher := events.NewBreakerPublisher(broker, events.DefaultBreakerConfig(), eventLog)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", "error", err)
		}
	}, nil
}
