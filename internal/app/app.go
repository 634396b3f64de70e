package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/enrollhq/enroll/config"
	"github.com/enrollhq/enroll/internal/controller/restapi"
	"github.com/enrollhq/enroll/internal/infrastructure"
	infrakafka "github.com/enrollhq/enroll/internal/infrastructure/kafka"
	"github.com/enrollhq/enroll/internal/infrastructure/processor"
	"github.com/enrollhq/enroll/internal/repo"
	"github.com/enrollhq/enroll/internal/repo/persistent"
	"github.com/enrollhq/enroll/internal/usecase/directory"
	"github.com/enrollhq/enroll/internal/usecase/dispatch"
	"github.com/enrollhq/enroll/internal/usecase/lifecycle"
	"github.com/enrollhq/enroll/pkg/httpserver"
	"github.com/enrollhq/enroll/pkg/kafka/producer"
	"github.com/enrollhq/enroll/pkg/logger"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository
	roots := repo.Roots{
		Pending:  cfg.Store.PendingRoot,
		Approved: cfg.Store.ApprovedRoot,
		Rejected: cfg.Store.RejectedRoot,
		Paused:   cfg.Store.PausedRoot,
	}
	store := persistent.NewRecordStore(roots)

	// Transition event stream (optional)
	var events infrastructure.EventsSender
	if cfg.Kafka.Enabled {
		kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
		}
		events = infrakafka.NewEventProducer(kafkaProducer, cfg.Kafka.Topic)
		defer events.Close()
	}

	// Use-Case

	// lifecycle use-case
	lifecycleUseCase := lifecycle.New(
		store,
		roots,
		processor.New(cfg.Image.MinDimension, cfg.Image.OutputSize),
		events,
		l,
	)

	// directory use-case
	directoryUseCase := directory.New(store, roots, cfg.Page.DefaultLimit, cfg.Page.MaxLimit, l)

	// dispatch use-case
	dispatchUseCase := dispatch.New(
		&http.Client{Timeout: cfg.Dispatch.Timeout},
		cfg.Dispatch.PrimaryURL,
		cfg.Dispatch.SecondaryURL,
		l,
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, lifecycleUseCase, directoryUseCase, dispatchUseCase, l)

	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err := <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err := httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}
