package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"quickshow/pkg/config"
	"quickshow/pkg/contracts"
	"quickshow/pkg/kafka"
	"quickshow/pkg/middleware"
	"syscall"

	"github.com/julienschmidt/httprouter"
)

// BackgroundJob is a long-running component that stops when its context
// is cancelled.
type BackgroundJob interface {
	Start(ctx context.Context)
}

// Application ties the worker's moving parts together: the event
// consumer, periodic jobs, and a small HTTP server for probes.
type Application struct {
	cfg      *config.Config
	server   *http.Server
	consumer *kafka.Consumer
	jobs     []BackgroundJob
}

func NewApplication(cfg *config.Config, consumer *kafka.Consumer, healthHandler contracts.Handler, jobs ...BackgroundJob) *Application {
	a := &Application{
		cfg:      cfg,
		consumer: consumer,
		jobs:     jobs,
	}
	a.setHealthServer(healthHandler)
	return a
}

func (a *Application) setHealthServer(healthHandler contracts.Handler) {
	router := httprouter.New()
	healthHandler.RegisterRoutes(router)

	var handler http.Handler = router
	handler = middleware.RequestLogging(a.cfg.Log)(handler)
	handler = middleware.Recovery(a.cfg.Log)(handler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.HealthPort,
		Handler:      handler,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}
	a.cfg.Log.Info("Health server configured", "port", a.cfg.HealthPort)
}

// Run starts every component and blocks until a shutdown signal arrives
// or the consumer dies.
func (a *Application) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrors := make(chan error, 1)
	go func() {
		a.cfg.Log.Info("Starting health server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	consumerErrors := make(chan error, 1)
	go func() {
		consumerErrors <- a.consumer.Start(ctx)
	}()

	for _, job := range a.jobs {
		go job.Start(ctx)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("Health server failed", "error", err)

	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.cfg.Log.Fatal("Consumer failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown(cancel, consumerErrors)
	}
}

func (a *Application) gracefulShutdown(cancel context.CancelFunc, consumerErrors <-chan error) {
	a.cfg.Log.Info("Starting graceful shutdown...")

	// Stop fetching before closing readers, so in-flight messages finish
	// and commit.
	cancel()
	<-consumerErrors
	if err := a.consumer.Close(); err != nil {
		a.cfg.Log.Error("Consumer close failed", "error", err)
	}

	ctx, timeout := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer timeout()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Shutdown complete")
}
