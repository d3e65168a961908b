package main

import (
	"context"
	bookingshandler "quickshow/internal/bookings/handler"
	bookingsrepo "quickshow/internal/bookings/repository"
	bookingssvc "quickshow/internal/bookings/service"
	"quickshow/internal/events"
	"quickshow/internal/health"
	moviesrepo "quickshow/internal/movies/repository"
	showshandler "quickshow/internal/shows/handler"
	showsrepo "quickshow/internal/shows/repository"
	showsscheduler "quickshow/internal/shows/scheduler"
	showssvc "quickshow/internal/shows/service"
	usershandler "quickshow/internal/users/handler"
	usersrepo "quickshow/internal/users/repository"
	userssvc "quickshow/internal/users/service"
	"quickshow/pkg/app"
	"quickshow/pkg/config"
	"quickshow/pkg/durable"
	"quickshow/pkg/kafka"
	kafka_config "quickshow/pkg/kafka/config"
	kafka_middleware "quickshow/pkg/kafka/middleware"
	"quickshow/pkg/mailer"
)

const ServiceName = "worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.Client.Close(context.Background(), cfg.Log)

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	cfg.Log.Info("Starting QuickShow worker")

	dispatcher := events.NewDispatcher(cfg.Log)
	sched := initHandlers(cfg, dispatcher)

	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.Log, dispatcher.HandleMessage)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	healthHandler := health.NewHandler(cfg.Client.Mongo, cfg.Log)

	serverApp := app.NewApplication(cfg, consumer, healthHandler, sched)
	serverApp.Run()
}

// initHandlers wires repositories, services and event handlers onto the
// dispatcher, and returns the reminder scheduler for the app to run.
func initHandlers(cfg *config.Config, dispatcher *events.Dispatcher) *showsscheduler.Scheduler {
	decoder := events.NewDecoder()
	ledger := durable.NewMongoLedger(cfg)
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SenderEmail,
	}, cfg.Log)

	userRepo := usersrepo.NewMongoUserRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	showRepo := showsrepo.NewMongoShowRepository(cfg)
	movieRepo := moviesrepo.NewMongoMovieRepository(cfg)

	syncService := userssvc.NewSyncService(userRepo, cfg)
	usershandler.NewIdentityHandler(syncService, decoder, cfg.Log).Register(dispatcher)

	releaseService := bookingssvc.NewReleaseService(bookingRepo, showRepo, cfg.Log)
	confirmationService := bookingssvc.NewConfirmationService(
		bookingRepo, showRepo, movieRepo, userRepo,
		sender, cfg.DisplayLocation, cfg.Log,
	)
	bookingshandler.NewBookingHandler(
		releaseService, confirmationService,
		decoder, ledger, cfg.HoldWindow, cfg.Log,
	).Register(dispatcher)

	broadcastService := showssvc.NewBroadcastService(userRepo, sender, cfg.BroadcastPageSize, cfg.Log)
	showshandler.NewShowHandler(broadcastService, decoder, ledger, cfg.Log).Register(dispatcher)

	reminderService := showssvc.NewReminderService(
		showRepo, movieRepo, userRepo, sender,
		cfg.DisplayLocation,
		cfg.ReminderInterval,
		cfg.ReminderWindow,
		cfg.ReminderMaxConcurrentSends,
		cfg.Log,
	)

	cfg.Log.Info("Event handlers initialized", "database", cfg.MongoDatabaseName)
	return showsscheduler.New(reminderService, ledger, cfg.ReminderInterval, cfg.Log)
}
