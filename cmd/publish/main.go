package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"quickshow/pkg/kafka"
	kafka_config "quickshow/pkg/kafka/config"
	kafka_middleware "quickshow/pkg/kafka/middleware"
	"quickshow/pkg/logger"
	"time"
)

// publish is a development tool for injecting events into the worker's
// topic by hand:
//
//	publish -type payment.pending -data '{"bookingId":"64b0..."}'
//	publish -type show.added -data '{"movieTitle":"Dune"}'
func main() {
	eventType := flag.String("type", "", "event type header (required)")
	data := flag.String("data", "{}", "JSON payload")
	key := flag.String("key", "", "message key, defaults to the event type")
	flag.Parse()

	if *eventType == "" {
		fmt.Fprintln(os.Stderr, "usage: publish -type <event-type> [-data <json>] [-key <key>]")
		os.Exit(2)
	}
	if *key == "" {
		*key = *eventType
	}

	log := logger.New(logger.Config{
		Level:   "info",
		Format:  "text",
		Service: "publish",
	})

	cfg := kafka_config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create producer", "error", err)
	}
	defer producer.Close()
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	msg := kafka.NewMessage().
		WithKey(*key).
		WithRawValue([]byte(*data)).
		WithEventType(*eventType).
		WithSource("publish-cli").
		Build()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := producer.Publish(ctx, msg); err != nil {
		log.Fatal("Failed to publish", "error", err)
	}
	log.Info("Event published", "event_type", *eventType, "event_id", msg.GetEventID())
}
