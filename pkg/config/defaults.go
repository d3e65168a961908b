package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "quickshow"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultHealthPort = "8080"
	DefaultLogLevel   = "info"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Seats held by an unpaid booking are provisional for this long.
	DefaultHoldWindow = 10 * time.Minute

	// The reminder sweep fires this often and catches shows starting one
	// interval ahead, inside a window this wide, so consecutive sweeps
	// tile the timeline.
	DefaultReminderInterval           = 8 * time.Hour
	DefaultReminderWindow             = 10 * time.Minute
	DefaultReminderMaxConcurrentSends = 40

	DefaultBroadcastPageSize = 100

	DefaultDisplayTimeZone = "Asia/Kolkata"

	DefaultSMTPHost    = "smtp-relay.brevo.com"
	DefaultSMTPPort    = 587
	DefaultSenderEmail = "noreply@quickshow.example"
)
