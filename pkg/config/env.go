package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvHealthPort = "HEALTH_PORT"
	EnvLogLevel   = "LOG_LEVEL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvHoldWindow                 = "HOLD_WINDOW"
	EnvReminderInterval           = "REMINDER_INTERVAL"
	EnvReminderWindow             = "REMINDER_WINDOW"
	EnvReminderMaxConcurrentSends = "REMINDER_MAX_CONCURRENT_SENDS"
	EnvBroadcastPageSize          = "BROADCAST_PAGE_SIZE"
	EnvDisplayTimeZone            = "DISPLAY_TIME_ZONE"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUser     = "SMTP_USER"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvSenderEmail  = "SENDER_EMAIL"
)
