package config

import (
	"fmt"
	"os"
	"quickshow/pkg/client"
	"quickshow/pkg/logger"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	HealthPort string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	HoldWindow                 time.Duration
	ReminderInterval           time.Duration
	ReminderWindow             time.Duration
	ReminderMaxConcurrentSends int
	BroadcastPageSize          int

	DisplayTimeZone string
	DisplayLocation *time.Location

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		HealthPort: getEnvStr(EnvHealthPort, DefaultHealthPort),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		HoldWindow:                 getEnvDuration(EnvHoldWindow, DefaultHoldWindow),
		ReminderInterval:           getEnvDuration(EnvReminderInterval, DefaultReminderInterval),
		ReminderWindow:             getEnvDuration(EnvReminderWindow, DefaultReminderWindow),
		ReminderMaxConcurrentSends: getEnvNum(EnvReminderMaxConcurrentSends, DefaultReminderMaxConcurrentSends),
		BroadcastPageSize:          getEnvNum(EnvBroadcastPageSize, DefaultBroadcastPageSize),

		DisplayTimeZone: getEnvStr(EnvDisplayTimeZone, DefaultDisplayTimeZone),

		SMTPHost:     getEnvStr(EnvSMTPHost, DefaultSMTPHost),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUser:     getEnvStr(EnvSMTPUser, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SenderEmail:  getEnvStr(EnvSenderEmail, DefaultSenderEmail),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.HealthPort); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("HealthPort must be between 1 and 65535, got: %s", cfg.HealthPort))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.HoldWindow <= 0 {
		errors = append(errors, fmt.Sprintf("HoldWindow must be positive, got: %s", cfg.HoldWindow))
	}
	if cfg.ReminderInterval <= 0 {
		errors = append(errors, fmt.Sprintf("ReminderInterval must be positive, got: %s", cfg.ReminderInterval))
	}
	if cfg.ReminderWindow <= 0 {
		errors = append(errors, fmt.Sprintf("ReminderWindow must be positive, got: %s", cfg.ReminderWindow))
	}
	if cfg.ReminderWindow >= cfg.ReminderInterval {
		errors = append(errors, fmt.Sprintf("ReminderWindow (%s) must be shorter than ReminderInterval (%s)", cfg.ReminderWindow, cfg.ReminderInterval))
	}
	if cfg.ReminderMaxConcurrentSends <= 0 {
		errors = append(errors, fmt.Sprintf("ReminderMaxConcurrentSends must be positive, got: %d", cfg.ReminderMaxConcurrentSends))
	}
	if cfg.BroadcastPageSize <= 0 {
		errors = append(errors, fmt.Sprintf("BroadcastPageSize must be positive, got: %d", cfg.BroadcastPageSize))
	}

	loc, err := time.LoadLocation(cfg.DisplayTimeZone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("DisplayTimeZone is not a valid IANA zone: %s", cfg.DisplayTimeZone))
	} else {
		cfg.DisplayLocation = loc
	}

	if cfg.SMTPHost == "" {
		errors = append(errors, "SMTPHost cannot be empty")
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}
	if cfg.SenderEmail == "" {
		errors = append(errors, "SenderEmail cannot be empty")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"health_port", cfg.HealthPort,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"hold_window", cfg.HoldWindow,
		"reminder_interval", cfg.ReminderInterval,
		"reminder_window", cfg.ReminderWindow,
		"reminder_max_concurrent_sends", cfg.ReminderMaxConcurrentSends,
		"broadcast_page_size", cfg.BroadcastPageSize,
		"display_time_zone", cfg.DisplayTimeZone,
		"smtp_host", cfg.SMTPHost,
		"smtp_port", cfg.SMTPPort,
		"smtp_user_set", cfg.SMTPUser != "",
		"smtp_password_set", cfg.SMTPPassword != "",
		"sender_email", cfg.SenderEmail,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
