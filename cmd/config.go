package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/jobs"
	"storefront/internal/pkg/errs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	KafkaHost              string
	KafkaOrderChangedTopic string
	KafkaNotificationTopic string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	EffectTimeout             time.Duration
	NotificationRetrySchedule string
	NotificationMaxAttempts   int
	NotificationBatchSize     int

	OTLPEndpoint string
	ServiceName  string
	RateLimitRPS float64
}

// LoadConfig reads the configuration through getenv, applying defaults for
// optional settings.
func LoadConfig(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		HTTPPort:   get("HTTP_PORT", "8080"),
		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", ""),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", ""),
		DBSslMode:  get("DB_SSLMODE", "disable"),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),

		KafkaHost:              get("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: get("KAFKA_ORDER_CHANGED_TOPIC", ""),
		KafkaNotificationTopic: get("KAFKA_NOTIFICATION_TOPIC", ""),

		SMTPHost:     get("SMTP_HOST", ""),
		SMTPPort:     get("SMTP_PORT", "25"),
		SMTPUser:     get("SMTP_USER", ""),
		SMTPPassword: get("SMTP_PASSWORD", ""),
		SMTPFrom:     get("SMTP_FROM", "orders@storefront.local"),

		NotificationRetrySchedule: get("NOTIFICATION_RETRY_SCHEDULE", jobs.DefaultRetrySchedule),

		OTLPEndpoint: get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  get("OTEL_SERVICE_NAME", "storefront"),
	}

	var errTimeout, errAttempts, errBatch, errRate error
	cfg.EffectTimeout, errTimeout = parseDuration("EFFECT_TIMEOUT", get("EFFECT_TIMEOUT", "5s"))
	cfg.NotificationMaxAttempts, errAttempts = parsePositiveInt("NOTIFICATION_MAX_ATTEMPTS", get("NOTIFICATION_MAX_ATTEMPTS", "5"))
	cfg.NotificationBatchSize, errBatch = parsePositiveInt("NOTIFICATION_BATCH_SIZE", get("NOTIFICATION_BATCH_SIZE", "100"))
	cfg.RateLimitRPS, errRate = parseRate("RATE_LIMIT_RPS", get("RATE_LIMIT_RPS", "0"))

	var errDB error
	if cfg.DBUser == "" || cfg.DBName == "" {
		errDB = errs.NewValueIsRequiredError("DB_USER and DB_NAME")
	}

	if err := errors.Join(errTimeout, errAttempts, errBatch, errRate, errDB); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DatabaseDSN is the libpq connection string for the gorm postgres driver.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if d <= 0 {
		return 0, errs.NewValueIsOutOfRangeError(key, value, "1ns", "unbounded")
	}
	return d, nil
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if n < 1 {
		return 0, errs.NewValueIsOutOfRangeError(key, n, 1, "unbounded")
	}
	return n, nil
}

func parseRate(key, value string) (float64, error) {
	r, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if r < 0 {
		return 0, errs.NewValueIsOutOfRangeError(key, r, 0, "unbounded")
	}
	return r, nil
}
