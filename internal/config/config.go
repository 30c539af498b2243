package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	AuthSecret          string
	LogLevel            string
	ShutdownTimeout     time.Duration
	OrderNumberPrefix   string
	OrderNumberAttempts int
	OrderTxTimeout      time.Duration
	PhonePattern        string

	PaymentProviderAddress string
	PaymentProviderName    string
	PaymentPollInterval    time.Duration
	PaymentWorkers         int
	PaymentBatchSize       int

	KafkaBrokers []string
	KafkaTopic   string
}

const (
	defaultRunAddress          = ":8080"
	defaultAuthSecret          = "change-me-in-production"
	defaultLogLevel            = "info"
	defaultShutdownTimeout     = 10 * time.Second
	defaultOrderNumberPrefix   = "ORD"
	defaultOrderNumberAttempts = 20
	defaultOrderTxTimeout      = 8 * time.Second
	defaultPhonePattern        = `^(\+243|0)[89]\d{8}$`
	defaultPaymentProviderName = "external"
	defaultPaymentPollInterval = 5 * time.Second
	defaultPaymentWorkers      = 2
	defaultPaymentBatchSize    = 16
	defaultKafkaTopic          = "orders"
	defaultEnvFile             = ".env"
)

// Load parses configuration from flags, environment variables and an optional .env file.
func Load() (*Config, error) {
	file := defaultEnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		file = v
	}
	values, err := readEnvFile(file)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], withFallback(os.LookupEnv, values))
}

type envLookup func(string) (string, bool)

// withFallback consults the process environment first and the .env values second.
func withFallback(primary envLookup, values map[string]string) envLookup {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		AuthSecret:             getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		LogLevel:               getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		OrderNumberPrefix:      getString(lookup, "ORDER_NUMBER_PREFIX", defaultOrderNumberPrefix),
		OrderNumberAttempts:    getInt(lookup, "ORDER_NUMBER_ATTEMPTS", defaultOrderNumberAttempts),
		OrderTxTimeout:         getDuration(lookup, "ORDER_TX_TIMEOUT", defaultOrderTxTimeout),
		PhonePattern:           getString(lookup, "PHONE_PATTERN", defaultPhonePattern),
		PaymentProviderAddress: getString(lookup, "PAYMENT_PROVIDER_ADDRESS", ""),
		PaymentProviderName:    getString(lookup, "PAYMENT_PROVIDER_NAME", defaultPaymentProviderName),
		PaymentPollInterval:    getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		PaymentWorkers:         getInt(lookup, "PAYMENT_WORKERS", defaultPaymentWorkers),
		PaymentBatchSize:       getInt(lookup, "PAYMENT_BATCH_SIZE", defaultPaymentBatchSize),
		KafkaBrokers:           splitList(getString(lookup, "KAFKA_BROKERS", "")),
		KafkaTopic:             getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
	}

	flags := flag.NewFlagSet("orderengine", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		txTimeoutStr       = cfg.OrderTxTimeout.String()
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		brokersStr         = strings.Join(cfg.KafkaBrokers, ",")
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.PaymentProviderAddress, "p", cfg.PaymentProviderAddress, "Payment provider base URL")
	flags.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for verifying actor tokens")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&cfg.OrderNumberPrefix, "order-prefix", cfg.OrderNumberPrefix, "Order number prefix")
	flags.IntVar(&cfg.OrderNumberAttempts, "order-number-attempts", cfg.OrderNumberAttempts, "Order number generation attempts")
	flags.StringVar(&txTimeoutStr, "order-timeout", txTimeoutStr, "Order transaction timeout")
	flags.StringVar(&cfg.PhonePattern, "phone-pattern", cfg.PhonePattern, "Regular expression for customer phone numbers")
	flags.StringVar(&cfg.PaymentProviderName, "payment-provider", cfg.PaymentProviderName, "Payment provider name recorded on transactions")
	flags.StringVar(&pollIntervalStr, "payment-poll-interval", pollIntervalStr, "Interval between payment verification polls")
	flags.IntVar(&cfg.PaymentWorkers, "payment-workers", cfg.PaymentWorkers, "Number of concurrent payment verification workers")
	flags.IntVar(&cfg.PaymentBatchSize, "payment-batch", cfg.PaymentBatchSize, "Maximum payments per polling batch")
	flags.StringVar(&brokersStr, "kafka-brokers", brokersStr, "Comma separated Kafka brokers")
	flags.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for order events")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.OrderTxTimeout, err = time.ParseDuration(txTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid order timeout: %w", err)
	}

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid payment poll interval: %w", err)
	}

	cfg.KafkaBrokers = splitList(brokersStr)

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.OrderTxTimeout <= 0 {
		cfg.OrderTxTimeout = defaultOrderTxTimeout
	}

	if cfg.OrderNumberAttempts <= 0 {
		cfg.OrderNumberAttempts = defaultOrderNumberAttempts
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.PaymentWorkers <= 0 {
		cfg.PaymentWorkers = defaultPaymentWorkers
	}

	if cfg.PaymentBatchSize <= 0 {
		cfg.PaymentBatchSize = defaultPaymentBatchSize
	}

	if strings.TrimSpace(cfg.OrderNumberPrefix) == "" {
		cfg.OrderNumberPrefix = defaultOrderNumberPrefix
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
