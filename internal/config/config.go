package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const defaultCheckWXBaseURL = "https://api.checkwx.com"

// Config holds all service settings, populated from environment variables
// and an optional airfield file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration

	Airfield Airfield

	// CheckWX provider configuration. An empty key selects the demo provider.
	CheckWXAPIKey  string
	CheckWXBaseURL string
	CheckWXTimeout time.Duration

	RefreshInterval time.Duration
	CacheTTL        time.Duration
	CacheSize       int
	BatchSize       int

	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	checkwxTimeout, err := parsePositiveDuration("CHECKWX_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("WEATHER_REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("WEATHER_CACHE_TTL", "2m")
	if err != nil {
		return nil, err
	}

	cacheSize, err := strconv.Atoi(sharedcfg.EnvOrDefault("WEATHER_CACHE_SIZE", "64"))
	if err != nil || cacheSize <= 0 {
		return nil, errors.New("invalid WEATHER_CACHE_SIZE")
	}

	airfield, err := loadAirfield()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		LogFile:         os.Getenv("LOG_FILE"),
		ShutdownTimeout: shutdownTimeout,

		Airfield: airfield,

		CheckWXAPIKey:  os.Getenv("CHECKWX_API_KEY"),
		CheckWXBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("CHECKWX_BASE_URL", defaultCheckWXBaseURL), "/"),
		CheckWXTimeout: checkwxTimeout,

		RefreshInterval: refreshInterval,
		CacheTTL:        cacheTTL,
		CacheSize:       cacheSize,
		BatchSize:       batchSize,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "decoded-metar-reports"),
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// DemoMode reports whether no CheckWX key is configured.
func (c *Config) DemoMode() bool {
	return c.CheckWXAPIKey == ""
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
