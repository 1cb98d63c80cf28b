package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/pallapizza/daily-report-runner/internal/domain"
)

// ErrBackendURLMissing is returned when BACKEND_URL is not set.
var ErrBackendURLMissing = errors.New("BACKEND_URL no está definido")

// Config holds all runner settings, populated from environment variables.
type Config struct {
	BackendURL     string // as set; echoed to the backend in the url parameter
	BackendToken   string
	Venues         []string
	Lang           string
	Tone           string
	RequestTimeout time.Duration

	// Scheduling. A zero ReportInterval runs once and exits.
	ReportInterval  time.Duration
	HTTPAddr        string
	ShutdownTimeout time.Duration

	LogLevel       string
	LogFormat      string
	PushgatewayURL string

	// Optional Kafka fan-out of saved records.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	backendURL := os.Getenv("BACKEND_URL")
	if strings.TrimSpace(backendURL) == "" {
		return nil, ErrBackendURLMissing
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "0s")
	if err != nil {
		return nil, err
	}

	interval, err := parseDuration("REPORT_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}

	venues, err := parseVenues(os.Getenv("REPORT_VENUES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BackendURL:      backendURL,
		BackendToken:    os.Getenv("BACKEND_TOKEN"),
		Venues:          venues,
		Lang:            sharedcfg.EnvOrDefault("REPORT_LANG", domain.DefaultLang),
		Tone:            sharedcfg.EnvOrDefault("REPORT_TONE", domain.DefaultTone),
		RequestTimeout:  requestTimeout,
		ReportInterval:  interval,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "daily-reports"),
	}

	return cfg, nil
}

// Scheduled reports whether the runner repeats on an interval instead of
// running once.
func (c *Config) Scheduled() bool {
	return c.ReportInterval > 0
}

// KafkaEnabled reports whether saved records are also published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseVenues splits REPORT_VENUES, keeping order. Unset means the default set.
func parseVenues(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return append([]string(nil), domain.DefaultVenues...), nil
	}
	venues := splitList(s)
	if len(venues) == 0 {
		return nil, errors.New("REPORT_VENUES has no venues")
	}
	seen := make(map[string]bool, len(venues))
	for _, v := range venues {
		key := strings.ToUpper(v)
		if seen[key] {
			return nil, fmt.Errorf("REPORT_VENUES lists %q more than once", v)
		}
		seen[key] = true
	}
	return venues, nil
}

// parseBrokers leaves Kafka disabled when KAFKA_BROKERS is unset.
func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
