package telemetry

import (
	"os"
	"strconv"
)

// Config controls logging, tracing and metrics export.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// LogLevel is a logrus level name. Default: info
	LogLevel string
	// LogFormat is "json" or "text". Default: json
	LogFormat string

	// OTLPEndpoint is the gRPC collector address, e.g. localhost:4317.
	OTLPEndpoint string
	// TracesFilePath writes spans as JSON lines instead of exporting via OTLP.
	TracesFilePath string

	SamplingRate float64
	// MetricsInterval is the OTLP metric export period in seconds.
	MetricsInterval int

	EnableTracing bool
	EnableMetrics bool
}

// DefaultConfig logs JSON at info level with tracing and metrics export off.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:     "vrcsdk",
		ServiceVersion:  "dev",
		Environment:     "development",
		LogLevel:        "info",
		LogFormat:       "json",
		OTLPEndpoint:    "localhost:4317",
		SamplingRate:    1.0,
		MetricsInterval: 10,
	}
}

// NewConfigFromEnv creates a new config from environment variables
func NewConfigFromEnv() *Config {
	cfg := &Config{
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "vrcsdk"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ServiceVersion:  getEnv("SERVICE_VERSION", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		SamplingRate:    getEnvFloat("OTEL_SAMPLING_RATE", 1.0),
		MetricsInterval: getEnvInt("METRICS_INTERVAL", 10),
		EnableTracing:   getEnvBool("ENABLE_TRACING", false),
		EnableMetrics:   getEnvBool("ENABLE_METRICS", false),
	}

	if getEnvBool("OTEL_EXPORT_TO_FILE", false) {
		cfg.TracesFilePath = getEnv("OTEL_TRACES_FILE_PATH", "/tmp/otel/traces.json")
	} else {
		cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
