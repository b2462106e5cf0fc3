// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Tool output limit defaults
const (
	DefaultLogTailValue    = 100
	DefaultTraceLimitValue = 20
)

// Config holds all configuration for the MCP server.
type Config struct {
	TargetNamespace string // TARGET_NAMESPACE, default "default"
	PrometheusURL   string // PROMETHEUS_URL, default "http://localhost:9090"
	JaegerURL       string // JAEGER_URL, default "http://localhost:16686"
	Neo4jURI        string // NEO4J_URI, default "bolt://localhost:7687"
	Neo4jUser       string // NEO4J_USER, default "neo4j"
	Neo4jPassword   string // NEO4J_PASSWORD, default "neo4j"

	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 10000ms (10s)

	// Tool defaults
	DefaultLogTail    int           // DEFAULT_LOG_TAIL, default 100
	DefaultTraceLimit int           // DEFAULT_TRACE_LIMIT, default 20
	TraceLookback     time.Duration // TRACE_LOOKBACK_MS, default 15m

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		TargetNamespace: getEnvString("TARGET_NAMESPACE", "default"),
		PrometheusURL:   getEnvString("PROMETHEUS_URL", "http://localhost:9090"),
		JaegerURL:       getEnvString("JAEGER_URL", "http://localhost:16686"),
		Neo4jURI:        getEnvString("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnvString("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnvString("NEO4J_PASSWORD", "neo4j"),

		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 10000),

		DefaultLogTail:    getEnvInt("DEFAULT_LOG_TAIL", DefaultLogTailValue),
		DefaultTraceLimit: getEnvInt("DEFAULT_TRACE_LIMIT", DefaultTraceLimitValue),
		TraceLookback:     getEnvDurationMs("TRACE_LOOKBACK_MS", 15*60*1000),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
