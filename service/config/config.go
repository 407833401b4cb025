package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at startup to ensure fail-fast behavior.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string

	// RPCURLs maps a supported source network to its JSON-RPC endpoint.
	// Networks without an endpoint fail resolution with a 400.
	RPCURLs map[string]string

	// RPCRateLimit caps outbound RPC calls per network per second. Zero disables the cap.
	RPCRateLimit float64

	// ResolveTimeout bounds a single transaction lookup. Zero disables the bound.
	ResolveTimeout time.Duration

	// Catalog configuration. CatalogDatabaseURL takes precedence over CatalogPath;
	// with neither set the embedded catalog is used.
	CatalogPath        string
	CatalogDatabaseURL string

	// NATS configuration. Events are not published when NATSURL is empty.
	NATSURL     string
	NATSSubject string

	MetricsEnabled bool
}

// networkEnv maps each supported source network to the variable holding its RPC URL.
var networkEnv = []struct {
	network string
	env     string
}{
	{"rsk-mainnet", "RSK_MAINNET_RPC_URL"},
	{"rsk-testnet", "RSK_TESTNET_RPC_URL"},
	{"ethereum-mainnet", "ETHEREUM_MAINNET_RPC_URL"},
	{"ethereum-kovan", "ETHEREUM_KOVAN_RPC_URL"},
}

// Load reads configuration from environment variables and validates all required fields.
// Returns an error if any required configuration is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		RPCURLs: make(map[string]string),
	}
	var errs []error

	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	for _, ne := range networkEnv {
		if v := strings.TrimSpace(os.Getenv(ne.env)); v != "" {
			cfg.RPCURLs[ne.network] = v
		}
	}

	rateLimit, err := parseFloat("RPC_RATE_LIMIT", 10)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.RPCRateLimit = rateLimit
	}

	resolveTimeout, err := parseDuration("RESOLVE_TIMEOUT", "20s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ResolveTimeout = resolveTimeout
	}

	cfg.CatalogPath = os.Getenv("CATALOG_PATH")
	cfg.CatalogDatabaseURL = os.Getenv("CATALOG_DATABASE_URL")

	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.NATSSubject = getEnvOrDefault("NATS_SUBJECT", "bridgehelp.options")

	metricsEnabled, err := parseBool("METRICS_ENABLED", true)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.MetricsEnabled = metricsEnabled
	}

	errs = append(errs, cfg.validate()...)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}
	return nil
}

func (c *Config) validate() []error {
	var errs []error

	if c.ServerAddr == "" {
		errs = append(errs, fmt.Errorf("ServerAddr is required"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LogLevel must be one of debug, info, warn, error (got %q)", c.LogLevel))
	}

	if len(c.RPCURLs) == 0 {
		errs = append(errs, fmt.Errorf("at least one RPC URL is required (%s)", strings.Join(networkEnvNames(), ", ")))
	}
	for network, raw := range c.RPCURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			errs = append(errs, fmt.Errorf("RPC URL for %s is not a valid URL", network))
			continue
		}
		switch u.Scheme {
		case "http", "https", "ws", "wss":
		default:
			errs = append(errs, fmt.Errorf("RPC URL for %s must use http(s) or ws(s), got %q", network, u.Scheme))
		}
	}

	if c.RPCRateLimit < 0 {
		errs = append(errs, fmt.Errorf("RPCRateLimit cannot be negative"))
	}

	if c.ResolveTimeout < 0 {
		errs = append(errs, fmt.Errorf("ResolveTimeout cannot be negative"))
	}

	return errs
}

// Networks returns the configured networks in a stable order.
func (c *Config) Networks() []string {
	var out []string
	for _, ne := range networkEnv {
		if _, ok := c.RPCURLs[ne.network]; ok {
			out = append(out, ne.network)
		}
	}
	return out
}

func networkEnvNames() []string {
	names := make([]string, len(networkEnv))
	for i, ne := range networkEnv {
		names[i] = ne.env
	}
	return names
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseFloat parses a float from an environment variable or uses a default.
func parseFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", key, value, err)
	}
	return result, nil
}

// parseBool parses a boolean from an environment variable or uses a default.
func parseBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return result, nil
}
