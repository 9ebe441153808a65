package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule is the rate limit for one endpoint prefix.
type Rule struct {
	Path   string        // path prefix
	Method string        // HTTP method; empty matches any
	Limit  int           // requests per window; <= 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // burst capacity; defaults to Limit
}

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Exempt          map[string]bool
	Rules           []Rule
}

// LoadConfig reads limiter configuration from the environment.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Exempt:          parseIPList(os.Getenv("RATE_LIMIT_EXEMPT")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-endpoint limits. Enhancement runs are the
// expensive tier; autocomplete is cheap but bursty; health is unlimited.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/enhance", Method: "POST",
			Limit: getEnvInt("RATE_LIMIT_ENHANCE_LIMIT", 30), Window: time.Hour, Burst: 5},
		{Path: "/skills/search", Method: "GET",
			Limit: getEnvInt("RATE_LIMIT_SEARCH_LIMIT", 300), Window: time.Minute, Burst: 60},
		{Path: "/health", Limit: 0},
		{Path: "/kg/health", Limit: 0},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
