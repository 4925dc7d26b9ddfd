// Package config reads process configuration once at startup. Per spec.md
// §6, there is no runtime reconfiguration — everything here is read exactly
// once, in main, and handed down as explicit constructor arguments.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is the full set of environment-sourced settings the process needs.
type Config struct {
	// Addr is the HTTP/WebSocket listen address, e.g. ":3001".
	Addr string
	// LogLevel is read from ME_LOG_LEVEL ("debug", "info", "warn", "error").
	LogLevel string
	// CORSOrigins is the allow-list for the (out-of-scope) HTTP surface.
	CORSOrigins []string
	// Quadrant is the map half-width: valid coordinates span
	// [-Quadrant, +Quadrant] on each axis.
	Quadrant int
}

const defaultQuadrant = 15

// Load reads environment variables into a Config, applying defaults for
// anything unset. It never panics: malformed input falls back to defaults.
func Load() Config {
	cfg := Config{
		Addr:        ":3001",
		LogLevel:    os.Getenv("ME_LOG_LEVEL"),
		CORSOrigins: []string{"http://localhost:3000"},
		Quadrant:    defaultQuadrant,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if addr := os.Getenv("ME_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if origins := os.Getenv("ME_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	if q := os.Getenv("ME_MAP_QUADRANT"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			cfg.Quadrant = n
		}
	}

	return cfg
}
