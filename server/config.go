package server

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the HTTP server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// AllowOrigins lists the CORS origins. "*" allows any.
	AllowOrigins []string
}

// LoadConfig reads server settings from the environment, loading a .env file
// first when one is present.
//
//	ANSWERIT_ADDR            listen address (default ":8080")
//	ANSWERIT_ALLOW_ORIGINS   comma-separated CORS origins (default "*")
func LoadConfig() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
	}

	if addr := os.Getenv("ANSWERIT_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if origins := os.Getenv("ANSWERIT_ALLOW_ORIGINS"); origins != "" {
		cfg.AllowOrigins = cfg.AllowOrigins[:0]
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, trimmed)
			}
		}
	}
	return cfg
}
