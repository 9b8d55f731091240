package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/dukerupert/resistor/internal/analytics"
)

// Config is read once from the environment at startup.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string
	Window   analytics.Window
}

// Load reads RESISTOR_* variables through getenv, applying defaults for
// unset values. A nil getenv uses os.Getenv.
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:     env("RESISTOR_PORT", "8080"),
		DBPath:   env("RESISTOR_DB_PATH", "resistor.db"),
		LogLevel: env("RESISTOR_LOG_LEVEL", "info"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("RESISTOR_PORT: %q is not a port number", cfg.Port)
	}

	loc, err := time.LoadLocation(env("RESISTOR_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("RESISTOR_TIMEZONE: %w", err)
	}
	weekStart, err := analytics.ParseWeekday(env("RESISTOR_WEEK_START", "monday"))
	if err != nil {
		return Config{}, fmt.Errorf("RESISTOR_WEEK_START: %w", err)
	}
	cfg.Window = analytics.Window{Location: loc, WeekStart: weekStart}

	return cfg, nil
}
