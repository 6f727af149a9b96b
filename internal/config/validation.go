package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func validate(c *Config) error {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug/info/warn/error, got %q", c.App.LogLevel)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug/release/test, got %q", c.Server.Mode)
	}

	if c.Collector.Enabled && len(c.Collector.Sources) == 0 {
		return fmt.Errorf("collector.enabled requires at least one source")
	}
	for i, src := range c.Collector.Sources {
		if strings.TrimSpace(src.BaseURL) == "" {
			return fmt.Errorf("collector.sources[%d].base_url cannot be empty", i)
		}
	}

	if c.Rates.Enabled && len(c.Rates.Pairs) == 0 {
		return fmt.Errorf("rates.enabled requires at least one pair")
	}
	if _, err := decimal.NewFromString(c.Rates.SpreadPerUnit); err != nil {
		return fmt.Errorf("rates.spread_per_unit is not a valid decimal: %w", err)
	}
	return nil
}
