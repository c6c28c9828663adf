package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Broker.Host == "" {
		return fmt.Errorf("config: broker.host is required")
	}
	if cfg.Broker.Port < 1 || cfg.Broker.Port > 65535 {
		return fmt.Errorf("config: broker.port %d out of range", cfg.Broker.Port)
	}

	switch cfg.Bus.Mode {
	case "rtu":
		if cfg.Bus.Device == "" {
			return fmt.Errorf("config: bus.device is required in rtu mode")
		}
		switch cfg.Bus.Parity {
		case "N", "E", "O":
		default:
			return fmt.Errorf("config: bus.parity %q must be N, E or O", cfg.Bus.Parity)
		}
	case "tcp":
		if cfg.Bus.Endpoint == "" {
			return fmt.Errorf("config: bus.endpoint is required in tcp mode")
		}
	default:
		return fmt.Errorf("config: bus.mode %q must be rtu or tcp", cfg.Bus.Mode)
	}

	if cfg.Bus.TimeoutMs <= 0 {
		return fmt.Errorf("config: bus.timeout_ms must be > 0")
	}
	if cfg.Poll.IntervalS <= 0 {
		return fmt.Errorf("config: poll.interval_s must be > 0")
	}

	return nil
}
