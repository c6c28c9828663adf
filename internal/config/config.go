// Package config loads and validates the gateway's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Hostname string `yaml:"hostname"`
	LogLevel string `yaml:"log_level"`

	Broker BrokerConfig `yaml:"broker"`
	Bus    BusConfig    `yaml:"bus"`
	Query  QueryConfig  `yaml:"query"`
	Poll   PollConfig   `yaml:"poll"`
	Topic  TopicConfig  `yaml:"topic"`
}

// ---- BROKER ----

type BrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ---- BUS ----

type BusConfig struct {
	Mode string `yaml:"mode"` // "rtu" or "tcp"

	// rtu
	Device   string `yaml:"device"`
	Baud     int    `yaml:"baud"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`

	// tcp
	Endpoint string `yaml:"endpoint"`

	SlaveID   uint8 `yaml:"slave_id"`
	TimeoutMs int   `yaml:"timeout_ms"`
}

// ---- QUERY INTERFACE ----

type QueryConfig struct {
	Listen string `yaml:"listen"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalS int `yaml:"interval_s"`

	// Groups restricts polling to the named catalog groups. Empty means
	// the full catalog.
	Groups []string `yaml:"groups"`
}

// ---- TOPICS ----

type TopicConfig struct {
	Root string `yaml:"root"`
}

// Load reads and decodes the file at path. Defaulting and validation are
// separate stages; call ApplyDefaults and Validate afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes raw YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
