package config

import "testing"

func valid() *Config {
	cfg := &Config{}
	cfg.Broker.Host = "192.168.1.50"
	cfg.Bus.Device = "/dev/ttyUSB0"
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingBrokerHost(t *testing.T) {
	cfg := valid()
	cfg.Broker.Host = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for missing broker host")
	}
}

func TestValidate_RTURequiresDevice(t *testing.T) {
	cfg := valid()
	cfg.Bus.Device = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for rtu mode without device")
	}
}

func TestValidate_TCPRequiresEndpoint(t *testing.T) {
	cfg := valid()
	cfg.Bus.Mode = "tcp"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for tcp mode without endpoint")
	}

	cfg.Bus.Endpoint = "192.168.1.60:502"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadParity(t *testing.T) {
	cfg := valid()
	cfg.Bus.Parity = "X"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for bad parity")
	}
}

func TestValidate_BadMode(t *testing.T) {
	cfg := valid()
	cfg.Bus.Mode = "udp"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown bus mode")
	}
}

func TestParseAndDefaults(t *testing.T) {
	raw := []byte(`
hostname: nilan-attic
broker:
  host: 192.168.1.50
  username: mqtt
  password: secret
bus:
  device: /dev/ttyUSB0
poll:
  groups: [temp, control]
`)

	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ApplyDefaults(cfg)

	if cfg.Hostname != "nilan-attic" {
		t.Errorf("hostname = %q", cfg.Hostname)
	}
	if cfg.Broker.Port != 1883 {
		t.Errorf("default port = %d", cfg.Broker.Port)
	}
	if cfg.Bus.Mode != "rtu" || cfg.Bus.Baud != 19200 || cfg.Bus.Parity != "E" {
		t.Errorf("serial defaults = %+v", cfg.Bus)
	}
	if cfg.Bus.SlaveID != 30 {
		t.Errorf("default slave id = %d", cfg.Bus.SlaveID)
	}
	if cfg.Poll.IntervalS != 180 {
		t.Errorf("default interval = %d", cfg.Poll.IntervalS)
	}
	if cfg.Topic.Root != "ventilation" {
		t.Errorf("default topic root = %q", cfg.Topic.Root)
	}
	if len(cfg.Poll.Groups) != 2 {
		t.Errorf("poll groups = %v", cfg.Poll.Groups)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParse_BadYAML(t *testing.T) {
	if _, err := Parse([]byte("broker: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
