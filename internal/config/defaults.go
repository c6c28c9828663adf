package config

// Defaults for the Nilan controller wiring: the serial side of the
// controller talks 19200 8E1 and answers as slave 30.
const (
	defaultHostname  = "nilan-gateway"
	defaultLogLevel  = "info"
	defaultPort      = 1883
	defaultBaud      = 19200
	defaultDataBits  = 8
	defaultParity    = "E"
	defaultStopBits  = 1
	defaultSlaveID   = 30
	defaultTimeoutMs = 1000
	defaultIntervalS = 180
	defaultListen    = ":1501"
	defaultRoot      = "ventilation"
)

// ApplyDefaults fills unset fields. It is allowed to mutate configuration
// and MUST be called before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Hostname == "" {
		cfg.Hostname = defaultHostname
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.Broker.Port == 0 {
		cfg.Broker.Port = defaultPort
	}

	if cfg.Bus.Mode == "" {
		cfg.Bus.Mode = "rtu"
	}
	if cfg.Bus.Baud == 0 {
		cfg.Bus.Baud = defaultBaud
	}
	if cfg.Bus.DataBits == 0 {
		cfg.Bus.DataBits = defaultDataBits
	}
	if cfg.Bus.Parity == "" {
		cfg.Bus.Parity = defaultParity
	}
	if cfg.Bus.StopBits == 0 {
		cfg.Bus.StopBits = defaultStopBits
	}
	if cfg.Bus.SlaveID == 0 {
		cfg.Bus.SlaveID = defaultSlaveID
	}
	if cfg.Bus.TimeoutMs == 0 {
		cfg.Bus.TimeoutMs = defaultTimeoutMs
	}

	if cfg.Query.Listen == "" {
		cfg.Query.Listen = defaultListen
	}
	if cfg.Poll.IntervalS == 0 {
		cfg.Poll.IntervalS = defaultIntervalS
	}
	if cfg.Topic.Root == "" {
		cfg.Topic.Root = defaultRoot
	}
}
