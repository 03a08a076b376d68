package config

import "time"

// Config is the effective pingplot configuration after merging defaults,
// the config file, PINGPLOT_* environment variables and flags.
type Config struct {
	// Interval is the spacing between probe send times for each target.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds how long a single probe waits for a reply.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// BufferSize is the number of samples kept per target. 0 sizes the
	// history to the terminal width.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size"`

	// Method is auto, icmp or tcp.
	Method string `yaml:"method" mapstructure:"method"`

	// Port is the destination port for TCP connect probes.
	Port int `yaml:"port" mapstructure:"port"`

	// PayloadSize is the ICMP echo payload in bytes.
	PayloadSize int `yaml:"payload_size" mapstructure:"payload_size"`

	RenderInterval time.Duration `yaml:"render_interval" mapstructure:"render_interval"`

	// Grace is how long shutdown waits for probes in flight.
	Grace time.Duration `yaml:"grace" mapstructure:"grace"`

	ResolveTimeout time.Duration `yaml:"resolve_timeout" mapstructure:"resolve_timeout"`

	// Family restricts resolution: ip (any), ip4 or ip6.
	Family string `yaml:"family" mapstructure:"family"`

	// Nameserver, when set, is used instead of the system resolver.
	Nameserver string `yaml:"nameserver" mapstructure:"nameserver"`

	// SSHConfig is the ssh_config file whose Host aliases may be used as
	// targets. Empty disables alias lookup.
	SSHConfig string `yaml:"ssh_config" mapstructure:"ssh_config"`

	// Plain prints text lines instead of the dashboard.
	Plain bool `yaml:"plain" mapstructure:"plain"`

	NoColor bool `yaml:"no_color" mapstructure:"no_color"`

	// MetricsAddr enables the Prometheus endpoint when set, e.g. ":9374".
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`

	LogFile  string `yaml:"log_file" mapstructure:"log_file"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Interval:       time.Second,
		Timeout:        time.Second,
		BufferSize:     0,
		Method:         "auto",
		Port:           80,
		PayloadSize:    56,
		RenderInterval: 250 * time.Millisecond,
		Grace:          2 * time.Second,
		ResolveTimeout: 2 * time.Second,
		Family:         "ip",
		SSHConfig:      "~/.ssh/config",
		LogLevel:       "info",
	}
}
