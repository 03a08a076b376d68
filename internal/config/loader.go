package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pingplot/internal/errors"
)

const (
	// GlobalConfigDir is the directory for the user config, relative to home.
	GlobalConfigDir = ".config/pingplot"
	// GlobalConfigFile is the user config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PINGPLOT_INTERVAL.
	EnvPrefix = "PINGPLOT"
)

// flagNames maps config keys to the command-line flags that override them.
var flagNames = map[string]string{
	"interval":        "interval",
	"timeout":         "timeout",
	"buffer_size":     "buffer-size",
	"method":          "method",
	"port":            "port",
	"payload_size":    "payload-size",
	"render_interval": "render-interval",
	"grace":           "grace",
	"resolve_timeout": "resolve-timeout",
	"family":          "family",
	"nameserver":      "nameserver",
	"ssh_config":      "ssh-config",
	"plain":           "plain",
	"no_color":        "no-color",
	"metrics_addr":    "metrics-addr",
	"log_file":        "log-file",
	"log_level":       "log-level",
}

// Load builds the effective configuration. Later layers win: defaults, the
// config file (explicit path or the global one), PINGPLOT_* environment
// variables, then flags that were set on the command line. flags may be nil.
// It returns the config and the path of the file that was read, if any.
func Load(explicit string, flags *pflag.FlagSet) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML: "+path)
		}
	}

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
						"Failed to bind flag --"+name, "")
				}
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment and flags"
		if path != "" {
			where = path
		}
		return nil, "", errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}
	cfg.Method = strings.ToLower(strings.TrimSpace(cfg.Method))
	cfg.Family = strings.ToLower(strings.TrimSpace(cfg.Family))
	expandPaths(cfg)

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Find locates the config file:
// 1. Explicit path (from --config flag), which must exist
// 2. ~/.config/pingplot/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", nil
	}
	global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(global); err == nil {
		return global, nil
	}
	return "", nil
}

// setDefaults registers every key so environment variables are picked up
// by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("interval", d.Interval)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("buffer_size", d.BufferSize)
	v.SetDefault("method", d.Method)
	v.SetDefault("port", d.Port)
	v.SetDefault("payload_size", d.PayloadSize)
	v.SetDefault("render_interval", d.RenderInterval)
	v.SetDefault("grace", d.Grace)
	v.SetDefault("resolve_timeout", d.ResolveTimeout)
	v.SetDefault("family", d.Family)
	v.SetDefault("nameserver", d.Nameserver)
	v.SetDefault("ssh_config", d.SSHConfig)
	v.SetDefault("plain", d.Plain)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("metrics_addr", d.MetricsAddr)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
}

// dumpView is Config as it appears in a config file, with durations written
// the way they are typed ("1s" rather than nanoseconds).
type dumpView struct {
	Interval       string `yaml:"interval"`
	Timeout        string `yaml:"timeout"`
	BufferSize     int    `yaml:"buffer_size"`
	Method         string `yaml:"method"`
	Port           int    `yaml:"port"`
	PayloadSize    int    `yaml:"payload_size"`
	RenderInterval string `yaml:"render_interval"`
	Grace          string `yaml:"grace"`
	ResolveTimeout string `yaml:"resolve_timeout"`
	Family         string `yaml:"family"`
	Nameserver     string `yaml:"nameserver"`
	SSHConfig      string `yaml:"ssh_config"`
	Plain          bool   `yaml:"plain"`
	NoColor        bool   `yaml:"no_color"`
	MetricsAddr    string `yaml:"metrics_addr"`
	LogFile        string `yaml:"log_file"`
	LogLevel       string `yaml:"log_level"`
}

// Dump renders cfg as YAML that Load can read back.
func Dump(cfg *Config) ([]byte, error) {
	view := dumpView{
		Interval:       cfg.Interval.String(),
		Timeout:        cfg.Timeout.String(),
		BufferSize:     cfg.BufferSize,
		Method:         cfg.Method,
		Port:           cfg.Port,
		PayloadSize:    cfg.PayloadSize,
		RenderInterval: cfg.RenderInterval.String(),
		Grace:          cfg.Grace.String(),
		ResolveTimeout: cfg.ResolveTimeout.String(),
		Family:         cfg.Family,
		Nameserver:     cfg.Nameserver,
		SSHConfig:      cfg.SSHConfig,
		Plain:          cfg.Plain,
		NoColor:        cfg.NoColor,
		MetricsAddr:    cfg.MetricsAddr,
		LogFile:        cfg.LogFile,
		LogLevel:       cfg.LogLevel,
	}
	out, err := yaml.Marshal(&view)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to render config", "")
	}
	return out, nil
}
