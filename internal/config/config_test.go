package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingplot/internal/errors"
)

// isolate points HOME at an empty directory so a real user config is
// never picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	d := DefaultConfig()
	fs.Duration("interval", d.Interval, "")
	fs.Duration("timeout", d.Timeout, "")
	fs.Int("buffer-size", d.BufferSize, "")
	fs.String("method", d.Method, "")
	fs.Int("port", d.Port, "")
	fs.Bool("plain", false, "")
	return fs
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.BufferSize)
	assert.Equal(t, "auto", cfg.Method)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, 56, cfg.PayloadSize)
	assert.Equal(t, 250*time.Millisecond, cfg.RenderInterval)
	assert.Equal(t, 2*time.Second, cfg.Grace)
	assert.Equal(t, 2*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, "ip", cfg.Family)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, Validate(cfg))
}

func TestLoad_DefaultsOnly(t *testing.T) {
	home := isolate(t)

	cfg, path, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, filepath.Join(home, ".ssh/config"), cfg.SSHConfig)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
interval: 500ms
timeout: 2s
buffer_size: 300
method: TCP
port: 443
family: ip6
log_file: ~/pingplot.log
`)

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 300, cfg.BufferSize)
	assert.Equal(t, "tcp", cfg.Method)
	assert.Equal(t, 443, cfg.Port)
	assert.Equal(t, "ip6", cfg.Family)
	assert.NotContains(t, cfg.LogFile, "~")
	// untouched keys keep defaults
	assert.Equal(t, 250*time.Millisecond, cfg.RenderInterval)
}

func TestLoad_GlobalFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, GlobalConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := writeConfig(t, dir, "interval: 3s\n")

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3*time.Second, cfg.Interval)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "interval: 3s\ntimeout: 3s\nport: 8080\nbuffer_size: 50\n")
	t.Setenv("PINGPLOT_TIMEOUT", "4s")
	t.Setenv("PINGPLOT_PORT", "9090")
	t.Setenv("PINGPLOT_BUFFER_SIZE", "70")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--port", "22"}))

	cfg, _, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Interval, "file beats default")
	assert.Equal(t, 4*time.Second, cfg.Timeout, "env beats file")
	assert.Equal(t, 70, cfg.BufferSize, "env beats file")
	assert.Equal(t, 22, cfg.Port, "flag beats env")
	assert.Equal(t, "auto", cfg.Method, "unset flag does not override")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "interval: [1s\n")

	_, _, err := Load(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_InvalidValue(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "interval: soon\n")

	_, _, err := Load(path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Equal(t, errors.ExitCodeUsage, errors.ExitCodeFor(err))
}

func TestLoad_ValidatesResult(t *testing.T) {
	isolate(t)
	t.Setenv("PINGPLOT_METHOD", "carrier-pigeon")

	_, _, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval must be positive"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout must be positive"},
		{"timeout above interval is fine", func(c *Config) { c.Timeout = 5 * time.Second }, ""},
		{"render too fast", func(c *Config) { c.RenderInterval = 10 * time.Millisecond }, "Render interval"},
		{"render too slow", func(c *Config) { c.RenderInterval = time.Minute }, "Render interval"},
		{"negative grace", func(c *Config) { c.Grace = -1 }, "grace"},
		{"zero grace", func(c *Config) { c.Grace = 0 }, ""},
		{"buffer auto", func(c *Config) { c.BufferSize = 0 }, ""},
		{"buffer too small", func(c *Config) { c.BufferSize = 1 }, "Buffer size"},
		{"buffer too big", func(c *Config) { c.BufferSize = MaxBufferSize + 1 }, "Buffer size"},
		{"method tcp", func(c *Config) { c.Method = "tcp" }, ""},
		{"method bogus", func(c *Config) { c.Method = "udp" }, "probe method"},
		{"family ip4", func(c *Config) { c.Family = "ip4" }, ""},
		{"family bogus", func(c *Config) { c.Family = "ipx" }, "address family"},
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too big", func(c *Config) { c.Port = 70000 }, "port"},
		{"payload zero", func(c *Config) { c.PayloadSize = 0 }, "Payload"},
		{"payload one byte", func(c *Config) { c.PayloadSize = 1 }, ""},
		{"payload too big", func(c *Config) { c.PayloadSize = 70000 }, "Payload"},
		{"log level bogus", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"log level warning", func(c *Config) { c.LogLevel = "warning" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestDump_RoundTrips(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.Interval = 750 * time.Millisecond
	cfg.Method = "icmp"
	cfg.MetricsAddr = ":9374"

	out, err := Dump(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "interval: 750ms")
	assert.Contains(t, string(out), "metrics_addr:")

	path := writeConfig(t, t.TempDir(), string(out))
	loaded, _, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.Interval, loaded.Interval)
	assert.Equal(t, cfg.Method, loaded.Method)
	assert.Equal(t, cfg.MetricsAddr, loaded.MetricsAddr)
}

func TestExpandTilde(t *testing.T) {
	home := isolate(t)

	assert.Equal(t, "", ExpandTilde(""))
	assert.Equal(t, home, ExpandTilde("~"))
	assert.Equal(t, filepath.Join(home, "x/y"), ExpandTilde("~/x/y"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
	assert.Equal(t, "~other/path", ExpandTilde("~other/path"))
}
