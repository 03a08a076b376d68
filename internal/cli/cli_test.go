package cli

import (
	"bytes"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pingplot/internal/engine"
	"github.com/rileyhilliard/pingplot/internal/errors"
)

// syncBuffer is a bytes.Buffer safe to write from the render loop while
// the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr syncBuffer
	code := ExecuteArgs(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_NoTargets(t *testing.T) {
	code, _, stderr := run(t)
	assert.Equal(t, errors.ExitCodeUsage, code)
	assert.Contains(t, stderr, "No targets given")
}

func TestExecute_UnknownFlag(t *testing.T) {
	code, _, stderr := run(t, "--bogus", "1.1.1.1")
	assert.Equal(t, errors.ExitCodeUsage, code)
	assert.Contains(t, stderr, "--bogus")
}

func TestExecute_BadFlagValue(t *testing.T) {
	code, _, _ := run(t, "--interval", "soon", "1.1.1.1")
	assert.Equal(t, errors.ExitCodeUsage, code)
}

func TestExecute_InvalidConfig(t *testing.T) {
	tests := [][]string{
		{"--interval", "-1s", "1.1.1.1"},
		{"--method", "udp", "1.1.1.1"},
		{"--port", "0", "1.1.1.1"},
		{"--render-interval", "1ms", "1.1.1.1"},
		{"--config", "/does/not/exist.yaml", "1.1.1.1"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, _, stderr := run(t, args...)
			assert.Equal(t, errors.ExitCodeUsage, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestExecute_NothingResolves(t *testing.T) {
	code, _, stderr := run(t,
		"--method", "tcp",
		"--nameserver", "127.0.0.1:1",
		"--resolve-timeout", "300ms",
		"nope.invalid", "also-nope.invalid")

	assert.Equal(t, errors.ExitCodeNoTargets, code)
	assert.Contains(t, stderr, "None of the 2 target(s) could be resolved")
	assert.Contains(t, stderr, "nope.invalid")
}

func TestExecute_PlainSession(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	port := ln.Addr().(*net.TCPAddr).Port

	var stdout, stderr syncBuffer
	startHook = func(c *engine.Coordinator) {
		go func() {
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) && strings.Count(stdout.String(), "\n") < 3 {
				time.Sleep(5 * time.Millisecond)
			}
			c.Interrupt()
		}()
	}
	t.Cleanup(func() { startHook = nil })
	t.Setenv("HOME", t.TempDir())

	code := ExecuteArgs([]string{
		"--method", "tcp",
		"--port", fmt.Sprint(port),
		"--interval", "10ms",
		"--render-interval", "50ms",
		"--nameserver", "127.0.0.1:1",
		"--resolve-timeout", "300ms",
		"127.0.0.1", "nope.invalid",
	}, &stdout, &stderr)

	assert.Equal(t, errors.ExitCodeOK, code)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "127.0.0.1 last=")
	assert.Contains(t, lines[0], "loss=0.0%")
	assert.NotContains(t, stdout.String(), "nope.invalid")

	assert.Contains(t, stderr.String(), "⚠ Cannot resolve nope.invalid, not monitoring it")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	code, stdout, _ := run(t, "version")
	assert.Equal(t, errors.ExitCodeOK, code)
	assert.Contains(t, stdout, "pingplot v1.2.3")
	assert.Contains(t, stdout, "commit: abc123")
	assert.Contains(t, stdout, "built: 2024-01-01")

	code, stdout, _ = run(t, "version", "--short")
	assert.Equal(t, errors.ExitCodeOK, code)
	assert.Equal(t, "1.2.3\n", stdout)
	assert.Equal(t, "1.2.3", GetVersion())
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	code, _, _ := run(t, "version", "extra")
	assert.Equal(t, errors.ExitCodeUsage, code)
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"dev", "dev"},
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("PINGPLOT_PORT", "8443")
	code, stdout, _ := run(t, "config", "--interval", "250ms", "-m", "tcp")

	assert.Equal(t, errors.ExitCodeOK, code)
	assert.Contains(t, stdout, "interval: 250ms")
	assert.Contains(t, stdout, "method: tcp")
	assert.Contains(t, stdout, "port: 8443")
	assert.NotContains(t, stdout, "# loaded from")
}

func TestConfigCommand_InvalidValue(t *testing.T) {
	code, _, stderr := run(t, "config", "--family", "ipx")
	assert.Equal(t, errors.ExitCodeUsage, code)
	assert.Contains(t, stderr, "ipx")
}

func TestAutoBufferSize(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, fallbackBufferSize},
		{-1, fallbackBufferSize},
		{20, minAutoBufferSize},
		{80, (80 - chartChrome) * 2},
		{120, (120 - chartChrome) * 2},
		{1000, maxAutoBufferSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, autoBufferSize(tt.width), "width %d", tt.width)
	}
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	_, isTTY := terminalWidth(&bytes.Buffer{})
	assert.False(t, isTTY)
}

func TestIsUsageError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{`unknown command "foo" for "pingplot version"`, true},
		{"unknown flag: --foo", true},
		{"unknown shorthand flag: 'z' in -z", true},
		{"accepts 0 arg(s), received 1", true},
		{"connection failed", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isUsageError(fmt.Errorf("%s", tt.msg)), tt.msg)
	}
}
