package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/rileyhilliard/pingplot/internal/history"
)

// Classify turns the result of one Probe call into a sample outcome.
func Classify(rtt time.Duration, err error) history.Outcome {
	if err == nil {
		return history.Succeeded(rtt)
	}
	if isTimeout(err) {
		return history.TimedOut()
	}
	return history.Failed(categorize(err))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// categorize maps a transport error to an ErrorKind, first by errno and
// then by message for errors that lost their type along the way.
func categorize(err error) history.ErrorKind {
	switch {
	case errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTDOWN):
		return history.ErrUnreachable
	case errors.Is(err, syscall.ECONNREFUSED):
		return history.ErrRefused
	case errors.Is(err, syscall.ENETDOWN):
		return history.ErrNetwork
	case errors.Is(err, os.ErrPermission):
		return history.ErrPermission
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "host is down") ||
		strings.Contains(errStr, "destination unreachable") {
		return history.ErrUnreachable
	}

	if strings.Contains(errStr, "connection refused") {
		return history.ErrRefused
	}

	if strings.Contains(errStr, "network is down") {
		return history.ErrNetwork
	}

	if strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "operation not permitted") {
		return history.ErrPermission
	}

	return history.ErrUnknown
}
