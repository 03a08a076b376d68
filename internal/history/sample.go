package history

import (
	"fmt"
	"time"
)

// OutcomeKind classifies the result of a single probe.
type OutcomeKind int

const (
	// Success means a reply arrived before the timeout.
	Success OutcomeKind = iota
	// Timeout means no reply arrived within the per-probe timeout.
	Timeout
	// Error means the transport failed (unreachable, network down, ...).
	Error
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Timeout:
		return "timeout"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// ErrorKind narrows an Error outcome. It is informational only: every
// non-success outcome counts as loss.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrUnreachable
	ErrRefused
	ErrNetwork
	ErrPermission
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnreachable:
		return "unreachable"
	case ErrRefused:
		return "refused"
	case ErrNetwork:
		return "network"
	case ErrPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of a probe. RTT is only meaningful for
// Success, Err only for Error.
type Outcome struct {
	Kind OutcomeKind
	RTT  time.Duration
	Err  ErrorKind
}

// Succeeded returns a Success outcome with the given round-trip time.
func Succeeded(rtt time.Duration) Outcome {
	return Outcome{Kind: Success, RTT: rtt}
}

// TimedOut returns a Timeout outcome.
func TimedOut() Outcome {
	return Outcome{Kind: Timeout}
}

// Failed returns an Error outcome of the given kind.
func Failed(kind ErrorKind) Outcome {
	return Outcome{Kind: Error, Err: kind}
}

// OK reports whether the outcome is a Success.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

func (o Outcome) String() string {
	switch o.Kind {
	case Success:
		return o.RTT.String()
	case Error:
		return "error: " + o.Err.String()
	default:
		return o.Kind.String()
	}
}

// Sample is the recorded result of one probe. Samples are values and are
// never modified after being appended.
type Sample struct {
	Seq     uint64
	SentAt  time.Time
	Outcome Outcome
}

// Totals counts probes over the whole run, including samples that have
// since been evicted from the ring.
type Totals struct {
	Sent      uint64
	Succeeded uint64
	Lost      uint64
}
