package pingsweep

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/projectdiscovery/netvis/pkg/config"
)

var (
	// ErrNoReply is returned when the probe timed out without an answer
	ErrNoReply = errors.New("no echo reply")
)

// Outcome is the result of a single reachability probe
type Outcome struct {
	IP        net.IP
	Reachable bool
	RTT       time.Duration
	Err       error
}

// Prober tests whether one address currently responds
type Prober interface {
	Probe(ctx context.Context, ip net.IP) Outcome
}

// NewProber returns the prober selected in cfg
func NewProber(cfg config.Config) (Prober, error) {
	privileged := isPrivileged()
	switch cfg.ProbeMethod {
	case config.ProbeICMP, "":
		return NewICMPProber(cfg.ProbeTimeout, privileged), nil
	case config.ProbePing:
		return NewPingProber(cfg.ProbeTimeout, privileged), nil
	}
	return nil, fmt.Errorf("unsupported probe method: %s", cfg.ProbeMethod)
}

// probeDeadline is the earlier of now+timeout and the context deadline
func probeDeadline(ctx context.Context, start time.Time, timeout time.Duration) time.Time {
	deadline := start.Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}
