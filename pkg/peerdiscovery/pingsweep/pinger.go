package pingsweep

import (
	"context"
	"net"
	"time"

	"github.com/go-ping/ping"
)

// PingProber probes with a single-packet go-ping pinger
type PingProber struct {
	timeout    time.Duration
	privileged bool
}

// NewPingProber creates a go-ping based prober
func NewPingProber(timeout time.Duration, privileged bool) *PingProber {
	return &PingProber{timeout: timeout, privileged: privileged}
}

// Probe runs the pinger until one reply arrives or the timeout elapses
func (p *PingProber) Probe(ctx context.Context, ip net.IP) Outcome {
	outcome := Outcome{IP: ip}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	pinger, err := ping.NewPinger(ip.String())
	if err != nil {
		outcome.Err = err
		return outcome
	}
	pinger.Count = 1
	pinger.Timeout = time.Until(probeDeadline(ctx, time.Now(), p.timeout))
	pinger.SetPrivileged(p.privileged)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()

	if err := pinger.Run(); err != nil { // Blocks until finished.
		outcome.Err = err
		return outcome
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		outcome.Reachable = true
		outcome.RTT = stats.AvgRtt
		return outcome
	}
	outcome.Err = ErrNoReply
	return outcome
}
