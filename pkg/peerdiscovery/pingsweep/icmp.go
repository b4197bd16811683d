package pingsweep

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

var echoPayload = []byte("HELLO-R-U-THERE")

// ICMPProber sends a single ICMP echo request per probe on its own socket
type ICMPProber struct {
	timeout    time.Duration
	privileged bool
	id         int
	seq        atomic.Uint32
}

// NewICMPProber creates an ICMP prober. When privileged is false a datagram
// ICMP socket is used, which the kernel must allow for the process group.
func NewICMPProber(timeout time.Duration, privileged bool) *ICMPProber {
	return &ICMPProber{
		timeout:    timeout,
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
	}
}

// Probe sends one echo request to ip and waits for the matching reply
func (p *ICMPProber) Probe(ctx context.Context, ip net.IP) Outcome {
	outcome := Outcome{IP: ip}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	ip4 := ip.To4()
	if ip4 == nil {
		outcome.Err = fmt.Errorf("not an ipv4 address: %s", ip)
		return outcome
	}

	conn, err := p.listen()
	if err != nil {
		outcome.Err = fmt.Errorf("failed to create ICMP connection: %w", err)
		return outcome
	}
	defer func() {
		_ = conn.Close()
	}()

	seq := int(p.seq.Add(1) & 0xffff)
	msg := &icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: echoPayload,
		},
	}
	msgBytes, err := msg.Marshal(nil)
	if err != nil {
		outcome.Err = fmt.Errorf("failed to marshal ICMP message: %w", err)
		return outcome
	}

	start := time.Now()
	if _, err := conn.WriteTo(msgBytes, p.destination(ip4)); err != nil {
		outcome.Err = err
		return outcome
	}
	if err := conn.SetReadDeadline(probeDeadline(ctx, start, p.timeout)); err != nil {
		outcome.Err = err
		return outcome
	}

	reply := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(reply)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				outcome.Err = ErrNoReply
			} else {
				outcome.Err = err
			}
			return outcome
		}

		rm, err := icmp.ParseMessage(ipv4.ICMPTypeEchoReply.Protocol(), reply[:n])
		if err != nil || rm.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := rm.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}
		// datagram sockets get their echo ID rewritten by the kernel
		if p.privileged && echo.ID != p.id {
			continue
		}
		if !peerIP(peer).Equal(ip4) {
			continue
		}

		outcome.Reachable = true
		outcome.RTT = time.Since(start)
		return outcome
	}
}

func (p *ICMPProber) listen() (*icmp.PacketConn, error) {
	if p.privileged {
		return icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	}
	return icmp.ListenPacket("udp4", "0.0.0.0")
}

func (p *ICMPProber) destination(ip net.IP) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}
	return &net.UDPAddr{IP: ip}
}

func peerIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPAddr:
		return v.IP
	case *net.UDPAddr:
		return v.IP
	}
	return nil
}
