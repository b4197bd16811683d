package pingsweep

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/netvis/pkg/types"
)

type fakeProber struct {
	delay    time.Duration
	live     map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	probed   map[string]int
}

func newFakeProber(delay time.Duration, live ...string) *fakeProber {
	p := &fakeProber{delay: delay, live: map[string]bool{}, probed: map[string]int{}}
	for _, ip := range live {
		p.live[ip] = true
	}
	return p
}

func (p *fakeProber) Probe(ctx context.Context, ip net.IP) Outcome {
	current := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		peak := p.peak.Load()
		if current <= peak || p.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	p.mu.Lock()
	p.probed[ip.String()]++
	p.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.live[ip.String()] {
		return Outcome{IP: ip, Reachable: true, RTT: p.delay}
	}
	return Outcome{IP: ip, Err: ErrNoReply}
}

func mustSubnet(t *testing.T, cidr string) types.Subnet {
	t.Helper()
	subnet, err := types.ParseSubnet(cidr)
	if err != nil {
		t.Fatalf("ParseSubnet(%s) error = %v", cidr, err)
	}
	return subnet
}

func TestHostAddresses(t *testing.T) {
	tests := []struct {
		name      string
		cidr      string
		wantCount int
	}{
		{name: "/24 network", cidr: "192.168.1.0/24", wantCount: 254},
		{name: "/30 network", cidr: "192.168.1.0/30", wantCount: 2},
		{name: "/23 network", cidr: "10.0.0.0/23", wantCount: 510},
		{name: "Single host /32", cidr: "192.168.1.1/32", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ips, err := HostAddresses(mustSubnet(t, tt.cidr))
			if err != nil {
				t.Fatalf("HostAddresses() error = %v", err)
			}
			if len(ips) != tt.wantCount {
				t.Errorf("HostAddresses() count = %d, want %d", len(ips), tt.wantCount)
			}
			network := mustSubnet(t, tt.cidr).IPNet()
			for _, ip := range ips {
				if common.IsNetworkOrBroadcast(ip, network) {
					t.Errorf("HostAddresses() returned network/broadcast address %s", ip)
				}
			}
		})
	}
}

func TestSweepReturnsOnlyConfirmedAddresses(t *testing.T) {
	prober := newFakeProber(0, "192.168.1.1", "192.168.1.50", "192.168.1.7")
	sweeper := New(prober, 10, common.DefaultExclusions)

	result, err := sweeper.Sweep(context.Background(), mustSubnet(t, "192.168.1.0/24"))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	want := []string{"192.168.1.1", "192.168.1.7", "192.168.1.50"}
	if len(result.Live) != len(want) {
		t.Fatalf("Sweep() live = %v, want %v", result.Live, want)
	}
	for i, ip := range result.Live {
		if ip.String() != want[i] {
			t.Errorf("Sweep() live[%d] = %s, want %s", i, ip, want[i])
		}
	}
	if len(prober.probed) != 254 {
		t.Errorf("probed %d addresses, want 254", len(prober.probed))
	}
	for ip, n := range prober.probed {
		if n != 1 {
			t.Errorf("%s probed %d times, want exactly once", ip, n)
		}
	}
}

func TestSweepFiltersExcludedAddresses(t *testing.T) {
	prober := newFakeProber(0, "10.0.0.1", "10.0.0.2")
	sweeper := New(prober, 4, common.Exclusions{IPs: []string{"10.0.0.2"}})

	result, err := sweeper.Sweep(context.Background(), mustSubnet(t, "10.0.0.0/29"))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Live) != 1 || result.Live[0].String() != "10.0.0.1" {
		t.Errorf("Sweep() live = %v, want [10.0.0.1]", result.Live)
	}
}

func TestSweepBoundedConcurrency(t *testing.T) {
	// 510 hosts at 20ms each would take >10s sequentially; with a pool of 100
	// it is roughly six waves of the slowest probe.
	const delay = 20 * time.Millisecond
	prober := newFakeProber(delay)
	sweeper := New(prober, 100, common.DefaultExclusions)

	result, err := sweeper.Sweep(context.Background(), mustSubnet(t, "10.0.0.0/23"))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if result.Elapsed >= 3*time.Second {
		t.Errorf("Sweep() elapsed = %s, expected it to scale with waves, not address count", result.Elapsed)
	}
	if result.Elapsed < delay {
		t.Errorf("Sweep() elapsed = %s, must include the slowest probe", result.Elapsed)
	}
	if peak := prober.peak.Load(); peak > 100 {
		t.Errorf("peak concurrency = %d, want <= 100", peak)
	}
}

func TestSweepCancelledContext(t *testing.T) {
	prober := newFakeProber(0, "192.168.1.1")
	sweeper := New(prober, 10, common.DefaultExclusions)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sweeper.Sweep(ctx, mustSubnet(t, "192.168.1.0/24"))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Live) != 0 {
		t.Errorf("Sweep() live = %v, want none after cancellation", result.Live)
	}
}

func TestPrimeProbesEachAddressOnce(t *testing.T) {
	prober := newFakeProber(0)
	sweeper := New(prober, 2, common.DefaultExclusions)

	ips := []net.IP{net.ParseIP("192.168.1.1"), net.ParseIP("192.168.1.2"), net.ParseIP("192.168.1.3")}
	sweeper.Prime(context.Background(), ips)

	if len(prober.probed) != len(ips) {
		t.Errorf("Prime() probed %d addresses, want %d", len(prober.probed), len(ips))
	}
}

func TestProbeDeadline(t *testing.T) {
	start := time.Now()
	if got := probeDeadline(context.Background(), start, time.Second); !got.Equal(start.Add(time.Second)) {
		t.Errorf("probeDeadline() = %s, want start+1s", got)
	}

	ctx, cancel := context.WithDeadline(context.Background(), start.Add(100*time.Millisecond))
	defer cancel()
	if got := probeDeadline(ctx, start, time.Second); !got.Equal(start.Add(100 * time.Millisecond)) {
		t.Errorf("probeDeadline() = %s, want context deadline", got)
	}
}

func TestICMPProberRejectsIPv6(t *testing.T) {
	outcome := NewICMPProber(time.Second, false).Probe(context.Background(), net.ParseIP("fe80::1"))
	if outcome.Reachable || outcome.Err == nil {
		t.Errorf("Probe() = %+v, want an error outcome for ipv6", outcome)
	}
	if errors.Is(outcome.Err, ErrNoReply) {
		t.Error("ipv6 rejection must not be reported as a timeout")
	}
}

func TestDispatchOrder(t *testing.T) {
	hosts, err := HostAddresses(mustSubnet(t, "192.168.1.0/24"))
	if err != nil {
		t.Fatal(err)
	}

	ordered := dispatchOrder(hosts)
	if len(ordered) != len(hosts) {
		t.Fatalf("dispatchOrder() returned %d addresses, want %d", len(ordered), len(hosts))
	}
	if ordered[0].String() != "192.168.1.1" || ordered[1].String() != "192.168.1.254" {
		t.Errorf("first addresses = %s, %s, want gateways first", ordered[0], ordered[1])
	}
	if last := ordered[len(ordered)-1].String(); last != "192.168.1.249" {
		t.Errorf("last address = %s, want 192.168.1.249", last)
	}
	for i := 1; i < len(ordered); i++ {
		if likelihoodOf(ordered[i-1]) < likelihoodOf(ordered[i]) {
			t.Fatalf("%s scored lower than %s but was dispatched first", ordered[i-1], ordered[i])
		}
	}

	seen := map[string]bool{}
	for _, ip := range ordered {
		seen[ip.String()] = true
	}
	if len(seen) != len(hosts) {
		t.Errorf("dispatchOrder() dropped or duplicated addresses: %d unique of %d", len(seen), len(hosts))
	}
	if hosts[0].String() != "192.168.1.1" || hosts[1].String() != "192.168.1.2" {
		t.Error("dispatchOrder() modified its input")
	}
}

type deniedProber struct{}

func (deniedProber) Probe(ctx context.Context, ip net.IP) Outcome {
	return Outcome{IP: ip, Err: errors.New("socket: operation not permitted")}
}

func TestSweepCountsProbesThatCouldNotBeSent(t *testing.T) {
	sweeper := New(deniedProber{}, 4, common.DefaultExclusions)

	result, err := sweeper.Sweep(context.Background(), mustSubnet(t, "10.0.0.0/29"))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Live) != 0 {
		t.Errorf("Sweep() live = %v, want none", result.Live)
	}
	if result.Failed != 6 {
		t.Errorf("Sweep() failed = %d, want all 6 probes", result.Failed)
	}

	// unanswered probes are not failures
	result, err = New(newFakeProber(0, "10.0.0.1"), 4, common.DefaultExclusions).Sweep(context.Background(), mustSubnet(t, "10.0.0.0/29"))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if result.Failed != 0 {
		t.Errorf("Sweep() failed = %d, want 0 when hosts simply do not answer", result.Failed)
	}
}
