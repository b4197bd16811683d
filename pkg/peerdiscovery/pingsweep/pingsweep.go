package pingsweep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/mapcidr"
	"github.com/projectdiscovery/netvis/pkg/config"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/netvis/pkg/types"
	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"
)

// Result is the outcome of one sweep
type Result struct {
	Live    []net.IP
	Elapsed time.Duration
	// Failed counts probes that could not be sent at all, as opposed to
	// probes that went unanswered
	Failed int
}

// Sweeper probes every usable address of a subnet with bounded concurrency
type Sweeper struct {
	prober      Prober
	concurrency int
	exclusions  common.Exclusions
}

// New creates a sweeper running at most concurrency probes at a time
func New(prober Prober, concurrency int, exclusions common.Exclusions) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sweeper{
		prober:      prober,
		concurrency: concurrency,
		exclusions:  exclusions,
	}
}

// NewFromConfig creates a sweeper using the probe pool size and exclusion
// lists of cfg
func NewFromConfig(cfg config.Config, prober Prober) *Sweeper {
	return New(prober, cfg.ProbeConcurrency, common.ExclusionsFromConfig(cfg))
}

// Sweep probes all host addresses of subnet once and returns the ones that
// answered. Individual probe failures only drop that address.
func (s *Sweeper) Sweep(ctx context.Context, subnet types.Subnet) (*Result, error) {
	start := time.Now()

	ips, err := HostAddresses(subnet)
	if err != nil {
		return nil, err
	}
	gologger.Verbose().Msgf("sweeping %d addresses in %s", len(ips), subnet)

	// probe likely hosts first so a cut-short sweep still covers them
	outcomes, err := s.probeAll(ctx, dispatchOrder(ips))
	if err != nil {
		return nil, err
	}

	var live []net.IP
	_ = outcomes.Iterate(func(key string, outcome *Outcome) error {
		if !outcome.Reachable {
			if outcome.Err != nil {
				gologger.Debug().Msgf("%s did not respond: %s", key, outcome.Err)
			}
			return nil
		}
		if s.exclusions.IsExcluded(key) {
			return nil
		}
		live = append(live, outcome.IP.To4())
		return nil
	})
	SortIPs(live)

	failed, probed, firstErr := countFailures(outcomes)
	if failed > 0 && failed == probed {
		gologger.Warning().Msgf("All %d probes on %s failed, check socket privileges or -probe: %s", failed, subnet, firstErr)
	}

	return &Result{Live: live, Elapsed: time.Since(start), Failed: failed}, nil
}

// countFailures returns how many probes errored for a reason other than a
// missing reply or a finished context, out of all probes that ran
func countFailures(outcomes *mapsutil.SyncLockMap[string, *Outcome]) (failed, probed int, firstErr error) {
	_ = outcomes.Iterate(func(key string, outcome *Outcome) error {
		probed++
		err := outcome.Err
		if outcome.Reachable || err == nil || errors.Is(err, ErrNoReply) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		failed++
		if firstErr == nil {
			firstErr = err
		}
		return nil
	})
	return failed, probed, firstErr
}

// Prime probes each address once so the OS resolution cache holds fresh
// entries for them. The probe results themselves are discarded.
func (s *Sweeper) Prime(ctx context.Context, ips []net.IP) {
	if len(ips) == 0 {
		return
	}
	if _, err := s.probeAll(ctx, ips); err != nil {
		gologger.Warning().Msgf("Could not prime resolution cache: %s", err)
		return
	}
	gologger.Verbose().Msgf("primed resolution cache for %d addresses", len(ips))
}

func (s *Sweeper) probeAll(ctx context.Context, ips []net.IP) (*mapsutil.SyncLockMap[string, *Outcome], error) {
	outcomes := mapsutil.NewSyncLockMap[string, *Outcome]()

	awg, err := syncutil.New(syncutil.WithSize(s.concurrency))
	if err != nil {
		return nil, fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	for _, ip := range ips {
		select {
		case <-ctx.Done():
			goto done
		default:
		}

		awg.Add()
		go func(target net.IP) {
			defer awg.Done()

			outcome := s.prober.Probe(ctx, target)
			outcome.IP = target
			_ = outcomes.Set(target.String(), &outcome)
		}(ip)
	}

done:
	awg.Wait()
	return outcomes, nil
}

// HostAddresses expands subnet to its usable host addresses, excluding the
// network and broadcast addresses
func HostAddresses(subnet types.Subnet) ([]net.IP, error) {
	network := subnet.IPNet()
	cidrStr := network.String()
	ips, err := mapcidr.IPAddresses(cidrStr)
	if err != nil {
		return nil, fmt.Errorf("failed to expand CIDR %s: %w", cidrStr, err)
	}

	hosts := make([]net.IP, 0, len(ips))
	for _, ipStr := range ips {
		ip := net.ParseIP(ipStr).To4()
		if ip == nil {
			continue
		}
		if common.IsNetworkOrBroadcast(ip, network) {
			continue
		}
		hosts = append(hosts, ip)
	}
	return hosts, nil
}

// SortIPs orders IPv4 addresses numerically
func SortIPs(ips []net.IP) {
	sort.Slice(ips, func(i, j int) bool {
		return bytes.Compare(ips[i].To4(), ips[j].To4()) < 0
	})
}
