// Package hostname performs best-effort reverse DNS lookups with bounded concurrency.
package hostname

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/config"
	"github.com/projectdiscovery/netvis/pkg/types"
	mapsutil "github.com/projectdiscovery/utils/maps"
	sliceutil "github.com/projectdiscovery/utils/slice"
	syncutil "github.com/projectdiscovery/utils/sync"
)

// ErrNoName is returned when a lookup succeeds without any PTR record
var ErrNoName = errors.New("no ptr record")

// AddrResolver performs reverse lookups; *net.Resolver satisfies it
type AddrResolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Lookup is the outcome of one reverse lookup
type Lookup struct {
	Name string
	Err  error
}

// Resolver resolves hostnames for IP addresses
type Resolver struct {
	resolver    AddrResolver
	timeout     time.Duration
	concurrency int
}

// New creates a resolver around r
func New(r AddrResolver, timeout time.Duration, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Resolver{resolver: r, timeout: timeout, concurrency: concurrency}
}

// NewFromConfig creates a resolver using the system resolver, or the DNS
// server named in cfg when one is set
func NewFromConfig(cfg config.Config) *Resolver {
	return New(newNetResolver(cfg.DNSServer, cfg.ResolveTimeout), cfg.ResolveTimeout, cfg.ResolveConcurrency)
}

func newNetResolver(server string, timeout time.Duration) *net.Resolver {
	if server == "" {
		return net.DefaultResolver
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: timeout}
			return d.DialContext(ctx, network, server)
		},
	}
}

// Resolve performs a single reverse lookup of ip
func (r *Resolver) Resolve(ctx context.Context, ip string) Lookup {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	names, err := r.resolver.LookupAddr(ctx, ip)
	if err != nil {
		return Lookup{Err: fmt.Errorf("reverse lookup of %s failed: %w", ip, err)}
	}
	for _, name := range names {
		if name = strings.TrimSuffix(strings.TrimSpace(name), "."); name != "" {
			return Lookup{Name: name}
		}
	}
	return Lookup{Err: ErrNoName}
}

// ResolveMany resolves every address once, concurrently. Addresses that
// cannot be resolved map to types.UnknownHostname.
func (r *Resolver) ResolveMany(ctx context.Context, ips []string) map[string]string {
	ips = sliceutil.Dedupe(ips)
	hostnames := mapsutil.NewSyncLockMap[string, string]()

	awg, err := syncutil.New(syncutil.WithSize(r.concurrency))
	if err != nil {
		gologger.Warning().Msgf("Could not create resolver pool, skipping reverse lookups: %s", err)
		return fillUnknown(ips, nil)
	}

	for _, ip := range ips {
		awg.Add()
		go func(ip string) {
			defer awg.Done()

			lookup := r.Resolve(ctx, ip)
			if lookup.Err != nil {
				gologger.Debug().Msgf("%s", lookup.Err)
				return
			}
			_ = hostnames.Set(ip, lookup.Name)
		}(ip)
	}
	awg.Wait()

	return fillUnknown(ips, hostnames)
}

func fillUnknown(ips []string, hostnames *mapsutil.SyncLockMap[string, string]) map[string]string {
	result := make(map[string]string, len(ips))
	for _, ip := range ips {
		result[ip] = types.UnknownHostname
	}
	if hostnames == nil {
		return result
	}
	_ = hostnames.Iterate(func(ip string, name string) error {
		result[ip] = name
		return nil
	})
	return result
}
