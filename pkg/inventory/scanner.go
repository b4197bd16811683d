// Package inventory runs the discovery pipeline and reconciles its sources
// into a single device list.
//
// One scan is:
//
//	subnet detection -> ping sweep -> cache priming -> resolution cache snapshot
//	-> merge (gap fill with hostname + classification) -> traffic counters
//
// Every scan builds its own state; a Scanner only holds immutable collaborators
// and may be shared between concurrent requests.
package inventory

import (
	"context"
	"fmt"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/config"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/classify"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/hostname"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/pingsweep"
	"github.com/projectdiscovery/netvis/pkg/traffic"
	"github.com/projectdiscovery/netvis/pkg/types"
	"github.com/rs/xid"
)

// Dependencies are the collaborators a Scanner drives
type Dependencies struct {
	Subnets    *common.SubnetResolver
	Sweeper    *pingsweep.Sweeper
	Table      arp.Reader
	Hostnames  HostnameResolver
	Gateways   common.GatewayProvider
	Traffic    traffic.Counter
	Exclusions common.Exclusions
}

// Scanner runs discovery cycles
type Scanner struct {
	deps Dependencies
	cfg  config.Config
}

// New creates a scanner from explicit dependencies
func New(cfg config.Config, deps Dependencies) *Scanner {
	return &Scanner{deps: deps, cfg: cfg}
}

// NewFromConfig wires the system collaborators selected in cfg
func NewFromConfig(cfg config.Config) (*Scanner, error) {
	subnets, err := common.NewSubnetResolver(cfg, common.SystemInterfaces{})
	if err != nil {
		return nil, err
	}
	prober, err := pingsweep.NewProber(cfg)
	if err != nil {
		return nil, err
	}
	table, err := arp.NewReader(cfg.TableSource)
	if err != nil {
		return nil, err
	}

	return New(cfg, Dependencies{
		Subnets:    subnets,
		Sweeper:    pingsweep.NewFromConfig(cfg, prober),
		Table:      table,
		Hostnames:  hostname.NewFromConfig(cfg),
		Gateways:   common.SystemGateway{},
		Traffic:    traffic.SystemCounter{},
		Exclusions: common.ExclusionsFromConfig(cfg),
	}), nil
}

// Scan runs one discovery cycle. Collaborator failures only reduce the
// information in the result; an error is returned only when ctx is done.
// When the scan timeout cuts the sweep short, the hosts confirmed so far are
// still resolved and returned.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	sweepCtx := ctx
	if s.cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, s.cfg.ScanTimeout)
		defer cancel()
	}

	scanID := xid.New().String()
	subnet := s.deps.Subnets.LocalSubnet(ctx)

	gologger.Info().Msgf("[%s] Running ping sweep on %s", scanID, subnet)
	sweep, err := s.deps.Sweeper.Sweep(sweepCtx, subnet)
	if err != nil {
		gologger.Warning().Msgf("[%s] Sweep failed, continuing with resolution cache only: %s", scanID, err)
		sweep = &pingsweep.Result{}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s interrupted: %w", scanID, err)
	}
	if sweepCtx.Err() != nil {
		gologger.Warning().Msgf("[%s] Scan timeout of %s reached, continuing with %d hosts found so far", scanID, s.cfg.ScanTimeout, len(sweep.Live))
	}
	gologger.Info().Msgf("[%s] Found %d live hosts in %s", scanID, len(sweep.Live), sweep.Elapsed)

	// the cache only holds entries for hosts we recently talked to
	gologger.Verbose().Msgf("[%s] pinging live hosts to refresh resolution cache", scanID)
	s.deps.Sweeper.Prime(ctx, sweep.Live)

	classifier := classify.NewFromProvider(ctx, s.deps.Gateways)
	if gateway := classifier.Gateway(); gateway != nil {
		gologger.Verbose().Msgf("[%s] default gateway is %s", scanID, gateway)
	}

	gologger.Verbose().Msgf("[%s] reading resolution cache", scanID)
	snapshot := Snapshot(ctx, s.deps.Table, s.deps.Hostnames, classifier, s.deps.Exclusions)

	devices := NewMerger(s.deps.Table, s.deps.Hostnames, classifier).Merge(ctx, sweep, snapshot)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s interrupted: %w", scanID, err)
	}

	var usage types.Usage
	if s.deps.Traffic != nil {
		if usage, err = s.deps.Traffic.Usage(ctx); err != nil {
			gologger.Warning().Msgf("[%s] Could not read traffic counters: %s", scanID, err)
		}
	}

	gologger.Info().Msgf("[%s] Discovered %d devices (%d from resolution cache)", scanID, len(devices), len(snapshot))
	return &types.ScanResult{
		ScanID:   scanID,
		Subnet:   subnet.String(),
		Devices:  devices,
		Usage:    usage,
		ScanTime: types.ScanSeconds(sweep.Elapsed),
	}, nil
}
