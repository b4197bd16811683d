package common

import (
	"context"
	"fmt"
	"net"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/config"
	"github.com/projectdiscovery/netvis/pkg/types"
	sliceutil "github.com/projectdiscovery/utils/slice"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// InterfaceAddr is one address assigned to a local interface
type InterfaceAddr struct {
	Name     string
	Up       bool
	Loopback bool
	Addr     *net.IPNet
}

// InterfaceProvider enumerates local interface addresses in OS order
type InterfaceProvider interface {
	InterfaceAddrs(ctx context.Context) ([]InterfaceAddr, error)
}

// SystemInterfaces reads interface state through gopsutil
type SystemInterfaces struct{}

// InterfaceAddrs returns every address of every local interface
func (SystemInterfaces) InterfaceAddrs(ctx context.Context) ([]InterfaceAddr, error) {
	interfaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var addrs []InterfaceAddr
	for _, iface := range interfaces {
		up := sliceutil.Contains(iface.Flags, "up")
		loopback := sliceutil.Contains(iface.Flags, "loopback")
		for _, addr := range iface.Addrs {
			ip, ipNet, err := net.ParseCIDR(addr.Addr)
			if err != nil {
				continue
			}
			addrs = append(addrs, InterfaceAddr{
				Name:     iface.Name,
				Up:       up,
				Loopback: loopback,
				Addr:     &net.IPNet{IP: ip, Mask: ipNet.Mask},
			})
		}
	}
	return addrs, nil
}

// SubnetResolver picks the IPv4 network to sweep
type SubnetResolver struct {
	provider InterfaceProvider
	fallback types.Subnet
	override *types.Subnet
}

// NewSubnetResolver creates a resolver from cfg. A configured subnet
// bypasses interface detection entirely.
func NewSubnetResolver(cfg config.Config, provider InterfaceProvider) (*SubnetResolver, error) {
	fallback, err := types.ParseSubnet(cfg.DefaultSubnet)
	if err != nil {
		return nil, fmt.Errorf("invalid default subnet: %w", err)
	}
	r := &SubnetResolver{provider: provider, fallback: fallback}
	if cfg.Subnet != "" {
		override, err := types.ParseSubnet(cfg.Subnet)
		if err != nil {
			return nil, fmt.Errorf("invalid subnet: %w", err)
		}
		r.override = &override
	}
	return r, nil
}

// LocalSubnet returns the network of the first non-loopback IPv4 address
// on an interface that is up. It never fails: when nothing usable is found
// the configured default subnet is returned.
func (r *SubnetResolver) LocalSubnet(ctx context.Context) types.Subnet {
	if r.override != nil {
		return *r.override
	}
	if r.provider == nil {
		return r.fallback
	}

	addrs, err := r.provider.InterfaceAddrs(ctx)
	if err != nil {
		gologger.Warning().Msgf("Could not enumerate interfaces, using %s: %s", r.fallback, err)
		return r.fallback
	}

	for _, addr := range addrs {
		if addr.Addr == nil || !addr.Up {
			continue
		}
		ip4 := addr.Addr.IP.To4()
		if ip4 == nil || ip4.IsLoopback() {
			continue
		}
		subnet, err := types.SubnetFromIPNet(&net.IPNet{IP: ip4, Mask: addr.Addr.Mask})
		if err != nil {
			continue
		}
		gologger.Verbose().Msgf("using subnet %s from interface %s", subnet, addr.Name)
		return subnet
	}

	gologger.Warning().Msgf("No usable IPv4 interface found, using %s", r.fallback)
	return r.fallback
}
