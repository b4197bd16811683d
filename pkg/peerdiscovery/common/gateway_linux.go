//go:build linux

package common

import (
	"context"
	"fmt"
	"net"
	"os/exec"

	"github.com/projectdiscovery/gologger"
	"github.com/vishvananda/netlink"
)

// defaultGateway reads the kernel routing table over netlink, falling back
// to iproute2 when netlink is not available (e.g. restricted containers)
func defaultGateway(ctx context.Context) (net.IP, error) {
	gateway, err := netlinkGateway()
	if err == nil {
		return gateway, nil
	}
	gologger.Debug().Msgf("netlink gateway lookup failed, trying ip route: %s", err)

	output, err := exec.CommandContext(ctx, "ip", "-j", "-4", "route", "show", "default").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute ip route: %w", err)
	}
	return parseIPRouteJSON(output)
}

func netlinkGateway() (net.IP, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, err
	}

	var best *netlink.Route
	for i := range routes {
		rte := routes[i]
		if rte.Gw == nil || rte.Gw.To4() == nil {
			continue
		}
		if rte.Dst != nil {
			if ones, _ := rte.Dst.Mask.Size(); ones != 0 {
				continue
			}
		}
		if best == nil || rte.Priority < best.Priority {
			best = &routes[i]
		}
	}
	if best == nil {
		return nil, ErrNoGateway
	}
	return best.Gw.To4(), nil
}
