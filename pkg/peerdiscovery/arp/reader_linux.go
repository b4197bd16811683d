//go:build linux

package arp

import (
	"context"
	"net"

	"github.com/vishvananda/netlink"
)

// NetlinkReader reads the kernel IPv4 neighbour table over netlink
type NetlinkReader struct{}

func newNetlinkReader() (Reader, error) {
	return &NetlinkReader{}, nil
}

func newDefaultReader() Reader {
	return fallbackReader{&NetlinkReader{}, &ProcReader{Path: procNetARPFile}}
}

func (r *NetlinkReader) ReadTable(ctx context.Context) ([]Entry, error) {
	neighs, err := netlink.NeighList(0, netlink.FAMILY_V4)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, neigh := range neighs {
		if neigh.State&(netlink.NUD_INCOMPLETE|netlink.NUD_FAILED) != 0 {
			continue
		}
		if len(neigh.HardwareAddr) == 0 {
			continue
		}
		ip := neigh.IP.To4()
		if ip == nil {
			continue
		}
		entries = append(entries, Entry{IP: ip, MAC: append(net.HardwareAddr(nil), neigh.HardwareAddr...)})
	}
	return entries, nil
}
