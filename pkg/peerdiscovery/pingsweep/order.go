package pingsweep

import (
	"net"
	"sort"
)

// octetRange scores host addresses by their last octet. Hosts that are
// usually online (gateways, infrastructure, early leases) score higher.
type octetRange struct {
	first, last byte
	score       int
}

var likelihood = []octetRange{
	{1, 1, 100}, {254, 254, 100},
	{2, 5, 90}, {250, 253, 90},
	{6, 10, 80},
	{50, 50, 70}, {100, 100, 70}, {150, 150, 70},
	{51, 99, 50}, {101, 149, 50}, {151, 200, 50},
}

const defaultLikelihood = 20

func likelihoodOf(ip net.IP) int {
	ip4 := ip.To4()
	if ip4 == nil {
		return 0
	}
	for _, r := range likelihood {
		if ip4[3] >= r.first && ip4[3] <= r.last {
			return r.score
		}
	}
	return defaultLikelihood
}

// dispatchOrder returns ips reordered so that the addresses most likely to
// answer are probed first. Equal scores keep numeric order.
func dispatchOrder(ips []net.IP) []net.IP {
	ordered := make([]net.IP, len(ips))
	copy(ordered, ips)
	sort.SliceStable(ordered, func(i, j int) bool {
		return likelihoodOf(ordered[i]) > likelihoodOf(ordered[j])
	})
	return ordered
}
