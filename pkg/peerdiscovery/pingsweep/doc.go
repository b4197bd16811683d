// Package pingsweep discovers active hosts on an IPv4 subnet.
//
// Discovery is performed by:
//   - Expanding the subnet to its usable host addresses (network and broadcast dropped)
//   - Sending one probe per address through a bounded worker pool, gateways and
//     early DHCP leases first
//   - Keeping only the addresses the prober explicitly confirmed as reachable
//
// Two probers are available:
//   - icmp: echo request over golang.org/x/net/icmp (raw socket when privileged,
//     datagram ICMP socket otherwise)
//   - ping: github.com/go-ping/ping with a single packet
//
// Example usage:
//
//	prober, _ := pingsweep.NewProber(cfg)
//	sweeper := pingsweep.New(prober, 100, common.DefaultExclusions)
//	result, err := sweeper.Sweep(ctx, subnet)
//
// Privilege Requirements:
//   - Raw ICMP sockets require root/admin privileges on most systems
//   - Unprivileged ICMP on Linux needs net.ipv4.ping_group_range to include the process group
//
// Limitations:
//   - Hosts with ICMP disabled or firewalled will not respond
//   - A single attempt is made per host; lost packets are not retried
package pingsweep
