// Package arp reads the operating system's IPv4 neighbour (ARP) cache.
//
// The cache is only as fresh as the traffic that populated it: callers are
// expected to probe the addresses they care about first, then read the table.
//
// Sources:
//   - proc: /proc/net/arp (Linux)
//   - netlink: kernel neighbour table over netlink (Linux)
//   - iproute2: `ip -j neigh show` (Linux)
//   - arp: `arp -a` (macOS, Windows)
//   - auto: netlink then proc on Linux, arp elsewhere
//
// Readers only parse; they do not filter broadcast or excluded entries.
package arp
