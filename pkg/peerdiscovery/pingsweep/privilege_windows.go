//go:build windows

package pingsweep

// isPrivileged is always true on Windows, which has no datagram ICMP sockets
func isPrivileged() bool {
	return true
}
