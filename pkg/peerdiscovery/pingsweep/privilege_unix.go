//go:build !windows

package pingsweep

import "golang.org/x/sys/unix"

// isPrivileged reports whether raw ICMP sockets can be opened
func isPrivileged() bool {
	return unix.Geteuid() == 0
}
