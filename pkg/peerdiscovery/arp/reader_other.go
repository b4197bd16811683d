//go:build !linux

package arp

import (
	"fmt"
	"runtime"
)

func newNetlinkReader() (Reader, error) {
	return nil, fmt.Errorf("netlink arp source is not supported on %s", runtime.GOOS)
}

func newDefaultReader() Reader {
	return &CommandReader{}
}
