// Package traffic reports cumulative bytes sent and received by the host.
package traffic

import (
	"context"
	"fmt"

	"github.com/projectdiscovery/netvis/pkg/types"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Counter reads interface traffic counters
type Counter interface {
	Usage(ctx context.Context) (types.Usage, error)
}

// SystemCounter sums the counters of all interfaces through gopsutil
type SystemCounter struct{}

func (SystemCounter) Usage(ctx context.Context) (types.Usage, error) {
	counters, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return types.Usage{}, fmt.Errorf("failed to read io counters: %w", err)
	}
	return sum(counters), nil
}

func sum(counters []psnet.IOCountersStat) types.Usage {
	var usage types.Usage
	for _, c := range counters {
		usage.BytesSent += c.BytesSent
		usage.BytesRecv += c.BytesRecv
	}
	return usage
}
