package common

import (
	"context"
	"errors"
	"net"
)

// ErrNoGateway is returned when the routing table has no IPv4 default route
var ErrNoGateway = errors.New("no default gateway")

// GatewayProvider looks up the IPv4 default gateway of the host
type GatewayProvider interface {
	DefaultGateway(ctx context.Context) (net.IP, error)
}

// SystemGateway reads the default gateway from the OS routing table
type SystemGateway struct{}

// DefaultGateway returns the next hop of the IPv4 default route
func (SystemGateway) DefaultGateway(ctx context.Context) (net.IP, error) {
	return defaultGateway(ctx)
}
