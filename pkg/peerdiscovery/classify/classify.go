// Package classify buckets discovered devices into coarse categories.
//
// The rules are heuristics tuned for home and small-office networks: a last
// octet of 1 is a common router convention, not a guarantee. Anything
// ambiguous falls through to Device.
package classify

import (
	"context"
	"net"
	"strings"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/netvis/pkg/types"
	sliceutil "github.com/projectdiscovery/utils/slice"
	stringsutil "github.com/projectdiscovery/utils/strings"
)

// placeholderHostnames carry no identifying information
var placeholderHostnames = []string{"", "unknown", "localhost"}

// Classifier assigns a category to a device
type Classifier struct {
	gateway net.IP
}

// New creates a classifier. gateway may be nil when unknown, in which case
// the gateway rule is skipped.
func New(gateway net.IP) *Classifier {
	return &Classifier{gateway: gateway.To4()}
}

// NewFromProvider looks up the default gateway once and creates a classifier
// around it. A failed lookup only disables the gateway rule.
func NewFromProvider(ctx context.Context, provider common.GatewayProvider) *Classifier {
	if provider == nil {
		return New(nil)
	}
	gateway, err := provider.DefaultGateway(ctx)
	if err != nil {
		gologger.Verbose().Msgf("default gateway unavailable, gateway rule disabled: %s", err)
		return New(nil)
	}
	return New(gateway)
}

// Gateway returns the gateway used for classification, or nil
func (c *Classifier) Gateway() net.IP {
	return c.gateway
}

// Classify returns the category of a device. The first matching rule wins:
//  1. the gateway, any address ending in .1, or a hostname containing "router" is a Router
//  2. no hardware address and a placeholder hostname is Other
//  3. everything else is a Device
func (c *Classifier) Classify(ip, mac, hostname string) types.Category {
	h := strings.ToLower(strings.TrimSpace(hostname))
	addr := net.ParseIP(strings.TrimSpace(ip)).To4()

	if c.isGateway(addr) || isDotOne(addr) || stringsutil.ContainsAny(h, "router") {
		return types.Router
	}
	if common.IsUnknownMAC(mac) && sliceutil.Contains(placeholderHostnames, h) {
		return types.Other
	}
	return types.Device
}

func (c *Classifier) isGateway(addr net.IP) bool {
	return c.gateway != nil && addr != nil && addr.Equal(c.gateway)
}

func isDotOne(addr net.IP) bool {
	return addr != nil && addr[3] == 1
}
