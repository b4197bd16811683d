package common

import (
	"net"
	"strings"

	"github.com/projectdiscovery/netvis/pkg/config"
	sliceutil "github.com/projectdiscovery/utils/slice"
	stringsutil "github.com/projectdiscovery/utils/strings"
)

// BroadcastMAC is the all-ones hardware address, treated as "no address known"
const BroadcastMAC = "ff:ff:ff:ff:ff:ff"

// Exclusions is the set of addresses that are never scanned nor reported
type Exclusions struct {
	IPs      []string
	Prefixes []string
}

// DefaultExclusions covers limited broadcast, loopback and 224.*/239.*
var DefaultExclusions = Exclusions{
	IPs:      config.DefaultExcludedIPs,
	Prefixes: config.DefaultExcludedPrefixes,
}

// ExclusionsFromConfig builds the exclusion set from a config
func ExclusionsFromConfig(cfg config.Config) Exclusions {
	return Exclusions{IPs: cfg.ExcludedIPs, Prefixes: cfg.ExcludedPrefixes}
}

// IsExcluded reports whether ip must be dropped from scanning and reporting.
// Anything that is not a dotted-quad IPv4 address is excluded.
func (e Exclusions) IsExcluded(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return true
	}
	ip4 := parsed.To4()
	if ip4 == nil {
		return true
	}
	if ip4.IsLoopback() || ip4.Equal(net.IPv4bcast) {
		return true
	}
	canonical := ip4.String()
	if sliceutil.Contains(e.IPs, canonical) {
		return true
	}
	return stringsutil.HasPrefixAny(canonical, e.Prefixes...)
}

// IsUnknownMAC reports whether mac carries no usable hardware address:
// empty, the "unknown" placeholder, the broadcast sentinel in any case or
// delimiter style, or something that does not parse as a 6-octet address.
func IsUnknownMAC(mac string) bool {
	_, ok := NormalizeMAC(mac)
	return !ok
}

// NormalizeMAC returns mac lower-cased and colon separated.
// ok is false when mac is unknown (see IsUnknownMAC).
func NormalizeMAC(mac string) (normalized string, ok bool) {
	mac = strings.ToLower(strings.TrimSpace(mac))
	if mac == "" || mac == "unknown" {
		return "", false
	}
	mac = strings.ReplaceAll(mac, "-", ":")
	if mac == BroadcastMAC {
		return "", false
	}
	hw, err := net.ParseMAC(mac)
	if err != nil || len(hw) != 6 {
		return "", false
	}
	return hw.String(), true
}

// IsNetworkOrBroadcast checks if an IP is the network or broadcast address
// of an IPv4 network.
func IsNetworkOrBroadcast(ip net.IP, network *net.IPNet) bool {
	if network == nil {
		return false
	}
	ip4 := ip.To4()
	base := network.IP.To4()
	if ip4 == nil || base == nil || len(network.Mask) != net.IPv4len {
		return false
	}

	if ip4.Equal(base.Mask(network.Mask)) {
		return true
	}

	broadcast := make(net.IP, net.IPv4len)
	copy(broadcast, base)
	for i := range broadcast {
		broadcast[i] |= ^network.Mask[i]
	}
	return ip4.Equal(broadcast)
}
