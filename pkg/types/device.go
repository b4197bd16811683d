package types

import (
	"fmt"
	"math"
	"net"
	"time"
)

const (
	// UnknownMAC is reported when no real hardware address is known
	UnknownMAC = "unknown"
	// UnknownHostname is reported when reverse resolution did not yield a name
	UnknownHostname = "Unknown"
)

// DeviceRecord is a single device discovered during one scan
type DeviceRecord struct {
	IP       string   `json:"ip"`
	MAC      string   `json:"mac"`
	Hostname string   `json:"hostname"`
	Category Category `json:"category"`
}

// Validate checks the record carries a dotted-quad IPv4 address and
// non-empty placeholders for the optional fields
func (d *DeviceRecord) Validate() error {
	ip := net.ParseIP(d.IP)
	if ip == nil || ip.To4() == nil {
		return &ValidationError{Field: "ip", Message: fmt.Sprintf("invalid ipv4 address: %q", d.IP)}
	}
	if d.MAC == "" {
		return &ValidationError{Field: "mac", Message: "mac is required"}
	}
	if d.Hostname == "" {
		return &ValidationError{Field: "hostname", Message: "hostname is required"}
	}
	return nil
}

// Usage holds cumulative interface counters
type Usage struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// Subnet is the IPv4 network a scan runs against
type Subnet struct {
	Network   net.IP
	PrefixLen int
}

// IPNet returns the subnet as a *net.IPNet
func (s Subnet) IPNet() *net.IPNet {
	return &net.IPNet{
		IP:   s.Network.To4(),
		Mask: net.CIDRMask(s.PrefixLen, 32),
	}
}

func (s Subnet) String() string {
	return fmt.Sprintf("%s/%d", s.Network.To4(), s.PrefixLen)
}

// SubnetFromIPNet masks the address of ipNet down to its network
func SubnetFromIPNet(ipNet *net.IPNet) (Subnet, error) {
	ip4 := ipNet.IP.To4()
	if ip4 == nil {
		return Subnet{}, fmt.Errorf("not an ipv4 network: %s", ipNet)
	}
	ones, bits := ipNet.Mask.Size()
	if bits != 32 {
		return Subnet{}, fmt.Errorf("not an ipv4 mask: %s", ipNet)
	}
	return Subnet{Network: ip4.Mask(ipNet.Mask), PrefixLen: ones}, nil
}

// ParseSubnet parses a CIDR such as 192.168.1.0/24
func ParseSubnet(cidr string) (Subnet, error) {
	_, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return Subnet{}, fmt.Errorf("invalid CIDR: %w", err)
	}
	return SubnetFromIPNet(ipNet)
}

// ScanResult is the outcome of one discovery cycle
type ScanResult struct {
	ScanID   string         `json:"scan_id"`
	Subnet   string         `json:"subnet"`
	Devices  []DeviceRecord `json:"devices"`
	Usage    Usage          `json:"usage"`
	ScanTime float64        `json:"scan_time"`
}

// ScanSeconds converts a sweep duration to seconds rounded to two decimals
func ScanSeconds(elapsed time.Duration) float64 {
	return math.Round(elapsed.Seconds()*100) / 100
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
