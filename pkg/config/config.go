// Package config holds the immutable settings shared by every discovery component.
// A Config is built once at startup and passed by value; nothing in the scan
// pipeline mutates it.
package config

import (
	"fmt"
	"os"
	"time"

	fileutil "github.com/projectdiscovery/utils/file"
	iputil "github.com/projectdiscovery/utils/ip"
	sliceutil "github.com/projectdiscovery/utils/slice"
)

const (
	ProbeICMP = "icmp"
	ProbePing = "ping"

	SourceAuto     = "auto"
	SourceProc     = "proc"
	SourceNetlink  = "netlink"
	SourceIPRoute2 = "iproute2"
	SourceARP      = "arp"
)

var (
	ProbeMethods = []string{ProbeICMP, ProbePing}
	TableSources = []string{SourceAuto, SourceProc, SourceNetlink, SourceIPRoute2, SourceARP}

	// DefaultSubnet is scanned when no usable local interface is found
	DefaultSubnet = "192.168.1.0/24"
	// DefaultExcludedIPs are never scanned nor reported
	DefaultExcludedIPs = []string{"255.255.255.255", "127.0.0.1"}
	// DefaultExcludedPrefixes cover the reserved multicast ranges
	DefaultExcludedPrefixes = []string{"224.", "239."}
)

// Config contains the tunables for one process
type Config struct {
	Subnet        string `yaml:"subnet"`
	DefaultSubnet string `yaml:"default-subnet"`

	ProbeMethod      string        `yaml:"probe"`
	ProbeTimeout     time.Duration `yaml:"probe-timeout"`
	ProbeConcurrency int           `yaml:"probe-concurrency"`

	ResolveTimeout     time.Duration `yaml:"resolve-timeout"`
	ResolveConcurrency int           `yaml:"resolve-concurrency"`
	DNSServer          string        `yaml:"resolver"`

	TableSource string `yaml:"arp-source"`

	ExcludedIPs      []string `yaml:"exclude-ips"`
	ExcludedPrefixes []string `yaml:"exclude-prefixes"`

	ScanTimeout   time.Duration `yaml:"scan-timeout"`
	ListenAddress string        `yaml:"listen"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		DefaultSubnet:      DefaultSubnet,
		ProbeMethod:        ProbeICMP,
		ProbeTimeout:       time.Second,
		ProbeConcurrency:   100,
		ResolveTimeout:     2 * time.Second,
		ResolveConcurrency: 50,
		TableSource:        SourceAuto,
		ExcludedIPs:        append([]string(nil), DefaultExcludedIPs...),
		ExcludedPrefixes:   append([]string(nil), DefaultExcludedPrefixes...),
		ScanTimeout:        5 * time.Minute,
		ListenAddress:      "0.0.0.0:5050",
	}
}

// LoadFile overlays the keys present in the yaml file at path onto base
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("could not read config file: %w", err)
	}
	cfg := base
	if err := fileutil.Unmarshal(fileutil.YAML, data, &cfg); err != nil {
		return base, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate returns a normalized copy of c, or an error for values that
// cannot be used at all
func (c Config) Validate() (Config, error) {
	if c.Subnet != "" && !iputil.IsCIDR(c.Subnet) {
		return c, fmt.Errorf("invalid subnet: %s", c.Subnet)
	}
	if c.DefaultSubnet == "" {
		c.DefaultSubnet = DefaultSubnet
	}
	if !iputil.IsCIDR(c.DefaultSubnet) {
		return c, fmt.Errorf("invalid default subnet: %s", c.DefaultSubnet)
	}
	if !sliceutil.Contains(ProbeMethods, c.ProbeMethod) {
		return c, fmt.Errorf("invalid probe method %q (valid: %v)", c.ProbeMethod, ProbeMethods)
	}
	if !sliceutil.Contains(TableSources, c.TableSource) {
		return c, fmt.Errorf("invalid arp source %q (valid: %v)", c.TableSource, TableSources)
	}

	// Ensure pool sizes and timeouts are usable
	if c.ProbeConcurrency < 1 {
		c.ProbeConcurrency = 1
	}
	if c.ResolveConcurrency < 1 {
		c.ResolveConcurrency = 1
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = time.Second
	}
	if c.ResolveTimeout <= 0 {
		c.ResolveTimeout = 2 * time.Second
	}
	if c.ScanTimeout < 0 {
		c.ScanTimeout = 0
	}

	c.ExcludedIPs = sliceutil.Dedupe(append([]string(nil), c.ExcludedIPs...))
	c.ExcludedPrefixes = sliceutil.Dedupe(append([]string(nil), c.ExcludedPrefixes...))
	return c, nil
}
