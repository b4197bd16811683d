package inventory

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sort"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/classify"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/pingsweep"
	"github.com/projectdiscovery/netvis/pkg/types"
)

// Merger reconciles the resolution cache snapshot with the sweep results
type Merger struct {
	reader     arp.Reader
	hostnames  HostnameResolver
	classifier *classify.Classifier
}

// NewMerger creates a merger. reader is queried once per address the sweep
// found but the snapshot missed.
func NewMerger(reader arp.Reader, hostnames HostnameResolver, classifier *classify.Classifier) *Merger {
	return &Merger{reader: reader, hostnames: hostnames, classifier: classifier}
}

// Merge returns one record per address in the union of the snapshot and the
// live sweep addresses, sorted by address. Snapshot records are kept as-is;
// live addresses missing from it are reconstructed from a direct cache
// lookup and a reverse lookup.
func (m *Merger) Merge(ctx context.Context, sweep *pingsweep.Result, snapshot []types.DeviceRecord) []types.DeviceRecord {
	devices := make(map[string]types.DeviceRecord, len(snapshot))
	for _, record := range snapshot {
		if !isValid(record) {
			continue
		}
		if _, exists := devices[record.IP]; !exists {
			devices[record.IP] = record
		}
	}

	var missing []string
	if sweep != nil {
		for _, ip := range sweep.Live {
			key := ip.String()
			if _, exists := devices[key]; exists {
				continue
			}
			devices[key] = types.DeviceRecord{}
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		gologger.Verbose().Msgf("resolving %d addresses missing from the resolution cache", len(missing))
		names := m.hostnames.ResolveMany(ctx, missing)
		for _, ip := range missing {
			mac := m.lookupMAC(ctx, ip)
			name := names[ip]
			if name == "" {
				name = types.UnknownHostname
			}
			record := types.DeviceRecord{
				IP:       ip,
				MAC:      mac,
				Hostname: name,
				Category: m.classifier.Classify(ip, mac, name),
			}
			if !isValid(record) {
				delete(devices, ip)
				continue
			}
			devices[ip] = record
		}
	}

	records := make([]types.DeviceRecord, 0, len(devices))
	for _, record := range devices {
		records = append(records, record)
	}
	SortRecords(records)
	return records
}

func (m *Merger) lookupMAC(ctx context.Context, ip string) string {
	if m.reader == nil {
		return types.UnknownMAC
	}
	hw, err := arp.Lookup(ctx, m.reader, net.ParseIP(ip))
	if err != nil {
		if !errors.Is(err, arp.ErrNotFound) {
			gologger.Debug().Msgf("hardware address lookup for %s failed: %s", ip, err)
		}
		return types.UnknownMAC
	}
	mac, ok := common.NormalizeMAC(hw.String())
	if !ok {
		return types.UnknownMAC
	}
	return mac
}

// SortRecords orders records by numeric IPv4 address
func SortRecords(records []types.DeviceRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := net.ParseIP(records[i].IP).To4(), net.ParseIP(records[j].IP).To4()
		if c := bytes.Compare(a, b); c != 0 {
			return c < 0
		}
		return records[i].IP < records[j].IP
	})
}
