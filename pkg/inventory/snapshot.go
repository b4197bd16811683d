package inventory

import (
	"context"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/classify"
	"github.com/projectdiscovery/netvis/pkg/peerdiscovery/common"
	"github.com/projectdiscovery/netvis/pkg/types"
)

// HostnameResolver resolves many addresses at once, mapping failures to
// types.UnknownHostname
type HostnameResolver interface {
	ResolveMany(ctx context.Context, ips []string) map[string]string
}

// Snapshot reads the resolution cache and turns every usable entry into a
// device record. Entries with the broadcast hardware address or an excluded
// IP are dropped; duplicate addresses keep their first entry. A cache read
// failure yields an empty snapshot.
func Snapshot(ctx context.Context, reader arp.Reader, hostnames HostnameResolver, classifier *classify.Classifier, exclusions common.Exclusions) []types.DeviceRecord {
	entries, err := reader.ReadTable(ctx)
	if err != nil {
		gologger.Warning().Msgf("Could not read resolution cache, continuing with sweep results only: %s", err)
		return nil
	}

	type pair struct{ ip, mac string }
	var pairs []pair
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		ip := entry.IP.To4()
		if ip == nil {
			continue
		}
		key := ip.String()
		if exclusions.IsExcluded(key) {
			continue
		}
		mac, ok := common.NormalizeMAC(entry.MAC.String())
		if !ok {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, pair{ip: key, mac: mac})
	}
	if len(pairs) == 0 {
		return nil
	}

	ips := make([]string, 0, len(pairs))
	for _, p := range pairs {
		ips = append(ips, p.ip)
	}
	names := hostnames.ResolveMany(ctx, ips)

	records := make([]types.DeviceRecord, 0, len(pairs))
	for _, p := range pairs {
		name := names[p.ip]
		if name == "" {
			name = types.UnknownHostname
		}
		record := types.DeviceRecord{
			IP:       p.ip,
			MAC:      p.mac,
			Hostname: name,
			Category: classifier.Classify(p.ip, p.mac, name),
		}
		if !isValid(record) {
			continue
		}
		records = append(records, record)
	}
	return records
}

// isValid reports whether record can be published, logging why not
func isValid(record types.DeviceRecord) bool {
	if err := record.Validate(); err != nil {
		gologger.Warning().Msgf("Skipping malformed device record %+v: %s", record, err)
		return false
	}
	return true
}
