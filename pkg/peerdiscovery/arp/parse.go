package arp

import (
	"bufio"
	"io"
	"net"
	"strings"

	"github.com/tidwall/gjson"
)

// parseProcNetARP parses the Linux /proc/net/arp format:
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
func parseProcNetARP(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)

	// Skip header line
	if !scanner.Scan() {
		return entries, scanner.Err()
	}

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}

		// flags 0x0 marks an incomplete entry
		if fields[2] == "0x0" {
			continue
		}
		if entry, ok := newEntry(fields[0], fields[3]); ok {
			entries = append(entries, entry)
		}
	}

	return entries, scanner.Err()
}

// parseDarwinARP parses `arp -a` on macOS and BSD:
//
//	router.lan (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
//	? (192.168.1.20) at (incomplete) on en0 ifscope [ethernet]
func parseDarwinARP(output string) []Entry {
	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ipStart := strings.Index(line, "(")
		ipEnd := strings.Index(line, ")")
		if ipStart == -1 || ipEnd == -1 || ipStart >= ipEnd {
			continue
		}
		ipStr := line[ipStart+1 : ipEnd]

		atIndex := strings.Index(line, " at ")
		if atIndex == -1 {
			continue
		}
		rest := strings.Fields(line[atIndex+4:])
		if len(rest) == 0 {
			continue
		}
		macStr := rest[0]
		if macStr == "(incomplete)" {
			continue
		}
		if entry, ok := newEntry(ipStr, padDarwinMAC(macStr)); ok {
			entries = append(entries, entry)
		}
	}

	return entries
}

// padDarwinMAC restores leading zeros macOS drops from octets (0:1c:2:... ).
func padDarwinMAC(mac string) string {
	octets := strings.Split(mac, ":")
	if len(octets) != 6 {
		return mac
	}
	for i, octet := range octets {
		if len(octet) == 1 {
			octets[i] = "0" + octet
		}
	}
	return strings.Join(octets, ":")
}

// parseWindowsARP parses `arp -a` on Windows:
//
//	Interface: 192.168.1.100 --- 0xa
//	  Internet Address      Physical Address      Type
//	  192.168.1.1           aa-bb-cc-dd-ee-ff     dynamic
func parseWindowsARP(output string) []Entry {
	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(output))

	inARPTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "Interface:") {
			inARPTable = false
			continue
		}
		if strings.Contains(line, "Internet Address") && strings.Contains(line, "Physical Address") {
			inARPTable = true
			continue
		}
		if !inARPTable {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] == "incomplete" {
			continue
		}
		if entry, ok := newEntry(fields[0], strings.ReplaceAll(fields[1], "-", ":")); ok {
			entries = append(entries, entry)
		}
	}

	return entries
}

// parseIPNeighJSON parses `ip -j neigh show`:
//
//	[{"dst":"192.168.1.1","dev":"eth0","lladdr":"aa:bb:cc:dd:ee:ff","state":["REACHABLE"]}]
func parseIPNeighJSON(data []byte) []Entry {
	var entries []Entry
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		for _, state := range value.Get("state").Array() {
			if s := state.String(); s == "FAILED" || s == "INCOMPLETE" {
				return true
			}
		}
		if entry, ok := newEntry(value.Get("dst").String(), value.Get("lladdr").String()); ok {
			entries = append(entries, entry)
		}
		return true
	})
	return entries
}

func newEntry(ipStr, macStr string) (Entry, bool) {
	if macStr == "" || macStr == "00:00:00:00:00:00" || macStr == "<incomplete>" {
		return Entry{}, false
	}
	ip := net.ParseIP(ipStr)
	if ip == nil || ip.To4() == nil {
		return Entry{}, false
	}
	mac, err := net.ParseMAC(macStr)
	if err != nil {
		return Entry{}, false
	}
	return Entry{IP: ip.To4(), MAC: mac}, true
}
