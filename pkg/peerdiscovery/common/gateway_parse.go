package common

import (
	"bufio"
	"net"
	"strings"

	"github.com/tidwall/gjson"
)

// parseIPRouteJSON extracts the gateway from `ip -j route show default`
//
//	[{"dst":"default","gateway":"192.168.1.1","dev":"eth0","protocol":"dhcp","metric":100,"flags":[]}]
func parseIPRouteJSON(data []byte) (net.IP, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrNoGateway
	}
	var gateway net.IP
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if dst := value.Get("dst").String(); dst != "default" && dst != "0.0.0.0/0" {
			return true
		}
		ip := net.ParseIP(value.Get("gateway").String())
		if ip == nil || ip.To4() == nil {
			return true
		}
		gateway = ip.To4()
		return false
	})
	if gateway == nil {
		return nil, ErrNoGateway
	}
	return gateway, nil
}

// parseDarwinRouteGet extracts the gateway from `route -n get default`
//
//	   route to: default
//	destination: default
//	    gateway: 192.168.1.1
func parseDarwinRouteGet(output string) (net.IP, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "gateway:") {
			continue
		}
		ip := net.ParseIP(strings.TrimSpace(strings.TrimPrefix(line, "gateway:")))
		if ip != nil && ip.To4() != nil {
			return ip.To4(), nil
		}
	}
	return nil, ErrNoGateway
}

// parseWindowsRoutePrint extracts the gateway from `route print -4 0.0.0.0`
//
//	Network Destination        Netmask          Gateway       Interface  Metric
//	          0.0.0.0          0.0.0.0      192.168.1.1    192.168.1.100     25
func parseWindowsRoutePrint(output string) (net.IP, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] != "0.0.0.0" || fields[1] != "0.0.0.0" {
			continue
		}
		ip := net.ParseIP(fields[2])
		if ip != nil && ip.To4() != nil {
			return ip.To4(), nil
		}
	}
	return nil, ErrNoGateway
}
