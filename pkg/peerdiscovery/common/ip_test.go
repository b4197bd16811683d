package common

import (
	"net"
	"testing"
)

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"255.255.255.255", true},
		{"127.0.0.1", true},
		{"127.0.1.1", true},
		{"224.0.0.1", true},
		{"224.0.0.251", true},
		{"239.255.255.250", true},
		{"192.168.1.1", false},
		{"192.168.1.255", false},
		{"10.0.0.5", false},
		{"172.16.4.20", false},
		{"225.1.1.1", false},
		{"8.8.8.8", false},
		{"", true},
		{"not-an-ip", true},
		{"300.1.1.1", true},
		{"fe80::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := DefaultExclusions.IsExcluded(tt.ip); got != tt.want {
				t.Errorf("IsExcluded(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestExclusionsCustomList(t *testing.T) {
	e := Exclusions{IPs: []string{"192.168.1.200"}, Prefixes: []string{"10."}}

	if !e.IsExcluded("192.168.1.200") {
		t.Error("expected configured address to be excluded")
	}
	if !e.IsExcluded("10.1.2.3") {
		t.Error("expected configured prefix to be excluded")
	}
	if !e.IsExcluded("127.0.0.1") {
		t.Error("expected loopback to be excluded regardless of list")
	}
	if e.IsExcluded("224.0.0.1") {
		t.Error("multicast prefix is not in the custom list")
	}
}

func TestIsUnknownMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want bool
	}{
		{"ff:ff:ff:ff:ff:ff", true},
		{"FF:FF:FF:FF:FF:FF", true},
		{"ff-ff-ff-ff-ff-ff", true},
		{"FF-FF-FF-FF-FF-FF", true},
		{"Ff-fF-ff-FF-ff-ff", true},
		{"", true},
		{"unknown", true},
		{"Unknown", true},
		{"garbage", true},
		{"aa:bb:cc:dd:ee:ff", false},
		{"AA-BB-CC-DD-EE-FF", false},
		{"00:11:22:33:44:55", false},
	}

	for _, tt := range tests {
		t.Run(tt.mac, func(t *testing.T) {
			if got := IsUnknownMAC(tt.mac); got != tt.want {
				t.Errorf("IsUnknownMAC(%q) = %v, want %v", tt.mac, got, tt.want)
			}
		})
	}
}

func TestNormalizeMAC(t *testing.T) {
	got, ok := NormalizeMAC("AA-BB-CC-0D-EE-FF")
	if !ok {
		t.Fatal("expected mac to normalize")
	}
	if got != "aa:bb:cc:0d:ee:ff" {
		t.Errorf("NormalizeMAC() = %s, want aa:bb:cc:0d:ee:ff", got)
	}

	if _, ok := NormalizeMAC("ff:ff:ff:ff:ff:ff"); ok {
		t.Error("broadcast sentinel must not normalize")
	}
}

func TestIsNetworkOrBroadcast(t *testing.T) {
	_, network, _ := net.ParseCIDR("192.168.1.0/24")

	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.0", true},
		{"192.168.1.255", true},
		{"192.168.1.1", false},
		{"192.168.1.254", false},
	}
	for _, tt := range tests {
		if got := IsNetworkOrBroadcast(net.ParseIP(tt.ip), network); got != tt.want {
			t.Errorf("IsNetworkOrBroadcast(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if IsNetworkOrBroadcast(net.ParseIP("192.168.1.0"), nil) {
		t.Error("nil network must never match")
	}
}
