package traffic

import (
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
)

func TestSum(t *testing.T) {
	usage := sum([]psnet.IOCountersStat{
		{Name: "all", BytesSent: 100, BytesRecv: 250},
	})
	if usage.BytesSent != 100 || usage.BytesRecv != 250 {
		t.Errorf("sum() = %+v, want sent=100 recv=250", usage)
	}

	usage = sum([]psnet.IOCountersStat{
		{Name: "eth0", BytesSent: 10, BytesRecv: 20},
		{Name: "wlan0", BytesSent: 1, BytesRecv: 2},
	})
	if usage.BytesSent != 11 || usage.BytesRecv != 22 {
		t.Errorf("sum() = %+v, want sent=11 recv=22", usage)
	}

	if usage := sum(nil); usage.BytesSent != 0 || usage.BytesRecv != 0 {
		t.Errorf("sum(nil) = %+v, want zero", usage)
	}
}
