package arp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	osutils "github.com/projectdiscovery/utils/os"
	"github.com/tidwall/gjson"
)

const procNetARPFile = "/proc/net/arp"

// ProcReader reads the Linux /proc/net/arp file
type ProcReader struct {
	Path string
}

func (r *ProcReader) ReadTable(ctx context.Context) ([]Entry, error) {
	path := r.Path
	if path == "" {
		path = procNetARPFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return parseProcNetARP(f)
}

// IPRoute2Reader reads the neighbour table with `ip -j -4 neigh show`
type IPRoute2Reader struct{}

func (r *IPRoute2Reader) ReadTable(ctx context.Context) ([]Entry, error) {
	output, err := exec.CommandContext(ctx, "ip", "-j", "-4", "neigh", "show").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute ip neigh: %w", err)
	}
	if !gjson.ValidBytes(output) {
		return nil, fmt.Errorf("ip neigh returned invalid json")
	}
	return parseIPNeighJSON(output), nil
}

// CommandReader reads the table with `arp -a`
type CommandReader struct{}

func (r *CommandReader) ReadTable(ctx context.Context) ([]Entry, error) {
	output, err := exec.CommandContext(ctx, "arp", "-a").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute arp -a: %w", err)
	}
	switch {
	case osutils.IsWindows():
		return parseWindowsARP(string(output)), nil
	case osutils.IsOSX(), osutils.IsLinux():
		// net-tools arp -a uses the BSD layout
		return parseDarwinARP(string(output)), nil
	}
	return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
}
