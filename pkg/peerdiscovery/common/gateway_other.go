//go:build !linux

package common

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"runtime"

	osutils "github.com/projectdiscovery/utils/os"
)

func defaultGateway(ctx context.Context) (net.IP, error) {
	switch {
	case osutils.IsOSX():
		output, err := exec.CommandContext(ctx, "route", "-n", "get", "default").Output()
		if err != nil {
			return nil, fmt.Errorf("failed to execute route get: %w", err)
		}
		return parseDarwinRouteGet(string(output))
	case osutils.IsWindows():
		output, err := exec.CommandContext(ctx, "route", "print", "-4", "0.0.0.0").Output()
		if err != nil {
			return nil, fmt.Errorf("failed to execute route print: %w", err)
		}
		return parseWindowsRoutePrint(string(output))
	}
	return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
}
