package runner

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/projectdiscovery/netvis/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	categoryColors = map[types.Category]lipgloss.Color{
		types.Router: lipgloss.Color("#F25D94"),
		types.Device: lipgloss.Color("#04B575"),
		types.Other:  lipgloss.Color("#888888"),
	}
)

func writeJSON(w io.Writer, result *types.ScanResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeTable(w io.Writer, result *types.ScanResult, noColor bool) error {
	rows := make([][]string, 0, len(result.Devices))
	for _, device := range result.Devices {
		rows = append(rows, []string{device.IP, device.MAC, device.Hostname, device.Category.String()})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("IP", "MAC", "HOSTNAME", "CATEGORY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if noColor {
				return cellStyle
			}
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(result.Devices) {
				return cellStyle.Foreground(categoryColors[result.Devices[row].Category])
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d devices on %s in %.2fs (sent %d bytes, received %d bytes)\n",
		len(result.Devices), result.Subnet, result.ScanTime, result.Usage.BytesSent, result.Usage.BytesRecv)
	return err
}
