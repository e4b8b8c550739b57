package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/huumcli/huum/internal/huumapi"
)

var (
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errStyle.Render("Error:"), err)
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// statusTable renders the device list in server order.
func statusTable(devices []huumapi.SaunaDevice) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("DEVICE ID", "NAME", "ONLINE", "CURRENT", "TARGET", "STATE")

	for _, dev := range devices {
		online := onlineStyle.Render("✓")
		if !dev.Online {
			online = offlineStyle.Render("✗")
		}
		target := "-"
		if dev.TargetTemperature != nil {
			target = fmt.Sprintf("%d°C", *dev.TargetTemperature)
		}
		stateText := string(dev.HeatingState)
		if dev.SessionActive {
			stateText = activeStyle.Render(stateText)
		}
		t.Row(
			dev.DeviceID,
			dev.Name,
			online,
			fmt.Sprintf("%d°C", dev.CurrentTemperature),
			target,
			stateText,
		)
	}
	return t.Render()
}

// readingsTable renders temperature samples oldest first.
func readingsTable(title string, readings []huumapi.TemperatureReading) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("TIMESTAMP", "TEMPERATURE")

	for _, r := range readings {
		t.Row(r.Timestamp.Format("2006-01-02 15:04:05"), fmt.Sprintf("%d°C", r.Temperature))
	}
	return boldStyle.Render(title) + "\n" + t.Render()
}

// graphWidth bounds the bar length of the text graph.
const graphWidth = 50

// readingsGraph renders a horizontal bar per sample, scaled to the hottest
// reading in the batch.
func readingsGraph(title string, readings []huumapi.TemperatureReading) string {
	maxTemp := 1
	for _, r := range readings {
		if r.Temperature > maxTemp {
			maxTemp = r.Temperature
		}
	}

	var b strings.Builder
	b.WriteString(boldStyle.Render(title))
	b.WriteString("\n")
	for _, r := range readings {
		width := r.Temperature * graphWidth / maxTemp
		if width < 0 {
			width = 0
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			mutedStyle.Render(r.Timestamp.Format("01-02 15:04")),
			barStyle.Render(strings.Repeat("█", width)),
			fmt.Sprintf("%d°C", r.Temperature),
		))
	}
	return b.String()
}
