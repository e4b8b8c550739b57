package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/huumcli/huum/internal/huumapi"
	"github.com/huumcli/huum/internal/state"
)

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	online  lipgloss.Style
	offline lipgloss.Style
	active  lipgloss.Style
	muted   lipgloss.Style
	errText lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("211")),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		online:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		offline: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		active:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// tickMsg asks the model to re-read the snapshot store.
type tickMsg time.Time

// model renders the shared device snapshot on a fixed cadence. The poller
// owns the network; the model only reads the store.
type model struct {
	store    *state.Store
	snapshot state.Snapshot
	spinner  spinner.Model
	keys     keyMap
	styles   styles
	interval time.Duration
	haveData bool
}

func newModel(store *state.Store, interval time.Duration) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		store:    store,
		spinner:  sp,
		keys:     defaultKeyMap(),
		styles:   defaultStyles(),
		interval: interval,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.snapshot = m.store.Snapshot()
			return m, nil
		}
	case tickMsg:
		snap := m.store.Snapshot()
		if !snap.LastUpdated.IsZero() {
			m.snapshot = snap
			m.haveData = true
		}
		return m, m.tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("huum watch"))
	b.WriteString("\n\n")

	if !m.haveData {
		b.WriteString(m.spinner.View())
		b.WriteString(" contacting sauna.huum.eu...\n")
		return b.String()
	}

	for _, dev := range m.snapshot.Devices {
		b.WriteString(m.renderDevice(dev))
		b.WriteString("\n")
	}
	if len(m.snapshot.Devices) == 0 {
		b.WriteString(m.styles.muted.Render("no sauna devices found"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.snapshot.IsOffline() {
		b.WriteString(m.styles.errText.Render("API unreachable"))
		b.WriteString(" ")
	} else if m.snapshot.LastError != nil {
		b.WriteString(m.styles.errText.Render(fmt.Sprintf("poll failed: %v", m.snapshot.LastError)))
		b.WriteString(" ")
	}
	b.WriteString(m.styles.muted.Render(fmt.Sprintf(
		"updated %s · refresh every %s · r refresh · q quit",
		m.snapshot.LastUpdated.Format("15:04:05"),
		m.interval,
	)))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderDevice(dev huumapi.SaunaDevice) string {
	online := m.styles.online.Render("online")
	if !dev.Online {
		online = m.styles.offline.Render("offline")
	}

	stateText := string(dev.HeatingState)
	if dev.SessionActive {
		stateText = m.styles.active.Render(stateText)
	} else {
		stateText = m.styles.muted.Render(stateText)
	}

	target := "-"
	if dev.TargetTemperature != nil {
		target = fmt.Sprintf("%d°C", *dev.TargetTemperature)
	}

	return fmt.Sprintf("%s  %s  %s  %d°C → %s  %s",
		m.styles.header.Render(dev.Name),
		m.styles.muted.Render(dev.DeviceID),
		online,
		dev.CurrentTemperature,
		target,
		stateText,
	)
}
