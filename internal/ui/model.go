// SPDX-License-Identifier: EPL-2.0

package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ik5/brstmplay/playback"
)

const (
	// refreshInterval is how often the status is polled.
	refreshInterval = 100 * time.Millisecond

	seekStep   = 5 * time.Second
	volumeStep = 0.05
	barWidth   = 30
)

// Controller is the part of playback.Session the TUI drives.
type Controller interface {
	Status() playback.Status
	TogglePause() bool
	SetLoop(on bool)
	SetVolume(v float64)
	SeekBy(delta int)
}

// tickMsg triggers a status refresh.
type tickMsg time.Time

// Model is the transport screen of the player.
type Model struct {
	ctl    Controller
	title  string
	status playback.Status
	width  int
}

// NewModel returns a model showing title and controlling ctl.
func NewModel(ctl Controller, title string) Model {
	return Model{
		ctl:    ctl,
		title:  title,
		status: ctl.Status(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.status = m.ctl.Status()
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		m.ctl.TogglePause()
	case "l":
		m.ctl.SetLoop(!m.status.Looping)
	case "+", "=", "up":
		m.ctl.SetVolume(m.status.Volume + volumeStep)
	case "-", "down":
		m.ctl.SetVolume(m.status.Volume - volumeStep)
	case "right":
		m.ctl.SeekBy(m.seekFrames())
	case "left":
		m.ctl.SeekBy(-m.seekFrames())
	default:
		return m, nil
	}

	m.status = m.ctl.Status()
	return m, nil
}

func (m Model) seekFrames() int {
	return int(seekStep.Seconds() * float64(m.status.SampleRate))
}

func (m Model) View() string {
	st := m.status

	var b strings.Builder
	fmt.Fprintf(&b, "┌─ %s\n", truncate(m.title, 60))
	fmt.Fprintf(&b, "│ %s  %s / %s\n", stateName(st),
		clock(st.Position, st.SampleRate), clock(st.TotalSamples, st.SampleRate))
	fmt.Fprintf(&b, "│ [%s]\n", progressBar(st.Position, st.Loaded, st.TotalSamples, barWidth))
	fmt.Fprintf(&b, "│ Volume: %3d%%  Loop: %s\n", int(st.Volume*100+0.5), onOff(st.Looping))
	b.WriteString("│ space:Pause  l:Loop  +/-:Volume  ←/→:Seek  q:Quit\n")
	b.WriteString("└\n")

	return b.String()
}

func stateName(st playback.Status) string {
	switch {
	case st.Buffering:
		return "Buffering"
	case st.Ended:
		return "Stopped"
	case st.Paused:
		return "Paused"
	}
	return "Playing"
}

func clock(samples, rate int) string {
	if rate <= 0 {
		return "0:00"
	}
	secs := samples / rate
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// progressBar draws the played part as █, the downloaded part as ▒ and the
// rest as ░.
func progressBar(pos, loaded, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	played := min(width, pos*width/total)
	ready := max(played, min(width, loaded*width/total))

	return strings.Repeat("█", played) + strings.Repeat("▒", ready-played) + strings.Repeat("░", width-ready)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
