// SPDX-License-Identifier: EPL-2.0

package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ik5/brstmplay/playback"
)

type fakeController struct {
	st    playback.Status
	seeks []int
}

func (f *fakeController) Status() playback.Status { return f.st }

func (f *fakeController) TogglePause() bool {
	f.st.Paused = !f.st.Paused
	return f.st.Paused
}

func (f *fakeController) SetLoop(on bool)     { f.st.Looping = on }
func (f *fakeController) SetVolume(v float64) { f.st.Volume = max(0, min(1, v)) }

func (f *fakeController) SeekBy(delta int) {
	f.seeks = append(f.seeks, delta)
	f.st.Position = max(0, f.st.Position+delta)
}

func newFake() *fakeController {
	return &fakeController{st: playback.Status{
		Position:     32000 * 65,
		TotalSamples: 32000 * 130,
		Loaded:       32000 * 100,
		SampleRate:   32000,
		Volume:       0.5,
	}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestModel_Keys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		keys  []string
		check func(t *testing.T, f *fakeController)
	}{
		{"pause", []string{" "}, func(t *testing.T, f *fakeController) {
			if !f.st.Paused {
				t.Error("space did not pause")
			}
		}},
		{"pause twice", []string{" ", " "}, func(t *testing.T, f *fakeController) {
			if f.st.Paused {
				t.Error("second space did not resume")
			}
		}},
		{"loop", []string{"l"}, func(t *testing.T, f *fakeController) {
			if !f.st.Looping {
				t.Error("l did not enable loop")
			}
		}},
		{"volume up", []string{"+", "+"}, func(t *testing.T, f *fakeController) {
			if f.st.Volume < 0.59 || f.st.Volume > 0.61 {
				t.Errorf("volume = %v, want 0.6", f.st.Volume)
			}
		}},
		{"volume down", []string{"-"}, func(t *testing.T, f *fakeController) {
			if f.st.Volume < 0.44 || f.st.Volume > 0.46 {
				t.Errorf("volume = %v, want 0.45", f.st.Volume)
			}
		}},
		{"seek", []string{"right", "left", "left"}, func(t *testing.T, f *fakeController) {
			want := []int{160000, -160000, -160000}
			if len(f.seeks) != len(want) {
				t.Fatalf("seeks = %v, want %v", f.seeks, want)
			}
			for i := range want {
				if f.seeks[i] != want[i] {
					t.Errorf("seek %d = %d, want %d", i, f.seeks[i], want[i])
				}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFake()
			press(NewModel(f, "song"), tt.keys...)
			tt.check(t, f)
		})
	}
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	_, cmd := NewModel(newFake(), "song").Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModel_TickRefreshes(t *testing.T) {
	t.Parallel()

	f := newFake()
	m := NewModel(f, "song")
	f.st.Position = 0
	f.st.Buffering = true

	next, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("tick was not rescheduled")
	}
	view := next.View()
	if !strings.Contains(view, "Buffering") || !strings.Contains(view, "0:00 / 2:10") {
		t.Errorf("View() after tick =\n%s", view)
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	f := newFake()
	f.st.Looping = true
	view := NewModel(f, "Main Theme").View()

	for _, want := range []string{"Main Theme", "Playing", "1:05 / 2:10", "Volume:  50%", "Loop: on"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	f.st.Paused, f.st.Ended = true, true
	if view := NewModel(f, "x").View(); !strings.Contains(view, "Stopped") {
		t.Errorf("ended View() =\n%s", view)
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pos, loaded, total int
		want               string
	}{
		{0, 0, 100, "░░░░░░░░░░"},
		{50, 100, 100, "█████▒▒▒▒▒"},
		{20, 60, 100, "██▒▒▒▒░░░░"},
		{100, 100, 100, "██████████"},
		{0, 0, 0, "░░░░░░░░░░"},
	}

	for _, tt := range tests {
		if got := progressBar(tt.pos, tt.loaded, tt.total, 10); got != tt.want {
			t.Errorf("progressBar(%d, %d, %d) = %q, want %q", tt.pos, tt.loaded, tt.total, got, tt.want)
		}
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		samples, rate int
		want          string
	}{
		{0, 32000, "0:00"},
		{32000 * 61, 32000, "1:01"},
		{44100 * 600, 44100, "10:00"},
		{100, 0, "0:00"},
	}

	for _, tt := range tests {
		if got := clock(tt.samples, tt.rate); got != tt.want {
			t.Errorf("clock(%d, %d) = %q, want %q", tt.samples, tt.rate, got, tt.want)
		}
	}
}
