// SPDX-License-Identifier: EPL-2.0

// Package ui is the terminal transport of the player: a bubbletea program
// showing position, download progress, volume and loop state.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the transport for ctl and blocks until the user quits.
func Run(ctl Controller, title string, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(NewModel(ctl, title), opts...)
	_, err := p.Run()
	return err
}
