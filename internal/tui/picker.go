// internal/tui/picker.go
//
// Preset picker shown when `roly assemble` runs without role arguments and
// more than one user-role preset is configured.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roly-sh/roly/internal/config"
)

type presetItem struct {
	name  string
	roles []string
}

func (i presetItem) Title() string       { return i.name }
func (i presetItem) Description() string { return strings.Join(i.roles, " + ") }
func (i presetItem) FilterValue() string { return i.name }

// PresetPicker lets the user choose one configured preset.
type PresetPicker struct {
	menu     list.Model
	selected string
	aborted  bool
}

// NewPresetPicker builds the picker over the configured presets.
func NewPresetPicker(presets []config.UserRolePreset) PresetPicker {
	items := make([]list.Item, 0, len(presets))
	for _, preset := range presets {
		items = append(items, presetItem{name: preset.Name, roles: preset.ResolvedRoles()})
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Select user role"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	return PresetPicker{menu: menu}
}

// Init implements tea.Model.
func (p PresetPicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p PresetPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.menu.SetSize(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := p.menu.SelectedItem().(presetItem); ok {
				p.selected = item.name
			}
			return p, tea.Quit
		case "q", "esc", "ctrl+c":
			p.aborted = true
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

// View implements tea.Model.
func (p PresetPicker) View() string {
	if p.selected != "" || p.aborted {
		return ""
	}
	return p.menu.View()
}

// Selected returns the chosen preset name, empty when aborted.
func (p PresetPicker) Selected() string {
	return p.selected
}

// Aborted reports whether the user backed out without choosing.
func (p PresetPicker) Aborted() bool {
	return p.aborted
}
