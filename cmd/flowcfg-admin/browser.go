package main

import (
	"encoding/json"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowcfg/flowcfg/pkg/cfgdb"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

type settingItem struct {
	key   string
	value string
}

func (s settingItem) Title() string       { return s.key }
func (s settingItem) Description() string { return s.value }
func (s settingItem) FilterValue() string { return s.key }

type browserModel struct {
	list list.Model
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	return m.list.View()
}

// runBrowser resolves db once and opens a bubbletea list over every
// setting, filterable by key.
func runBrowser(db *cfgdb.DB) error {
	dump, err := db.DumpJSON()
	if err != nil {
		return err
	}
	var flat map[string]any
	if err := json.Unmarshal([]byte(dump), &flat); err != nil {
		return err
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]list.Item, 0, len(keys))
	for _, k := range keys {
		b, _ := json.Marshal(flat[k])
		items = append(items, settingItem{key: k, value: string(b)})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("flowcfg: %d resolved settings", len(items))
	l.Styles.Title = titleStyle

	p := tea.NewProgram(browserModel{list: l}, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
