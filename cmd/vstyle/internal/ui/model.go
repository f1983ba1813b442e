// Package ui is the interactive registry inspector behind `vstyle inspect`.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/vstyle/pkg/styling"
	"github.com/recera/vstyle/pkg/tools"
)

// Headers are the column titles shared by the inspector and `vstyle list`
var Headers = tools.CapitalizeAll([]string{"selector", "media", "props", "class"})

var columnWidths = []int{24, 18, 6, 40}

// EntryRow renders e as a table row matching Headers
func EntryRow(e styling.Entry) []string {
	return []string{e.Selector, e.Media, strconv.Itoa(len(e.Properties)), e.Class}
}

// Model is the inspector state
type Model struct {
	reg     *styling.StyleRegistry
	title   string
	entries []styling.Entry

	table table.Model
	help  help.Model
	keys  KeyMap

	width    int
	height   int
	status   string
	quitting bool
}

// New creates an inspector over reg
func New(reg *styling.StyleRegistry, title string) Model {
	cols := make([]table.Column, len(Headers))
	for i, h := range Headers {
		cols[i] = table.Column{Title: h, Width: columnWidths[i]}
	}

	m := Model{
		reg:   reg,
		title: title,
		table: table.New(
			table.WithColumns(cols),
			table.WithFocused(true),
			table.WithHeight(12),
			table.WithStyles(tableStyles()),
		),
		help: help.New(),
		keys: DefaultKeyMap,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// title, detail box and footer
		if h := msg.Height - 14; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status = "refreshed"
			return m, nil

		case key.Matches(msg, m.keys.RemoveEntry):
			if e, ok := m.Selected(); ok {
				m.reg.Remove(e.Selector, styling.RemoveEntry{Media: e.Media})
				m.status = fmt.Sprintf("removed %s (%s)", e.Selector, e.Media)
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.RemoveSelector):
			if e, ok := m.Selected(); ok {
				m.reg.Remove(e.Selector, styling.RemoveAll{})
				m.status = fmt.Sprintf("removed every entry of %s", e.Selector)
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d rules", len(m.entries))))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if e, ok := m.Selected(); ok {
		b.WriteString(boxStyle.Render(e.CSS))
	} else {
		b.WriteString(warningStyle.Render("registry is empty"))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Selected returns the entry under the cursor
func (m Model) Selected() (styling.Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return styling.Entry{}, false
	}
	return m.entries[i], true
}

// Entries returns the rows currently shown
func (m Model) Entries() []styling.Entry {
	return m.entries
}

func (m *Model) refresh() {
	m.entries = m.reg.Entries()
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = EntryRow(e)
	}
	m.table.SetRows(rows)
	switch c := m.table.Cursor(); {
	case c >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	case c < 0 && len(rows) > 0:
		m.table.SetCursor(0)
	}
}
