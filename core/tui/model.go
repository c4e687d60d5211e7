/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package tui is the terminal variant of the grid. It keeps its state in a
// query.Query, exactly like the web page keeps it in the URL, and evaluates
// it with the same row model.
package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/grid"
	"github.com/google/caregrid/core/query"
	"github.com/google/caregrid/core/tables"
	"github.com/google/caregrid/core/views"
	"github.com/google/safehtml"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 28
	selectWidth    = 3
)

// Model is the bubbletea model of the terminal grid.
type Model struct {
	store *dataset.Store
	ds    *dataset.Dataset
	view  *tables.TableView
	state *query.Query
	grid  *grid.Model

	table         table.Model
	filterInput   textinput.Model
	filterFocused bool
	column        int // focused visible column
	width         int
	height        int
	status        string

	styles Styles
}

// New creates the terminal grid over store.
func New(store *dataset.Store) Model {
	fi := textinput.New()
	fi.Placeholder = "Search"
	fi.CharLimit = 80
	fi.Width = 40

	m := Model{
		store:       store,
		state:       query.NewQuery(&url.URL{Path: "/"}),
		filterInput: fi,
		table: table.New(
			table.WithFocused(true),
			table.WithHeight(20),
		),
		height: 24,
		styles: DefaultStyles(),
	}
	m.state.Limit = 0
	m.table.SetStyles(m.styles.Table)
	m.refresh()
	return m
}

// State returns the current grid state.
func (m Model) State() *query.Query {
	return m.state
}

// Grid returns the evaluated row model.
func (m Model) Grid() *grid.Model {
	return m.grid
}

// FocusedColumn returns the accessor of the focused column.
func (m Model) FocusedColumn() string {
	if len(m.grid.Visible) == 0 {
		return ""
	}
	return m.grid.Visible[m.column].Accessor
}

// CursorRow returns the dataset index of the row under the cursor.
func (m Model) CursorRow() (uint32, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.grid.Rows) {
		return 0, false
	}
	return m.grid.Rows[c], true
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.filterFocused {
			switch msg.String() {
			case "esc", "enter":
				m.filterFocused = false
				m.filterInput.Blur()
				return m, nil
			}
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.apply(m.state.WithFilter(m.filterInput.Value()))
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.filterFocused = true
			m.filterInput.Focus()
			return m, textinput.Blink
		case "left", "h":
			if m.column > 0 {
				m.column--
				m.refresh()
			}
			return m, nil
		case "right", "l":
			if m.column < len(m.grid.Visible)-1 {
				m.column++
				m.refresh()
			}
			return m, nil
		case "s":
			if col := m.FocusedColumn(); col != "" {
				m.apply(m.state.WithSortToggled(col, false))
			}
			return m, nil
		case "S":
			if col := m.FocusedColumn(); col != "" {
				m.apply(m.state.WithSortToggled(col, true))
			}
			return m, nil
		case " ":
			if row, ok := m.CursorRow(); ok {
				m.apply(m.state.WithRowSelectionToggled(row))
			}
			return m, nil
		case "a":
			m.apply(m.state.WithAllSelectionToggled(m.grid.Filtered))
			return m, nil
		case "x":
			if row, ok := m.CursorRow(); ok {
				m.apply(m.state.WithExpandedToggled(row))
			}
			return m, nil
		case "enter":
			if row, ok := m.CursorRow(); ok {
				m.apply(m.state.WithPanel(row, m.FocusedColumn()))
			}
			return m, nil
		case "esc":
			if m.state.Panel != nil {
				m.apply(m.state.WithoutPanel())
			}
			return m, nil
		case "r":
			if _, err := m.store.Regenerate(); err != nil {
				m.status = "regenerate failed: " + err.Error()
			} else {
				m.status = "regenerated"
				m.state.Selected.Clear()
				m.state.Expanded.Clear()
				m.state.Panel = nil
			}
			m.refresh()
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// apply adopts the state encoded in u. The state transitions are the
// ones the web grid links to.
func (m *Model) apply(u safehtml.URL) {
	parsed, err := url.Parse(u.String())
	if err != nil {
		m.status = err.Error()
		return
	}
	next := query.NewQuery(parsed)
	if parsed.Query().Get("limit") == "" {
		next.Limit = m.state.Limit
	}
	m.state = next
	m.refresh()
}

// refresh evaluates the state against the current dataset and rebuilds
// the table.
func (m *Model) refresh() {
	ds := m.store.Current()
	if m.ds == nil || m.ds.ID != ds.ID {
		m.ds = ds
		m.view = tables.NewTableView(ds.Table, "tui")
	}
	m.grid = grid.Build(m.ds, m.view, m.state)
	if m.column >= len(m.grid.Visible) {
		m.column = max(len(m.grid.Visible)-1, 0)
	}

	cols := make([]table.Column, 0, len(m.grid.Visible)+1)
	cols = append(cols, table.Column{Title: selectAllMark(m.grid), Width: selectWidth})
	for i, leaf := range m.grid.Visible {
		title := leaf.Label + " " + sortMark(m.state, leaf.Accessor)
		if i == m.column {
			title = "[" + title + "]"
		}
		cols = append(cols, table.Column{Title: title, Width: columnWidth(title)})
	}

	rows := make([]table.Row, 0, len(m.grid.Rows))
	for _, idx := range m.grid.Rows {
		values := m.ds.Rows[idx]
		row := make(table.Row, 0, len(cols))
		mark := " "
		if m.grid.IsSelected(idx) {
			mark = "x"
		}
		row = append(row, mark)
		for _, leaf := range m.grid.Visible {
			row = append(row, values[leaf.Accessor])
		}
		rows = append(rows, row)
	}

	// Columns and rows must agree in width before the table renders.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if h := m.height - 6; h > 3 {
		m.table.SetHeight(h)
	}
}

func columnWidth(title string) int {
	w := lipgloss.Width(title) + 1
	return min(max(w, minColumnWidth), maxColumnWidth)
}

func sortMark(q *query.Query, accessor string) string {
	descending, sorted := q.SortDirection(accessor)
	switch {
	case !sorted:
		return views.SortIconNone
	case descending:
		return views.SortIconDesc
	default:
		return views.SortIconAsc
	}
}

func selectAllMark(g *grid.Model) string {
	switch {
	case g.AllSelected:
		return "[x]"
	case g.SomeSelected:
		return "[-]"
	default:
		return "[ ]"
	}
}

// View renders the model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("caregrid"))
	sb.WriteString("  ")
	sb.WriteString(m.filterInput.View())
	sb.WriteString("\n")

	body := m.styles.Border.Render(m.table.View())
	if p := m.grid.Panel; p != nil {
		info := p.Info()
		if m.grid.IsExpanded(p.Row) {
			info += "\n\n" + views.ExpandedRowText
		}
		panel := m.styles.Panel.Render(m.styles.PanelTitle.Render("Edit") + "\n\n" + info)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}
	sb.WriteString(body)
	sb.WriteString("\n")

	status := fmt.Sprintf("%d of %d rows  %d selected  %d expanded",
		m.grid.FilteredCount, m.grid.TotalRows, m.grid.SelectedCount, m.state.Expanded.GetCardinality())
	if m.status != "" {
		status += "  " + m.status
	}
	sb.WriteString(m.styles.Status.Render(status))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("←/→ column  s sort  S add sort  space select  a all  x expand  enter panel  esc close  / search  r regenerate  q quit"))
	return sb.String()
}

// Run starts the terminal grid and blocks until the user quits.
func Run(store *dataset.Store) error {
	p := tea.NewProgram(New(store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
