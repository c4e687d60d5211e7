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

package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of the terminal grid.
type Styles struct {
	Title      lipgloss.Style
	Border     lipgloss.Style
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Status     lipgloss.Style
	Help       lipgloss.Style
	Table      table.Styles
}

// DefaultStyles returns the styles used by New.
func DefaultStyles() Styles {
	accent := lipgloss.Color("#0f62fe")
	muted := lipgloss.Color("#8d8d8d")

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(accent).
		Bold(false)

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(muted),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginLeft(1).
			Width(48),
		PanelTitle: lipgloss.NewStyle().
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(muted),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Table: ts,
	}
}
