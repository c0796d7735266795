// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package picker is a small terminal UI for choosing the files to compare
// when they are not given on the command line.
package picker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tfctl/rowdiff/internal/log"
)

// ErrCancelled is returned by Pick when the user quits without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Extensions lists the file extensions offered by List. Files without an
// extension are offered too.
var Extensions = []string{".txt", ".csv", ".fhx"}

// Item is one candidate file.
type Item struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the candidate files in dir, newest first.
func List(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var items []Item
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != "" && !slices.Contains(Extensions, ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{Path: filepath.Join(dir, e.Name()), Size: info.Size(), ModTime: info.ModTime()})
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return b.ModTime.Compare(a.ModTime)
	})
	log.Debugf("picker candidates: dir=%s, count=%d", dir, len(items))
	return items, nil
}

// Pick lets the user choose count files from dir. Paths are returned in the
// order they were selected.
func Pick(ctx context.Context, dir string, count int) ([]string, error) {
	items, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(items) < count {
		return nil, fmt.Errorf("need %d files to choose from in %s, found %d", count, dir, len(items))
	}

	p := tea.NewProgram(New(items, count), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}

	paths := final.(Model).Selected()
	if len(paths) != count {
		return nil, ErrCancelled
	}
	return paths, nil
}

// Model is the bubbletea model behind Pick.
type Model struct {
	items     []Item
	count     int
	cursor    int
	selected  []string
	filter    textinput.Model
	filtering bool
	done      bool
}

// New builds a Model choosing count of items.
func New(items []Item, count int) Model {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/"
	ti.CharLimit = 256

	return Model{items: items, count: count, filter: ti}
}

// Selected returns the chosen paths once the user confirmed, nil otherwise.
func (m Model) Selected() []string {
	if !m.done {
		return nil
	}
	return m.selected
}

// visible returns the items matching the filter text.
func (m Model) visible() []Item {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if needle == "" {
		return m.items
	}
	var out []Item
	for _, it := range m.items {
		if strings.Contains(strings.ToLower(filepath.Base(it.Path)), needle) {
			out = append(out, it)
		}
	}
	return out
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch key.String() {
		case "enter", "esc":
			m.filtering = false
			m.filter.Blur()
			m.cursor = 0
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	visible := m.visible()
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.selected = nil
		return m, tea.Quit
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case " ":
		if len(visible) == 0 {
			break
		}
		path := visible[m.cursor].Path
		if i := slices.Index(m.selected, path); i >= 0 {
			m.selected = slices.Delete(m.selected, i, i+1)
		} else if len(m.selected) < m.count {
			m.selected = append(m.selected, path)
		}
	case "enter":
		if len(m.selected) == m.count {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f6be00"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("Select %d files (original first):", m.count)))
	if m.filtering || m.filter.Value() != "" {
		fmt.Fprintf(&b, "%s\n\n", m.filter.View())
	}

	for i, it := range m.visible() {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}
		mark := " "
		if n := slices.Index(m.selected, it.Path); n >= 0 {
			mark = fmt.Sprintf("%d", n+1)
		}
		fmt.Fprintf(&b, "%s [%s] %-40s %s\n", cursor, mark, filepath.Base(it.Path),
			dimStyle.Render(fmt.Sprintf("%8s  %s", humanize.Bytes(uint64(max(it.Size, 0))), humanize.Time(it.ModTime))))
	}

	b.WriteString(dimStyle.Render("\nSPACE: toggle, /: filter, ENTER: go, Q/ESCAPE: quit"))
	b.WriteString("\n")
	return b.String()
}
