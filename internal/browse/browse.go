// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package browse is a terminal UI over the examples of a loaded repository.
// The list filters on id and title; enter opens an example, esc goes back and
// q quits.
package browse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/metadata"
)

type viewState int

const (
	stateList viewState = iota
	stateDetail
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00c8f0"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	codeStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

type exampleItem struct {
	id       string
	title    string
	category string
}

func (i exampleItem) Title() string       { return i.title }
func (i exampleItem) Description() string { return i.id + "  " + i.category }
func (i exampleItem) FilterValue() string { return i.id + " " + i.title }

// Model is the bubbletea model of the browser.
type Model struct {
	d      *docgen.DocGen
	list   list.Model
	detail viewport.Model
	state  viewState
	// current is the id shown in the detail view.
	current string
	width   int
	height  int
}

// New returns a model listing every example of d, sorted by id.
func New(d *docgen.DocGen) Model {
	ids := make([]string, 0, len(d.Examples))
	for id := range d.Examples {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		ex := d.Examples[id]
		items = append(items, exampleItem{
			id:       id,
			title:    d.Expand(exampleTitle(ex)),
			category: ex.Category(),
		})
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 24)
	l.Title = fmt.Sprintf("Examples (%d)", len(items))
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return Model{
		d:      d,
		list:   l,
		detail: viewport.New(80, 22),
		width:  80,
		height: 24,
	}
}

// Run shows the browser until the user quits or ctx is done.
func Run(ctx context.Context, d *docgen.DocGen) error {
	p := tea.NewProgram(New(d), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-2, 1)
		if m.state == stateDetail {
			m.detail.SetContent(m.Detail(m.current))
		}
		return m, nil

	case tea.KeyMsg:
		if m.state == stateDetail {
			switch msg.String() {
			case "esc", "backspace":
				m.state = stateList
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}

		// Keys belong to the filter input while the user is typing.
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter":
				if item, ok := m.list.SelectedItem().(exampleItem); ok {
					m.current = item.id
					m.state = stateDetail
					m.detail.SetContent(m.Detail(item.id))
					m.detail.GotoTop()
				}
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.state == stateDetail {
		help := dimStyle.Render("esc back • ↑/↓ scroll • q quit")
		return m.detail.View() + "\n" + help
	}
	return m.list.View()
}

// Detail renders one example: its synopsis, services, language versions and
// the code of its first snippet.
func (m Model) Detail(id string) string {
	ex, ok := m.d.Examples[id]
	if !ok {
		return fmt.Sprintf("no example %q", id)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.d.Expand(exampleTitle(ex))) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s  %s  %s", ex.ID, ex.Category(), ex.File)) + "\n\n")

	if ex.Synopsis != "" {
		b.WriteString(m.d.Expand(ex.Synopsis) + "\n")
	}
	for _, item := range ex.SynopsisList {
		b.WriteString("  - " + m.d.Expand(item) + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Services") + "\n")
	services := make([]string, 0, len(ex.Services))
	for svc := range ex.Services {
		services = append(services, svc)
	}
	sort.Strings(services)
	if len(services) == 0 {
		b.WriteString("  -\n")
	}
	for _, svc := range services {
		actions := ex.Services[svc]
		if len(actions) == 0 {
			b.WriteString("  " + svc + "\n")
			continue
		}
		fmt.Fprintf(&b, "  %s: %s\n", svc, strings.Join(actions, ", "))
	}

	b.WriteString("\n" + headingStyle.Render("Languages") + "\n")
	langs := make([]string, 0, len(ex.Languages))
	for lang := range ex.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var firstTag string
	for _, lang := range langs {
		for _, v := range ex.Languages[lang].Versions {
			line := fmt.Sprintf("  %s v%d", lang, v.SDKVersion)
			if v.GitHub != "" {
				line += "  " + v.GitHub
			}
			if v.BlockContent != "" {
				line += "  (" + v.BlockContent + ")"
			}
			b.WriteString(line + "\n")

			if firstTag == "" {
				firstTag = firstSnippet(v)
			}
		}
	}

	if firstTag == "" {
		return b.String()
	}

	b.WriteString("\n" + headingStyle.Render("Snippet "+firstTag) + "\n")
	s, ok := m.d.Snippet(firstTag)
	if !ok {
		b.WriteString(dimStyle.Render("  not found") + "\n")
		return b.String()
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s:%d", s.File, s.LineStart)) + "\n")
	b.WriteString(codeStyle.Render(strings.TrimRight(s.Code, "\n")) + "\n")
	return b.String()
}

func exampleTitle(ex metadata.Example) string {
	switch {
	case ex.Title != "":
		return ex.Title
	case ex.TitleAbbrev != "":
		return ex.TitleAbbrev
	default:
		return ex.ID
	}
}

func firstSnippet(v metadata.Version) string {
	for _, e := range v.Excerpts {
		if len(e.SnippetTags) > 0 {
			return e.SnippetTags[0]
		}
		if len(e.SnippetFiles) > 0 {
			return e.SnippetFiles[0]
		}
	}
	return ""
}
