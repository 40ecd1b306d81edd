package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browserState int

const (
	stateList browserState = iota
	stateDetail
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	styleOverlayTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	styleKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
)

type treeModel struct {
	table table.Model
	doc   string
	rows  []nodeRow
	state browserState
}

func newTreeModel(doc string, rows []nodeRow) treeModel {
	columns := []table.Column{
		{Title: "PATH", Width: 14},
		{Title: "KIND", Width: 8},
		{Title: "ID", Width: 16},
		{Title: "DETAIL", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(toTableRows(rows)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return treeModel{table: t, doc: doc, rows: rows, state: stateList}
}

func toTableRows(rows []nodeRow) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{r.path, r.kind, r.id, r.detail}
	}
	return out
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if m.state == stateDetail {
		if ok {
			switch key.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "enter":
				m.state = stateList
			}
		}
		return m, nil
	}
	if ok {
		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if len(m.rows) > 0 {
				m.state = stateDetail
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m treeModel) View() string {
	title := styleTitle.Render(fmt.Sprintf("%s  [%s]  %d elements", strings.ToUpper(appName), m.doc, len(m.rows)))
	tableView := styleBase.Render(m.table.View())

	if m.state == stateDetail {
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.rows) {
			r := m.rows[idx]
			overlay := styleOverlay.Render(
				styleOverlayTitle.Render(r.kind+" "+r.path) + "\n\n" +
					describe(r.el) + "\n\n" +
					styleKey.Render("esc") + " back    " +
					styleKey.Render("q") + " quit",
			)
			return title + "\n" + tableView + "\n" + overlay
		}
	}
	help := styleHelp.Render("↑/↓  navigate    enter  details    q  quit")
	return title + "\n" + tableView + "\n" + help
}

// describe lists the settled attributes of an element, one per line.
func describe(e ftd.Element) string {
	cm := e.GetCommon()
	if cm == nil {
		return "null element"
	}
	attrs := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			attrs[k] = v
		}
	}
	set("id", cm.ID)
	set("link", cm.Link)
	set("width", cm.Width)
	set("height", cm.Height)
	set("color", cm.Color)
	set("background-color", cm.BackgroundColor)
	if cm.Padding != nil {
		set("padding", fmt.Sprint(*cm.Padding))
	}
	if c, ok := ftd.ContainerOf(e); ok {
		set("append-at", c.AppendAt)
		set("children", fmt.Sprint(len(c.Children)))
		if c.Spacing != nil {
			set("spacing", fmt.Sprint(*c.Spacing))
		}
	}
	for i, ev := range cm.Events {
		set(fmt.Sprintf("event %d", i), fmt.Sprintf("%s %s %s", ev.Name, ev.Action.Action, ev.Action.Target))
	}
	if d := detail(e); d != "" {
		set("detail", d)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = styleKey.Render(k) + "  " + attrs[k]
	}
	if len(lines) == 0 {
		return "no attributes"
	}
	return strings.Join(lines, "\n")
}
