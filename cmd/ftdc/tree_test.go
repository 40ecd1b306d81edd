package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func teaKey(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNodeRows(t *testing.T) {
	hidden := &ftd.Text{Text: "secret", Common: ftd.Common{IsNotVisible: true, Condition: &ftd.Condition{Variable: "page#open", Value: "true"}}}
	slot := &ftd.Row{Common: ftd.Common{ID: "body", DataID: "body"}}
	root := &ftd.Column{Container: ftd.Container{
		AppendAt: "body",
		Children: []ftd.Element{
			&ftd.Text{Text: "hi"},
			slot,
			hidden,
			&ftd.Image{Src: "a.png"},
		},
		ExternalChildren: &ftd.ExternalChildren{ID: "body", Containers: []ftd.ContainerPath{{1}}},
	}}

	rows := nodeRows(root, ftd.ContainerPath{3})
	var got [][]string
	for _, r := range rows {
		got = append(got, []string{r.path, r.kind, r.id, r.detail})
	}
	want := [][]string{
		{"[3]", "Column", "", "append-at=body slot body at [1]"},
		{"[3,0]", "Text", "", `"hi"`},
		{"[3,1]", "Row", "body", ""},
		{"[3,2]", "Text", "", `"secret" if page#open=true hidden`},
		{"[3,3]", "Image", "", "src=a.png"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	printRows(&buf, nodeRows(&ftd.Text{Text: "x", Common: ftd.Common{ID: "greeting", DataID: "greeting"}}, nil))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a header and one row, got %q", buf.String())
	}
	if strings.Index(lines[0], "ID") != strings.Index(lines[1], "greeting") {
		t.Fatalf("columns are not aligned:\n%s", buf.String())
	}

	buf.Reset()
	printRows(&buf, nil)
	mustContain(t, buf.String(), "no elements")
}

func TestPrintContainers(t *testing.T) {
	r := ftd.NewRegistry()
	r.Add(ftd.BareKey("body"), ftd.ContainerPath{0})
	r.Add(ftd.BareKey("body"), ftd.ContainerPath{2, 1})
	r.Add(ftd.QualifiedKey("card", "inner"), ftd.ContainerPath{1, 0})

	var buf bytes.Buffer
	printContainers(&buf, r)
	mustContain(t, buf.String(), "body", "[0] [2,1]", "card#inner", "[1,0]")

	buf.Reset()
	printContainers(&buf, ftd.NewRegistry())
	mustContain(t, buf.String(), "no named containers")
}

func TestTreeModel_Navigation(t *testing.T) {
	rows := nodeRows(&ftd.Column{Container: ftd.Container{Children: []ftd.Element{&ftd.Text{Text: "a"}}}}, nil)
	m := newTreeModel("page", rows)
	mustContain(t, m.View(), "FTDC", "[page]", "2 elements")

	next, _ := m.Update(teaKey("enter"))
	m = next.(treeModel)
	if m.state != stateDetail {
		t.Fatalf("expected the detail view after enter, got %d", m.state)
	}
	mustContain(t, m.View(), "esc")

	next, _ = m.Update(teaKey("esc"))
	if next.(treeModel).state != stateList {
		t.Fatal("expected esc to return to the list")
	}
}

func TestDescribe(t *testing.T) {
	pad := int64(4)
	out := describe(&ftd.Row{
		Common:    ftd.Common{ID: "nav", Padding: &pad, Events: []ftd.RuntimeEvent{{Name: "onclick", Action: ftd.RuntimeAction{Action: "toggle", Target: "page#open"}}}},
		Container: ftd.Container{Children: []ftd.Element{&ftd.Null{}}},
	})
	mustContain(t, out, "nav", "padding", "4", "children", "onclick toggle page#open")
	if got := describe(&ftd.Null{}); got != "null element" {
		t.Fatalf("unexpected description %q", got)
	}
}
