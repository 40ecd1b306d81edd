package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func textEl(s string) *ftd.Text { return &ftd.Text{Text: s} }

func rowEl(id string, children ...ftd.Element) *ftd.Row {
	return &ftd.Row{Common: ftd.Common{DataID: id}, Container: ftd.Container{Children: children}}
}

// slot builds a column owning deferred children for id, to be spliced at
// the given paths relative to the column.
func slot(id string, paths []ftd.ContainerPath, deferred []ftd.Element, children ...ftd.Element) *ftd.Column {
	wrap := &ftd.Column{Common: ftd.Common{DataID: id}, Container: ftd.Container{Children: deferred}}
	return &ftd.Column{Container: ftd.Container{
		Children: children,
		ExternalChildren: &ftd.ExternalChildren{
			ID:         id,
			Containers: paths,
			Children:   []ftd.Element{wrap},
		},
	}}
}

// snapshot lists tags and texts depth first, one node per line.
func snapshot(d *DNode) string {
	var b strings.Builder
	var walk func(d *DNode, depth int)
	walk = func(d *DNode, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(d.Tag)
		if d.Text != nil {
			b.WriteString(" " + *d.Text)
		}
		if ext, ok := d.Attrs["data-ext-id"]; ok {
			b.WriteString(" <" + ext + ">")
		}
		b.WriteString("\n")
		for _, c := range d.Children {
			walk(c, depth+1)
		}
	}
	walk(d, 0)
	return b.String()
}

func render(t *testing.T, e ftd.Element, data map[string]string) *DNode {
	t.Helper()
	return NewRenderer(data, nil).DNode(FromElement(e, "doc"), "doc")
}

func TestSplice_ClaimsIntoNamedSlot(t *testing.T) {
	card := slot("body", []ftd.ContainerPath{{0}}, []ftd.Element{textEl("x"), textEl("y")},
		rowEl("body", textEl("own")))
	got := render(t, card, nil)

	want := "div\n" +
		"  div\n" +
		"    div own\n" +
		"    div x <body:doc>\n" +
		"    div y <body:doc>\n"
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_ClaimedAtMostOnce(t *testing.T) {
	card := slot("body", []ftd.ContainerPath{{0}, {1}}, []ftd.Element{textEl("x")},
		rowEl("body"), rowEl("body"))
	got := render(t, card, nil)

	want := "div\n" +
		"  div\n" +
		"    div x <body:doc>\n" +
		"  div\n"
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_HiddenSlotDefersToVisibleSibling(t *testing.T) {
	hidden := rowEl("body")
	hidden.Common.Condition = &ftd.Condition{Variable: "foo#open", Value: "true"}
	card := slot("body", []ftd.ContainerPath{{0}, {1}}, []ftd.Element{textEl("x")},
		hidden, rowEl("body"))
	got := render(t, card, map[string]string{"foo#open": "false"})

	if n := len(got.Children[0].Children); n != 0 {
		t.Fatalf("hidden slot claimed %d children", n)
	}
	if got.Children[0].Visible {
		t.Fatal("expected first slot to be hidden")
	}
	want := "div\n" +
		"  div\n" +
		"  div\n" +
		"    div x <body:doc>\n"
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_HiddenLastSlotStillClaims(t *testing.T) {
	hidden := rowEl("body")
	hidden.Common.Condition = &ftd.Condition{Variable: "foo#open", Value: "true"}
	card := slot("body", []ftd.ContainerPath{{0}}, []ftd.Element{textEl("x")}, hidden)
	got := render(t, card, map[string]string{"foo#open": "false"})

	if n := len(got.Children[0].Children); n != 1 {
		t.Fatalf("expected the only slot to claim, got %d children", n)
	}
}

func TestSplice_NestedPath(t *testing.T) {
	inner := rowEl("body")
	card := slot("body", []ftd.ContainerPath{{1, 0}}, []ftd.Element{textEl("x")},
		textEl("title"), rowEl("", inner))
	got := render(t, card, nil)

	want := "div\n" +
		"  div title\n" +
		"  div\n" +
		"    div\n" +
		"      div x <body:doc>\n"
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_UnmatchedSlotIsDropped(t *testing.T) {
	card := slot("body", []ftd.ContainerPath{{0}}, []ftd.Element{textEl("x")}, rowEl("other"))
	got := render(t, card, nil)

	want := "div\n" +
		"  div\n"
	if diff := cmp.Diff(want, snapshot(got)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_DataIDCarriesParent(t *testing.T) {
	got := render(t, rowEl("hero", textEl("a")), nil)
	if diff := cmp.Diff("hero:doc", got.Attrs["data-id"]); diff != "" {
		t.Fatalf("data-id mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("doc:root", got.Children[0].Attrs["data-id"]); diff != "" {
		t.Fatalf("data-id mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_SpacingSkipsFirstVisibleChild(t *testing.T) {
	sp := int64(8)
	col := &ftd.Column{Container: ftd.Container{
		Spacing:  &sp,
		Children: []ftd.Element{textEl("a"), textEl("b")},
	}}
	got := render(t, col, nil)
	if _, ok := got.Children[0].Style["margin-top"]; ok {
		t.Fatal("first child should not be spaced")
	}
	if diff := cmp.Diff("8px", got.Children[1].Style["margin-top"]); diff != "" {
		t.Fatalf("spacing mismatch (-want +got):\n%s", diff)
	}
}

func TestSplice_FromBuiltTree(t *testing.T) {
	bag := map[string]ftd.Thing{
		"foo#card": &ftd.Component{
			Root:       "ftd#column",
			FullName:   "foo#card",
			Properties: map[string]ftd.Property{"append-at": ftd.Prop(ftd.Literal(&ftd.StringValue{Text: "body"}))},
			Instructions: []ftd.Instruction{
				&ftd.ChildInstruction{Child: ftd.ChildComponent{
					Root:       "ftd.row",
					Properties: map[string]ftd.Property{"id": ftd.Prop(ftd.Literal(&ftd.StringValue{Text: "body"}))},
					Line:       1,
				}},
			},
		},
	}
	say := func(s string) ftd.Instruction {
		return &ftd.ChildInstruction{Child: ftd.ChildComponent{
			Root:       "ftd.text",
			Properties: map[string]ftd.Property{"text": ftd.Prop(ftd.Literal(&ftd.StringValue{Text: s}))},
			Line:       1,
		}}
	}
	doc := ftd.Document{Name: "foo", Bag: bag, Instructions: []ftd.Instruction{
		&ftd.ChildInstruction{Child: ftd.ChildComponent{Root: "card", Line: 1}},
		say("x"),
		say("y"),
	}}
	tree, err := ftd.NewEngine().Build(doc)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	out, err := NewRenderer(tree.Data(), nil).DNode(FromElement(tree.Main, "foo"), "foo").HTML()
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	mustContain(t, out, `data-id="body:foo"`, `data-ext-id="body:foo"`, ">x</div>", ">y</div>")
	if strings.Index(out, ">x<") > strings.Index(out, ">y<") {
		t.Fatalf("deferred children out of order: %s", out)
	}
}
