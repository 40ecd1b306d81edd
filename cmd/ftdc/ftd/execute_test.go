package ftd

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
)

func TestExecute_JumpIntoInlineChild(t *testing.T) {
	doc := Document{
		Name: "foo",
		Instructions: []Instruction{
			&ComponentInstruction{
				Parent:   ChildComponent{Root: "ftd.column", Properties: map[string]Property{"id": str("A")}, Line: 1},
				Children: []ChildComponent{container("row", "X", nil).Child},
			},
			jump("X", 3),
			text("hello"),
		},
	}
	tree := requireBuildOK(t, doc)

	want := "[] column\n" +
		"[0] column #A\n" +
		"[0,0] row #X\n" +
		"[0,0,0] text \"hello\"\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	got, ok := tree.Registry.Lookup(BareKey("X"))
	if !ok {
		t.Fatal("expected X to be registered")
	}
	if diff := cmp.Diff([]ContainerPath{{0, 0}}, got); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_NoSuchContainer(t *testing.T) {
	doc := Document{Name: "foo", Instructions: []Instruction{text("a"), jump("does-not-exist", 7)}}
	fe := requireBuildErr(t, doc, ErrNoSuchContainer)
	if fe.Doc != "foo" || fe.Line != 7 {
		t.Fatalf("expected doc=foo line=7, got doc=%s line=%d", fe.Doc, fe.Line)
	}
	mustContain(t, fe.Error(), "phase=execute", "doc=foo", "line=7", "does-not-exist")
}

func TestExecute_RoundTripJump(t *testing.T) {
	doc := Document{
		Name: "foo",
		Instructions: []Instruction{
			container("column", "X", nil),
			jump("X", 2),
			text("inside"),
			jump(RootContainer, 4),
			text("after"),
		},
	}
	tree := requireBuildOK(t, doc)
	want := "[] column\n" +
		"[0] column #X\n" +
		"[0,0] text \"inside\"\n" +
		"[1] text \"after\"\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

// A name produced twice keeps both instances, but a jump always lands on the
// first one. Reaching the second instance by name is not possible.
func TestExecute_JumpUsesFirstInstance(t *testing.T) {
	closed := func() map[string]Property { return map[string]Property{"open": flag(false)} }
	doc := Document{
		Name: "foo",
		Instructions: []Instruction{
			container("row", "X", closed()),
			container("row", "X", closed()),
			jump("X", 3),
			text("t"),
		},
	}
	tree := requireBuildOK(t, doc)

	paths, _ := tree.Registry.Lookup(BareKey("X"))
	if diff := cmp.Diff([]ContainerPath{{0}, {1}}, paths); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
	want := "[] column\n" +
		"[0] row #X\n" +
		"[0,0] text \"t\"\n" +
		"[1] row #X\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_OpenContainerTakesFollowingInstructions(t *testing.T) {
	doc := Document{
		Name: "foo",
		Instructions: []Instruction{
			container("row", "", nil),
			text("a"),
			text("b"),
		},
	}
	tree := requireBuildOK(t, doc)
	want := "[] column\n" +
		"[0] row\n" +
		"[0,0] text \"a\"\n" +
		"[0,1] text \"b\"\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_PathUniqueness(t *testing.T) {
	f := gofakeit.New(42)
	columns := f.Number(2, 6)
	var ins []Instruction
	for i := 0; i < columns; i++ {
		ins = append(ins, container("column", f.Word()+"-"+string(rune('a'+i)), nil))
		for j := f.Number(0, 5); j > 0; j-- {
			ins = append(ins, text(f.Word()))
		}
		ins = append(ins, jump(RootContainer, 1))
	}
	tree := requireBuildOK(t, Document{Name: "foo", Instructions: ins})

	seen := map[string]bool{}
	Walk(tree.Main, ContainerPath{}, func(e Element, p ContainerPath) bool {
		if seen[p.String()] {
			t.Fatalf("path %s assigned twice", p)
		}
		seen[p.String()] = true
		return true
	})
	if got := len(tree.Main.Container.Children); got != columns {
		t.Fatalf("expected %d columns at the root, got %d", columns, got)
	}
	for i, c := range tree.Main.Container.Children {
		first, ok := tree.Registry.First(BareKey(ContainerID(c)))
		if !ok || !first.Equal(ContainerPath{i}) {
			t.Fatalf("column %d registered at %v", i, first)
		}
	}
}

func counterDoc() map[string]Thing {
	return map[string]Thing{
		"foo#counter": &Component{
			Root:      "ftd#text",
			FullName:  "foo#counter",
			Arguments: map[string]Kind{"count": IntegerKind()},
			Properties: map[string]Property{
				"text": Prop(Var("count", IntegerKind())),
			},
			Events: []Event{{
				Name: "click",
				Action: Action{
					Kind:       ActionIncrement,
					Target:     Var("count", IntegerKind()),
					Parameters: map[string][]PropertyValue{"by": {Literal(&IntegerValue{Value: 2})}},
				},
			}},
			Line: 10,
		},
		"foo#items": &Variable{
			Name: "foo#items",
			Value: Literal(&ListValue{Of: IntegerKind(), Data: []PropertyValue{
				Literal(&IntegerValue{Value: 5}),
				Literal(&IntegerValue{Value: 7}),
			}}),
		},
	}
}

func TestExecute_LocalScopeIndependence(t *testing.T) {
	doc := Document{
		Name: "foo",
		Bag:  counterDoc(),
		Instructions: []Instruction{
			&RecursiveChildInstruction{Child: ChildComponent{
				Root:       "counter",
				Reference:  &Reference{Name: "foo#items", Kind: ListOf(IntegerKind())},
				Properties: map[string]Property{"count": Prop(Var("$loop$", IntegerKind()))},
				Line:       3,
			}},
		},
	}
	tree := requireBuildOK(t, doc)

	if diff := cmp.Diff([]string{"foo#count@0", "foo#count@1"}, tree.Locals.Keys()); diff != "" {
		t.Fatalf("locals mismatch (-want +got):\n%s", diff)
	}
	want := "[] column\n" +
		"[0] text \"5\"\n" +
		"[1] text \"7\"\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	targets := []string{}
	for _, c := range tree.Main.Container.Children {
		for _, e := range c.GetCommon().Events {
			targets = append(targets, e.Action.Target)
			if diff := cmp.Diff(map[string][]string{"by": {"2"}}, e.Action.Parameters); diff != "" {
				t.Fatalf("parameters mismatch (-want +got):\n%s", diff)
			}
		}
	}
	if diff := cmp.Diff([]string{"foo#count@0", "foo#count@1"}, targets); diff != "" {
		t.Fatalf("event targets mismatch (-want +got):\n%s", diff)
	}
	if got := len(tree.Invocations["foo#counter"]); got != 2 {
		t.Fatalf("expected 2 invocations, got %d", got)
	}
}

func TestExecute_ArgumentDefaults(t *testing.T) {
	bag := counterDoc()
	bag["foo#counter"].(*Component).Arguments["count"] = IntegerKind().WithDefault("3")

	t.Run("declared default", func(t *testing.T) {
		doc := Document{Name: "foo", Bag: bag, Instructions: []Instruction{
			&ChildInstruction{Child: ChildComponent{Root: "counter", Line: 2}},
		}}
		tree := requireBuildOK(t, doc)
		mustContain(t, snapshotTree(tree.Main), "[0] text \"3\"")
	})

	t.Run("missing default", func(t *testing.T) {
		doc := Document{Name: "foo", Bag: counterDoc(), Instructions: []Instruction{
			&ChildInstruction{Child: ChildComponent{Root: "counter", Line: 2}},
		}}
		fe := requireBuildErr(t, doc, ErrMissingDefault)
		if fe.Line != 10 {
			t.Fatalf("expected the component's line, got %d", fe.Line)
		}
	})
}

func TestExecute_AppendAtCollectsExternalChildren(t *testing.T) {
	bag := map[string]Thing{
		"foo#card": &Component{
			Root:       "ftd#column",
			FullName:   "foo#card",
			Properties: map[string]Property{"append-at": str("body")},
			Instructions: []Instruction{
				container("row", "body", nil),
			},
		},
	}
	doc := Document{Name: "foo", Bag: bag, Instructions: []Instruction{
		&ChildInstruction{Child: ChildComponent{Root: "card", Line: 1}},
		text("x"),
		text("y"),
	}}
	tree := requireBuildOK(t, doc)

	if got := len(tree.Main.Container.Children); got != 1 {
		t.Fatalf("expected a single card at the root, got %d", got)
	}
	card := tree.Main.Container.Children[0].(*Column)
	ext := card.Container.ExternalChildren
	if ext == nil {
		t.Fatal("expected external children")
	}
	if ext.ID != "body" {
		t.Fatalf("expected slot body, got %q", ext.ID)
	}
	if diff := cmp.Diff([]ContainerPath{{0}}, ext.Containers); diff != "" {
		t.Fatalf("containers mismatch (-want +got):\n%s", diff)
	}
	want := "[] column #body\n" +
		"[0] text \"x\"\n" +
		"[1] text \"y\"\n"
	if diff := cmp.Diff(want, snapshotTree(ext.Children[0])); diff != "" {
		t.Fatalf("external children mismatch (-want +got):\n%s", diff)
	}
	if _, ok := tree.Registry.Lookup(QualifiedKey("", "body")); !ok {
		t.Fatalf("expected #body in %v", tree.Registry.Keys())
	}
}

func TestExecute_MouseInIsLocalPerInvocation(t *testing.T) {
	hover := Equal(Var(MouseIn, BooleanKind()), Literal(&BooleanValue{Value: true}))
	child := func() ChildComponent {
		c := text("hover").Child
		c.Condition = &hover
		return c
	}
	doc := Document{Name: "foo", Instructions: []Instruction{
		&ChildInstruction{Child: child()},
		&ChildInstruction{Child: child()},
	}}
	tree := requireBuildOK(t, doc)

	if diff := cmp.Diff([]string{"foo#MOUSE-IN@0", "foo#MOUSE-IN@1"}, tree.Locals.Keys()); diff != "" {
		t.Fatalf("locals mismatch (-want +got):\n%s", diff)
	}
	for i, c := range tree.Main.Container.Children {
		common := c.GetCommon()
		if !common.IsNotVisible {
			t.Fatalf("child %d should start hidden", i)
		}
		want := &Condition{Variable: "foo#MOUSE-IN@" + ContainerPath{i}.String(), Value: "true"}
		if diff := cmp.Diff(want, common.Condition); diff != "" {
			t.Fatalf("condition mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestExecute_BodyOnLeafRoot(t *testing.T) {
	bag := map[string]Thing{
		"foo#label": &Component{
			Root:         "ftd#text",
			FullName:     "foo#label",
			Instructions: []Instruction{text("x")},
			Line:         4,
		},
	}
	doc := Document{Name: "foo", Bag: bag, Instructions: []Instruction{
		&ChildInstruction{Child: ChildComponent{Root: "label", Line: 1}},
	}}
	fe := requireBuildErr(t, doc, ErrInvalidInstructionShape)
	mustContain(t, fe.Error(), "foo#label")
}

func TestExecute_UILocalAsChildRoot(t *testing.T) {
	bag := map[string]Thing{
		"foo#frame": &Component{
			Root:      "ftd#column",
			FullName:  "foo#frame",
			Arguments: map[string]Kind{"header": UIKind()},
			Instructions: []Instruction{
				&ChildInstruction{Child: ChildComponent{Root: "@header", Line: 5}},
			},
		},
	}
	header := Literal(&UIValue{Name: "ftd#text"})
	doc := Document{Name: "foo", Bag: bag, Instructions: []Instruction{
		&ChildInstruction{Child: ChildComponent{
			Root: "frame",
			Properties: map[string]Property{
				"header": {Default: &header, Nested: map[string]Property{"text": str("title")}},
			},
			Line: 1,
		}},
	}}
	tree := requireBuildOK(t, doc)
	want := "[] column\n" +
		"[0] column\n" +
		"[0,0] text \"title\"\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func slotCard() map[string]Thing {
	return map[string]Thing{
		"foo#card": &Component{
			Root:         "ftd#column",
			FullName:     "foo#card",
			Properties:   map[string]Property{"append-at": str("body")},
			Instructions: []Instruction{container("row", "body", nil)},
		},
	}
}

func card() *ChildInstruction {
	return &ChildInstruction{Child: ChildComponent{Root: "card", Line: 1}}
}

func externalSnapshot(t *testing.T, e Element) string {
	t.Helper()
	c, ok := ContainerOf(e)
	if !ok || c.ExternalChildren == nil || len(c.ExternalChildren.Children) != 1 {
		t.Fatalf("expected one batch of external children on %s", KindName(e))
	}
	return snapshotTree(c.ExternalChildren.Children[0])
}

// A jump to a container the external frame does not know hands the rest of
// the stream back to the frame that owns the container.
func TestExecute_ExternalFrameHandsBackOnJump(t *testing.T) {
	doc := Document{Name: "foo", Bag: slotCard(), Instructions: []Instruction{
		container("column", "side", map[string]Property{"open": flag(false)}),
		card(),
		text("x"),
		jump("side", 4),
		text("in-side"),
	}}
	tree := requireBuildOK(t, doc)

	want := "[] column\n" +
		"[0] column #side\n" +
		"[0,0] text \"in-side\"\n" +
		"[1] column\n" +
		"[1,0] row #body\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	wantExt := "[] column #body\n" +
		"[0] text \"x\"\n"
	if diff := cmp.Diff(wantExt, externalSnapshot(t, tree.Main.Container.Children[1])); diff != "" {
		t.Fatalf("external children mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_RootJumpSeparatesSlotBatches(t *testing.T) {
	doc := Document{Name: "foo", Bag: slotCard(), Instructions: []Instruction{
		card(),
		text("one"),
		jump(RootContainer, 3),
		card(),
		text("two"),
	}}
	tree := requireBuildOK(t, doc)

	want := "[] column\n" +
		"[0] column\n" +
		"[0,0] row #body\n" +
		"[1] column\n" +
		"[1,0] row #body\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	for i, label := range []string{"one", "two"} {
		wantExt := "[] column #body\n" +
			"[0] text \"" + label + "\"\n"
		if diff := cmp.Diff(wantExt, externalSnapshot(t, tree.Main.Container.Children[i])); diff != "" {
			t.Fatalf("card %d external children mismatch (-want +got):\n%s", i, diff)
		}
	}
}

// Inside an open container, jumping to that container's own id returns to
// the start of its frame instead of leaving it.
func TestExecute_JumpToFrameOwnerResetsPath(t *testing.T) {
	doc := Document{Name: "foo", Instructions: []Instruction{
		container("row", "A", nil),
		container("column", "B", nil),
		text("b1"),
		jump("A", 4),
		text("a2"),
	}}
	tree := requireBuildOK(t, doc)

	want := "[] column\n" +
		"[0] row #A\n" +
		"[0,0] column #B\n" +
		"[0,0,0] text \"b1\"\n" +
		"[0,1] text \"a2\"\n"
	if diff := cmp.Diff(want, snapshotTree(tree.Main)); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
