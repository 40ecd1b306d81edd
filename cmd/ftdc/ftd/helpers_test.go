package ftd

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func str(s string) Property    { return Prop(Literal(&StringValue{Text: s})) }
func num(n int64) Property     { return Prop(Literal(&IntegerValue{Value: n})) }
func flag(b bool) Property     { return Prop(Literal(&BooleanValue{Value: b})) }
func ref(name string) Property { return Prop(Var(name, StringKind())) }

func text(s string) *ChildInstruction {
	return &ChildInstruction{Child: ChildComponent{Root: "ftd.text", Properties: map[string]Property{"text": str(s)}, Line: 1}}
}

func container(kind, id string, props map[string]Property) *ChildInstruction {
	if props == nil {
		props = map[string]Property{}
	}
	if id != "" {
		props["id"] = str(id)
	}
	return &ChildInstruction{Child: ChildComponent{Root: "ftd." + kind, Properties: props, Line: 1}}
}

func jump(name string, line int) *ChangeContainer {
	return &ChangeContainer{Name: name, Line: line}
}

func requireBuildOK(t *testing.T, doc Document) *Tree {
	t.Helper()
	tree, err := NewEngine().Build(doc)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return tree
}

func requireBuildErr(t *testing.T, doc Document, target error) *Error {
	t.Helper()
	_, err := NewEngine().Build(doc)
	if err == nil {
		t.Fatal("expected build error")
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return fe
}

// snapshotTree renders one line per element: path, kind, data-id and text.
func snapshotTree(root Element) string {
	var b strings.Builder
	Walk(root, ContainerPath{}, func(e Element, p ContainerPath) bool {
		fmt.Fprintf(&b, "[%s] %s", p, KindName(e))
		if id := ContainerID(e); id != "" {
			fmt.Fprintf(&b, " #%s", id)
		}
		if t, ok := e.(*Text); ok {
			fmt.Fprintf(&b, " %q", t.Text)
		}
		if c := e.GetCommon(); c != nil && c.IsNotVisible {
			b.WriteString(" hidden")
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}
