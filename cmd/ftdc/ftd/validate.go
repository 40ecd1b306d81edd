package ftd

import (
	"errors"
	"sort"
	"strings"
)

// Validate checks the shape of a document's instruction stream and of the
// component bodies in its bag before anything is built. It reports every
// problem it finds.
func Validate(doc Document) error {
	v := validator{doc: doc.Name}
	v.stream(doc.Instructions, false)

	names := make([]string, 0, len(doc.Bag))
	for k := range doc.Bag {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		c, ok := doc.Bag[name].(*Component)
		if !ok || c.Kernel {
			continue
		}
		if strings.TrimSpace(c.Root) == "" {
			v.add(c.Line, "component %s has no root", name)
		}
		v.events(c.Events)
		v.stream(c.Instructions, true)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	doc  string
	errs []error
}

func (v *validator) add(line int, format string, args ...any) {
	v.errs = append(v.errs, newError("raw", v.doc, line, ErrInvalidInstruction, format, args...))
}

func (v *validator) stream(ins []Instruction, body bool) {
	for _, in := range ins {
		switch x := in.(type) {
		case *ChangeContainer:
			if strings.TrimSpace(x.Name) == "" {
				v.add(x.Line, "container name is empty")
			}
		case *ComponentInstruction:
			if body {
				v.add(x.LineNumber(), "%s can only be invoked with children at the top level", x.Parent.Root)
			}
			v.child(x.Parent)
			for _, c := range x.Children {
				v.child(c)
			}
		case *ChildInstruction:
			v.child(x.Child)
		case *RecursiveChildInstruction:
			v.child(x.Child)
			if x.Child.Reference == nil || x.Child.Reference.Name == "" {
				v.add(x.Child.Line, "recursive %s has no list to iterate", x.Child.Root)
			}
		case nil:
			v.add(0, "nil instruction")
		}
	}
}

func (v *validator) child(c ChildComponent) {
	if strings.TrimSpace(c.Root) == "" {
		v.add(c.Line, "invocation without a component")
	}
	v.events(c.Events)
}

func (v *validator) events(events []Event) {
	for _, e := range events {
		if _, err := EventName(e.Name); err != nil {
			v.add(e.Line, "%v", err)
		}
		allowed := e.Action.Kind.Parameters()
		for name, values := range e.Action.Parameters {
			p, ok := allowed[name]
			if !ok {
				v.add(e.Line, "%s takes no parameter %s", e.Action.Kind, name)
				continue
			}
			if len(values) < p.Min {
				v.add(e.Line, "minimum number of arguments for %s is %d, found %d", name, p.Min, len(values))
			}
			if len(values) > p.Max {
				v.add(e.Line, "maximum number of arguments for %s is %d, found %d", name, p.Max, len(values))
			}
		}
	}
}
