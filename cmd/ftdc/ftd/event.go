package ftd

import (
	"fmt"
	"sort"
	"strings"
)

type ActionKind int

const (
	ActionToggle ActionKind = iota
	ActionIncrement
	ActionDecrement
)

func (a ActionKind) String() string {
	switch a {
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	}
	return "toggle"
}

func ParseActionKind(s string) (ActionKind, error) {
	switch s {
	case "toggle":
		return ActionToggle, nil
	case "increment":
		return ActionIncrement, nil
	case "decrement":
		return ActionDecrement, nil
	}
	return 0, fmt.Errorf("%w: %s is not a valid action kind", ErrInvalidValue, s)
}

// Parameter bounds how many values an action parameter takes.
type Parameter struct {
	Min   int
	Max   int
	Kinds []Kind
}

// Parameters lists the parameters an action accepts.
func (a ActionKind) Parameters() map[string]Parameter {
	if a == ActionToggle {
		return nil
	}
	return map[string]Parameter{
		"by":    {Min: 1, Max: 1, Kinds: []Kind{IntegerKind()}},
		"clamp": {Min: 1, Max: 2, Kinds: []Kind{IntegerKind(), IntegerKind()}},
	}
}

type Action struct {
	Kind       ActionKind
	Target     PropertyValue
	Parameters map[string][]PropertyValue
}

// Event binds an action to a DOM event name such as "click".
type Event struct {
	Name   string
	Action Action
	Line   int
}

// EventName maps a source event name to its DOM handler name.
func EventName(s string) (string, error) {
	switch s {
	case "click", "onclick":
		return "onclick", nil
	}
	return "", fmt.Errorf("%w: %s is not a valid event", ErrInvalidValue, s)
}

// RuntimeEvent is an event with every value reduced to text, as attached to
// an element.
type RuntimeEvent struct {
	Name   string        `json:"name"`
	Action RuntimeAction `json:"action"`
}

type RuntimeAction struct {
	Action     string              `json:"action"`
	Target     string              `json:"target"`
	Parameters map[string][]string `json:"parameters"`
}

// resolveEvents reduces events to their runtime form. A target naming a local
// that is in scope becomes "@name@path".
func resolveEvents(events []Event, inScope map[string]string, doc *Doc, args map[string]Value) ([]RuntimeEvent, error) {
	out := make([]RuntimeEvent, 0, len(events))
	for _, e := range events {
		name, err := EventName(e.Name)
		if err != nil {
			return nil, newError("event", doc.Name, e.Line, ErrInvalidValue, "%v", err)
		}
		target, err := eventTarget(e, inScope, doc)
		if err != nil {
			return nil, err
		}
		params := make(map[string][]string, len(e.Action.Parameters))
		keys := make([]string, 0, len(e.Action.Parameters))
		for k := range e.Action.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, pv := range e.Action.Parameters[k] {
				v, err := pv.Resolve(e.Line, doc, args)
				if err != nil {
					return nil, err
				}
				text, ok := ValueText(v)
				if !ok {
					return nil, newError("event", doc.Name, e.Line, ErrWrongKind, "can't convert %s to string", v.Kind())
				}
				params[k] = append(params[k], text)
			}
		}
		out = append(out, RuntimeEvent{
			Name: name,
			Action: RuntimeAction{
				Action:     e.Action.Kind.String(),
				Target:     target,
				Parameters: params,
			},
		})
	}
	return out, nil
}

func eventTarget(e Event, inScope map[string]string, doc *Doc) (string, error) {
	t := e.Action.Target
	switch t.Source {
	case SourceVariable:
		if strings.Contains(t.Name, "@") {
			return t.Name, nil
		}
		if path, ok := inScope[t.Name]; ok {
			return "@" + t.Name + "@" + path, nil
		}
		return "", newError("event", doc.Name, e.Line, ErrNotFound, "can't find the local variable %s", t.Name)
	case SourceReference:
		return doc.ResolveName(e.Line, strings.TrimPrefix(t.Name, "$"))
	}
	return "", newError("event", doc.Name, e.Line, ErrWrongKind, "event target must name a variable")
}
