package ftd

// Instructions and bag entries are shared input. Every invocation rewrites a
// private copy.

func (k Kind) clone() Kind {
	if k.Of != nil {
		of := k.Of.clone()
		k.Of = &of
	}
	if k.Default != nil {
		d := *k.Default
		k.Default = &d
	}
	return k
}

func cloneKinds(m map[string]Kind) map[string]Kind {
	if m == nil {
		return nil
	}
	out := make(map[string]Kind, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}

func (b Boolean) clone() Boolean {
	if b.Of != nil {
		of := b.Of.clone()
		b.Of = &of
	}
	return b
}

func cloneBooleanPtr(b *Boolean) *Boolean {
	if b == nil {
		return nil
	}
	c := b.clone()
	return &c
}

func (p Property) clone() Property {
	out := Property{Nested: cloneProperties(p.Nested)}
	if p.Default != nil {
		d := *p.Default
		out.Default = &d
	}
	if p.Conditions != nil {
		out.Conditions = make([]ConditionalValue, len(p.Conditions))
		for i, c := range p.Conditions {
			out.Conditions[i] = ConditionalValue{When: c.When.clone(), Value: c.Value}
		}
	}
	return out
}

func cloneProperties(m map[string]Property) map[string]Property {
	if m == nil {
		return nil
	}
	out := make(map[string]Property, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}

func cloneEvents(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e
		if e.Action.Parameters != nil {
			params := make(map[string][]PropertyValue, len(e.Action.Parameters))
			for k, v := range e.Action.Parameters {
				params[k] = append([]PropertyValue(nil), v...)
			}
			out[i].Action.Parameters = params
		}
	}
	return out
}

// Clone returns a deep copy safe to rewrite.
func (c ChildComponent) Clone() ChildComponent {
	out := c
	out.Condition = cloneBooleanPtr(c.Condition)
	out.Properties = cloneProperties(c.Properties)
	out.Arguments = cloneKinds(c.Arguments)
	out.Events = cloneEvents(c.Events)
	if c.Reference != nil {
		r := *c.Reference
		out.Reference = &r
	}
	return out
}

func cloneChildren(children []ChildComponent) []ChildComponent {
	out := make([]ChildComponent, len(children))
	for i, c := range children {
		out[i] = c.Clone()
	}
	return out
}

func cloneInstruction(in Instruction) Instruction {
	switch x := in.(type) {
	case *ChangeContainer:
		c := *x
		return &c
	case *ComponentInstruction:
		return &ComponentInstruction{Parent: x.Parent.Clone(), Children: cloneChildren(x.Children)}
	case *ChildInstruction:
		return &ChildInstruction{Child: x.Child.Clone()}
	case *RecursiveChildInstruction:
		return &RecursiveChildInstruction{Child: x.Child.Clone()}
	}
	return in
}

// Clone returns a deep copy safe to rewrite.
func (c *Component) Clone() *Component {
	out := *c
	out.Arguments = cloneKinds(c.Arguments)
	out.Properties = cloneProperties(c.Properties)
	out.Events = cloneEvents(c.Events)
	out.Condition = cloneBooleanPtr(c.Condition)
	if c.Instructions != nil {
		out.Instructions = make([]Instruction, len(c.Instructions))
		for i, in := range c.Instructions {
			out.Instructions[i] = cloneInstruction(in)
		}
	}
	return &out
}
