package ftd

import (
	"sort"
	"strings"
)

const (
	// MouseIn is always local: every invocation that mentions it gets its own
	// boolean, false until the pointer enters the element.
	MouseIn = "MOUSE-IN"

	loopVariable = "$loop$"
)

// RewriteMode selects which variables UpdateComponentData qualifies with a
// container path.
type RewriteMode int

const (
	// RewriteInvocation only claims MOUSE-IN for the invocation being built.
	RewriteInvocation RewriteMode = iota
	// RewriteScope qualifies every variable naming a local of the enclosing
	// instantiation, and MOUSE-IN.
	RewriteScope
	// RewriteNested qualifies locals of the enclosing instantiation but leaves
	// MOUSE-IN to the nested invocation.
	RewriteNested
)

func (m RewriteMode) String() string {
	switch m {
	case RewriteScope:
		return "scope"
	case RewriteNested:
		return "nested"
	}
	return "invocation"
}

// Rewritable is the part of a component or invocation that local rewriting
// touches. Root may be nil.
type Rewritable struct {
	Properties map[string]Property
	Reference  *Reference
	Condition  *Boolean
	Events     []Event
	Root       *string
}

func (c *ChildComponent) rewritable() Rewritable {
	return Rewritable{
		Properties: c.Properties,
		Reference:  c.Reference,
		Condition:  c.Condition,
		Events:     c.Events,
		Root:       &c.Root,
	}
}

// InsertLocalVariable stores one local per declared argument under
// "<doc>#<arg>@<container>". The caller's property wins over the argument's
// own default; list and optional arguments fall back to empty. Existing keys
// are left alone.
func (d *Doc) InsertLocalVariable(line int, root string, args map[string]Kind, props map[string]Property, container string) error {
	names := make([]string, 0, len(args))
	for k := range args {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		kind := args[name]
		key, err := d.ResolveLocalVariableName(line, name, container)
		if err != nil {
			return err
		}
		var thing Thing
		p, supplied := props[name]
		switch {
		case supplied && p.Default != nil:
			thing, err = d.localFromProperty(line, key, kind, p, container)
			if err != nil {
				return err
			}
		case supplied:
			return newError("local", d.Name, line, ErrMissingDefault, "%s of %s has only conditional values", name, root)
		case kind.Default != nil:
			pv, err := d.valueFromText(line, *kind.Default, kind)
			if err != nil {
				return err
			}
			thing = &Variable{Name: key, Value: pv}
		default:
			z, ok := kind.ZeroValue()
			if !ok {
				return newError("local", d.Name, line, ErrMissingDefault, "%s of %s", name, root)
			}
			thing = &Variable{Name: key, Value: Literal(z)}
		}
		d.Locals.setIfAbsent(key, thing)
	}
	return nil
}

func (d *Doc) localFromProperty(line int, key string, kind Kind, p Property, container string) (Thing, error) {
	def := *p.Default
	if kind.Inner().Type == KindUI {
		name := def.Name
		if ui, ok := def.Value.(*UIValue); ok {
			name = ui.Name
		}
		if name == "" {
			return nil, newError("local", d.Name, line, ErrWrongKind, "%s expects a component", key)
		}
		return &Component{
			Root:       name,
			FullName:   key,
			Properties: cloneProperties(p.Nested),
			Line:       line,
		}, nil
	}
	if def.Source == SourceVariable && !strings.Contains(def.Name, "@") && !strings.Contains(def.Name, loopVariable) {
		name, err := d.ResolveLocalVariableName(line, def.Name, container)
		if err != nil {
			return nil, err
		}
		def.Name = name
	}
	var conds []ConditionalValue
	if p.Conditions != nil {
		conds = append(conds, p.Conditions...)
	}
	return &Variable{Name: key, Value: def, Conditions: conds}, nil
}

// UpdateComponentData qualifies the variables of r with container paths.
// current is the path of the invocation itself, parent the path of the
// instantiation whose locals are visible. Loop variables are never touched.
func (d *Doc) UpdateComponentData(line int, current, parent string, r Rewritable, mode RewriteMode) error {
	rename := func(pv *PropertyValue) error {
		return d.renameVariable(line, pv, current, parent, mode)
	}
	for k, p := range r.Properties {
		if err := renameProperty(&p, rename); err != nil {
			return err
		}
		r.Properties[k] = p
	}
	if r.Condition != nil {
		if err := renameBoolean(r.Condition, rename); err != nil {
			return err
		}
	}
	for i := range r.Events {
		if err := rename(&r.Events[i].Action.Target); err != nil {
			return err
		}
		for _, values := range r.Events[i].Action.Parameters {
			for j := range values {
				if err := rename(&values[j]); err != nil {
					return err
				}
			}
		}
	}
	if mode == RewriteInvocation {
		return nil
	}
	if r.Reference != nil && !strings.Contains(r.Reference.Name, "@") {
		name, ok, err := d.localFor(line, r.Reference.Name, parent)
		if err != nil {
			return err
		}
		if ok {
			r.Reference.Name = name
		}
	}
	if r.Root != nil && strings.HasPrefix(*r.Root, "@") {
		probe, err := d.ResolveName(line, strings.TrimPrefix(*r.Root, "@")+"@"+parent)
		if err != nil {
			return err
		}
		if _, ok := d.Locals.Get(probe); ok {
			*r.Root = probe
		}
	}
	return nil
}

func (d *Doc) renameVariable(line int, pv *PropertyValue, current, parent string, mode RewriteMode) error {
	if pv.Source != SourceVariable {
		return nil
	}
	name := pv.Name
	switch {
	case strings.Contains(name, loopVariable):
		return nil
	case mode == RewriteInvocation && name != MouseIn:
		return nil
	case mode == RewriteNested && strings.Contains(name, MouseIn):
		return nil
	}
	if name == MouseIn {
		key, err := d.ResolveLocalVariableName(line, name, current)
		if err != nil {
			return err
		}
		d.Locals.setIfAbsent(key, &Variable{Name: key, Value: Literal(&BooleanValue{Value: false})})
		pv.Name = key
		return nil
	}
	key, ok, err := d.localFor(line, name, parent)
	if err != nil {
		return err
	}
	if ok {
		pv.Name = key
	}
	return nil
}

// localFor returns the local key name maps to at container, if such a local
// has been inserted.
func (d *Doc) localFor(line int, name, container string) (string, bool, error) {
	base, _ := splitDocNameAndRemaining(name)
	probe, err := d.ResolveName(line, base+"@"+container)
	if err != nil {
		return "", false, err
	}
	if !d.Locals.Has(probe) {
		return "", false, nil
	}
	key, err := d.ResolveLocalVariableName(line, name, container)
	return key, err == nil, err
}

func renameProperty(p *Property, rename func(*PropertyValue) error) error {
	if p.Default != nil {
		if err := rename(p.Default); err != nil {
			return err
		}
	}
	for i := range p.Conditions {
		if err := rename(&p.Conditions[i].Value); err != nil {
			return err
		}
		if err := renameBoolean(&p.Conditions[i].When, rename); err != nil {
			return err
		}
	}
	for k, n := range p.Nested {
		if err := renameProperty(&n, rename); err != nil {
			return err
		}
		p.Nested[k] = n
	}
	return nil
}

func renameBoolean(b *Boolean, rename func(*PropertyValue) error) error {
	for _, pv := range []*PropertyValue{&b.Value, &b.Left, &b.Right} {
		if err := rename(pv); err != nil {
			return err
		}
	}
	if b.Of != nil {
		return renameBoolean(b.Of, rename)
	}
	return nil
}

// InsertLocalFromChildComponent claims MOUSE-IN for an invocation at path.
func (d *Doc) InsertLocalFromChildComponent(path ContainerPath, child *ChildComponent) error {
	s := path.String()
	return d.UpdateComponentData(child.Line, s, s, child.rewritable(), RewriteInvocation)
}

// InsertLocalFromComponent turns the arguments of a component instantiated
// at path into locals and qualifies every use of them in its properties and
// body. Caller properties the component does not set are carried over.
func (d *Doc) InsertLocalFromComponent(comp *Component, callerProps map[string]Property, path ContainerPath) error {
	if comp.Kernel {
		return nil
	}
	s := path.String()
	if err := d.InsertLocalVariable(comp.Line, comp.FullName, comp.Arguments, callerProps, s); err != nil {
		return err
	}
	comp.Arguments = nil

	if comp.Properties == nil {
		comp.Properties = make(map[string]Property, len(callerProps))
	}
	for k, v := range callerProps {
		if _, ok := comp.Properties[k]; !ok {
			comp.Properties[k] = v.clone()
		}
	}
	err := d.UpdateComponentData(comp.Line, s, s, Rewritable{
		Properties: comp.Properties,
		Condition:  comp.Condition,
		Events:     comp.Events,
	}, RewriteScope)
	if err != nil {
		return err
	}

	for idx, in := range comp.Instructions {
		var child *ChildComponent
		switch x := in.(type) {
		case *ChildInstruction:
			child = &x.Child
		case *RecursiveChildInstruction:
			child = &x.Child
		default:
			continue
		}
		current := path.Child(idx).String()
		if err := d.UpdateComponentData(child.Line, current, s, child.rewritable(), RewriteNested); err != nil {
			return err
		}
	}
	return nil
}

// InsertLocal prepares a top-level invocation and its inline children: the
// parent's own arguments become locals at path, and both sides are rewritten
// against them.
func (d *Doc) InsertLocal(parent *ChildComponent, children []ChildComponent, path ContainerPath) error {
	s := path.String()
	if err := d.InsertLocalVariable(parent.Line, parent.Root, parent.Arguments, nil, s); err != nil {
		return err
	}
	parent.Arguments = nil
	if err := d.UpdateComponentData(parent.Line, s, s, parent.rewritable(), RewriteScope); err != nil {
		return err
	}
	for idx := range children {
		c := &children[idx]
		if err := d.UpdateComponentData(c.Line, path.Child(idx).String(), s, c.rewritable(), RewriteScope); err != nil {
			return err
		}
	}
	return nil
}
