package ftd

import (
	"log/slog"
	"sort"
	"strings"
)

// ElementWithContainer is what an invocation produces: the element, and the
// containers registered below it with paths relative to it. Bare marks
// registry keys that belong to the caller's own document and are merged
// without qualification.
type ElementWithContainer struct {
	Element        Element
	Children       []Element
	ChildContainer *Registry
	Bare           bool
}

// Invocations records the arguments of every user component call, keyed by
// the component's full name.
type Invocations map[string][]map[string]Value

type callContext struct {
	doc         *Doc
	arguments   map[string]Value
	invocations Invocations
	inScope     map[string]string
	logger      *slog.Logger
}

func (cc *callContext) with(args map[string]Value, inScope map[string]string) *callContext {
	out := *cc
	out.arguments = args
	out.inScope = inScope
	return &out
}

var kernelElements = map[string]bool{
	"ftd#row":     true,
	"ftd#column":  true,
	"ftd#text":    true,
	"ftd#integer": true,
	"ftd#decimal": true,
	"ftd#boolean": true,
	"ftd#image":   true,
	"ftd#input":   true,
	"ftd#iframe":  true,
	"ftd#null":    true,
}

// call builds the element for one invocation at path.
func (c ChildComponent) call(cc *callContext, path ContainerPath) (*ElementWithContainer, error) {
	doc := cc.doc
	child := c.Clone()
	if err := doc.InsertLocalFromChildComponent(path, &child); err != nil {
		return nil, err
	}

	notVisible := false
	var cond *Condition
	if child.Condition != nil {
		ok, err := child.Condition.Eval(child.Line, doc, cc.arguments)
		if err != nil {
			return nil, err
		}
		notVisible = !ok
		if cond, err = child.Condition.runtime(child.Line, doc, cc.arguments); err != nil {
			return nil, err
		}
	}
	events, err := resolveEvents(child.Events, cc.inScope, doc, cc.arguments)
	if err != nil {
		return nil, err
	}
	if err := bindArguments(child.Line, doc, child.Properties, cc.arguments); err != nil {
		return nil, err
	}

	name, err := doc.ResolveName(child.Line, child.Root)
	if err != nil {
		return nil, err
	}
	var out *ElementWithContainer
	if kernelElements[name] {
		el, err := buildKernel(doc, name, child.Properties, cc.arguments, child.Line)
		if err != nil {
			return nil, err
		}
		out = &ElementWithContainer{Element: el}
	} else {
		comp, err := doc.GetComponent(child.Line, name)
		if err != nil {
			return nil, err
		}
		out, err = comp.call(cc, child.Properties, path)
		if err != nil {
			return nil, err
		}
	}

	if common := out.Element.GetCommon(); common != nil {
		if notVisible {
			common.IsNotVisible = true
		}
		if cond != nil {
			common.Condition = cond
		}
		common.Events = append(common.Events, events...)
	}
	return out, nil
}

// call instantiates the component at path. Its arguments become locals,
// its root is built with its properties, then its body runs inside the root.
func (c *Component) call(cc *callContext, callerProps map[string]Property, path ContainerPath) (*ElementWithContainer, error) {
	doc := cc.doc
	comp := c.Clone()
	argNames := make([]string, 0, len(comp.Arguments))
	for k := range comp.Arguments {
		argNames = append(argNames, k)
	}
	sort.Strings(argNames)
	if err := doc.InsertLocalFromComponent(comp, callerProps, path); err != nil {
		return nil, err
	}

	s := path.String()
	inScope := make(map[string]string, len(cc.inScope)+len(argNames))
	for k, v := range cc.inScope {
		inScope[k] = v
	}
	for _, k := range argNames {
		inScope[k] = s
	}
	sub := cc.with(cc.arguments, inScope)

	root := ChildComponent{
		Root:       comp.Root,
		Properties: comp.Properties,
		Condition:  comp.Condition,
		Events:     comp.Events,
		Line:       comp.Line,
	}
	out, err := root.call(sub, path)
	if err != nil {
		return nil, err
	}
	cc.invocations.record(doc, comp, argNames, s)

	if len(comp.Instructions) == 0 {
		return out, nil
	}
	cont, ok := ContainerOf(out.Element)
	if !ok {
		return nil, newError("execute", doc.Name, comp.Line, ErrInvalidInstructionShape, "%s has a body but its root %s takes no children", comp.FullName, KindName(out.Element))
	}
	ex := &executor{
		doc:          doc,
		instructions: comp.Instructions,
		arguments:    map[string]Value{},
		invocations:  cc.invocations,
		logger:       cc.logger.With("component", comp.FullName),
	}
	res, err := ex.execute(path, inScope, cont.Children)
	if err != nil {
		return nil, err
	}
	cont.Children = res.Children
	if out.ChildContainer == nil {
		out.ChildContainer = NewRegistry()
	}
	out.ChildContainer.Merge(nil, res.ChildContainer, "", false)
	return out, nil
}

func (inv Invocations) record(doc *Doc, comp *Component, argNames []string, container string) {
	args := make(map[string]Value, len(argNames))
	for _, name := range argNames {
		key, err := doc.ResolveLocalVariableName(comp.Line, name, container)
		if err != nil {
			continue
		}
		if v, err := doc.GetValue(comp.Line, key); err == nil {
			args[name] = v
		}
	}
	inv[comp.FullName] = append(inv[comp.FullName], args)
}

// recursiveCall builds one element per item of the list the child iterates
// over. Item i is built at the path of the first item shifted by i, with the
// item bound to $loop$ and nothing of the caller's local scope.
func (c ChildComponent) recursiveCall(cc *callContext, path ContainerPath) ([]*ElementWithContainer, error) {
	doc := cc.doc
	if c.Reference == nil {
		return nil, newError("execute", doc.Name, c.Line, ErrInvalidInstruction, "recursive child of %s has no list", c.Root)
	}
	list, err := Var(c.Reference.Name, c.Reference.Kind).Resolve(c.Line, doc, cc.arguments)
	if err != nil {
		return nil, err
	}
	if o, ok := list.(*OptionalValue); ok && o.Data != nil {
		list = o.Data
	}
	l, ok := list.(*ListValue)
	if !ok {
		return nil, newError("execute", doc.Name, c.Line, ErrWrongKind, "%s is %s, not a list", c.Reference.Name, list.Kind())
	}

	out := make([]*ElementWithContainer, 0, len(l.Data))
	for i, item := range l.Data {
		v, err := item.Resolve(c.Line, doc, cc.arguments)
		if err != nil {
			return nil, err
		}
		args := make(map[string]Value, len(cc.arguments)+1)
		for k, a := range cc.arguments {
			args[k] = a
		}
		args[loopVariable] = v

		p := path.Clone()
		p[len(p)-1] += i
		it := c.Clone()
		it.Reference = nil
		it.IsRecursive = false
		e, err := it.call(cc.with(args, map[string]string{}), p)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// superCall builds a top-level invocation together with its inline
// children, which are appended after whatever the invocation's own body
// produced.
func (c ChildComponent) superCall(cc *callContext, children []ChildComponent, path ContainerPath) (*ElementWithContainer, error) {
	doc := cc.doc
	parent := c.Clone()
	kids := cloneChildren(children)
	if err := doc.InsertLocal(&parent, kids, path); err != nil {
		return nil, err
	}
	out, err := parent.call(cc, path)
	if err != nil {
		return nil, err
	}
	if _, ok := out.Element.(*Null); ok {
		return out, nil
	}

	owner := ContainerID(out.Element)
	reg := NewRegistry()
	reg.Merge(nil, out.ChildContainer, owner, true)
	out.ChildContainer = reg
	out.Bare = true
	if len(kids) == 0 {
		return out, nil
	}

	cont, ok := ContainerOf(out.Element)
	if !ok {
		return nil, newError("execute", doc.Name, c.Line, ErrInvalidInstructionShape, "%s takes no children", KindName(out.Element))
	}
	ins := make([]Instruction, len(kids))
	for i := range kids {
		ins[i] = &ChildInstruction{Child: kids[i]}
	}
	ex := &executor{
		doc:          doc,
		instructions: ins,
		arguments:    cc.arguments,
		invocations:  cc.invocations,
		logger:       cc.logger,
	}
	res, err := ex.execute(path, cc.inScope, cont.Children)
	if err != nil {
		return nil, err
	}
	cont.Children = res.Children
	reg.Merge(nil, res.ChildContainer, "", false)
	return out, nil
}

func buildKernel(doc *Doc, name string, props map[string]Property, args map[string]Value, line int) (Element, error) {
	if name == "ftd#null" {
		return &Null{}, nil
	}
	pr := propReader{doc: doc, props: props, args: args, line: line}
	common := pr.common()
	var el Element
	switch name {
	case "ftd#row":
		r := &Row{Common: common}
		pr.container(&r.Container)
		el = r
	case "ftd#column":
		col := &Column{Common: common}
		pr.container(&col.Container)
		el = col
	case "ftd#text":
		el = &Text{Common: common, Text: pr.text("text")}
	case "ftd#integer", "ftd#decimal", "ftd#boolean":
		el = &Text{Common: common, Text: pr.text("value")}
	case "ftd#image":
		el = &Image{Common: common, Src: pr.text("src"), Description: pr.text("description")}
	case "ftd#input":
		el = &Input{Common: common, Placeholder: pr.text("placeholder")}
	case "ftd#iframe":
		el = &IFrame{Common: common, Src: pr.text("src")}
	}
	return el, pr.err
}

// propReader reads kernel properties, keeping the first error.
type propReader struct {
	doc   *Doc
	props map[string]Property
	args  map[string]Value
	line  int
	err   error
}

func (r *propReader) value(name string) (Value, bool) {
	p, ok := r.props[name]
	if !ok || r.err != nil {
		return nil, false
	}
	v, found, err := p.Resolve(r.line, r.doc, r.args)
	if err != nil {
		r.err = err
		return nil, false
	}
	if !found {
		return nil, false
	}
	if o, ok := v.(*OptionalValue); ok {
		if o.Data == nil {
			return nil, false
		}
		v = o.Data
	}
	return v, true
}

func (r *propReader) text(name string) string {
	v, ok := r.value(name)
	if !ok {
		return ""
	}
	s, ok := ValueText(v)
	if !ok {
		r.err = newError("execute", r.doc.Name, r.line, ErrWrongKind, "%s: can't use %s as text", name, v.Kind())
	}
	return s
}

func (r *propReader) integer(name string) *int64 {
	v, ok := r.value(name)
	if !ok {
		return nil
	}
	n, ok := v.(*IntegerValue)
	if !ok {
		r.err = newError("execute", r.doc.Name, r.line, ErrWrongKind, "%s: expected integer, found %s", name, v.Kind())
		return nil
	}
	out := n.Value
	return &out
}

func (r *propReader) boolean(name string) *bool {
	v, ok := r.value(name)
	if !ok {
		return nil
	}
	b, ok := v.(*BooleanValue)
	if !ok {
		r.err = newError("execute", r.doc.Name, r.line, ErrWrongKind, "%s: expected boolean, found %s", name, v.Kind())
		return nil
	}
	out := b.Value
	return &out
}

func (r *propReader) common() Common {
	id := r.text("id")
	return Common{
		DataID:          id,
		ID:              id,
		Link:            r.text("link"),
		Padding:         r.integer("padding"),
		Width:           r.text("width"),
		Height:          r.text("height"),
		Color:           r.text("color"),
		BackgroundColor: r.text("background-color"),
	}
}

func (r *propReader) container(c *Container) {
	c.Open = r.boolean("open")
	c.AppendAt = strings.TrimSpace(r.text("append-at"))
	c.Spacing = r.integer("spacing")
	if w := r.boolean("wrap"); w != nil {
		c.Wrap = *w
	}
}
