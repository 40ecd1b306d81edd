package ftd

import (
	"log/slog"
	"strings"
)

// executor walks one instruction stream. The same executor serves the
// nested frames opened by open containers and external slots; they share
// the instruction index.
type executor struct {
	doc          *Doc
	instructions []Instruction
	arguments    map[string]Value
	invocations  Invocations
	logger       *slog.Logger
}

// frame is the state of one execution frame. current is relative to the
// frame root; children is the frame's sibling list at the root.
type frame struct {
	current  ContainerPath
	registry *Registry
	children []Element
}

// siblings returns the child list at path below the frame root.
func (f *frame) siblings(path ContainerPath) (*[]Element, bool) {
	list := &f.children
	for _, i := range path {
		if i < 0 || i >= len(*list) {
			return nil, false
		}
		c, ok := ContainerOf((*list)[i])
		if !ok {
			return nil, false
		}
		list = &c.Children
	}
	return list, true
}

// execute runs the whole stream below parent. seed holds children already
// present at the frame root; new ones are appended after them.
func (ex *executor) execute(parent ContainerPath, inScope map[string]string, seed []Element) (*ElementWithContainer, error) {
	index := 0
	return ex.run(&index, false, parent, inScope, "", seed)
}

func (ex *executor) context(inScope map[string]string) *callContext {
	return &callContext{
		doc:         ex.doc,
		arguments:   ex.arguments,
		invocations: ex.invocations,
		inScope:     inScope,
		logger:      ex.logger,
	}
}

func (ex *executor) run(index *int, external bool, parent ContainerPath, inScope map[string]string, parentID string, seed []Element) (*ElementWithContainer, error) {
	f := &frame{current: ContainerPath{}, registry: NewRegistry(), children: seed}

	for *index < len(ex.instructions) {
		in := ex.instructions[*index]
		siblings, ok := f.siblings(f.current)
		if !ok {
			return nil, newError("execute", ex.doc.Name, in.LineNumber(), ErrInvalidInstructionShape, "path %s does not address a container", f.current)
		}
		local := parent.Join(f.current).Child(len(*siblings))

		switch x := in.(type) {
		case *ChangeContainer:
			if external && !f.registry.Has(ParseContainerKey(x.Name)) && !matchParentID(x.Name, parentID) {
				ex.logger.Debug("leaving external frame", "container", x.Name, "parent", parentID, "line", x.Line)
				*index--
				return &ElementWithContainer{Element: &Null{}, Children: f.children, ChildContainer: f.registry}, nil
			}
			if err := ex.changeContainer(f, x, parentID); err != nil {
				return nil, err
			}
		case *ComponentInstruction:
			if len(ex.arguments) > 0 {
				return nil, newError("execute", ex.doc.Name, x.LineNumber(), ErrInvalidInstruction, "component instruction %s with bound arguments", x.Parent.Root)
			}
			e, err := x.Parent.superCall(ex.context(inScope), x.Children, local)
			if err != nil {
				return nil, err
			}
			if err := ex.addElement(f, index, e, parent, map[string]string{}); err != nil {
				return nil, err
			}
		case *ChildInstruction:
			e, err := x.Child.call(ex.context(inScope), local)
			if err != nil {
				return nil, err
			}
			if err := ex.addElement(f, index, e, parent, inScope); err != nil {
				return nil, err
			}
		case *RecursiveChildInstruction:
			elements, err := x.Child.recursiveCall(ex.context(inScope), local)
			if err != nil {
				return nil, err
			}
			for _, e := range elements {
				// Containers named inside an iteration are not addressable
				// from the stream.
				e.ChildContainer = nil
				if err := ex.addElement(f, index, e, parent, inScope); err != nil {
					return nil, err
				}
			}
		}
		*index++
	}

	return &ElementWithContainer{Element: &Null{}, Children: f.children, ChildContainer: f.registry}, nil
}

func matchParentID(name, parentID string) bool {
	return parentID != "" && name == parentID
}

// changeContainer moves the frame to a named container. Names produced more
// than once always resolve to their first instance.
func (ex *executor) changeContainer(f *frame, in *ChangeContainer, parentID string) error {
	if in.Name == RootContainer || matchParentID(in.Name, parentID) {
		f.current = ContainerPath{}
		ex.logger.Debug("jump to frame root", "container", in.Name, "line", in.Line)
		return nil
	}
	p, ok := f.registry.First(ParseContainerKey(in.Name))
	if !ok {
		return newError("execute", ex.doc.Name, in.Line, ErrNoSuchContainer, "%s", in.Name)
	}
	f.current = p.Clone()
	ex.logger.Debug("jump", "container", in.Name, "path", f.current.String(), "line", in.Line)
	return nil
}

// addElement appends e at the current position and registers its
// containers. An open element takes the rest of the stream as children; an
// element with an append-at slot collects it as external children.
func (ex *executor) addElement(f *frame, index *int, e *ElementWithContainer, parent ContainerPath, inScope map[string]string) error {
	siblings, ok := f.siblings(f.current)
	if !ok {
		return newError("execute", ex.doc.Name, 0, ErrInvalidInstructionShape, "path %s does not address a container", f.current)
	}
	n := len(*siblings)
	base := f.current.Clone()
	elemPath := f.current.Child(n)

	id := ContainerID(e.Element)
	if id != "" {
		f.registry.Add(BareKey(id), elemPath)
		ex.logger.Debug("register container", "id", id, "path", elemPath.String())
	}
	if e.ChildContainer != nil {
		f.registry.Merge(elemPath, e.ChildContainer, id, !e.Bare)
	}

	open, openID := IsOpenContainer(e.Element)
	*siblings = append(*siblings, e.Element)

	if open {
		f.current = elemPath
		cont, _ := ContainerOf(e.Element)
		*index++
		ex.logger.Debug("open container", "path", elemPath.String(), "id", id)
		res, err := ex.run(index, true, parent.Join(f.current), inScope, id, nil)
		if err != nil {
			return err
		}
		cont.Children = append(cont.Children, res.Children...)
		f.registry.Merge(f.current, res.ChildContainer, "", false)
	}

	if openID == "" {
		return nil
	}
	full := openID
	if id != "" {
		full = id + "#" + openID
	}
	containers := externalContainers(f.registry, full, base, n)
	short := openID
	if _, after, ok := strings.Cut(openID, "."); ok {
		short = after
	}

	f.current = elemPath
	cont, ok := ContainerOf(e.Element)
	if !ok {
		return newError("execute", ex.doc.Name, 0, ErrInvalidInstructionShape, "%s can't append at %s", KindName(e.Element), openID)
	}
	*index++
	ex.logger.Debug("external frame", "slot", full, "path", elemPath.String(), "targets", len(containers))
	res, err := ex.run(index, true, parent.Join(f.current), map[string]string{}, id, nil)
	if err != nil {
		return err
	}
	var children []Element
	if len(res.Children) > 0 {
		wrap := defaultColumn()
		wrap.Common.DataID = short
		wrap.Container.Children = res.Children
		children = []Element{wrap}
	}
	cont.ExternalChildren = &ExternalChildren{ID: short, Containers: containers, Children: children}
	return nil
}

// externalContainers returns, relative to the element at base+[idx], the
// registered instances of openID that lie inside that element.
func externalContainers(reg *Registry, openID string, base ContainerPath, idx int) []ContainerPath {
	key := openID
	if !strings.Contains(key, "#") {
		key = "#" + strings.ReplaceAll(key, ".", "#")
	}
	paths, _ := reg.Lookup(ParseContainerKey(key))
	var out []ContainerPath
	for _, p := range paths {
		if len(p) > len(base) && p.HasPrefix(base) && p[len(base)] == idx {
			out = append(out, p[len(base)+1:].Clone())
		}
	}
	return out
}
