package ftdyaml

import (
	"fmt"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	"gopkg.in/yaml.v3"
)

// ---- Convert: yaml nodes → ftd things --------------------------------------

type parser struct {
	file *File
}

func syntaxErr(path string, n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("phase=parse path=%s line=%d: %w: %s", path, n.Line, ErrSyntax, fmt.Sprintf(format, args...))
}

// pairs walks a mapping node in source order.
func pairs(path string, n *yaml.Node, fn func(key, value *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return syntaxErr(path, n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i], n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// qualify turns a name as written into a bag key.
func (p *parser) qualify(name string) string {
	if strings.Contains(name, "#") {
		return name
	}
	if head, rest, ok := strings.Cut(name, "."); ok {
		if target, ok := p.file.Aliases[head]; ok {
			return target + "#" + rest
		}
	}
	return p.file.Name + "#" + name
}

// kind reads "kind" or "kind = default".
func (p *parser) kind(path string, n *yaml.Node) (ftd.Kind, error) {
	if n.Kind != yaml.ScalarNode {
		return ftd.Kind{}, syntaxErr(path, n, "expected a kind")
	}
	text, def, hasDefault := strings.Cut(n.Value, "=")
	k, ok := ftd.ParseKind(strings.TrimSpace(text), p.qualify)
	if !ok {
		return ftd.Kind{}, syntaxErr(path, n, "%q is not a kind", n.Value)
	}
	if k.Type == ftd.KindRecord {
		if _, isOr := p.file.Bag[k.Name].(*ftd.OrType); isOr {
			k = ftd.OrTypeKind(k.Name)
		}
	}
	if hasDefault {
		k = k.WithDefault(strings.TrimSpace(def))
	}
	return k, nil
}

func (p *parser) fields(path string, n *yaml.Node) (map[string]ftd.Kind, []string, error) {
	fields := map[string]ftd.Kind{}
	var order []string
	err := pairs(path, n, func(k, v *yaml.Node) error {
		kind, err := p.kind(path+"."+k.Value, v)
		if err != nil {
			return err
		}
		fields[k.Value] = kind
		order = append(order, k.Value)
		return nil
	})
	return fields, order, err
}

func (p *parser) records(n *yaml.Node) error {
	return pairs("records", n, func(k, v *yaml.Node) error {
		name := p.qualify(k.Value)
		fields, order, err := p.fields("records."+k.Value, v)
		if err != nil {
			return err
		}
		p.file.Bag[name] = &ftd.Record{Name: name, Fields: fields, Order: order}
		return nil
	})
}

func (p *parser) orTypes(n *yaml.Node) error {
	return pairs("or-types", n, func(k, v *yaml.Node) error {
		name := p.qualify(k.Value)
		ot := &ftd.OrType{Name: name}
		err := pairs("or-types."+k.Value, v, func(vk, vv *yaml.Node) error {
			fields, order, err := p.fields("or-types."+k.Value+"."+vk.Value, vv)
			if err != nil {
				return err
			}
			ot.Variants = append(ot.Variants, ftd.Record{Name: name + "." + vk.Value, Fields: fields, Order: order})
			return nil
		})
		if err != nil {
			return err
		}
		p.file.Bag[name] = ot
		return nil
	})
}

// variables reads either `name: {kind: K, value: V, when: [...]}` or a bare
// scalar whose kind follows its YAML tag. A variable without a value starts
// from the zero value of its kind.
func (p *parser) variables(n *yaml.Node) error {
	return pairs("variables", n, func(k, v *yaml.Node) error {
		path := "variables." + k.Value
		pv := pendingVariable{key: p.qualify(k.Value), node: v, path: path}

		if v.Kind != yaml.MappingNode || !hasKey(v, "kind") {
			kind, ok := scalarKind(v)
			if !ok {
				return syntaxErr(path, v, "%s needs a kind", k.Value)
			}
			pv.kind = kind
			p.file.variables = append(p.file.variables, pv)
			p.file.Bag[pv.key] = &ftd.Variable{Name: pv.key}
			return nil
		}

		var kindNode, valueNode, whenNode *yaml.Node
		err := pairs(path, v, func(fk, fv *yaml.Node) error {
			switch fk.Value {
			case "kind":
				kindNode = fv
			case "value":
				valueNode = fv
			case "when":
				whenNode = fv
			default:
				return syntaxErr(path, fk, "unknown key %s", fk.Value)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if pv.kind, err = p.kind(path+".kind", kindNode); err != nil {
			return err
		}
		if whenNode != nil {
			if pv.conditions, err = p.conditional(path+".when", whenNode, nil); err != nil {
				return err
			}
		}
		if valueNode == nil {
			zero, ok := pv.kind.ZeroValue()
			if !ok {
				return syntaxErr(path, v, "%s needs a value", k.Value)
			}
			p.file.Bag[pv.key] = &ftd.Variable{Name: pv.key, Value: ftd.Literal(zero), Conditions: pv.conditions}
			return nil
		}
		pv.node = valueNode
		p.file.variables = append(p.file.variables, pv)
		p.file.Bag[pv.key] = &ftd.Variable{Name: pv.key}
		return nil
	})
}

func scalarKind(n *yaml.Node) (ftd.Kind, bool) {
	if n.Kind != yaml.ScalarNode {
		return ftd.Kind{}, false
	}
	switch n.Tag {
	case "!!int":
		return ftd.IntegerKind(), true
	case "!!float":
		return ftd.DecimalKind(), true
	case "!!bool":
		return ftd.BooleanKind(), true
	case "!!str":
		return ftd.StringKind(), true
	}
	return ftd.Kind{}, false
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

// scope lists the names a property may use as variables rather than global
// references: arguments of the enclosing component or invocation.
type scope map[string]ftd.Kind

func (s scope) with(args map[string]ftd.Kind) scope {
	if len(args) == 0 {
		return s
	}
	out := make(scope, len(s)+len(args))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range args {
		out[k] = v
	}
	return out
}

// components reads `name: {root: R, arguments: {...}, body: [...], <prop>: ...}`.
func (p *parser) components(n *yaml.Node) error {
	return pairs("components", n, func(k, v *yaml.Node) error {
		path := "components." + k.Value
		name := p.qualify(k.Value)
		inv, err := p.invocation(path, v, nil)
		if err != nil {
			return err
		}
		if inv.root == "" {
			return syntaxErr(path, v, "component %s has no root", k.Value)
		}
		comp := &ftd.Component{
			Root:       inv.root,
			FullName:   name,
			Arguments:  inv.args,
			Properties: inv.props,
			Events:     inv.events,
			Condition:  inv.condition,
			Line:       k.Line,
		}
		if !strings.HasPrefix(inv.root, "@") {
			comp.Root = p.qualify(inv.root)
		}
		if inv.body != nil {
			if comp.Instructions, err = p.instructions(path+".body", inv.body, scope(nil).with(inv.args), false); err != nil {
				return err
			}
		}
		if inv.children != nil || inv.loop != nil {
			return syntaxErr(path, v, "component definitions take a body, not children or $loop$")
		}
		p.file.Bag[name] = comp
		return nil
	})
}

// invocation holds the keys shared by component definitions and the
// instructions that call them.
type invocation struct {
	root      string
	args      map[string]ftd.Kind
	props     map[string]ftd.Property
	events    []ftd.Event
	condition *ftd.Boolean
	body      *yaml.Node
	children  *yaml.Node
	loop      *yaml.Node
}

func (p *parser) invocation(path string, n *yaml.Node, outer scope) (*invocation, error) {
	inv := &invocation{props: map[string]ftd.Property{}}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return inv, nil
		}
		pv, err := p.value(path, n, outer)
		if err != nil {
			return nil, err
		}
		inv.props["text"] = ftd.Prop(pv)
		return inv, nil
	case yaml.MappingNode:
	default:
		return nil, syntaxErr(path, n, "expected a mapping of properties")
	}

	if hasKey(n, "arguments") {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value != "arguments" {
				continue
			}
			args, _, err := p.fields(path+".arguments", n.Content[i+1])
			if err != nil {
				return nil, err
			}
			inv.args = args
		}
	}
	sc := outer.with(inv.args)

	var ifNode, eventsNode *yaml.Node
	err := pairs(path, n, func(k, v *yaml.Node) error {
		switch k.Value {
		case "arguments":
		case "root":
			inv.root = v.Value
		case "if":
			ifNode = v
		case "events":
			eventsNode = v
		case "body":
			inv.body = v
		case "children":
			inv.children = v
		case "$loop$":
			inv.loop = v
		default:
			prop, err := p.property(path+"."+k.Value, v, sc)
			if err != nil {
				return err
			}
			inv.props[k.Value] = prop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ifNode != nil {
		b, err := p.condition(path+".if", ifNode, sc)
		if err != nil {
			return nil, err
		}
		inv.condition = &b
	}
	if eventsNode != nil {
		if inv.events, err = p.events(path+".events", eventsNode, sc); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// instructions reads a sequence of instruction items. Each item is either
// `container: NAME` or a single `ROOT: {...}` pair.
func (p *parser) instructions(path string, n *yaml.Node, sc scope, top bool) ([]ftd.Instruction, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, syntaxErr(path, n, "expected a sequence of instructions")
	}
	out := make([]ftd.Instruction, 0, len(n.Content))
	for i, item := range n.Content {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		key, val, ok := splitItem(item)
		if !ok {
			return nil, syntaxErr(ipath, item, "an instruction is a single key mapping")
		}
		if key.Value == "container" {
			out = append(out, &ftd.ChangeContainer{Name: p.containerName(val.Value), Line: key.Line})
			continue
		}
		ins, err := p.instruction(ipath+"."+key.Value, key, val, sc, top)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	qualifyJumps(out)
	return out, nil
}

// qualifyJumps rewrites `container: owner.id` to `owner#id` when owner is
// the id of an instruction in the same stream.
func qualifyJumps(ins []ftd.Instruction) {
	ids := map[string]bool{}
	for _, in := range ins {
		if id := instructionID(in); id != "" {
			ids[id] = true
		}
	}
	for _, in := range ins {
		cc, ok := in.(*ftd.ChangeContainer)
		if !ok || strings.Contains(cc.Name, "#") {
			continue
		}
		if owner, rest, ok := strings.Cut(cc.Name, "."); ok && ids[owner] {
			cc.Name = owner + "#" + rest
		}
	}
}

func instructionID(in ftd.Instruction) string {
	var c ftd.ChildComponent
	switch x := in.(type) {
	case *ftd.ChildInstruction:
		c = x.Child
	case *ftd.ComponentInstruction:
		c = x.Parent
	case *ftd.RecursiveChildInstruction:
		c = x.Child
	default:
		return ""
	}
	p, ok := c.Properties["id"]
	if !ok || p.Default == nil {
		return ""
	}
	if s, ok := p.Default.Value.(*ftd.StringValue); ok {
		return s.Text
	}
	return ""
}

// splitItem reads `ROOT: {...}`, or a bare `ROOT` invoked without
// properties.
func splitItem(item *yaml.Node) (key, val *yaml.Node, ok bool) {
	switch {
	case item.Kind == yaml.ScalarNode && item.Tag == "!!str":
		return item, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Line: item.Line}, true
	case item.Kind == yaml.MappingNode && len(item.Content) == 2:
		return item.Content[0], item.Content[1], true
	}
	return nil, nil, false
}

// containerName keeps ids as written except the root sentinel. A dotted
// `owner.id` naming an instruction id is qualified by qualifyJumps.
func (p *parser) containerName(name string) string {
	if name == "ftd.main" || name == "main" {
		return "ftd#main"
	}
	return name
}

func (p *parser) instruction(path string, key, val *yaml.Node, sc scope, top bool) (ftd.Instruction, error) {
	child, inv, err := p.child(path, key, val, sc)
	if err != nil {
		return nil, err
	}
	switch {
	case inv.loop != nil:
		if inv.children != nil {
			return nil, syntaxErr(path, val, "$loop$ can't be combined with children")
		}
		ref, err := p.reference(path+".$loop$", inv.loop, sc)
		if err != nil {
			return nil, err
		}
		child.Reference = ref
		child.IsRecursive = true
		return &ftd.RecursiveChildInstruction{Child: child}, nil
	case inv.children != nil:
		if !top {
			return nil, syntaxErr(path, key, "children can only be given at the top level")
		}
		if inv.children.Kind != yaml.SequenceNode {
			return nil, syntaxErr(path+".children", inv.children, "expected a sequence")
		}
		ci := &ftd.ComponentInstruction{Parent: child}
		for i, item := range inv.children.Content {
			cpath := fmt.Sprintf("%s.children[%d]", path, i)
			key, val, ok := splitItem(item)
			if !ok {
				return nil, syntaxErr(cpath, item, "a child is a single key mapping")
			}
			c, cinv, err := p.child(cpath, key, val, sc)
			if err != nil {
				return nil, err
			}
			if cinv.children != nil || cinv.loop != nil {
				return nil, syntaxErr(cpath, item, "children of an invocation can't nest children or $loop$")
			}
			ci.Children = append(ci.Children, c)
		}
		return ci, nil
	}
	return &ftd.ChildInstruction{Child: child}, nil
}

func (p *parser) child(path string, key, val *yaml.Node, sc scope) (ftd.ChildComponent, *invocation, error) {
	inv, err := p.invocation(path, val, sc)
	if err != nil {
		return ftd.ChildComponent{}, nil, err
	}
	if inv.body != nil || inv.root != "" {
		return ftd.ChildComponent{}, nil, syntaxErr(path, val, "root and body belong to component definitions")
	}
	return ftd.ChildComponent{
		Root:       key.Value,
		Condition:  inv.condition,
		Properties: inv.props,
		Arguments:  inv.args,
		Events:     inv.events,
		Line:       key.Line,
	}, inv, nil
}

func (p *parser) reference(path string, n *yaml.Node, sc scope) (*ftd.Reference, error) {
	if n.Kind != yaml.ScalarNode || !strings.HasPrefix(n.Value, "$") {
		return nil, syntaxErr(path, n, "$loop$ takes a $list")
	}
	name := strings.TrimPrefix(n.Value, "$")
	kind := ftd.ListOf(ftd.StringKind())
	if k, ok := sc[name]; ok {
		kind = k
	} else if k := p.refKind(name); k.Type == ftd.KindList {
		kind = k
	}
	return &ftd.Reference{Name: name, Kind: kind}, nil
}

// property reads a scalar, a conditional `{default: V, when: [...]}`, or a
// component-valued `{ROOT: {...}}`.
func (p *parser) property(path string, n *yaml.Node, sc scope) (ftd.Property, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		pv, err := p.value(path, n, sc)
		if err != nil {
			return ftd.Property{}, err
		}
		return ftd.Prop(pv), nil
	case yaml.MappingNode:
	default:
		return ftd.Property{}, syntaxErr(path, n, "expected a value")
	}

	if hasKey(n, "default") || hasKey(n, "when") {
		var prop ftd.Property
		err := pairs(path, n, func(k, v *yaml.Node) error {
			switch k.Value {
			case "default":
				pv, err := p.value(path+".default", v, sc)
				if err != nil {
					return err
				}
				prop.Default = &pv
			case "when":
				cs, err := p.conditional(path+".when", v, sc)
				if err != nil {
					return err
				}
				prop.Conditions = cs
			default:
				return syntaxErr(path, k, "unknown key %s", k.Value)
			}
			return nil
		})
		return prop, err
	}

	if len(n.Content) != 2 {
		return ftd.Property{}, syntaxErr(path, n, "a component value names exactly one root")
	}
	root := n.Content[0].Value
	inv, err := p.invocation(path+"."+root, n.Content[1], sc)
	if err != nil {
		return ftd.Property{}, err
	}
	ui := ftd.Literal(&ftd.UIValue{Name: p.qualify(root)})
	return ftd.Property{Default: &ui, Nested: inv.props}, nil
}

func (p *parser) conditional(path string, n *yaml.Node, sc scope) ([]ftd.ConditionalValue, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, syntaxErr(path, n, "expected a sequence of {if, value}")
	}
	var out []ftd.ConditionalValue
	for i, item := range n.Content {
		ipath := fmt.Sprintf("%s[%d]", path, i)
		var cv ftd.ConditionalValue
		var haveIf, haveValue bool
		err := pairs(ipath, item, func(k, v *yaml.Node) error {
			switch k.Value {
			case "if":
				b, err := p.condition(ipath+".if", v, sc)
				if err != nil {
					return err
				}
				cv.When, haveIf = b, true
			case "value":
				pv, err := p.value(ipath+".value", v, sc)
				if err != nil {
					return err
				}
				cv.Value, haveValue = pv, true
			default:
				return syntaxErr(ipath, k, "unknown key %s", k.Value)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !haveIf || !haveValue {
			return nil, syntaxErr(ipath, item, "a conditional value needs if and value")
		}
		out = append(out, cv)
	}
	return out, nil
}

// value reads a scalar. "$name" is a variable when name is an argument in
// scope, a local, MOUSE-IN or the loop item, and a global reference otherwise.
func (p *parser) value(path string, n *yaml.Node, sc scope) (ftd.PropertyValue, error) {
	if n.Kind != yaml.ScalarNode {
		return ftd.PropertyValue{}, syntaxErr(path, n, "expected a scalar")
	}
	if n.Tag == "!!str" && strings.HasPrefix(n.Value, "$") {
		return p.variable(n.Value, sc), nil
	}
	switch n.Tag {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return ftd.PropertyValue{}, syntaxErr(path, n, "%v", err)
		}
		return ftd.Literal(&ftd.IntegerValue{Value: v}), nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return ftd.PropertyValue{}, syntaxErr(path, n, "%v", err)
		}
		return ftd.Literal(&ftd.DecimalValue{Value: v}), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return ftd.PropertyValue{}, syntaxErr(path, n, "%v", err)
		}
		return ftd.Literal(&ftd.BooleanValue{Value: v}), nil
	case "!!null":
		return ftd.PropertyValue{}, syntaxErr(path, n, "null is not a value")
	}
	return ftd.Literal(&ftd.StringValue{Text: n.Value}), nil
}

func (p *parser) variable(text string, sc scope) ftd.PropertyValue {
	if strings.HasPrefix(text, "$loop$") {
		return ftd.Var(text, ftd.StringKind())
	}
	name := strings.TrimPrefix(text, "$")
	base, rest, _ := strings.Cut(name, ".")
	switch {
	case base == ftd.MouseIn:
		return ftd.Var(ftd.MouseIn, ftd.BooleanKind())
	case strings.Contains(base, "@"):
		return ftd.Var(name, ftd.StringKind())
	}
	if k, ok := sc[base]; ok {
		if rest != "" {
			k = ftd.StringKind()
		}
		return ftd.Var(name, k)
	}
	return ftd.Ref(name, p.refKind(name))
}

func (p *parser) refKind(name string) ftd.Kind {
	key := p.qualify(name)
	for _, pv := range p.file.variables {
		if pv.key == key {
			return pv.kind
		}
	}
	if v, ok := p.file.Bag[key].(*ftd.Variable); ok {
		return v.Value.ValueKind()
	}
	return ftd.StringKind()
}

// operand reads one side of a condition written inline.
func (p *parser) operand(text string, sc scope) ftd.PropertyValue {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "$") {
		return p.variable(text, sc)
	}
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: text}
	var tagged yaml.Node
	if err := yaml.Unmarshal([]byte(text), &tagged); err == nil && len(tagged.Content) == 1 && tagged.Content[0].Kind == yaml.ScalarNode {
		n = tagged.Content[0]
	}
	if pv, err := p.value("", n, sc); err == nil {
		return pv
	}
	return ftd.Literal(&ftd.StringValue{Text: text})
}

// condition reads "$a == b", "$a != b", "$a is [not] null|empty",
// "not ...", "true", "false", or a bare "$flag".
func (p *parser) condition(path string, n *yaml.Node, sc scope) (ftd.Boolean, error) {
	if n.Kind != yaml.ScalarNode {
		return ftd.Boolean{}, syntaxErr(path, n, "expected a condition")
	}
	b, ok := p.parseCondition(strings.TrimSpace(n.Value), sc)
	if !ok {
		return ftd.Boolean{}, syntaxErr(path, n, "can't read condition %q", n.Value)
	}
	return b, nil
}

var unaryConditions = []struct {
	suffix string
	op     ftd.BooleanOp
}{
	{" is not null", ftd.OpIsNotNull},
	{" is null", ftd.OpIsNull},
	{" is not empty", ftd.OpIsNotEmpty},
	{" is empty", ftd.OpIsEmpty},
}

func (p *parser) parseCondition(s string, sc scope) (ftd.Boolean, bool) {
	switch s {
	case "true":
		return ftd.True(), true
	case "false":
		return ftd.Boolean{Op: ftd.OpLiteral}, true
	case "":
		return ftd.Boolean{}, false
	}
	if rest, ok := strings.CutPrefix(s, "not "); ok {
		b, ok := p.parseCondition(strings.TrimSpace(rest), sc)
		return ftd.Not(b), ok
	}
	if l, r, ok := strings.Cut(s, "!="); ok {
		return ftd.Boolean{Op: ftd.OpNotEqual, Left: p.operand(l, sc), Right: p.operand(r, sc)}, true
	}
	if l, r, ok := strings.Cut(s, "=="); ok {
		return ftd.Equal(p.operand(l, sc), p.operand(r, sc)), true
	}
	for _, u := range unaryConditions {
		if v, ok := strings.CutSuffix(s, u.suffix); ok {
			return ftd.Boolean{Op: u.op, Value: p.operand(v, sc)}, true
		}
	}
	if strings.HasPrefix(s, "$") && !strings.ContainsAny(s, " \t") {
		return ftd.Equal(p.variable(s, sc), ftd.Literal(&ftd.BooleanValue{Value: true})), true
	}
	return ftd.Boolean{}, false
}

// events reads `click: increment $count by 2 clamp 0 10`.
func (p *parser) events(path string, n *yaml.Node, sc scope) ([]ftd.Event, error) {
	var out []ftd.Event
	err := pairs(path, n, func(k, v *yaml.Node) error {
		words := strings.Fields(v.Value)
		if len(words) < 2 {
			return syntaxErr(path+"."+k.Value, v, "expected `<action> <target>`, found %q", v.Value)
		}
		kind, err := ftd.ParseActionKind(words[0])
		if err != nil {
			return syntaxErr(path+"."+k.Value, v, "%v", err)
		}
		if !strings.HasPrefix(words[1], "$") {
			return syntaxErr(path+"."+k.Value, v, "target %s must be a $variable", words[1])
		}
		action := ftd.Action{Kind: kind, Target: p.variable(words[1], sc)}
		current := ""
		for _, w := range words[2:] {
			if _, ok := kind.Parameters()[w]; ok {
				current = w
				if action.Parameters == nil {
					action.Parameters = map[string][]ftd.PropertyValue{}
				}
				action.Parameters[w] = []ftd.PropertyValue{}
				continue
			}
			if current == "" {
				return syntaxErr(path+"."+k.Value, v, "%s takes no parameter %s", kind, w)
			}
			action.Parameters[current] = append(action.Parameters[current], p.operand(w, sc))
		}
		out = append(out, ftd.Event{Name: k.Value, Action: action, Line: k.Line})
		return nil
	})
	return out, err
}
