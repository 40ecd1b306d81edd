package ftd

import (
	"strings"
)

// Doc resolves names for one document against its aliases, the symbol bag
// and the local scope of the running compile.
type Doc struct {
	Name    string
	Aliases map[string]string
	Bag     map[string]Thing
	Locals  *LocalScope
}

// NewDoc returns a Doc. The "ftd" alias always points at the kernel.
func NewDoc(name string, aliases map[string]string, bag map[string]Thing, locals *LocalScope) *Doc {
	a := make(map[string]string, len(aliases)+1)
	a["ftd"] = "ftd"
	for k, v := range aliases {
		a[k] = v
	}
	if bag == nil {
		bag = make(map[string]Thing)
	}
	if locals == nil {
		locals = NewLocalScope()
	}
	return &Doc{Name: name, Aliases: a, Bag: bag, Locals: locals}
}

func (d *Doc) FormatName(name string) string {
	return d.Name + "#" + name
}

// ResolveName qualifies name with the document it belongs to.
//
//	foo            -> <doc>#foo
//	alias.foo      -> <alias target>#foo
//	record.field   -> <doc>#record.field
//	a/b#foo        -> a/b#foo
func (d *Doc) ResolveName(line int, name string) (string, error) {
	if strings.Contains(name, "#") {
		return name, nil
	}
	m, v, rest := splitModule(name)
	if m == "" {
		return d.FormatName(v), nil
	}
	tail := v
	if rest != "" {
		tail += "." + rest
	}
	if target, ok := d.Aliases[m]; ok {
		return target + "#" + tail, nil
	}
	if d.isFieldPath(m) {
		return d.FormatName(m + "." + tail), nil
	}
	return "", newError("resolve", d.Name, line, ErrUnknownAlias, "%s (in %s)", m, name)
}

// ResolveLocalVariableName qualifies the base of name with the container
// path, keeping any field access: "rec.name" at "0,1" -> "<doc>#rec@0,1.name".
func (d *Doc) ResolveLocalVariableName(line int, name, container string) (string, error) {
	base, rest := splitDocNameAndRemaining(name)
	if rest != "" {
		return d.ResolveName(line, base+"@"+container+"."+rest)
	}
	return d.ResolveName(line, base+"@"+container)
}

// isFieldPath reports whether m names something whose fields can be
// addressed: a bag entry, a local, a local key or a bound argument.
func (d *Doc) isFieldPath(m string) bool {
	if strings.Contains(m, "@") || strings.HasPrefix(m, "$") {
		return true
	}
	_, ok := d.lookup(d.FormatName(m))
	return ok
}

func (d *Doc) lookup(key string) (Thing, bool) {
	if t, ok := d.Bag[key]; ok {
		return t, true
	}
	return d.Locals.Get(key)
}

// GetThing finds name in the bag or the local scope, following field
// accesses into record and or-type values.
func (d *Doc) GetThing(line int, name string) (Thing, error) {
	name = strings.TrimPrefix(name, "$")
	thing, rest, err := d.initialThing(line, name)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return thing, nil
	}
	return d.walkThing(line, rest, thing)
}

func (d *Doc) initialThing(line int, name string) (Thing, string, error) {
	if strings.Contains(name, "#") {
		full, rest := name, ""
		s, n, _ := strings.Cut(name, "#")
		if v, r, ok := strings.Cut(n, "."); ok {
			full, rest = s+"#"+v, r
		}
		if t, ok := d.lookup(full); ok {
			return t, rest, nil
		}
		return nil, "", newError("resolve", d.Name, line, ErrNotFound, "%s", full)
	}
	if t, rest, ok := d.initialIn("", d.Name, name); ok {
		return t, rest, nil
	}
	if m, v, ok := strings.Cut(name, "."); ok {
		if t, rest, ok := d.initialIn(m, m, v); ok {
			return t, rest, nil
		}
	}
	return nil, "", newError("resolve", d.Name, line, ErrNotFound, "%s", name)
}

func (d *Doc) initialIn(alias, docName, name string) (Thing, string, bool) {
	n, rest, _ := strings.Cut(name, ".")
	if t, ok := d.lookup(docName + "#" + n); ok {
		return t, rest, true
	}
	if alias == "" {
		return nil, "", false
	}
	if target, ok := d.Aliases[alias]; ok {
		if t, ok := d.Bag[target+"#"+n]; ok {
			return t, rest, true
		}
	}
	return nil, "", false
}

func (d *Doc) walkThing(line int, path string, thing Thing) (Thing, error) {
	v, rest, _ := strings.Cut(path, ".")
	var next Thing
	switch t := thing.(type) {
	case *OrType:
		next = &OrTypeWithVariant{Type: t, Variant: v}
	case *Variable:
		val, err := t.Value.Resolve(line, d, nil)
		if err != nil {
			return nil, err
		}
		fs, ok := fields(val)
		if !ok {
			return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s is not a record or or-type", t.Name)
		}
		f, ok := fs[v]
		if !ok {
			return nil, newError("resolve", d.Name, line, ErrNotFound, "field %s of %s", v, t.Name)
		}
		if f.Source == SourceReference {
			ref, _, err := d.initialThing(line, f.Name)
			if err != nil {
				return nil, err
			}
			next = ref
		} else {
			next = &Variable{Name: t.Name + "." + v, Value: f}
		}
	default:
		return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s has no field %s", thing.ThingName(), v)
	}
	if rest != "" {
		return d.walkThing(line, rest, next)
	}
	return next, nil
}

func (d *Doc) GetValue(line int, name string) (Value, error) {
	t, err := d.GetThing(line, name)
	if err != nil {
		return nil, err
	}
	v, ok := t.(*Variable)
	if !ok {
		return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s is not a variable", name)
	}
	if len(v.Conditions) == 0 {
		return v.Value.Resolve(line, d, nil)
	}
	val, _, err := Property{Default: &v.Value, Conditions: v.Conditions}.Resolve(line, d, nil)
	return val, err
}

func (d *Doc) GetVariable(line int, name string) (*Variable, error) {
	t, err := d.GetThing(line, name)
	if err != nil {
		return nil, err
	}
	v, ok := t.(*Variable)
	if !ok {
		return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s is not a variable", name)
	}
	return v, nil
}

func (d *Doc) GetComponent(line int, name string) (*Component, error) {
	t, err := d.GetThing(line, name)
	if err != nil {
		return nil, err
	}
	c, ok := t.(*Component)
	if !ok {
		return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s is not a component", name)
	}
	return c, nil
}

func (d *Doc) GetRecord(line int, name string) (*Record, error) {
	t, err := d.GetThing(line, name)
	if err != nil {
		return nil, err
	}
	r, ok := t.(*Record)
	if !ok {
		return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s is not a record", name)
	}
	return r, nil
}

func (d *Doc) GetOrType(line int, name string) (*OrType, error) {
	t, err := d.GetThing(line, name)
	if err != nil {
		return nil, err
	}
	o, ok := t.(*OrType)
	if !ok {
		return nil, newError("resolve", d.Name, line, ErrWrongKind, "%s is not an or-type", name)
	}
	return o, nil
}

// splitModule splits "m.v.rest" into its first two segments and the rest.
// A name without a dot has no module.
func splitModule(id string) (m, v, rest string) {
	first, after, ok := strings.Cut(id, ".")
	if !ok {
		return "", id, ""
	}
	second, rest, _ := strings.Cut(after, ".")
	return first, second, rest
}

// splitDocNameAndRemaining splits "doc#base.field.x" into "doc#base" and
// "field.x". Dots before the '#' belong to the document name.
func splitDocNameAndRemaining(s string) (string, string) {
	prefix, pattern := "", s
	if p1, p2, ok := strings.Cut(s, "#"); ok {
		prefix, pattern = p1+"#", p2
	}
	if a, b, ok := strings.Cut(pattern, "."); ok {
		return prefix + a, b
	}
	return s, ""
}

func baseName(s string) string {
	b, _ := splitDocNameAndRemaining(s)
	return b
}

func afterHash(s string) string {
	if _, after, ok := strings.Cut(s, "#"); ok {
		return after
	}
	return s
}
