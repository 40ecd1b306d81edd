package ftd

import (
	"strings"
)

// Resolve produces the value a property value stands for. Variables are
// looked up among the bound arguments first, then in the local scope.
func (p PropertyValue) Resolve(line int, doc *Doc, args map[string]Value) (Value, error) {
	switch p.Source {
	case SourceValue:
		if p.Value == nil {
			return nil, newError("resolve", doc.Name, line, ErrInvalidValue, "empty value")
		}
		return p.Value, nil
	case SourceReference:
		return doc.GetValue(line, p.Name)
	}
	if !strings.Contains(p.Name, "#") {
		base, rest, _ := strings.Cut(p.Name, ".")
		if v, ok := args[base]; ok {
			return fieldValue(line, doc, v, rest)
		}
	}
	return doc.GetValue(line, p.Name)
}

func fieldValue(line int, doc *Doc, v Value, path string) (Value, error) {
	if path == "" {
		return v, nil
	}
	name, rest, _ := strings.Cut(path, ".")
	fs, ok := fields(v)
	if !ok {
		return nil, newError("resolve", doc.Name, line, ErrWrongKind, "%s has no field %s", v.Kind(), name)
	}
	f, ok := fs[name]
	if !ok {
		return nil, newError("resolve", doc.Name, line, ErrNotFound, "field %s", name)
	}
	fv, err := f.Resolve(line, doc, nil)
	if err != nil {
		return nil, err
	}
	return fieldValue(line, doc, fv, rest)
}

// Resolve evaluates the property: the default, overridden by every
// condition that holds. The second result is false when nothing applies.
func (p Property) Resolve(line int, doc *Doc, args map[string]Value) (Value, bool, error) {
	var out Value
	found := false
	if p.Default != nil {
		v, err := p.Default.Resolve(line, doc, args)
		if err != nil {
			return nil, false, err
		}
		out, found = v, true
	}
	for _, c := range p.Conditions {
		ok, err := c.When.Eval(line, doc, args)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		v, err := c.Value.Resolve(line, doc, args)
		if err != nil {
			return nil, false, err
		}
		out, found = v, true
	}
	return out, found, nil
}

// bindArguments replaces variables naming a bound argument with the value
// they stand for, so later rewriting never mistakes them for locals.
func bindArguments(line int, doc *Doc, props map[string]Property, args map[string]Value) error {
	if len(args) == 0 {
		return nil
	}
	bind := func(pv *PropertyValue) error {
		if pv.Source != SourceVariable || strings.Contains(pv.Name, "#") {
			return nil
		}
		base, _, _ := strings.Cut(pv.Name, ".")
		if _, ok := args[base]; !ok {
			return nil
		}
		v, err := pv.Resolve(line, doc, args)
		if err != nil {
			return err
		}
		*pv = Literal(v)
		return nil
	}
	for k, p := range props {
		if p.Default != nil {
			if err := bind(p.Default); err != nil {
				return err
			}
		}
		for i := range p.Conditions {
			if err := bind(&p.Conditions[i].Value); err != nil {
				return err
			}
			if err := bindBoolean(&p.Conditions[i].When, bind); err != nil {
				return err
			}
		}
		props[k] = p
	}
	return nil
}

func bindBoolean(b *Boolean, bind func(*PropertyValue) error) error {
	for _, pv := range []*PropertyValue{&b.Value, &b.Left, &b.Right} {
		if err := bind(pv); err != nil {
			return err
		}
	}
	if b.Of != nil {
		return bindBoolean(b.Of, bind)
	}
	return nil
}
