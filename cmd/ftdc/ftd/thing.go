package ftd

import "strings"

// Thing is anything the symbol bag or the local scope can hold.
type Thing interface {
	isThing()
	ThingName() string
}

// Component is a named, reusable element definition. Root names the kernel
// element or the component it extends. Instructions build its children.
type Component struct {
	Root         string
	FullName     string
	Arguments    map[string]Kind
	Properties   map[string]Property
	Instructions []Instruction
	Events       []Event
	Condition    *Boolean
	Kernel       bool
	Line         int
}

type Variable struct {
	Name       string
	Value      PropertyValue
	Conditions []ConditionalValue
}

// Record declares named fields. Order keeps the declaration order, which
// positional data rows follow.
type Record struct {
	Name   string
	Fields map[string]Kind
	Order  []string
}

type OrType struct {
	Name     string
	Variants []Record
}

// OrTypeWithVariant is what a lookup of "type.variant" yields.
type OrTypeWithVariant struct {
	Type    *OrType
	Variant string
}

func (*Component) isThing()         {}
func (*Variable) isThing()          {}
func (*Record) isThing()            {}
func (*OrType) isThing()            {}
func (*OrTypeWithVariant) isThing() {}

func (c *Component) ThingName() string         { return c.FullName }
func (v *Variable) ThingName() string          { return v.Name }
func (r *Record) ThingName() string            { return r.Name }
func (o *OrType) ThingName() string            { return o.Name }
func (o *OrTypeWithVariant) ThingName() string { return o.Type.Name + "." + o.Variant }

// Variant returns the record describing one variant.
func (o *OrType) Variant(name string) (*Record, bool) {
	for i := range o.Variants {
		v := &o.Variants[i]
		short := afterHash(v.Name)
		if i := strings.LastIndex(short, "."); i >= 0 {
			short = short[i+1:]
		}
		if v.Name == name || short == name {
			return v, true
		}
	}
	return nil, false
}

// Reference names the list a recursive child iterates over.
type Reference struct {
	Name string
	Kind Kind
}

// ChildComponent is one invocation of a component or kernel element.
// Arguments declares locals owned by the invocation itself; Reference is set
// for recursive children.
type ChildComponent struct {
	Root        string
	Condition   *Boolean
	Properties  map[string]Property
	Arguments   map[string]Kind
	Events      []Event
	Reference   *Reference
	IsRecursive bool
	Line        int
}
