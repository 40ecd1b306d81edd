package ftd

import (
	"strconv"
)

// Value is a fully resolved value. Values are never mutated once built.
type Value interface {
	isValue()
	Kind() Kind
}

type StringValue struct{ Text string }

type IntegerValue struct{ Value int64 }

type DecimalValue struct{ Value float64 }

type BooleanValue struct{ Value bool }

// OptionalValue holds Data, or nothing when Data is nil.
type OptionalValue struct {
	Data Value
	Of   Kind
}

type ListValue struct {
	Data []PropertyValue
	Of   Kind
}

type RecordValue struct {
	Name   string
	Fields map[string]PropertyValue
}

type OrTypeValue struct {
	Name    string
	Variant string
	Fields  map[string]PropertyValue
}

// UIValue names a component to be invoked later.
type UIValue struct {
	Name string
}

func (*StringValue) isValue()   {}
func (*IntegerValue) isValue()  {}
func (*DecimalValue) isValue()  {}
func (*BooleanValue) isValue()  {}
func (*OptionalValue) isValue() {}
func (*ListValue) isValue()     {}
func (*RecordValue) isValue()   {}
func (*OrTypeValue) isValue()   {}
func (*UIValue) isValue()       {}

func (*StringValue) Kind() Kind     { return StringKind() }
func (*IntegerValue) Kind() Kind    { return IntegerKind() }
func (*DecimalValue) Kind() Kind    { return DecimalKind() }
func (*BooleanValue) Kind() Kind    { return BooleanKind() }
func (v *OptionalValue) Kind() Kind { return OptionalOf(v.Of) }
func (v *ListValue) Kind() Kind     { return ListOf(v.Of) }
func (v *RecordValue) Kind() Kind   { return RecordKind(v.Name) }
func (v *OrTypeValue) Kind() Kind   { return OrTypeKind(v.Name) }
func (*UIValue) Kind() Kind         { return UIKind() }

// ValueText renders scalar values as text. Optional values render their
// content; an empty optional, a list or a record has no text form.
func ValueText(v Value) (string, bool) {
	switch x := v.(type) {
	case *StringValue:
		return x.Text, true
	case *IntegerValue:
		return strconv.FormatInt(x.Value, 10), true
	case *DecimalValue:
		return strconv.FormatFloat(x.Value, 'f', -1, 64), true
	case *BooleanValue:
		return strconv.FormatBool(x.Value), true
	case *OptionalValue:
		if x.Data == nil {
			return "", false
		}
		return ValueText(x.Data)
	}
	return "", false
}

// fields returns the field map of a record or or-type value.
func fields(v Value) (map[string]PropertyValue, bool) {
	switch x := v.(type) {
	case *RecordValue:
		return x.Fields, true
	case *OrTypeValue:
		return x.Fields, true
	case *OptionalValue:
		if x.Data != nil {
			return fields(x.Data)
		}
	}
	return nil, false
}

type PropertySource int

const (
	SourceValue PropertySource = iota
	SourceReference
	SourceVariable
)

// PropertyValue is a value, a reference to a global symbol, or a variable
// naming an argument or a local. References and variables only exist while
// the tree is being built.
type PropertyValue struct {
	Source PropertySource
	Value  Value
	Name   string
	Kind   Kind
}

func Literal(v Value) PropertyValue {
	return PropertyValue{Source: SourceValue, Value: v}
}

func Ref(name string, k Kind) PropertyValue {
	return PropertyValue{Source: SourceReference, Name: name, Kind: k}
}

func Var(name string, k Kind) PropertyValue {
	return PropertyValue{Source: SourceVariable, Name: name, Kind: k}
}

// ValueKind is the kind of the value this property value yields.
func (p PropertyValue) ValueKind() Kind {
	if p.Source == SourceValue && p.Value != nil {
		return p.Value.Kind()
	}
	return p.Kind
}

// Property is what an invocation sets for one name: a default and
// conditional overrides evaluated in order, the last true one winning.
// Nested carries the properties of a component-valued default.
type Property struct {
	Default    *PropertyValue
	Conditions []ConditionalValue
	Nested     map[string]Property
}

type ConditionalValue struct {
	When  Boolean
	Value PropertyValue
}

// Prop is shorthand for a property with only a default.
func Prop(v PropertyValue) Property {
	return Property{Default: &v}
}
