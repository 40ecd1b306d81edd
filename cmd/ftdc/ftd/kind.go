package ftd

import "strings"

type KindType int

const (
	KindString KindType = iota
	KindInteger
	KindDecimal
	KindBoolean
	KindRecord
	KindOrType
	KindList
	KindOptional
	KindUI
)

var kindTypeNames = map[KindType]string{
	KindString:   "string",
	KindInteger:  "integer",
	KindDecimal:  "decimal",
	KindBoolean:  "boolean",
	KindRecord:   "record",
	KindOrType:   "or-type",
	KindList:     "list",
	KindOptional: "optional",
	KindUI:       "ui",
}

func (t KindType) String() string { return kindTypeNames[t] }

// Kind is the declared type of an argument, field or variable. Default holds
// the declared default in source form; nil means the declaration has none.
type Kind struct {
	Type    KindType
	Name    string
	Of      *Kind
	Default *string
}

func StringKind() Kind  { return Kind{Type: KindString} }
func IntegerKind() Kind { return Kind{Type: KindInteger} }
func DecimalKind() Kind { return Kind{Type: KindDecimal} }
func BooleanKind() Kind { return Kind{Type: KindBoolean} }
func UIKind() Kind      { return Kind{Type: KindUI} }

func RecordKind(name string) Kind { return Kind{Type: KindRecord, Name: name} }
func OrTypeKind(name string) Kind { return Kind{Type: KindOrType, Name: name} }

func ListOf(k Kind) Kind {
	k.Default = nil
	return Kind{Type: KindList, Of: &k}
}

func OptionalOf(k Kind) Kind {
	k.Default = nil
	return Kind{Type: KindOptional, Of: &k}
}

// WithDefault returns a copy of k declaring the given default.
func (k Kind) WithDefault(s string) Kind {
	k.Default = &s
	return k
}

// Inner strips any optional wrappers.
func (k Kind) Inner() Kind {
	for k.Type == KindOptional && k.Of != nil {
		k = *k.Of
	}
	return k
}

func (k Kind) String() string {
	switch k.Type {
	case KindRecord, KindOrType:
		return k.Name
	case KindList:
		if k.Of == nil {
			return "list"
		}
		return k.Of.String() + " list"
	case KindOptional:
		if k.Of == nil {
			return "optional"
		}
		return "optional " + k.Of.String()
	}
	return k.Type.String()
}

// ZeroValue is the value an argument takes when nothing supplies one. Only
// optional and list kinds have one.
func (k Kind) ZeroValue() (Value, bool) {
	switch k.Type {
	case KindOptional:
		inner := StringKind()
		if k.Of != nil {
			inner = *k.Of
		}
		return &OptionalValue{Of: inner}, true
	case KindList:
		inner := StringKind()
		if k.Of != nil {
			inner = *k.Of
		}
		return &ListValue{Of: inner}, true
	}
	return nil, false
}

// ParseKind reads a kind written as "integer", "optional string",
// "person list" and so on. Names that are not built in are handed to qualify
// and treated as records.
func ParseKind(s string, qualify func(string) string) (Kind, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Kind{}, false
	}
	if fields[0] == "optional" {
		inner, ok := ParseKind(strings.Join(fields[1:], " "), qualify)
		if !ok {
			return Kind{}, false
		}
		return OptionalOf(inner), true
	}
	if last := fields[len(fields)-1]; last == "list" && len(fields) > 1 {
		inner, ok := ParseKind(strings.Join(fields[:len(fields)-1], " "), qualify)
		if !ok {
			return Kind{}, false
		}
		return ListOf(inner), true
	}
	if len(fields) != 1 {
		return Kind{}, false
	}
	switch fields[0] {
	case "string", "caption", "body":
		return StringKind(), true
	case "integer":
		return IntegerKind(), true
	case "decimal":
		return DecimalKind(), true
	case "boolean":
		return BooleanKind(), true
	case "ui", "element":
		return UIKind(), true
	}
	name := fields[0]
	if qualify != nil {
		name = qualify(name)
	}
	return RecordKind(name), true
}
