package ftd

type BooleanOp int

const (
	OpLiteral BooleanOp = iota
	OpIsNull
	OpIsNotNull
	OpIsEmpty
	OpIsNotEmpty
	OpListIsEmpty
	OpEqual
	OpNotEqual
	OpNot
)

// Boolean is a build-time condition over property values. Unary tests read
// Value, Equal and NotEqual compare Left with Right, Not negates Of.
type Boolean struct {
	Op      BooleanOp
	Value   PropertyValue
	Left    PropertyValue
	Right   PropertyValue
	Of      *Boolean
	Literal bool
}

func True() Boolean { return Boolean{Op: OpLiteral, Literal: true} }

func Equal(left, right PropertyValue) Boolean {
	return Boolean{Op: OpEqual, Left: left, Right: right}
}

func Not(b Boolean) Boolean { return Boolean{Op: OpNot, Of: &b} }

// Eval evaluates the condition against the document and bound arguments.
func (b Boolean) Eval(line int, doc *Doc, args map[string]Value) (bool, error) {
	switch b.Op {
	case OpLiteral:
		return b.Literal, nil
	case OpNot:
		if b.Of == nil {
			return false, newError("condition", doc.Name, line, ErrInvalidValue, "not without operand")
		}
		v, err := b.Of.Eval(line, doc, args)
		return !v, err
	case OpEqual, OpNotEqual:
		l, err := b.Left.Resolve(line, doc, args)
		if err != nil {
			return false, err
		}
		r, err := b.Right.Resolve(line, doc, args)
		if err != nil {
			return false, err
		}
		lt, lok := ValueText(l)
		rt, rok := ValueText(r)
		eq := lok == rok && lt == rt
		if b.Op == OpNotEqual {
			return !eq, nil
		}
		return eq, nil
	}

	v, err := b.Value.Resolve(line, doc, args)
	if err != nil {
		return false, err
	}
	switch b.Op {
	case OpIsNull, OpIsNotNull:
		isNull := false
		if o, ok := v.(*OptionalValue); ok {
			isNull = o.Data == nil
		}
		return isNull == (b.Op == OpIsNull), nil
	case OpIsEmpty, OpIsNotEmpty:
		empty := false
		switch x := v.(type) {
		case *OptionalValue:
			empty = x.Data == nil
		case *StringValue:
			empty = x.Text == ""
		case *ListValue:
			empty = len(x.Data) == 0
		}
		return empty == (b.Op == OpIsEmpty), nil
	case OpListIsEmpty:
		l, ok := v.(*ListValue)
		if !ok {
			return false, newError("condition", doc.Name, line, ErrWrongKind, "expected list, found %s", v.Kind())
		}
		return len(l.Data) == 0, nil
	}
	return false, newError("condition", doc.Name, line, ErrInvalidValue, "unknown condition op %d", b.Op)
}

// runtime returns the render-time form of an equality against a variable, the
// only shape whose outcome depends on data the browser can change.
func (b Boolean) runtime(line int, doc *Doc, args map[string]Value) (*Condition, error) {
	if b.Op != OpEqual || b.Left.Source == SourceValue {
		return nil, nil
	}
	if _, bound := args[baseName(b.Left.Name)]; bound {
		return nil, nil
	}
	r, err := b.Right.Resolve(line, doc, args)
	if err != nil {
		return nil, err
	}
	text, ok := ValueText(r)
	if !ok {
		return nil, nil
	}
	name, err := doc.ResolveName(line, b.Left.Name)
	if err != nil {
		return nil, err
	}
	return &Condition{Variable: name, Value: text}, nil
}

// Condition is a visibility test evaluated at render time against the
// document data.
type Condition struct {
	Variable string
	Value    string
}

// IsTrue reports whether the variable currently holds the expected value.
// Unknown variables count as true.
func (c Condition) IsTrue(data map[string]string) bool {
	v, ok := data[c.Variable]
	if !ok {
		return true
	}
	return v == c.Value
}
