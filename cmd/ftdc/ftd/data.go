package ftd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// valueFromText parses a default written in source text. "$name" refers to
// a global.
func (d *Doc) valueFromText(line int, text string, kind Kind) (PropertyValue, error) {
	if strings.HasPrefix(text, "$") {
		name, err := d.ResolveName(line, strings.TrimPrefix(text, "$"))
		if err != nil {
			return PropertyValue{}, err
		}
		return Ref(name, kind), nil
	}
	inner := kind.Inner()
	var v Value
	switch inner.Type {
	case KindString:
		v = &StringValue{Text: text}
	case KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return PropertyValue{}, newError("data", d.Name, line, ErrInvalidValue, "%q is not an integer", text)
		}
		v = &IntegerValue{Value: n}
	case KindDecimal:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return PropertyValue{}, newError("data", d.Name, line, ErrInvalidValue, "%q is not a decimal", text)
		}
		v = &DecimalValue{Value: f}
	case KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return PropertyValue{}, newError("data", d.Name, line, ErrInvalidValue, "%q is not a boolean", text)
		}
		v = &BooleanValue{Value: b}
	default:
		return PropertyValue{}, newError("data", d.Name, line, ErrWrongKind, "%s can't have a default written as text", kind)
	}
	if kind.Type == KindOptional {
		v = &OptionalValue{Data: v, Of: inner}
	}
	return Literal(v), nil
}

// FromData builds a value of kind from decoded YAML or JSON data. Records
// are read from mappings; a record given as a sequence is read positionally.
func (d *Doc) FromData(line int, data any, kind Kind) (Value, error) {
	switch kind.Type {
	case KindOptional:
		inner := StringKind()
		if kind.Of != nil {
			inner = *kind.Of
		}
		if data == nil {
			return &OptionalValue{Of: inner}, nil
		}
		v, err := d.FromData(line, data, inner)
		if err != nil {
			return nil, err
		}
		return &OptionalValue{Data: v, Of: inner}, nil
	case KindList:
		inner := StringKind()
		if kind.Of != nil {
			inner = *kind.Of
		}
		items, ok := data.([]any)
		if !ok {
			return nil, d.dataError(line, data, kind)
		}
		out := &ListValue{Of: inner, Data: make([]PropertyValue, 0, len(items))}
		for _, item := range items {
			v, err := d.FromData(line, item, inner)
			if err != nil {
				return nil, err
			}
			out.Data = append(out.Data, Literal(v))
		}
		return out, nil
	case KindRecord:
		switch x := data.(type) {
		case map[string]any:
			return d.recordFromMap(line, x, kind)
		case []any:
			return d.FromRow(line, x, kind)
		}
		return nil, d.dataError(line, data, kind)
	}
	return d.scalarFromData(line, data, kind)
}

// FromRows builds a list of records from positional rows.
func (d *Doc) FromRows(line int, rows []any, kind Kind) (Value, error) {
	inner := kind
	if kind.Type == KindList && kind.Of != nil {
		inner = *kind.Of
	}
	out := &ListValue{Of: inner, Data: make([]PropertyValue, 0, len(rows))}
	for i, r := range rows {
		row, ok := r.([]any)
		if !ok {
			return nil, newError("data", d.Name, line, ErrWrongKind, "row %d is not a sequence", i)
		}
		v, err := d.FromRow(line, row, inner)
		if err != nil {
			return nil, err
		}
		out.Data = append(out.Data, Literal(v))
	}
	return out, nil
}

// FromRow builds a record whose fields are given in declaration order.
// Missing trailing cells fall back to field defaults.
func (d *Doc) FromRow(line int, row []any, kind Kind) (Value, error) {
	if kind.Type != KindRecord {
		return nil, newError("data", d.Name, line, ErrWrongKind, "a row can only fill a record, not %s", kind)
	}
	rec, err := d.GetRecord(line, kind.Name)
	if err != nil {
		return nil, err
	}
	if len(row) > len(rec.Order) {
		return nil, newError("data", d.Name, line, ErrInvalidValue, "%s has %d fields, row has %d cells", rec.Name, len(rec.Order), len(row))
	}
	m := make(map[string]any, len(row))
	for i, cell := range row {
		m[rec.Order[i]] = cell
	}
	return d.fillRecord(line, rec, m)
}

func (d *Doc) recordFromMap(line int, m map[string]any, kind Kind) (Value, error) {
	rec, err := d.GetRecord(line, kind.Name)
	if err != nil {
		return nil, err
	}
	return d.fillRecord(line, rec, m)
}

func (d *Doc) fillRecord(line int, rec *Record, m map[string]any) (Value, error) {
	out := &RecordValue{Name: rec.Name, Fields: make(map[string]PropertyValue, len(rec.Order))}
	for _, name := range rec.Order {
		fk := rec.Fields[name]
		raw, ok := m[name]
		if ok {
			v, err := d.FromData(line, raw, fk)
			if err != nil {
				return nil, err
			}
			out.Fields[name] = Literal(v)
			continue
		}
		if fk.Default != nil {
			pv, err := d.valueFromText(line, *fk.Default, fk)
			if err != nil {
				return nil, err
			}
			out.Fields[name] = pv
			continue
		}
		if z, ok := fk.ZeroValue(); ok {
			out.Fields[name] = Literal(z)
			continue
		}
		return nil, newError("data", d.Name, line, ErrMissingDefault, "field %s of %s", name, rec.Name)
	}
	return out, nil
}

func (d *Doc) scalarFromData(line int, data any, kind Kind) (Value, error) {
	switch kind.Type {
	case KindString:
		switch x := data.(type) {
		case string:
			return &StringValue{Text: x}, nil
		case int, int64, float64, bool:
			return &StringValue{Text: fmt.Sprint(x)}, nil
		}
	case KindInteger:
		switch x := data.(type) {
		case int:
			return &IntegerValue{Value: int64(x)}, nil
		case int64:
			return &IntegerValue{Value: x}, nil
		case float64:
			if x == math.Trunc(x) {
				return &IntegerValue{Value: int64(x)}, nil
			}
		case string:
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				return &IntegerValue{Value: n}, nil
			}
		}
	case KindDecimal:
		switch x := data.(type) {
		case float64:
			return &DecimalValue{Value: x}, nil
		case int:
			return &DecimalValue{Value: float64(x)}, nil
		case int64:
			return &DecimalValue{Value: float64(x)}, nil
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return &DecimalValue{Value: f}, nil
			}
		}
	case KindBoolean:
		switch x := data.(type) {
		case bool:
			return &BooleanValue{Value: x}, nil
		case string:
			if b, err := strconv.ParseBool(x); err == nil {
				return &BooleanValue{Value: b}, nil
			}
		}
	}
	return nil, d.dataError(line, data, kind)
}

func (d *Doc) dataError(line int, data any, kind Kind) error {
	return newError("data", d.Name, line, ErrWrongKind, "can't read %T as %s", data, kind)
}
