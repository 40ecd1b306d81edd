package ftd

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
)

func peopleDoc() *Doc {
	return NewDoc("foo", nil, map[string]Thing{
		"foo#person": &Record{
			Name: "foo#person",
			Fields: map[string]Kind{
				"name": StringKind(),
				"age":  IntegerKind(),
				"nick": OptionalOf(StringKind()),
				"role": StringKind().WithDefault("member"),
			},
			Order: []string{"name", "age", "nick", "role"},
		},
	}, nil)
}

func fieldTexts(t *testing.T, d *Doc, v Value) map[string]string {
	t.Helper()
	fs, ok := fields(v)
	if !ok {
		t.Fatalf("expected a record, got %T", v)
	}
	out := map[string]string{}
	for k, pv := range fs {
		fv, err := pv.Resolve(0, d, nil)
		if err != nil {
			t.Fatalf("field %s: %v", k, err)
		}
		s, _ := ValueText(fv)
		out[k] = s
	}
	return out
}

func TestFromData_Record(t *testing.T) {
	d := peopleDoc()
	f := gofakeit.New(7)
	name := f.FirstName()
	age := f.Number(18, 90)

	v, err := d.FromData(1, map[string]any{"name": name, "age": age}, RecordKind("foo#person"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{"name": name, "age": itoa(age), "nick": "", "role": "member"}
	if diff := cmp.Diff(want, fieldTexts(t, d, v)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	_, err = d.FromData(4, map[string]any{"age": 3}, RecordKind("foo#person"))
	if !errors.Is(err, ErrMissingDefault) {
		t.Fatalf("expected ErrMissingDefault, got %v", err)
	}
	_, err = d.FromData(4, map[string]any{"name": "x", "age": "old"}, RecordKind("foo#person"))
	if !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestFromRows_FollowDeclarationOrder(t *testing.T) {
	d := peopleDoc()
	rows := []any{
		[]any{"Ada", 36},
		[]any{"Alan", 41, "al", "admin"},
	}
	v, err := d.FromRows(1, rows, ListOf(RecordKind("foo#person")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := v.(*ListValue)
	if len(l.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(l.Data))
	}
	second := fieldTexts(t, d, l.Data[1].Value)
	if diff := cmp.Diff(map[string]string{"name": "Alan", "age": "41", "nick": "al", "role": "admin"}, second); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}

	_, err = d.FromRow(1, []any{"a", 1, nil, "r", "extra"}, RecordKind("foo#person"))
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for a long row, got %v", err)
	}
}

func TestDocumentBind(t *testing.T) {
	doc := Document{
		Name: "foo",
		Bag: map[string]Thing{
			"foo#person": peopleDoc().Bag["foo#person"],
			"foo#people": &Variable{Name: "foo#people", Value: Literal(&ListValue{Of: RecordKind("foo#person")})},
		},
	}
	if err := doc.Bind("people", []any{[]any{"Ada", 36}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := doc.Bag["foo#people"].(*Variable).Value.Value.(*ListValue)
	if len(l.Data) != 1 {
		t.Fatalf("expected 1 person, got %d", len(l.Data))
	}
	if err := doc.Bind("nobody", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func itoa(n int) string {
	v := &IntegerValue{Value: int64(n)}
	s, _ := ValueText(v)
	return s
}
