package ftd

import (
	"io"
	"log/slog"
	"sort"
)

// Document is the input of a build: the instruction stream of one document
// and the symbols it can see.
type Document struct {
	Name         string
	Aliases      map[string]string
	Bag          map[string]Thing
	Instructions []Instruction
}

// Bind replaces the value of a declared variable with one read from
// decoded data. A list of records also accepts positional rows.
func (d *Document) Bind(name string, data any) error {
	doc := NewDoc(d.Name, d.Aliases, d.Bag, nil)
	key, err := doc.ResolveName(0, name)
	if err != nil {
		return err
	}
	v, ok := d.Bag[key].(*Variable)
	if !ok {
		return newError("data", d.Name, 0, ErrNotFound, "no variable %s to bind", key)
	}
	kind := v.Value.ValueKind()
	var val Value
	if rows, ok := data.([]any); ok && kind.Type == KindList && kind.Of != nil && kind.Of.Type == KindRecord && isRows(rows) {
		val, err = doc.FromRows(0, rows, kind)
	} else {
		val, err = doc.FromData(0, data, kind)
	}
	if err != nil {
		return err
	}
	d.Bag[key] = &Variable{Name: key, Value: Literal(val)}
	return nil
}

func isRows(items []any) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if _, ok := it.([]any); !ok {
			return false
		}
	}
	return true
}

type Engine struct {
	logger *slog.Logger
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Tree is a built document.
type Tree struct {
	Main        *Column
	Registry    *Registry
	Locals      *LocalScope
	Invocations Invocations
	Doc         *Doc
}

// Build validates and executes doc. The bag is only read; everything the
// build creates lives in the returned tree.
func (e *Engine) Build(doc Document) (*Tree, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	d := NewDoc(doc.Name, doc.Aliases, doc.Bag, NewLocalScope())
	ex := &executor{
		doc:          d,
		instructions: doc.Instructions,
		arguments:    map[string]Value{},
		invocations:  Invocations{},
		logger:       e.logger.With("doc", doc.Name),
	}
	res, err := ex.execute(ContainerPath{}, map[string]string{}, nil)
	if err != nil {
		return nil, err
	}
	main := defaultColumn()
	main.Container.Children = res.Children
	e.logger.Debug("built", "doc", doc.Name, "containers", res.ChildContainer.Len(), "locals", d.Locals.Len())
	return &Tree{
		Main:        main,
		Registry:    res.ChildContainer,
		Locals:      d.Locals,
		Invocations: ex.invocations,
		Doc:         d,
	}, nil
}

// Data returns the text form of every scalar variable and local, keyed by
// qualified name. Render-time conditions are checked against it.
func (t *Tree) Data() map[string]string {
	out := make(map[string]string)
	add := func(key string, th Thing) {
		if _, ok := th.(*Variable); !ok {
			return
		}
		v, err := t.Doc.GetValue(0, key)
		if err != nil {
			return
		}
		if s, ok := ValueText(v); ok {
			out[key] = s
		}
	}
	keys := make([]string, 0, len(t.Doc.Bag))
	for k := range t.Doc.Bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, t.Doc.Bag[k])
	}
	for _, k := range t.Locals.Keys() {
		th, _ := t.Locals.Get(k)
		add(k, th)
	}
	return out
}
