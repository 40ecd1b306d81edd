package ftdyaml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	"gopkg.in/yaml.v3"
)

// ErrSyntax marks a document that does not follow the YAML document layout.
var ErrSyntax = errors.New("syntax error")

// File is one parsed document. Variable values stay undecoded until
// Document is called, since their kinds may name records of other files.
type File struct {
	Name         string
	Aliases      map[string]string
	Bag          map[string]ftd.Thing
	Instructions []ftd.Instruction

	variables []pendingVariable
}

type pendingVariable struct {
	key        string
	kind       ftd.Kind
	node       *yaml.Node
	path       string
	conditions []ftd.ConditionalValue
}

// ---- Internal YAML parsing structs ----------------------------------------

// yamlDocument is the mapping form of a document file. Sections whose order
// matters are kept as yaml.Node; an absent section has Kind == 0.
type yamlDocument struct {
	Name       string            `yaml:"name,omitempty"`
	Aliases    map[string]string `yaml:"aliases,omitempty"`
	Records    yaml.Node         `yaml:"records,omitempty"`
	OrTypes    yaml.Node         `yaml:"or-types,omitempty"`
	Variables  yaml.Node         `yaml:"variables,omitempty"`
	Components yaml.Node         `yaml:"components,omitempty"`
	Main       yaml.Node         `yaml:"main,omitempty"`
}

// ---- Parse -----------------------------------------------------------------

// Parse reads a document in mapping form, or a bare sequence taken as the
// main instruction stream. name is used when the file does not set one.
func Parse(name string, in []byte) (*File, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return nil, fmt.Errorf("phase=parse path=<doc>: %w", err)
	}
	if len(docNode.Content) == 0 {
		return nil, fmt.Errorf("phase=parse path=<doc>: %w: empty YAML", ErrSyntax)
	}
	root := docNode.Content[0]

	var yd yamlDocument
	switch root.Kind {
	case yaml.SequenceNode:
		yd.Main = *root
	case yaml.MappingNode:
		if err := root.Decode(&yd); err != nil {
			return nil, fmt.Errorf("phase=parse path=<doc>: %w", err)
		}
	default:
		return nil, fmt.Errorf("phase=parse path=<doc>: %w: unexpected YAML root kind %d", ErrSyntax, root.Kind)
	}
	if yd.Name != "" {
		name = yd.Name
	}
	if name == "" {
		return nil, fmt.Errorf("phase=parse path=name: %w: document has no name", ErrSyntax)
	}

	p := &parser{file: &File{
		Name:    name,
		Aliases: map[string]string{"ftd": "ftd"},
		Bag:     map[string]ftd.Thing{},
	}}
	for k, v := range yd.Aliases {
		p.file.Aliases[k] = v
	}
	steps := []struct {
		node *yaml.Node
		fn   func(*yaml.Node) error
	}{
		{&yd.Records, p.records},
		{&yd.OrTypes, p.orTypes},
		{&yd.Variables, p.variables},
		{&yd.Components, p.components},
	}
	for _, s := range steps {
		if s.node.Kind == 0 {
			continue
		}
		if err := s.fn(s.node); err != nil {
			return nil, err
		}
	}
	if yd.Main.Kind != 0 {
		ins, err := p.instructions("main", &yd.Main, nil, true)
		if err != nil {
			return nil, err
		}
		p.file.Instructions = ins
	}
	return p.file, nil
}

// LoadFile parses the document at path, named after the file unless it
// names itself.
func LoadFile(path string) (*File, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(docName(path), in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadDir parses every YAML document directly under dir, in name order.
func LoadDir(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yml", ".yaml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	files := make([]*File, 0, len(names))
	for _, n := range names {
		f, err := LoadFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func docName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".ftd.yaml", ".ftd.yml", ".yaml", ".yml"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}

// DecodeData reads a YAML or JSON data file into plain Go values.
func DecodeData(in []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(in, &v); err != nil {
		return nil, fmt.Errorf("phase=parse path=<data>: %w", err)
	}
	return v, nil
}

// ---- Build -----------------------------------------------------------------

// Document merges the symbols of libs into f and decodes every variable
// value. A symbol defined by two files is an error.
func (f *File) Document(libs ...*File) (ftd.Document, error) {
	bag := map[string]ftd.Thing{}
	files := append(append([]*File(nil), libs...), f)
	for _, file := range files {
		for k, v := range file.Bag {
			if _, dup := bag[k]; dup {
				return ftd.Document{}, fmt.Errorf("phase=parse path=<doc>: %w: %s is defined twice", ErrSyntax, k)
			}
			bag[k] = v
		}
	}
	for _, file := range files {
		doc := ftd.NewDoc(file.Name, file.Aliases, bag, nil)
		for _, pv := range file.variables {
			value, err := decodeValue(doc, pv)
			if err != nil {
				return ftd.Document{}, err
			}
			bag[pv.key] = &ftd.Variable{Name: pv.key, Value: value, Conditions: pv.conditions}
		}
	}
	return ftd.Document{
		Name:         f.Name,
		Aliases:      f.Aliases,
		Bag:          bag,
		Instructions: f.Instructions,
	}, nil
}

func decodeValue(doc *ftd.Doc, pv pendingVariable) (ftd.PropertyValue, error) {
	if pv.node.Kind == yaml.ScalarNode && pv.node.Tag == "!!str" && strings.HasPrefix(pv.node.Value, "$") {
		return ftd.Ref(strings.TrimPrefix(pv.node.Value, "$"), pv.kind), nil
	}
	var data any
	if err := pv.node.Decode(&data); err != nil {
		return ftd.PropertyValue{}, fmt.Errorf("phase=parse path=%s: %w", pv.path, err)
	}
	v, err := doc.FromData(pv.node.Line, data, pv.kind)
	if err != nil {
		return ftd.PropertyValue{}, err
	}
	return ftd.Literal(v), nil
}
