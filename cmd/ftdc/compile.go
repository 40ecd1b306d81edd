package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"
	"github.com/AyushiJais/ftd/cmd/ftdc/ftdyaml"

	"github.com/spf13/pflag"
)

// compiled is a built document and the input it was built from.
type compiled struct {
	doc  ftd.Document
	tree *ftd.Tree
}

// dataFlags binds --data onto dst. Every command that compiles shares it.
func dataFlags(dst *[]string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("data", pflag.ContinueOnError)
	fs.StringArrayVar(dst, "data", nil,
		"bind a variable to a YAML or JSON file, as name=file (repeatable)")
	return fs
}

// compile loads path with the configured libraries, binds data files and
// builds the tree.
func compile(path string, data []string) (*compiled, error) {
	f, err := ftdyaml.LoadFile(path)
	if err != nil {
		return nil, err
	}
	libs, err := loadLibs(resolveLibDirs(cfg, flagLibDirs), f.Name)
	if err != nil {
		return nil, err
	}
	doc, err := f.Document(libs...)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		if err := bindData(&doc, d); err != nil {
			return nil, err
		}
	}

	tree, err := ftd.NewEngine(ftd.WithLogger(logger)).Build(doc)
	if err != nil {
		return nil, err
	}
	logger.Info("compiled", "doc", doc.Name, "libs", len(libs),
		"containers", tree.Registry.Len(), "locals", tree.Locals.Len())
	return &compiled{doc: doc, tree: tree}, nil
}

// loadLibs parses every library document. Missing directories are skipped,
// and so is a library sharing the main document's name.
func loadLibs(dirs []string, main string) ([]*ftdyaml.File, error) {
	var out []*ftdyaml.File
	for _, dir := range dirs {
		files, err := ftdyaml.LoadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", dir, err)
		}
		for _, f := range files {
			if f.Name == main {
				continue
			}
			out = append(out, f)
		}
	}
	logger.Debug("libraries loaded", "dirs", dirs, "files", len(out))
	return out, nil
}

func bindData(doc *ftd.Document, arg string) error {
	name, path, ok := strings.Cut(arg, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("--data %q: expected name=file", arg)
	}
	in, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, err := ftdyaml.DecodeData(in)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Bind(name, v); err != nil {
		return fmt.Errorf("--data %s: %w", name, err)
	}
	return nil
}
