package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var queryOpts struct {
	data []string
}

var queryCmd = &cobra.Command{
	Use:   "query FILE",
	Short: "Inspect a built document interactively",
	Long: "Opens a prompt over the built tree of FILE.\n\n" +
		queryHelp,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compile(args[0], queryOpts.data)
		if err != nil {
			return err
		}

		rlCfg := &readline.Config{
			Prompt:          appName + "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
			AutoComplete: readline.NewPrefixCompleter(
				readline.PcItem("path"),
				readline.PcItem("node"),
				readline.PcItem("locals"),
				readline.PcItem("things"),
				readline.PcItem("data"),
				readline.PcItem("help"),
				readline.PcItem("quit"),
			),
		}
		if cfg.dir != "" {
			rlCfg.HistoryFile = filepath.Join(cfg.dir, "history")
		}
		rl, err := readline.NewEx(rlCfg)
		if err != nil {
			return err
		}
		defer rl.Close()

		q := &querier{tree: c.tree, out: rl.Stdout()}
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			quit, err := q.eval(line)
			if err != nil {
				fmt.Fprintln(rl.Stderr(), "error:", err)
			}
			if quit {
				return nil
			}
		}
	},
}

func init() {
	queryCmd.Flags().AddFlagSet(dataFlags(&queryOpts.data))
}

const queryHelp = `Commands:
  path ID      paths recorded for a named container
  node PATH    subtree at a path such as 0,2,1 (empty for the root)
  locals       local variables created while building
  things       symbols visible to the document
  data         values render-time conditions are checked against
  help         this text
  quit         leave`

// querier answers one prompt line at a time against a built tree.
type querier struct {
	tree *ftd.Tree
	out  io.Writer
}

func (q *querier) eval(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(q.out, queryHelp)
	case "path":
		if len(args) != 1 {
			return false, errors.New("usage: path ID")
		}
		key := ftd.ParseContainerKey(args[0])
		paths, ok := q.tree.Registry.Lookup(key)
		if !ok {
			return false, fmt.Errorf("%s: %w", key, ftd.ErrNoSuchContainer)
		}
		for _, p := range paths {
			fmt.Fprintf(q.out, "[%s]\n", p)
		}
	case "node":
		var p ftd.ContainerPath
		if len(args) > 0 {
			if p, err = ftd.ParseContainerPath(args[0]); err != nil {
				return false, err
			}
		}
		el, ok := ftd.At(q.tree.Main, p)
		if !ok {
			return false, fmt.Errorf("[%s]: %w", p, ftd.ErrNotFound)
		}
		printRows(q.out, nodeRows(el, p))
	case "locals":
		for _, k := range q.tree.Locals.Keys() {
			fmt.Fprintf(q.out, "%s = %s\n", k, q.valueText(k))
		}
	case "things":
		keys := make([]string, 0, len(q.tree.Doc.Bag))
		for k := range q.tree.Doc.Bag {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(q.out, "%-10s %s\n", thingKind(q.tree.Doc.Bag[k]), k)
		}
	case "data":
		data := q.tree.Data()
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(q.out, "%s = %s\n", k, data[k])
		}
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}
	return false, nil
}

func (q *querier) valueText(key string) string {
	v, err := q.tree.Doc.GetValue(0, key)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	if s, ok := ftd.ValueText(v); ok {
		return s
	}
	return "<" + v.Kind().String() + ">"
}

func thingKind(t ftd.Thing) string {
	switch t.(type) {
	case *ftd.Component:
		return "component"
	case *ftd.Variable:
		return "variable"
	case *ftd.Record:
		return "record"
	case *ftd.OrType:
		return "or-type"
	}
	return "thing"
}
