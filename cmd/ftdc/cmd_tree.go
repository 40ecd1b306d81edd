package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var treeOpts struct {
	noTUI bool
	data  []string
}

var treeCmd = &cobra.Command{
	Use:   "tree FILE",
	Short: "Browse the element tree with paths, kinds and ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compile(args[0], treeOpts.data)
		if err != nil {
			return err
		}
		rows := nodeRows(c.tree.Main, ftd.ContainerPath{})
		if treeOpts.noTUI {
			printRows(cmd.OutOrStdout(), rows)
			return nil
		}
		_, err = tea.NewProgram(newTreeModel(c.doc.Name, rows), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeOpts.noTUI, "no-tui", false, "plain text output without the interactive browser")
	treeCmd.Flags().AddFlagSet(dataFlags(&treeOpts.data))
}

// nodeRow is one element of the tree as listed by tree and containers.
type nodeRow struct {
	path   string
	kind   string
	id     string
	detail string
	el     ftd.Element
}

var titleCase = cases.Title(language.English)

func nodeRows(root ftd.Element, base ftd.ContainerPath) []nodeRow {
	var rows []nodeRow
	ftd.Walk(root, base, func(e ftd.Element, p ftd.ContainerPath) bool {
		rows = append(rows, nodeRow{
			path:   "[" + p.String() + "]",
			kind:   titleCase.String(ftd.KindName(e)),
			id:     ftd.ContainerID(e),
			detail: detail(e),
			el:     e,
		})
		return true
	})
	return rows
}

func detail(e ftd.Element) string {
	var parts []string
	switch x := e.(type) {
	case *ftd.Text:
		parts = append(parts, strconv.Quote(x.Text))
	case *ftd.Image:
		parts = append(parts, "src="+x.Src)
	case *ftd.IFrame:
		parts = append(parts, "src="+x.Src)
	}
	if c, ok := ftd.ContainerOf(e); ok {
		if c.AppendAt != "" {
			parts = append(parts, "append-at="+c.AppendAt)
		}
		if ext := c.ExternalChildren; ext != nil {
			paths := make([]string, len(ext.Containers))
			for i, p := range ext.Containers {
				paths[i] = "[" + p.String() + "]"
			}
			parts = append(parts, fmt.Sprintf("slot %s at %s", ext.ID, strings.Join(paths, " ")))
		}
	}
	if cm := e.GetCommon(); cm != nil {
		if cm.Condition != nil {
			parts = append(parts, fmt.Sprintf("if %s=%s", cm.Condition.Variable, cm.Condition.Value))
		}
		if cm.IsNotVisible {
			parts = append(parts, "hidden")
		}
	}
	return strings.Join(parts, " ")
}

// printRows prints rows aligned in columns.
func printRows(w io.Writer, rows []nodeRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no elements")
		return
	}
	pathW, kindW, idW := len("PATH"), len("KIND"), len("ID")
	for _, r := range rows {
		pathW = max(pathW, len(r.path))
		kindW = max(kindW, len(r.kind))
		idW = max(idW, len(r.id))
	}
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", pathW, "PATH", kindW, "KIND", idW, "ID", "DETAIL")
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", pathW, r.path, kindW, r.kind, idW, r.id, r.detail)
	}
}
