package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/AyushiJais/ftd/cmd/ftdc/ftd"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var containersOpts struct {
	pick bool
	data []string
}

var (
	styleContainerKey  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styleContainerPath = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var containersCmd = &cobra.Command{
	Use:   "containers FILE",
	Short: "List the named containers of a document and where they sit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compile(args[0], containersOpts.data)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !containersOpts.pick {
			printContainers(out, c.tree.Registry)
			return nil
		}

		keys := c.tree.Registry.Keys()
		if len(keys) == 0 {
			fmt.Fprintln(out, "no named containers")
			return nil
		}
		idx, err := fuzzyfinder.Find(
			keys,
			func(i int) string {
				return keys[i].String()
			},
			fuzzyfinder.WithPromptString("Select container: "),
		)
		if err != nil {
			return err
		}
		path, _ := c.tree.Registry.First(keys[idx])
		el, ok := ftd.At(c.tree.Main, path)
		if !ok {
			return fmt.Errorf("container %s: %w at [%s]", keys[idx], ftd.ErrNoSuchContainer, path)
		}
		printRows(out, nodeRows(el, path))
		return nil
	},
}

func init() {
	containersCmd.Flags().BoolVar(&containersOpts.pick, "pick", false, "pick a container interactively and print its subtree")
	containersCmd.Flags().AddFlagSet(dataFlags(&containersOpts.data))
}

// printContainers prints every registry key with all the paths it was
// produced at, the first being where jumps land.
func printContainers(w io.Writer, r *ftd.Registry) {
	keys := r.Keys()
	if len(keys) == 0 {
		fmt.Fprintln(w, "no named containers")
		return
	}
	width := 0
	for _, k := range keys {
		width = max(width, len(k.String()))
	}
	for _, k := range keys {
		paths, _ := r.Lookup(k)
		parts := make([]string, len(paths))
		for i, p := range paths {
			parts[i] = "[" + p.String() + "]"
		}
		name := k.String()
		fmt.Fprintf(w, "%s%s  %s\n",
			styleContainerKey.Render(name), strings.Repeat(" ", width-len(name)),
			styleContainerPath.Render(strings.Join(parts, " ")))
	}
}
