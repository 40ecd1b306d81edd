package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AyushiJais/ftd/cmd/ftdc/render"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type buildOptions struct {
	out    string
	minify bool
	data   []string
	stats  bool
}

var buildOpts buildOptions

var buildCmd = &cobra.Command{
	Use:   "build FILE",
	Short: "Compile a document and render it as HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		c, err := compile(args[0], buildOpts.data)
		if err != nil {
			return err
		}
		out, err := renderHTML(c, buildOpts.minify || cfg.Minify)
		if err != nil {
			return err
		}

		dest := buildOpts.out
		if dest == "" && cfg.OutputDir != "" {
			dest = filepath.Join(cfg.OutputDir, c.doc.Name+".html")
		}
		if dest == "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		} else {
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", dest, err)
			}
			if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			logger.Info("written", "path", dest, "bytes", len(out))
		}

		if buildOpts.stats {
			return printStats(cmd.ErrOrStderr(), time.Since(start))
		}
		return nil
	},
}

func buildFlags(o *buildOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	fs.StringVarP(&o.out, "output", "o", "", "write the markup to this file (default: stdout, or output-dir from config)")
	fs.BoolVar(&o.minify, "minify", false, "minify the markup")
	fs.BoolVar(&o.stats, "stats", false, "print time, resident memory and CPU time of the compile")
	fs.AddFlagSet(dataFlags(&o.data))
	return fs
}

func init() {
	buildCmd.Flags().AddFlagSet(buildFlags(&buildOpts))
}

// renderHTML splices deferred children into the tree and serializes it.
func renderHTML(c *compiled, minify bool) (string, error) {
	node := render.FromElement(c.tree.Main, c.doc.Name)
	out, err := render.NewRenderer(c.tree.Data(), logger).DNode(node, c.doc.Name).HTML()
	if err != nil {
		return "", err
	}
	if minify {
		out = render.Minify(out)
	}
	return out, nil
}

func printStats(w io.Writer, elapsed time.Duration) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	times, err := p.Times()
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Fprintf(w, "elapsed %s  rss %s  cpu %.2fs\n",
		elapsed.Round(time.Millisecond), humanize.Bytes(mem.RSS), times.User+times.System)
	return nil
}
