package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

//go:embed starters/*.ftd.yml
var starters embed.FS

var starterNames = []string{"counter", "slots", "blank"}

const initHeader = `# ftd document
# ─────────────────────────────────────────────────────────────────────────────
# Build it:    ftdc build %[1]s
# Browse it:   ftdc tree %[1]s
# ─────────────────────────────────────────────────────────────────────────────

`

var initOpts struct {
	dir     string
	name    string
	starter string
	force   bool
	yes     bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter ftd document",
	Long: "Write a starter document named NAME.ftd.yml into the target directory.\n\n" +
		"Starters:\n" +
		"  counter   a variable, a component and a click event\n" +
		"  slots     a component whose children land in an inner container\n" +
		"  blank     a single text\n\n" +
		"Without --yes the name and starter are asked for interactively.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, starter := initOpts.name, initOpts.starter
		if !initOpts.yes {
			if err := askInit(&name, &starter); err != nil {
				return err
			}
		}
		path, err := writeStarter(initOpts.dir, name, starter, initOpts.force)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "created %s\n", path)
		fmt.Fprintf(os.Stderr, "\nRun `%s build %s` to render it.\n", appName, path)
		return nil
	},
}

func askInit(name, starter *string) error {
	options := make([]huh.Option[string], len(starterNames))
	for i, s := range starterNames {
		options[i] = huh.NewOption(s, s)
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Document name").
				Value(name).
				Validate(validateDocName),
			huh.NewSelect[string]().
				Title("Starter").
				Options(options...).
				Value(starter),
		),
	)
	return form.Run()
}

func validateDocName(name string) error {
	if err := validate.Var(name, `required,excludesall=/\#. `); err != nil {
		return fmt.Errorf("document name %q must be non-empty without '/', '\\', '#', '.' or spaces", name)
	}
	return nil
}

// writeStarter writes the chosen starter to dir/name.ftd.yml.
func writeStarter(dir, name, starter string, force bool) (string, error) {
	if err := validateDocName(name); err != nil {
		return "", err
	}
	content, err := starters.ReadFile("starters/" + starter + ".ftd.yml")
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("unknown starter %q (one of %v)", starter, starterNames)
	}
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".ftd.yml")
	if err := writeInitFile(path, fmt.Sprintf(initHeader, path), content, force); err != nil {
		return "", err
	}
	return path, nil
}

func writeInitFile(path, header string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if header != "" {
		fmt.Fprint(f, header)
	}
	_, err = f.Write(content)
	return err
}

func init() {
	initCmd.Flags().StringVar(&initOpts.dir, "dir", ".", "target directory")
	initCmd.Flags().StringVar(&initOpts.name, "name", "page", "document name")
	initCmd.Flags().StringVar(&initOpts.starter, "starter", "counter", "starter: counter, slots or blank")
	initCmd.Flags().BoolVar(&initOpts.force, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&initOpts.yes, "yes", false, "skip the prompts and use the flags")
}
