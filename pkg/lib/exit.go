package lib

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Positioned is an error that points at a line of a document.
type Positioned interface {
	Position() (doc string, line int)
}

var (
	styleLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	styleLocator = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Report writes err and, when it carries one, the document position.
func Report(w io.Writer, err error) {
	fmt.Fprintln(w, styleLabel.Render("Error:"), err)
	var p Positioned
	if errors.As(err, &p) {
		if doc, line := p.Position(); line > 0 {
			fmt.Fprintln(w, styleLocator.Render(fmt.Sprintf("  --> %s:%d", doc, line)))
		}
	}
}

// Exit prints the error and exits the program with code 1
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(1)
}
