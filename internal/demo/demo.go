// Package demo contains the runnable walkthroughs from the two ownership
// articles. Each walkthrough writes its transcript to an io.Writer so the
// CLI stays thin and tests can assert on the output.
package demo

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Runner executes walkthroughs against a writer.
type Runner struct {
	Out   io.Writer
	Color bool
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func (r *Runner) header(title string) {
	if r.Color {
		fmt.Fprintln(r.Out, headerStyle.Render("== "+title+" =="))
		return
	}
	fmt.Fprintln(r.Out, "== "+title+" ==")
}

// prose renders a markdown interlude. Rendering failures fall back to the
// raw markdown so a walkthrough never aborts over styling.
func (r *Runner) prose(md string) {
	style := "notty"
	if r.Color {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		fmt.Fprintln(r.Out, md)
		return
	}
	out, err := tr.Render(md)
	if err != nil {
		fmt.Fprintln(r.Out, md)
		return
	}
	fmt.Fprint(r.Out, strings.TrimLeft(out, "\n"))
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}
