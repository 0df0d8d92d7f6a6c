// Package ui renders edit results, diffs, and confirmation prompts to the
// terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Color definitions for consistent output
var (
	// Green for added lines
	addColor = color.New(color.FgGreen)

	// Red for removed lines
	delColor = color.New(color.FgRed)

	// Faint for hunk headers and file markers
	hunkColor = color.New(color.FgCyan, color.Faint)

	// Red for errors
	errorColor = color.New(color.FgRed)

	// Yellow for warnings
	warnColor = color.New(color.FgYellow)

	// Faint gray for secondary info
	grayColor = color.New(color.FgWhite, color.Faint)
)

// Writer prints formatted output to a stream.
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer. A nil out writes to stdout.
func NewWriter(out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out}
}

// PrintDiff renders a unified diff with +/- lines colorized.
func (w *Writer) PrintDiff(diff string) {
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			hunkColor.Fprintln(w.out, line)
		case strings.HasPrefix(line, "+"):
			addColor.Fprintln(w.out, line)
		case strings.HasPrefix(line, "-"):
			delColor.Fprintln(w.out, line)
		default:
			fmt.Fprintln(w.out, line)
		}
	}
}

// PrintPatchSummary reports the simplified hunk header.
func (w *Writer) PrintPatchSummary(path string, oldStart, oldLines, newLines int) {
	grayColor.Fprintf(w.out, "%s: @@ -%d,%d +%d,%d @@\n", path, oldStart, oldLines, oldStart, newLines)
}

// PrintContext shows the post-edit context block.
func (w *Writer) PrintContext(context string) {
	if context == "" {
		return
	}
	fmt.Fprintln(w.out, context)
}

// PrintWarning prints a warning line.
func (w *Writer) PrintWarning(msg string) {
	warnColor.Fprintf(w.out, "warning: %s\n", msg)
}

// PrintError prints an error line.
func (w *Writer) PrintError(msg string) {
	errorColor.Fprintf(w.out, "error: %s\n", msg)
}

// PrintConfirmation shows the gate's combined confirmation message.
func (w *Writer) PrintConfirmation(message string) {
	warnColor.Fprintln(w.out, message)
}

// PrintSuccess reports an applied edit.
func (w *Writer) PrintSuccess(path string, created bool) {
	if created {
		fmt.Fprintf(w.out, "created %s\n", path)
		return
	}
	fmt.Fprintf(w.out, "edited %s\n", path)
}
