package ui

import (
	"fmt"

	"github.com/eiannone/keyboard"
)

// PromptApproval asks a yes/no question and reads a single keypress.
// Only 'y' or 'Y' approves; Enter, Esc, Ctrl+C and any other key decline.
func (w *Writer) PromptApproval(question string) (bool, error) {
	fmt.Fprintf(w.out, "%s [y/N] ", question)

	char, key, err := keyboard.GetSingleKey()
	if err != nil {
		return false, err
	}
	switch {
	case char == 'y' || char == 'Y':
		fmt.Fprintln(w.out, "y")
		return true, nil
	case key == keyboard.KeyCtrlC, key == keyboard.KeyEsc:
		fmt.Fprintln(w.out, "n")
		return false, nil
	default:
		fmt.Fprintln(w.out, "n")
		return false, nil
	}
}
