package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// interactive reports whether stdin is a terminal. Prompts are only shown
// to a human; piped scripts get bare output.
func interactive() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

// GetSimpleText prints a prompt to w and reads the next line from sc.
// The line is trimmed. io.EOF is returned when input is exhausted.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(sc *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(sc.Text()), nil
}

// Confirm asks a yes/no question. Anything but y or yes, including a read
// error, is a no.
func Confirm(sc *bufio.Scanner, question string, w io.Writer) bool {
	answer, err := GetSimpleText(sc, question+" (y/N)", w)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
