package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errNoTerminal is returned when a confirmation is needed but stdin is not
// interactive.
var errNoTerminal = errors.New("stdin is not a terminal: pass -yes to confirm")

// confirm asks question on out and reads a y/n answer from in. Anything other
// than y or yes, including EOF, is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errNoTerminal
	}

	fmt.Fprintf(out, "%s (y/n): ", question)
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}
	return false, scanner.Err()
}
