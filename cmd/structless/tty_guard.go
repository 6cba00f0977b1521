package main

import (
	"errors"
	"os"

	"golang.org/x/term"
)

var (
	errNoTerminalOutput = errors.New("standard output is not a terminal (use --dump to print the outline)")
	errNoTerminalInput  = errors.New("standard input is not a terminal")
)

// requireTerminal fails unless the viewer can draw to stdout and read keys.
// When the document came from stdin, keys are read from the controlling
// terminal instead.
func requireTerminal(stdinIsDocument bool) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminalOutput
	}
	if !stdinIsDocument && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNoTerminalInput
	}
	return nil
}
