package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var ansiColors = map[string]string{
	"red":    "\033[91m",
	"green":  "\033[92m",
	"yellow": "\033[93m",
	"blue":   "\033[94m",
	"bold":   "\033[1m",
	"reset":  "\033[0m",
}

// colorize wraps text in ANSI color codes when isTTY is true, matching the
// validate-mode output the probe's own report.go produces for its results.
func colorize(text, color string, isTTY bool) string {
	if !isTTY {
		return text
	}
	code, ok := ansiColors[color]
	if !ok {
		return text
	}
	return code + text + ansiColors["reset"]
}

// isTTYWriter reports whether w is connected to a terminal. Only an *os.File
// (such as os.Stdout) can be a TTY; any other writer (a buffer in tests) is not.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
