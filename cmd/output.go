package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	failMark = color.New(color.FgRed).Sprint("✗")
)

func success(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", okMark, fmt.Sprintf(format, a...))
}

func warn(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", warnMark, fmt.Sprintf(format, a...))
}

func fail(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", failMark, fmt.Sprintf(format, a...))
}
