package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	labelColor = color.New(color.FgCyan)
	valueColor = color.New(color.FgYellow)
)

// Dump writes a labeled rendering of v (anything with a String method)
// to stderr, colorized when stderr is a terminal.
func Dump(label string, v fmt.Stringer) {
	Fdump(os.Stderr, label, v)
}

func Fdump(w io.Writer, label string, v fmt.Stringer) {
	f, isFile := w.(*os.File)
	if isFile && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		fmt.Fprintf(w, "%s %s\n", labelColor.Sprint(label+":"), valueColor.Sprint(v.String()))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", label, v.String())
}
