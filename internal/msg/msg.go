package msg

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func prefixed(prefix, format string, a ...any) {
	fmt.Print(prefix)
	fmt.Print(": ")
	fmt.Printf(format, a...)
	fmt.Print("\n")
}

func Error(format string, a ...any) {
	prefixed(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	prefixed(color.YellowString("warn"), format, a...)
}

func Fatal(format string, a ...any) {
	prefixed(color.RedString("fatal"), format, a...)
	os.Exit(1)
}

func Info(format string, a ...any) {
	prefixed(color.HiGreenString("info"), format, a...)
}

// IndentWriter indents every line written through it. Used to set nested
// output (git clone progress, compiler diagnostics) apart from our own.
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if !w.didIndent {
			w.W.Write([]byte(w.Indent))
			w.didIndent = true
		}
		w.W.Write([]byte{c}) // FIXME-perf: buffer this
		if c == '\n' || c == '\r' {
			w.didIndent = false
		}
	}
	return len(p), nil
}
