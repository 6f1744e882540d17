// Package msg prints leveled, colored diagnostics for the recipe tools.
package msg

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = color.Output
	verbose bool
	exit    = os.Exit
)

// SetOutput redirects all messages to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

func logf(level string, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(out, level)
	fmt.Fprint(out, ": ")
	fmt.Fprintf(out, format, a...)
	fmt.Fprint(out, "\n")
}

func Debug(format string, a ...any) {
	if !Verbose() {
		return
	}
	logf(color.HiBlackString("debug"), format, a...)
}

func Info(format string, a ...any) {
	logf(color.HiGreenString("info"), format, a...)
}

func Warn(format string, a ...any) {
	logf(color.YellowString("warn"), format, a...)
}

func Error(format string, a ...any) {
	logf(color.HiRedString("error"), format, a...)
}

// Fatal prints the message and exits with status 1.
func Fatal(format string, a ...any) {
	logf(color.RedString("fatal"), format, a...)
	exit(1)
}
