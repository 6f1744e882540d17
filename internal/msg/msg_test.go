package msg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		SetOutput(prev)
		color.NoColor = noColor
		SetVerbose(false)
	})
	return &buf
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	Info("Setting %s=%s", "FLEX_EXECUTABLE", "/opt/bin/flex")
	Warn("dependency %q is newer", "winflexbison")
	Error("boom")

	want := "info: Setting FLEX_EXECUTABLE=/opt/bin/flex\n" +
		"warn: dependency \"winflexbison\" is newer\n" +
		"error: boom\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDebugGatedByVerbose(t *testing.T) {
	buf := capture(t)

	Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("Debug printed while not verbose: %q", buf.String())
	}

	SetVerbose(true)
	Debug("probe %s", "bin/flex")
	if got := buf.String(); !strings.Contains(got, "debug: probe bin/flex") {
		t.Errorf("output = %q, want debug line", got)
	}
}

func TestFatalExits(t *testing.T) {
	buf := capture(t)
	var code int
	prevExit := exit
	exit = func(c int) { code = c }
	defer func() { exit = prevExit }()

	Fatal("no recipe")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if got := buf.String(); got != "fatal: no recipe\n" {
		t.Errorf("output = %q", got)
	}
}
