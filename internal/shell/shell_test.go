package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sqlnamer/internal/orchestrator"
	"sqlnamer/internal/output"
)

func scriptDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runShell(t *testing.T, input string) string {
	t.Helper()
	var buf bytes.Buffer
	opts := orchestrator.Options{Output: output.New(output.Config{Writer: &buf, ErrWriter: &buf})}
	if err := New(strings.NewReader(input), &buf, opts).Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return buf.String()
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

func TestQuitSentinel(t *testing.T) {
	for _, input := range []string{"q\n", "Q\n", "  q  \n", ""} {
		out := runShell(t, input)
		if !strings.Contains(out, DirectoryPrompt) {
			t.Errorf("input %q: directory prompt not shown", input)
		}
		if !strings.Contains(out, "Goodbye.") {
			t.Errorf("input %q: expected clean exit, got %q", input, out)
		}
		if strings.Contains(out, ProceedPrompt) {
			t.Errorf("input %q: should not reach confirmation", input)
		}
	}
}

func TestRenameAndStop(t *testing.T) {
	dir := scriptDir(t, "1. Order#Items! v1.5.sql")

	out := runShell(t, dir+"\ny\nn\n")

	if !exists(t, filepath.Join(dir, "1. OrderItems V1.5.sql")) {
		t.Errorf("file was not renamed; output:\n%s", out)
	}
	for _, want := range []string{
		"Selected directory: " + dir,
		ProceedPrompt,
		"[1/1] Renamed: 1. Order#Items! v1.5.sql -> 1. OrderItems V1.5.sql",
		"Done! 1 of 1 files renamed.",
		AnotherPrompt,
		"Goodbye.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOnlyExactYProceeds(t *testing.T) {
	for _, answer := range []string{"n", "yes", "", "no way"} {
		dir := scriptDir(t, "2.raw.sql")
		out := runShell(t, dir+"\n"+answer+"\nn\n")
		if !exists(t, filepath.Join(dir, "2.raw.sql")) {
			t.Errorf("answer %q renamed the file", answer)
		}
		if !strings.Contains(out, "Rename cancelled.") {
			t.Errorf("answer %q: expected cancellation message", answer)
		}
	}

	dir := scriptDir(t, "2.raw.sql")
	runShell(t, dir+"\n Y \nn\n")
	if !exists(t, filepath.Join(dir, "2. raw V1.0.sql")) {
		t.Error("\" Y \" should proceed")
	}
}

func TestInvalidDirectoryLoops(t *testing.T) {
	empty := scriptDir(t, "readme.txt")
	missing := filepath.Join(t.TempDir(), "missing")

	out := runShell(t, missing+"\n"+empty+"\n\nq\n")

	if got := strings.Count(out, "Make sure:"); got != 3 {
		t.Errorf("expected 3 checklists, got %d:\n%s", got, out)
	}
	if got := strings.Count(out, DirectoryPrompt); got != 4 {
		t.Errorf("expected 4 directory prompts, got %d", got)
	}
	if strings.Contains(out, ProceedPrompt) {
		t.Error("invalid directories must not reach confirmation")
	}
}

func TestProcessAnotherDirectory(t *testing.T) {
	first := scriptDir(t, "1.a.sql")
	second := scriptDir(t, "2.b.sql")

	out := runShell(t, first+"\ny\ny\n"+second+"\ny\n")

	if !exists(t, filepath.Join(first, "1. a V1.0.sql")) || !exists(t, filepath.Join(second, "2. b V1.0.sql")) {
		t.Errorf("both directories should be processed:\n%s", out)
	}
	// Input ends at the continuation prompt, which exits.
	if !strings.HasSuffix(strings.TrimSpace(out), "Goodbye.") {
		t.Errorf("expected clean exit at end of input:\n%s", out)
	}
}

func TestPrompterSharesBufferedInput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrompter(strings.NewReader("first\nsecond\nlast"), &buf)

	for _, want := range []string{"first", "second", "last"} {
		got, ok, err := p.Ask("> ")
		if err != nil || !ok {
			t.Fatalf("Ask: ok=%v err=%v", ok, err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if _, ok, _ := p.Ask("> "); ok {
		t.Error("expected EOF")
	}
}
