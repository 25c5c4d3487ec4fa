package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestVerboseOutputOnlyAppearsWhenEnabled(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		expectEmpty bool
	}{
		{"verbose disabled - no output", false, true},
		{"verbose enabled - has output", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			out := New(Config{
				Verbose:   tt.verbose,
				Writer:    &buf,
				ErrWriter: &buf,
			})

			out.Verbose("test message")

			if tt.expectEmpty && buf.Len() > 0 {
				t.Errorf("expected no output when verbose disabled, got: %q", buf.String())
			}
			if !tt.expectEmpty && !strings.Contains(buf.String(), "test message") {
				t.Errorf("expected output to contain 'test message', got: %q", buf.String())
			}
		})
	}
}

func TestErrorGoesToErrWriter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := New(Config{Writer: &stdout, ErrWriter: &stderr})

	out.RenameFailed("1.a.sql", errors.New("permission denied"))

	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
	want := "Error renaming 1.a.sql: permission denied\n"
	if stderr.String() != want {
		t.Errorf("expected %q, got %q", want, stderr.String())
	}
}

func TestRenamedLineWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	out := New(Config{Writer: &buf})

	out.Renamed(2, 5, "07.Sales Data v2.3.sql", "07. Sales_Data V2.3.sql")

	want := "[2/5] Renamed: 07.Sales Data v2.3.sql -> 07. Sales_Data V2.3.sql\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestRenamedLineColoredOnTTY(t *testing.T) {
	var buf bytes.Buffer
	out := New(Config{Writer: &buf, IsTTY: true})

	out.Renamed(1, 1, "a.sql", "1. a V1.0.sql")

	if !strings.Contains(buf.String(), colorGreen+"Renamed"+colorReset) {
		t.Errorf("expected colored label, got %q", buf.String())
	}
}

func TestEveryLineIsNewlineTerminated(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("Info and Planned emit exactly one terminated line", prop.ForAll(
		func(a, b string) bool {
			var buf bytes.Buffer
			out := New(Config{Writer: &buf})

			out.Info("%s", a)
			out.Planned(a, b)

			got := buf.String()
			want := fmt.Sprintf("%s\nwould rename: %s -> %s\n", a, a, b)
			if got != want {
				t.Logf("expected %q, got %q", want, got)
				return false
			}
			return true
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
