package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "reactivity error",
			code:    "R001",
			wantMsg: "Write to readonly target rejected",
			wantCat: CategoryReactivity,
		},
		{
			name:    "reconcile error",
			code:    "R101",
			wantMsg: "Duplicate key in keyed sequence",
			wantCat: CategoryReconcile,
		},
		{
			name:    "config error",
			code:    "C002",
			wantMsg: "Configuration file is malformed",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "Z999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "old.json")
	if err.Message != `file "old.json" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "old.json" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestErrorString(t *testing.T) {
	got := New("R101").Error()
	want := "R101: Duplicate key in keyed sequence"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	got = New("R101").WithDetailf("key %q", "b").Error()
	want = `R101: Duplicate key in keyed sequence (key "b")`
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("reconcile: %w", New("R101").WithDetail("key 1"))

	if !stderrors.Is(err, New("R101")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("R102")) {
		t.Error("errors.Is should not match a different code")
	}
	if CodeOf(err) != "R101" {
		t.Errorf("CodeOf = %q, want R101", CodeOf(err))
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("CodeOf should be empty for plain errors")
	}
}

func TestWrapAndFromError(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := FromError(cause, "C001")

	if err.Code != "C001" {
		t.Errorf("Code = %q, want C001", err.Code)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}

	coded := New("X002")
	if FromError(coded, "C001") != coded {
		t.Error("FromError should return coded errors unchanged")
	}
	if FromError(nil, "C001") != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R101").
		WithDetail(`key "b" appears at positions 1 and 3`).
		WithExample("Item{Key: uuid()}")

	out := err.Format()
	for _, want := range []string{
		"ERROR R101: Duplicate key in keyed sequence",
		`key "b" appears at positions 1 and 3`,
		"Hint: Assign a unique, stable key",
		"Example:",
		"    Item{Key: uuid()}",
		"Learn more: https://ripple.dev/docs/errors/R101",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	got := New("X003").WithDetail("lis expects integers").FormatCompact()
	want := "X003: Invalid argument: lis expects integers"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("C002").Wrap(stderrors.New("unexpected EOF"))

	var decoded map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != "C002" {
		t.Errorf("code = %v, want C002", decoded["code"])
	}
	if decoded["category"] != string(CategoryConfig) {
		t.Errorf("category = %v, want %s", decoded["category"], CategoryConfig)
	}
	if decoded["cause"] != "unexpected EOF" {
		t.Errorf("cause = %v, want unexpected EOF", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 9)
	want := []string{"one two", "three", "four five", "six"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty string should be nil")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New("R003"))
	if !strings.Contains(buf.String(), "ERROR R003") {
		t.Errorf("Fprint coded = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("boom"))
	if !strings.Contains(buf.String(), "ERROR: boom") {
		t.Errorf("Fprint plain = %q", buf.String())
	}
}

func TestRegistryComplete(t *testing.T) {
	for _, code := range []string{"R001", "R002", "R003", "R004", "R005", "R006", "R101", "R102", "C001", "C002", "C003", "X001", "X002", "X003"} {
		tmpl, ok := Lookup(code)
		if !ok {
			t.Errorf("code %s not registered", code)
			continue
		}
		if tmpl.Message == "" || tmpl.DocURL == "" {
			t.Errorf("code %s has incomplete template", code)
		}
	}
	if Codes() != 15 {
		t.Errorf("Codes() = %d, want 15", Codes())
	}
}
