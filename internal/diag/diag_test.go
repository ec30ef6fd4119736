package diag

import (
	"strings"
	"testing"

	"github.com/adalang/adac/internal/token"
)

func TestFormatIncludesCaretUnderOffendingColumn(t *testing.T) {
	d := Diagnostic{
		Kind:     KindSyntactic,
		Severity: SeverityError,
		Message:  `expected ";"`,
		Pos:      token.Position{File: "t.adb", Line: 2, Column: 5},
		Source:   "procedure P is\nX : Integer\nbegin\nend P;",
	}
	out := d.Format()
	if !strings.Contains(out, "t.adb:2:5") {
		t.Errorf("expected position header in output, got %q", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least a header, source line, and caret line, got %q", out)
	}
	caret := lines[2]
	if !strings.HasSuffix(caret, "^") {
		t.Errorf("expected caret line to end in ^, got %q", caret)
	}
}

func TestBagHasErrorsIgnoresWarnings(t *testing.T) {
	b := &Bag{}
	b.Add(Diagnostic{Severity: SeverityWarning, Message: "unused variable"})
	if b.HasErrors() {
		t.Fatalf("a bag with only warnings should not report HasErrors")
	}
	b.Add(Diagnostic{Severity: SeverityError, Message: "undefined name"})
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors once an error diagnostic is added")
	}
}

func TestFormatJSONRoundTripsFields(t *testing.T) {
	b := &Bag{}
	b.Add(Diagnostic{
		Kind: KindSemantic, Severity: SeverityError, Message: "undefined name",
		Pos: token.Position{File: "t.adb", Line: 3, Column: 1},
	})
	out, err := b.FormatJSON()
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	for _, want := range []string{`"file"`, `"t.adb"`, `"line"`, `"severity"`, `"semantic"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected JSON output to contain %q, got %s", want, out)
		}
	}
}

func TestKindAndSeverityStrings(t *testing.T) {
	cases := map[Kind]string{
		KindLexical: "lexical", KindSyntactic: "syntax",
		KindSemantic: "semantic", KindInternal: "internal",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
	if SeverityError.String() != "error" {
		t.Errorf("SeverityError.String() = %q, want error", SeverityError.String())
	}
	if SeverityWarning.String() != "warning" {
		t.Errorf("SeverityWarning.String() = %q, want warning", SeverityWarning.String())
	}
}
