package adac

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompileSourceSuccess(t *testing.T) {
	res := CompileSource("t.adb", `procedure Hello is
begin
  null;
end Hello;`, Options{})
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.FormatText())
	}
	if res.Module == nil {
		t.Fatalf("expected a lowered module on success")
	}
	if !strings.Contains(res.Module.String(), "function Hello") {
		t.Errorf("expected lowered module to contain function Hello, got %s", res.Module.String())
	}
}

func TestCompileSourceSyntaxErrorStopsBeforeCodegen(t *testing.T) {
	res := CompileSource("t.adb", `procedure Hello is
begin
  null
end Hello;`, Options{})
	if !res.Diags.HasErrors() {
		t.Fatalf("expected a syntax error for the missing semicolon")
	}
	if res.Module != nil {
		t.Errorf("expected no module to be produced when parsing fails")
	}
}

func TestCompileSourceSemanticErrorStopsBeforeCodegen(t *testing.T) {
	res := CompileSource("t.adb", `procedure Hello is
begin
  Undeclared_Thing := 1;
end Hello;`, Options{})
	if !res.Diags.HasErrors() {
		t.Fatalf("expected a semantic error for the undeclared name")
	}
	if res.Module != nil {
		t.Errorf("expected no module to be produced when semantic analysis fails")
	}
}

func TestCompileFileReadsSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.adb")
	if err := os.WriteFile(path, []byte("procedure Hello is\nbegin\n  null;\nend Hello;\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	res, err := CompileFile(path, Options{})
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.FormatText())
	}
}

func TestCompileFileMissingReturnsError(t *testing.T) {
	_, err := CompileFile(filepath.Join(t.TempDir(), "missing.adb"), Options{})
	if err == nil {
		t.Fatalf("expected an error reading a missing file")
	}
}
