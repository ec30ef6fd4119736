package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it, mirroring how the underlying dispatcher tests
// capture CLI output without shelling out to a built binary.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

func TestRunLexEvalPrintsTokens(t *testing.T) {
	oldEval, oldShowPos, oldOnlyErrors := lexEval, lexShowPos, onlyErrors
	defer func() { lexEval, lexShowPos, onlyErrors = oldEval, oldShowPos, oldOnlyErrors }()

	lexEval = "X : Integer;"
	lexShowPos = false
	onlyErrors = false

	out, err := captureStdout(t, func() error { return runLex(lexCmd, nil) })
	if err != nil {
		t.Fatalf("runLex: %v", err)
	}
	for _, want := range []string{"IDENT", "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected token output to contain %q, got %q", want, out)
		}
	}
}

func TestRunLexRequiresFileOrEval(t *testing.T) {
	oldEval := lexEval
	defer func() { lexEval = oldEval }()
	lexEval = ""

	if _, err := captureStdout(t, func() error { return runLex(lexCmd, nil) }); err == nil {
		t.Fatalf("expected an error when neither a file nor -e is given")
	}
}

func TestRunParsePrintsAST(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.adb")
	if err := os.WriteFile(path, []byte("procedure Hello is\nbegin\n  null;\nend Hello;\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	out, err := captureStdout(t, func() error { return runParse(parseCmd, []string{path}) })
	if err != nil {
		t.Fatalf("runParse: %v", err)
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("expected AST dump to mention Hello, got %q", out)
	}
}

func TestRunCheckReportsNoErrorsOnValidUnit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.adb")
	if err := os.WriteFile(path, []byte("procedure Hello is\nbegin\n  null;\nend Hello;\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	oldExit, oldJSON := exitCode, checkJSON
	defer func() { exitCode, checkJSON = oldExit, oldJSON }()
	exitCode, checkJSON = 0, false

	out, err := captureStdout(t, func() error { return runCheck(checkCmd, []string{path}) })
	if err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if !strings.Contains(out, "no errors") {
		t.Errorf("expected %q to report no errors, got %q", path, out)
	}
	if exitCode != 0 {
		t.Errorf("exitCode = %d, want 0", exitCode)
	}
}

func TestRunCheckSetsExitCodeOnSemanticError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.adb")
	src := "procedure Hello is\nbegin\n  Undeclared_Thing := 1;\nend Hello;\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	oldExit, oldJSON := exitCode, checkJSON
	defer func() { exitCode, checkJSON = oldExit, oldJSON }()
	exitCode, checkJSON = 0, false

	if _, err := captureStdout(t, func() error { return runCheck(checkCmd, []string{path}) }); err == nil {
		t.Fatalf("expected runCheck to return an error for an undeclared name")
	}
	if exitCode != 1 {
		t.Errorf("exitCode = %d, want 1", exitCode)
	}
}

func TestRunCompileWritesIRModule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.adb")
	if err := os.WriteFile(path, []byte("procedure Hello is\nbegin\n  null;\nend Hello;\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer os.Chdir(oldWd)

	oldOutput, oldNoChecks, oldIROnly, oldJSONErrors, oldDumpIR, oldExit :=
		compileOutput, compileNoChecks, compileIROnly, compileJSONErrors, compileDumpIR, exitCode
	defer func() {
		compileOutput, compileNoChecks, compileIROnly, compileJSONErrors, compileDumpIR, exitCode =
			oldOutput, oldNoChecks, oldIROnly, oldJSONErrors, oldDumpIR, oldExit
	}()
	compileOutput, compileNoChecks, compileIROnly, compileJSONErrors, compileDumpIR = "", false, false, false, false

	if _, err := captureStdout(t, func() error { return runCompile(compileCmd, []string{"unit.adb"}) }); err != nil {
		t.Fatalf("runCompile: %v", err)
	}

	irOut, err := os.ReadFile(filepath.Join(dir, "unit.ir"))
	if err != nil {
		t.Fatalf("expected unit.ir to be written: %v", err)
	}
	if !strings.Contains(string(irOut), "function Hello") {
		t.Errorf("expected emitted IR to contain function Hello, got %s", irOut)
	}

	if _, err := os.Stat(filepath.Join(dir, "adac-build.json")); err != nil {
		t.Errorf("expected a build manifest to be written: %v", err)
	}
}
