package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	pf, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file should not error, got %v", err)
	}
	if pf.Output != "" || pf.SuppressChecks || pf.EmitIROnly {
		t.Fatalf("expected a zero-valued ProjectFile, got %+v", pf)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adac.yaml")
	yaml := "sources:\n  - unit.adb\noutput: build/unit.ir\nsuppressChecks: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	pf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pf.Sources) != 1 || pf.Sources[0] != "unit.adb" {
		t.Errorf("Sources = %v, want [unit.adb]", pf.Sources)
	}
	if pf.Output != "build/unit.ir" {
		t.Errorf("Output = %q, want build/unit.ir", pf.Output)
	}
	if !pf.SuppressChecks {
		t.Errorf("expected SuppressChecks to be true")
	}
}

func TestMergePrefersFlagsOverProjectFile(t *testing.T) {
	pf := &ProjectFile{Output: "from-yaml.ir", SuppressChecks: false, EmitIROnly: false}
	effective := pf.Merge("from-flag.ir", true, false)
	if effective.Output != "from-flag.ir" {
		t.Errorf("Output = %q, want from-flag.ir", effective.Output)
	}
	if !effective.SuppressChecks {
		t.Errorf("expected SuppressChecks to be true once set by a flag")
	}
	if effective.EmitIROnly {
		t.Errorf("expected EmitIROnly to remain false when unset")
	}
}

func TestMergeKeepsProjectFileWhenFlagsAreZeroValued(t *testing.T) {
	pf := &ProjectFile{Output: "from-yaml.ir"}
	effective := pf.Merge("", false, false)
	if effective.Output != "from-yaml.ir" {
		t.Errorf("Output = %q, want from-yaml.ir to survive an unset flag", effective.Output)
	}
}

func TestReadManifestField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adac-build.json")
	doc := `{"modules":["unit.ir"],"elaborationOrder":["unit"]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	got, err := ReadManifestField(path, "modules.0")
	if err != nil {
		t.Fatalf("ReadManifestField: %v", err)
	}
	if got != "unit.ir" {
		t.Errorf("ReadManifestField(modules.0) = %q, want unit.ir", got)
	}
}
