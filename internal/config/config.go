// Package config loads the optional adac.yaml project file and merges it
// with command-line flags, which always take precedence.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

// ProjectFile is the optional adac.yaml describing a compilation unit set.
type ProjectFile struct {
	Sources        []string `yaml:"sources"`
	Output         string   `yaml:"output"`
	SuppressChecks bool     `yaml:"suppressChecks"`
	EmitIROnly     bool     `yaml:"emitIROnly"`
}

// Load reads and parses path. A missing file is not an error: it returns
// a zero ProjectFile, since flags and positional arguments are sufficient
// on their own.
func Load(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectFile{}, nil
		}
		return nil, err
	}
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

// Merge overlays CLI flag values onto the project file, returning the
// effective settings. A zero-valued flag argument means "not set on the
// command line" and the project file's value wins.
func (pf *ProjectFile) Merge(output string, suppressChecks, emitIROnly bool) ProjectFile {
	out := *pf
	if output != "" {
		out.Output = output
	}
	if suppressChecks {
		out.SuppressChecks = true
	}
	if emitIROnly {
		out.EmitIROnly = true
	}
	return out
}

// ReadManifestField reads a single field out of a JSON build manifest
// written by a prior `adac compile` run made without --emit-ir-only, for IDE tooling
// that wants to inspect build output without re-running the compiler.
func ReadManifestField(manifestPath, field string) (string, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(data, field).String(), nil
}
