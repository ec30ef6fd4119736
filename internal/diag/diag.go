// Package diag implements compiler diagnostics: a Diagnostic carrying
// message, severity, source span, and source text, formatted either as
// human-readable text with a caret indicator or as a machine-readable
// JSON stream for editor integration.
package diag

import (
	"fmt"
	"strings"

	"github.com/adalang/adac/internal/token"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Kind classifies a diagnostic by the compilation stage that raised it.
type Kind int

const (
	KindLexical Kind = iota
	KindSyntactic
	KindSemantic
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntax"
	case KindSemantic:
		return "semantic"
	case KindInternal:
		return "internal"
	default:
		return "error"
	}
}

// Severity distinguishes a hard error from an advisory warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one compiler-reported condition with enough context to
// render a caret-annotated source excerpt.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Pos      token.Position
	Source   string // the full text of Pos.File, for excerpt rendering
}

// Format renders the diagnostic as a "file:line:col: severity: kind: message"
// header, the offending source line, and a caret pointing at the
// column.
func (d Diagnostic) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s: %s\n", d.Pos.String(), d.Severity, d.Kind, d.Message)
	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		lineNum := fmt.Sprintf("%4d | ", d.Pos.Line)
		b.WriteString(lineNum)
		b.WriteString(line)
		b.WriteString("\n")
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		b.WriteString(strings.Repeat(" ", len(lineNum)+col-1))
		b.WriteString("^")
	}
	return b.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Bag accumulates diagnostics across a compilation, mirroring the
// semantic analyzer's accumulate-and-continue policy.
type Bag struct {
	items []Diagnostic
}

// Add appends one diagnostic.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Diagnostics returns every accumulated diagnostic, in report order.
func (b *Bag) Diagnostics() []Diagnostic { return b.items }

// HasErrors reports whether any accumulated diagnostic is SeverityError.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatText renders every diagnostic, one after another, in the
// human-readable caret style.
func (b *Bag) FormatText() string {
	var out strings.Builder
	for i, d := range b.items {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(d.Format())
		out.WriteString("\n")
	}
	return out.String()
}

// FormatJSON renders the bag as a JSON array of diagnostic objects, built
// incrementally with sjson.Set (avoiding a struct-tag-driven encoder so the
// field order matches the text formatter) and indented with pretty.Pretty
// for stable, diffable editor-integration output.
func (b *Bag) FormatJSON() (string, error) {
	doc := "[]"
	var err error
	for i, d := range b.items {
		prefix := fmt.Sprintf("%d.", i)
		if doc, err = sjson.Set(doc, prefix+"file", d.Pos.File); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"line", d.Pos.Line); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"column", d.Pos.Column); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"severity", d.Severity.String()); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"kind", d.Kind.String()); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, prefix+"message", d.Message); err != nil {
			return "", err
		}
	}
	return string(pretty.Pretty([]byte(doc))), nil
}
