package lexer

import (
	"testing"

	"github.com/adalang/adac/internal/token"
)

func collect(src string) []token.Token {
	l := New("t.adb", src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestIdentifiersAreCaseInsensitive(t *testing.T) {
	toks := collect("Value value VALUE")
	for _, tok := range toks[:3] {
		if tok.Canonical != "VALUE" {
			t.Errorf("Canonical = %q, want VALUE", tok.Canonical)
		}
	}
}

func TestKeywordRecognition(t *testing.T) {
	toks := collect("begin End Procedure")
	want := []token.Kind{token.BEGIN, token.END, token.PROCEDURE, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestDecimalLiteral(t *testing.T) {
	toks := collect("2 ** 10")
	if toks[0].Kind != token.INT || toks[0].Literal != "2" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Kind != token.STARSTAR {
		t.Fatalf("expected **, got %+v", toks[1])
	}
}

func TestBasedLiteral(t *testing.T) {
	toks := collect("16#FF# 2#1010# 16#A.8#E1")
	if toks[0].Literal != "16#FF#" || toks[0].Kind != token.INT {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Literal != "2#1010#" {
		t.Fatalf("got %+v", toks[1])
	}
	if toks[2].Kind != token.REAL {
		t.Fatalf("expected real based literal, got %+v", toks[2])
	}
}

func TestUnderscoreDigitSeparator(t *testing.T) {
	toks := collect("1_000_000")
	if toks[0].Literal != "1_000_000" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestStringWithDoubledQuote(t *testing.T) {
	toks := collect(`"she said ""hi"""`)
	want := `she said "hi"`
	if toks[0].Literal != want {
		t.Fatalf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestCharacterLiteral(t *testing.T) {
	toks := collect("'H'")
	if toks[0].Kind != token.CHARLIT || toks[0].Literal != "H" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestTickAfterNameIsAttribute(t *testing.T) {
	toks := collect("X'Length")
	if toks[0].Kind != token.IDENT {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Kind != token.APOSTROPHE {
		t.Fatalf("expected attribute tick, got %+v", toks[1])
	}
	if toks[2].Canonical != "LENGTH" {
		t.Fatalf("got %+v", toks[2])
	}
}

func TestUnterminatedStringRecovers(t *testing.T) {
	l := New("t.adb", "\"abc")
	tok := l.NextToken()
	if tok.Kind != token.STRINGLIT {
		t.Fatalf("got %+v", tok)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(l.Errors()))
	}
}

func TestLineCommentSkipped(t *testing.T) {
	toks := collect("X := 1; -- comment\nY := 2;")
	var kinds []token.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	for _, k := range kinds {
		if k == token.ILLEGAL {
			t.Fatalf("unexpected ILLEGAL in %v", kinds)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("t.adb", "A B C")
	if got := l.Peek(1).Literal; got != "B" {
		t.Fatalf("Peek(1) = %q, want B", got)
	}
	if got := l.NextToken().Literal; got != "A" {
		t.Fatalf("NextToken() = %q, want A", got)
	}
	if got := l.NextToken().Literal; got != "B" {
		t.Fatalf("NextToken() = %q, want B", got)
	}
}
