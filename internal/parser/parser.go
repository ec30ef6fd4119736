// Package parser implements a top-down parser with a fixed operator
// precedence table. It consumes an
// internal/lexer.Lexer and produces an internal/ast tree; no semantic
// type information is attached at this stage.
package parser

import (
	"fmt"

	"github.com/adalang/adac/internal/ast"
	"github.com/adalang/adac/internal/lexer"
	"github.com/adalang/adac/internal/token"
)

// Precedence levels, lowest-binding first.
const (
	_ int = iota
	lowest
	precLogical    // and, or, xor
	precShortCirc  // and then, or else
	precRelational // = /= < <= > >= in / not in
	precAdditive   // binary + -
	precMultiplic  // * / mod rem
	precUnary      // unary + - not abs
	precPower      // **
)

var binaryPrecedence = map[token.Kind]int{
	token.AND:    precLogical,
	token.OR:     precLogical,
	token.XOR:    precLogical,
	token.EQ:     precRelational,
	token.NEQ:    precRelational,
	token.LT:     precRelational,
	token.LTE:    precRelational,
	token.GT:     precRelational,
	token.GTE:    precRelational,
	token.IN:     precRelational,
	token.PLUS:   precAdditive,
	token.MINUS:  precAdditive,
	token.AMPERSAND: precAdditive,
	token.STAR:   precMultiplic,
	token.SLASH:  precMultiplic,
	token.MOD:    precMultiplic,
	token.REM:    precMultiplic,
	token.STARSTAR: precPower,
}

// Parser holds one compilation unit's parse state.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  token.Token
	errs []Error

	// blockDepth bounds the number of nested resynchronization attempts
	// so a pathologically malformed file cannot loop forever.
	blockDepth int
}

// New creates a Parser reading tokens from l.
func New(file string, l *lexer.Lexer) *Parser {
	p := &Parser{l: l, file: file}
	p.advance()
	return p
}

// Errors returns accumulated syntax errors.
func (p *Parser) Errors() []Error { return p.errs }

func (p *Parser) advance() {
	p.cur = p.l.NextToken()
}

func (p *Parser) peek(n int) token.Token {
	return p.l.Peek(n)
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *Parser) atKeyword(k token.Kind) bool {
	return p.cur.Kind == k
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, Error{Message: fmt.Sprintf(format, args...), Pos: p.cur.Pos})
}

// expect consumes the current token if it has kind k, else records an
// error and leaves the cursor in place for resynchronize to handle.
func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.cur
	if p.cur.Kind != k {
		p.errorf("expected %s, got %q", k, p.cur.Literal)
		return tok
	}
	p.advance()
	return tok
}

// resynchronize skips tokens until ';', 'end', 'begin', or 'is' —
// whichever comes first. It never consumes EOF. Once more than
// maxResyncAttempts resynchronizations have run in one parse, it skips
// straight to EOF instead.
func (p *Parser) resynchronize() {
	const maxResyncAttempts = 1000
	p.blockDepth++
	if p.blockDepth > maxResyncAttempts {
		for p.cur.Kind != token.EOF {
			p.advance()
		}
		return
	}
	for {
		switch p.cur.Kind {
		case token.SEMICOLON:
			p.advance()
			return
		case token.END, token.BEGIN, token.IS, token.EOF:
			return
		}
		p.advance()
	}
}

// expectEndName validates the `end [Name];` trailer shared by blocks,
// subprograms, packages, loops, and tasks.
func (p *Parser) expectEndName(name *ast.Ident) {
	p.expect(token.END)
	if name != nil && p.cur.Kind == token.IDENT {
		if p.cur.Canonical != name.Canonical() {
			p.errorf("end label %q does not match %q", p.cur.Literal, name.Name)
		}
		p.advance()
	}
	p.expect(token.SEMICOLON)
}

// parseIdent consumes one identifier.
func (p *Parser) parseIdent() *ast.Ident {
	tok := p.cur
	if tok.Kind != token.IDENT && !tok.Kind.IsKeyword() {
		p.errorf("expected identifier, got %q", tok.Literal)
	}
	p.advance()
	return &ast.Ident{Token: tok, Name: tok.Literal}
}

// parseNameList parses a comma-separated list of names, each of which may
// be dotted; every name comes back as one *ast.Ident from parseDottedIdent.
func (p *Parser) parseNameList() []*ast.Ident {
	var names []*ast.Ident
	names = append(names, p.parseDottedIdent())
	for p.cur.Kind == token.COMMA {
		p.advance()
		names = append(names, p.parseDottedIdent())
	}
	return names
}

// parseDottedIdent folds `A.B.C` into a single Ident carrying the
// dotted spelling; full expanded-name resolution happens in
// internal/semantic, which re-splits on '.'.
func (p *Parser) parseDottedIdent() *ast.Ident {
	first := p.parseIdent()
	for p.cur.Kind == token.DOT {
		p.advance()
		next := p.parseIdent()
		first = &ast.Ident{Token: first.Token, Name: first.Name + "." + next.Name}
	}
	return first
}

// ParseCompilationUnit parses one full source file: a context clause
// followed by exactly one library item.
func (p *Parser) ParseCompilationUnit() *ast.CompilationUnit {
	unit := &ast.CompilationUnit{File: p.file}
	for p.cur.Kind == token.WITH || p.cur.Kind == token.USE {
		unit.WithUses = append(unit.WithUses, p.parseWithClause())
	}
	if p.cur.Kind == token.GENERIC {
		unit.Library = p.parseGenericDecl()
	} else {
		unit.Library = p.parseLibraryItem()
	}
	return unit
}

func (p *Parser) parseWithClause() *ast.WithClause {
	tok := p.cur
	isUse := p.cur.Kind == token.USE
	p.advance()
	names := p.parseNameList()
	p.expect(token.SEMICOLON)
	return &ast.WithClause{Token: tok, Names: names, IsUse: isUse}
}

// parseLibraryItem dispatches on the keyword introducing a library-level
// declaration: package, procedure, function, or a generic instantiation
// of one of those.
func (p *Parser) parseLibraryItem() ast.Decl {
	switch p.cur.Kind {
	case token.PACKAGE:
		if p.peek(0).Kind == token.IDENT && p.peek(1).Kind == token.IS && p.isInstantiation() {
			return p.parseGenericInstantiation()
		}
		return p.parsePackage()
	case token.PROCEDURE, token.FUNCTION:
		if p.peek(0).Kind == token.IDENT && p.peek(1).Kind == token.IS && p.isInstantiation() {
			return p.parseGenericInstantiation()
		}
		return p.parseSubprogram()
	default:
		p.errorf("expected package, procedure, or function, got %q", p.cur.Literal)
		p.resynchronize()
		return nil
	}
}

// isInstantiation performs a bounded lookahead for `is new` following a
// subprogram/package name, to distinguish an instantiation from an
// ordinary declaration or body.
func (p *Parser) isInstantiation() bool {
	return p.peek(2).Kind == token.NEW
}
