// Package parser implements the Pratt recursive-descent parser: it turns
// a token stream into a span-carrying ast.Expr tree, recursively invoking
// the lexer and itself to splice in `include` targets.
package parser

import (
	"fmt"

	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/lexer"
	"github.com/mna/astra/lang/token"
)

// errPanicMode is the sentinel recovered by parseTop after an unexpected
// token: the parse is abandoned and a BadExpr stands in for the whole
// tree, the same panic/recover convention as the corpus's own
// recursive-descent parsers.
var errPanicMode = fmt.Errorf("parser: panic mode")

type parser struct {
	loader *source.Loader
	fileID uint32

	lx  *lexer.Lexer
	tok token.Kind
	val lexer.Tok

	diags diag.List

	includeDepth int
}

// maxIncludeDepth bounds recursive `include` nesting so a cyclic include
// chain fails as a diagnostic instead of exhausting the Go call stack.
const maxIncludeDepth = 64

// Parse parses the source registered at fileID in loader and returns the
// resulting expression tree alongside any accumulated diagnostics. A
// FatalError in the returned list means the tree is incomplete.
func Parse(loader *source.Loader, fileID uint32) (ast.Expr, diag.List) {
	return parseAtDepth(loader, fileID, 0)
}

func parseAtDepth(loader *source.Loader, fileID uint32, depth int) (ast.Expr, diag.List) {
	src := loader.File(fileID)
	p := &parser{
		loader:       loader,
		fileID:       fileID,
		lx:           lexer.New(fileID, src.Bytes),
		includeDepth: depth,
	}
	p.advance()

	expr := p.parseTop()
	p.diags = append(p.diags, p.lx.Diagnostics()...)
	return expr, p.diags
}

func (p *parser) parseTop() (expr ast.Expr) {
	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				expr = &ast.BadExpr{Sp: p.val.Span}
				return
			}
			panic(err)
		}
	}()

	if p.tok == token.EOF {
		return &ast.BlockExpr{Sp: p.val.Span}
	}
	e := p.parseExpr(levelSemicolon - 1)
	if p.tok != token.EOF {
		p.errorExpected("end of input")
	}
	return e
}

func (p *parser) advance() {
	p.val = p.lx.Scan()
	p.tok = p.val.Kind
}

// expect consumes the current token if it matches any of want, returning
// its span; otherwise it records a diagnostic and enters panic mode.
func (p *parser) expect(want ...token.Kind) source.Span {
	for _, k := range want {
		if p.tok == k {
			span := p.val.Span
			p.advance()
			return span
		}
	}
	p.errorExpected(describe(want...))
	panic(errPanicMode)
}

// accept consumes the current token if it matches k, reporting whether it
// did, without entering panic mode on a miss.
func (p *parser) accept(k token.Kind) bool {
	if p.tok == k {
		p.advance()
		return true
	}
	return false
}

func (p *parser) errorf(span source.Span, code string, sev diag.Severity, format string, args ...any) {
	p.diags.Add(diag.New(code, sev, fmt.Sprintf(format, args...), span))
}

func (p *parser) errorExpected(what string) {
	p.errorf(p.val.Span, "E0101", diag.Error, "unexpected token %s, expected %s", describeTok(p.tok), what)
}

// fatalUnclosed reports that the stream ran out (or hit something
// unexpected) before a delimiter opened at openSpan was matched by
// closer, e.g. closer == "'}'" for a brace opened earlier.
func (p *parser) fatalUnclosed(code string, openSpan source.Span, closer string) {
	d := diag.New(code, diag.FatalError, fmt.Sprintf("unexpected %s, expected closing %s", describeTok(p.tok), closer), p.val.Span)
	d.WithNote("unmatched opening delimiter here", openSpan)
	p.diags.Add(d)
	panic(errPanicMode)
}

func describe(kinds ...token.Kind) string {
	if len(kinds) == 1 {
		return describeTok(kinds[0])
	}
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += " or "
		}
		s += describeTok(k)
	}
	return s
}

func describeTok(k token.Kind) string { return k.String() }
