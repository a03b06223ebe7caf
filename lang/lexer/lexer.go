// Package lexer scans UTF-8 source text into a token stream, accumulating
// diagnostics rather than stopping at the first problem.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/token"
)

// Tok is a single scanned token with its span and any literal payload.
type Tok struct {
	Kind token.Kind
	Span source.Span
	Raw  string

	IntBase    token.IntBase
	WidthHint  string // "u8".."i64", "f32", "f64", or "" when absent
	StringHint string // "char", "str", or ""
	BoolVal    bool
}

const eof = -1

// Lexer scans a single source buffer. Construct one per file; the parser
// drives it one token at a time via Scan, or all at once via ScanAll.
type Lexer struct {
	fileID uint32
	src    []byte

	offset   int // start of ch
	rdOffset int // start of next rune
	ch       rune

	diags diag.List
}

// New returns a Lexer over src, which was registered in the loader under
// fileID.
func New(fileID uint32, src []byte) *Lexer {
	l := &Lexer{fileID: fileID, src: src}
	l.advance()
	// skip a hashbang line, same tolerance every scripting-language lexer
	// in the corpus affords its entry file.
	if l.ch == '#' && l.peekByte() == '!' {
		for l.ch != '\n' && l.ch != eof {
			l.advance()
		}
	}
	return l
}

func (l *Lexer) span(start int) source.Span {
	return source.Span{FileID: l.fileID, Start: uint32(start), End: uint32(l.offset)}
}

func (l *Lexer) peekByte() byte {
	if l.rdOffset < len(l.src) {
		return l.src[l.rdOffset]
	}
	return 0
}

func (l *Lexer) advance() {
	if l.rdOffset >= len(l.src) {
		l.offset = len(l.src)
		l.ch = eof
		return
	}
	l.offset = l.rdOffset
	r, size := rune(l.src[l.rdOffset]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRune(l.src[l.rdOffset:])
	}
	l.rdOffset += size
	l.ch = r
}

func (l *Lexer) advanceIf(want rune) bool {
	if l.ch == want {
		l.advance()
		return true
	}
	return false
}

func isUnicodeWhitespace(r rune) bool {
	switch r {
	case '\v', '\f', 0x0085, 0x200E, 0x200F, 0x2028, 0x2029:
		return true
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || isUnicodeWhitespace(l.ch) {
		l.advance()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Diagnostics returns every diagnostic accumulated so far.
func (l *Lexer) Diagnostics() diag.List { return l.diags }

func (l *Lexer) errorf(span source.Span, code string, sev diag.Severity, format string, args ...any) {
	l.diags.Add(diag.New(code, sev, fmt.Sprintf(format, args...), span))
}

// ScanAll scans every token in the source, stopping early only on a fatal
// diagnostic, and returns the tokens accumulated so far alongside any
// diagnostics.
func ScanAll(fileID uint32, src []byte) ([]Tok, diag.List) {
	l := New(fileID, src)
	var toks []Tok
	for {
		t := l.Scan()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
		if l.diags.HasFatal() {
			break
		}
	}
	return toks, l.diags
}

// Scan returns the next token, skipping whitespace and comments.
func (l *Lexer) Scan() Tok {
	for {
		l.skipWhitespace()
		if l.ch == '/' && l.peekByte() == '/' {
			l.skipLineComment()
			continue
		}
		if l.ch == '/' && l.peekByte() == '*' {
			if !l.skipBlockComment() {
				return Tok{Kind: token.EOF, Span: l.span(l.offset)}
			}
			continue
		}
		break
	}

	start := l.offset
	ch := l.ch

	switch {
	case ch == eof:
		return Tok{Kind: token.EOF, Span: l.span(start)}

	case isIdentStart(ch):
		return l.scanIdentOrKeyword(start)

	case isDigit(ch):
		return l.scanNumber(start)

	case ch == '\'':
		return l.scanStringOrChar(start)
	}

	l.advance()
	switch ch {
	case '(':
		return Tok{Kind: token.LPAREN, Span: l.span(start)}
	case ')':
		return Tok{Kind: token.RPAREN, Span: l.span(start)}
	case '[':
		return Tok{Kind: token.LBRACKET, Span: l.span(start)}
	case ']':
		return Tok{Kind: token.RBRACKET, Span: l.span(start)}
	case '{':
		return Tok{Kind: token.LBRACE, Span: l.span(start)}
	case '}':
		return Tok{Kind: token.RBRACE, Span: l.span(start)}
	case ';':
		return Tok{Kind: token.SEMICOLON, Span: l.span(start)}
	case ':':
		return Tok{Kind: token.COLON, Span: l.span(start)}
	case ',':
		return Tok{Kind: token.COMMA, Span: l.span(start)}
	case '.':
		return Tok{Kind: token.DOT, Span: l.span(start)}

	case '+':
		if l.advanceIf('=') {
			return Tok{Kind: token.PLUSEQ, Span: l.span(start)}
		}
		return Tok{Kind: token.PLUS, Span: l.span(start)}

	case '-':
		if l.advanceIf('=') {
			return Tok{Kind: token.MINUSEQ, Span: l.span(start)}
		}
		if l.advanceIf('>') {
			return Tok{Kind: token.ARROW, Span: l.span(start)}
		}
		return Tok{Kind: token.MINUS, Span: l.span(start)}

	case '*':
		if l.ch == '*' {
			l.advance()
			if l.advanceIf('=') {
				return Tok{Kind: token.STARSTAREQ, Span: l.span(start)}
			}
			return Tok{Kind: token.STARSTAR, Span: l.span(start)}
		}
		if l.advanceIf('=') {
			return Tok{Kind: token.STAREQ, Span: l.span(start)}
		}
		return Tok{Kind: token.STAR, Span: l.span(start)}

	case '/':
		if l.advanceIf('=') {
			return Tok{Kind: token.SLASHEQ, Span: l.span(start)}
		}
		return Tok{Kind: token.SLASH, Span: l.span(start)}

	case '<':
		if l.advanceIf('=') {
			return Tok{Kind: token.LE, Span: l.span(start)}
		}
		return Tok{Kind: token.LT, Span: l.span(start)}

	case '>':
		if l.advanceIf('=') {
			return Tok{Kind: token.GE, Span: l.span(start)}
		}
		return Tok{Kind: token.GT, Span: l.span(start)}

	case '=':
		if l.advanceIf('=') {
			return Tok{Kind: token.EQEQ, Span: l.span(start)}
		}
		return Tok{Kind: token.ASSIGN, Span: l.span(start)}

	case '!':
		if l.advanceIf('=') {
			return Tok{Kind: token.BANGEQ, Span: l.span(start)}
		}
		return Tok{Kind: token.BANG, Span: l.span(start)}
	}

	l.errorf(l.span(start), "E0001", diag.Error, "unrecognized character %q", ch)
	return Tok{Kind: token.ILLEGAL, Span: l.span(start), Raw: string(ch)}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != eof {
		l.advance()
	}
}

// skipBlockComment consumes a nested /* ... */ comment. Nesting depth is
// tracked with a counter; the stack of open positions is kept so that an
// unterminated comment's diagnostic can point at every still-open opener.
// Returns false if EOF was reached before the comment closed (fatal).
func (l *Lexer) skipBlockComment() bool {
	type opener struct{ pos int }
	var openers []opener

	start := l.offset
	openers = append(openers, opener{start})
	l.advance() // '/'
	l.advance() // '*'

	for len(openers) > 0 {
		switch {
		case l.ch == eof:
			span := l.span(openers[len(openers)-1].pos)
			d := diag.New("E0002", diag.FatalError, "unterminated block comment", span)
			for i := len(openers) - 2; i >= 0; i-- {
				d.WithNote("comment opened here", source.Span{FileID: l.fileID, Start: uint32(openers[i].pos), End: uint32(openers[i].pos) + 2})
			}
			l.diags.Add(d)
			return false
		case l.ch == '/' && l.peekByte() == '*':
			openers = append(openers, opener{l.offset})
			l.advance()
			l.advance()
		case l.ch == '*' && l.peekByte() == '/':
			openers = openers[:len(openers)-1]
			l.advance()
			l.advance()
		default:
			l.advance()
		}
	}
	return true
}

func (l *Lexer) scanIdentOrKeyword(start int) Tok {
	for isIdentContinue(l.ch) {
		l.advance()
	}
	raw := string(l.src[start:l.offset])
	span := l.span(start)

	if raw == "true" || raw == "false" {
		return Tok{Kind: token.BOOL, Span: span, Raw: raw, BoolVal: raw == "true"}
	}
	if kind, ok := token.Keywords[raw]; ok {
		return Tok{Kind: kind, Span: span, Raw: raw}
	}
	return Tok{Kind: token.IDENT, Span: span, Raw: raw}
}
