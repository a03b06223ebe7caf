package lexer

import (
	"strconv"
	"strings"

	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/lang/token"
)

// scanStringOrChar scans a single-quote delimited literal with escapes,
// followed by an optional "char"/"str" trailing hint.
func (l *Lexer) scanStringOrChar(start int) Tok {
	l.advance() // opening '

	var b strings.Builder
	for {
		switch {
		case l.ch == eof:
			l.errorf(l.span(start), "E0008", diag.FatalError, "unterminated string or char literal")
			return Tok{Kind: token.STRING, Span: l.span(start), Raw: b.String()}
		case l.ch == '\'':
			l.advance()
			goto closed
		case l.ch == '\\':
			l.scanEscape(&b)
		default:
			b.WriteRune(l.ch)
			l.advance()
		}
	}

closed:
	hint := l.scanStringHint()
	span := l.span(start)
	kind := token.STRING
	if hint == "char" {
		kind = token.CHAR
	}
	return Tok{Kind: kind, Span: span, Raw: b.String(), StringHint: hint}
}

func (l *Lexer) scanStringHint() string {
	if !isIdentStart(l.ch) {
		return ""
	}
	start := l.offset
	for isIdentContinue(l.ch) {
		l.advance()
	}
	text := string(l.src[start:l.offset])
	if text == "char" || text == "str" {
		return text
	}
	l.errorf(l.span(start), "E0009", diag.Error, "invalid string literal suffix %q, expected char or str", text)
	return ""
}

// scanEscape consumes a backslash escape sequence and appends its decoded
// rune(s) to b. Malformed escapes accumulate an E0007 diagnostic and
// decode to U+FFFD so scanning can continue.
func (l *Lexer) scanEscape(b *strings.Builder) {
	escStart := l.offset
	l.advance() // backslash

	switch l.ch {
	case '\\':
		b.WriteByte('\\')
		l.advance()
	case '0':
		b.WriteByte(0)
		l.advance()
	case 'n':
		b.WriteByte('\n')
		l.advance()
	case 'r':
		b.WriteByte('\r')
		l.advance()
	case 't':
		b.WriteByte('\t')
		l.advance()
	case '\'':
		b.WriteByte('\'')
		l.advance()
	case 'x':
		l.advance()
		l.scanHexByteEscape(escStart, b)
	case 'u':
		l.advance()
		l.scanUnicodeEscape(escStart, b)
	case eof:
		l.errorf(l.span(escStart), "E0008", diag.FatalError, "unterminated escape sequence")
	default:
		l.errorf(l.span(escStart), "E0007", diag.Error, "unrecognized escape sequence '\\%c'", l.ch)
		b.WriteRune(0xFFFD)
		l.advance()
	}
}

func (l *Lexer) scanHexByteEscape(escStart int, b *strings.Builder) {
	var digits [2]byte
	n := 0
	for n < 2 && isHexDigit(l.ch) {
		digits[n] = byte(l.ch)
		n++
		l.advance()
	}
	if n != 2 {
		l.errorf(l.span(escStart), "E0007", diag.Error, "\\x escape requires exactly two hex digits")
		b.WriteRune(0xFFFD)
		return
	}
	v, _ := strconv.ParseUint(string(digits[:]), 16, 8)
	b.WriteByte(byte(v))
}

// scanUnicodeEscape handles \u{H+}: 1 or more hex digits inside required
// braces. Missing braces, an empty sequence, or EOF before the closing
// brace are each reported; an empty sequence is only a Warning (it
// decodes to a zero char), matching the diagnostic-severity test.
func (l *Lexer) scanUnicodeEscape(escStart int, b *strings.Builder) {
	if l.ch != '{' {
		l.errorf(l.span(escStart), "E0007", diag.Error, "\\u escape requires a brace-delimited hex sequence: \\u{...}")
		b.WriteRune(0xFFFD)
		return
	}
	l.advance() // '{'

	hexStart := l.offset
	for isHexDigit(l.ch) {
		l.advance()
	}
	hex := string(l.src[hexStart:l.offset])

	if l.ch != '}' {
		l.errorf(l.span(escStart), "E0008", diag.FatalError, "unterminated \\u{...} escape")
		return
	}
	l.advance() // '}'

	if hex == "" {
		l.errorf(l.span(escStart), "E0007", diag.Warning, "empty \\u{} escape sequence")
		b.WriteRune(0)
		return
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > 0x10FFFF {
		l.errorf(l.span(escStart), "E0007", diag.Error, "invalid \\u{%s} escape: out of Unicode range", hex)
		b.WriteRune(0xFFFD)
		return
	}
	b.WriteRune(rune(v))
}
