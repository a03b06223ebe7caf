package lexer

import (
	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/lang/token"
)

var widthHints = map[string]bool{
	"u8": true, "u16": true, "u32": true, "u64": true,
	"i8": true, "i16": true, "i32": true, "i64": true,
	"f32": true, "f64": true,
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanNumber handles decimal, hex (0x), octal (0o), and binary (0b)
// integer literals with underscore digit separators, and decimal floats
// with a single fractional part. A trailing '.' with no fractional digit
// is not consumed as part of the literal (e.g. "1.foo" is INT "1" then
// DOT then IDENT "foo").
func (l *Lexer) scanNumber(start int) Tok {
	base := token.Decimal
	isFloat := false

	if l.ch == '0' {
		switch l.peekByte() {
		case 'x', 'X':
			base = token.Hexadecimal
			l.advance()
			l.advance()
			return l.finishBasedNumber(start, base, isHexDigit)
		case 'o', 'O':
			base = token.Octal
			l.advance()
			l.advance()
			return l.finishBasedNumber(start, base, func(r rune) bool { return r >= '0' && r <= '7' })
		case 'b', 'B':
			base = token.Binary
			l.advance()
			l.advance()
			return l.finishBasedNumber(start, base, func(r rune) bool { return r == '0' || r == '1' })
		}
	}

	l.scanDigits(isDigit)

	if l.ch == '.' && isDigit(l.peekRuneAfterDot()) {
		isFloat = true
		l.advance() // '.'
		l.scanDigits(isDigit)
	}

	return l.finishNumber(start, base, isFloat)
}

// peekRuneAfterDot reports the rune that would follow a '.' at the
// current position, without consuming anything, so the caller can decide
// whether the '.' starts a fractional part or is a separate DOT token.
func (l *Lexer) peekRuneAfterDot() rune {
	if l.rdOffset >= len(l.src) {
		return eof
	}
	return rune(l.src[l.rdOffset])
}

// finishBasedNumber scans the digit run of a 0x/0o/0b literal and reports
// E0003 if the prefix is not followed by at least one valid digit.
func (l *Lexer) finishBasedNumber(start int, base token.IntBase, valid func(rune) bool) Tok {
	digitsStart := l.offset
	l.scanDigits(valid)
	if l.offset == digitsStart {
		l.errorf(l.span(start), "E0003", diag.Error, "invalid numeric literal: expected at least one digit after base prefix")
	}
	return l.finishNumber(start, base, false)
}

func (l *Lexer) scanDigits(valid func(rune) bool) {
	for valid(l.ch) || l.ch == '_' {
		l.advance()
	}
}

func (l *Lexer) finishNumber(start int, base token.IntBase, isFloat bool) Tok {
	digits := l.offset
	hint := l.scanWidthHint()
	span := l.span(start)
	raw := string(l.src[start:digits])

	if isFloat || hint == "f32" || hint == "f64" {
		return Tok{Kind: token.FLOAT, Span: span, Raw: raw, WidthHint: hint}
	}
	return Tok{Kind: token.INT, Span: span, Raw: raw, IntBase: base, WidthHint: hint}
}

// scanWidthHint consumes a trailing lowercase width hint identifier
// (u8..u64, i8..i64, f32, f64) if present. Any other identifier-like
// trailing text is reported as E0009.
func (l *Lexer) scanWidthHint() string {
	if !isIdentStart(l.ch) {
		return ""
	}
	start := l.offset
	for isIdentContinue(l.ch) {
		l.advance()
	}
	text := string(l.src[start:l.offset])
	if widthHints[text] {
		return text
	}
	l.errorf(l.span(start), "E0009", diag.Error, "invalid numeric literal suffix %q, expected one of u8,u16,u32,u64,i8,i16,i32,i64,f32,f64", text)
	return ""
}
