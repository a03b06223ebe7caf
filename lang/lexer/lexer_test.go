package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/lang/lexer"
	"github.com/mna/astra/lang/token"
)

func scan(t *testing.T, src string) ([]lexer.Tok, []string) {
	t.Helper()
	toks, diags := lexer.ScanAll(0, []byte(src))
	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	return toks, codes
}

func kinds(toks []lexer.Tok) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"+ += - -= -> * ** *= **= / /=", []token.Kind{
			token.PLUS, token.PLUSEQ, token.MINUS, token.MINUSEQ, token.ARROW,
			token.STAR, token.STARSTAR, token.STAREQ, token.STARSTAREQ,
			token.SLASH, token.SLASHEQ, token.EOF,
		}},
		{"< <= > >= == != = !", []token.Kind{
			token.LT, token.LE, token.GT, token.GE, token.EQEQ, token.BANGEQ,
			token.ASSIGN, token.BANG, token.EOF,
		}},
		{"( ) [ ] { } ; : , .", []token.Kind{
			token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
			token.LBRACE, token.RBRACE, token.SEMICOLON, token.COLON,
			token.COMMA, token.DOT, token.EOF,
		}},
	}
	for _, tc := range cases {
		toks, codes := scan(t, tc.src)
		require.Empty(t, codes)
		require.Equal(t, tc.want, kinds(toks))
	}
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, codes := scan(t, "let x = fn while loop module include show panic true false notakeyword")
	require.Empty(t, codes)
	require.Equal(t, []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.FN, token.WHILE, token.LOOP,
		token.MODULE, token.INCLUDE, token.SHOW, token.PANIC, token.BOOL,
		token.BOOL, token.IDENT, token.EOF,
	}, kinds(toks))
	require.True(t, toks[10].BoolVal)
	require.False(t, toks[11].BoolVal)
}

func TestScanNumbers(t *testing.T) {
	toks, codes := scan(t, "123 1_000 0x1F 0o17 0b101 1.5 1. 1.foo")
	require.Empty(t, codes)

	require.Equal(t, token.INT, toks[0].Kind)
	require.Equal(t, "123", toks[0].Raw)

	require.Equal(t, token.INT, toks[1].Kind)
	require.Equal(t, "1_000", toks[1].Raw)

	require.Equal(t, token.INT, toks[2].Kind)
	require.Equal(t, token.Hexadecimal, toks[2].IntBase)

	require.Equal(t, token.INT, toks[3].Kind)
	require.Equal(t, token.Octal, toks[3].IntBase)

	require.Equal(t, token.INT, toks[4].Kind)
	require.Equal(t, token.Binary, toks[4].IntBase)

	require.Equal(t, token.FLOAT, toks[5].Kind)
	require.Equal(t, "1.5", toks[5].Raw)

	// "1." with no digit after the dot is not consumed as a float.
	require.Equal(t, token.INT, toks[6].Kind)
	require.Equal(t, "1", toks[6].Raw)
	require.Equal(t, token.DOT, toks[7].Kind)

	require.Equal(t, token.INT, toks[8].Kind)
	require.Equal(t, token.DOT, toks[9].Kind)
	require.Equal(t, token.IDENT, toks[10].Kind)
}

func TestScanNumberBasePrefixWithNoDigits(t *testing.T) {
	_, codes := scan(t, "0x")
	require.Contains(t, codes, "E0003")
}

func TestScanStringAndCharEscapes(t *testing.T) {
	toks, codes := scan(t, `'hello' 'a'char 'line\nbreak' '\x41' '\u{48}'`)
	require.Empty(t, codes)

	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello", toks[0].Raw)

	require.Equal(t, token.CHAR, toks[1].Kind)
	require.Equal(t, "a", toks[1].Raw)

	require.Equal(t, token.STRING, toks[2].Kind)
	require.Equal(t, "line\nbreak", toks[2].Raw)

	require.Equal(t, "A", toks[3].Raw)
	require.Equal(t, "H", toks[4].Raw)
}

func TestScanUnterminatedBlockCommentReportsEveryOpener(t *testing.T) {
	_, codes := scan(t, "/* outer /* inner")
	require.Contains(t, codes, "E0002")

	// one note for the innermost opener plus one per enclosing opener
	_, diags := lexer.ScanAll(0, []byte("/* outer /* inner"))
	require.Len(t, diags, 1)
	require.Len(t, diags[0].Notes, 2)
}

func TestScanEmptyUnicodeEscapeIsOnlyAWarning(t *testing.T) {
	toks, diags := lexer.ScanAll(0, []byte(`'\u{}'`))
	require.Len(t, diags, 1)
	require.Equal(t, "E0007", diags[0].Code)
	require.Equal(t, diag.Warning, diags[0].Severity)
	require.Equal(t, "\x00", toks[0].Raw)
}
