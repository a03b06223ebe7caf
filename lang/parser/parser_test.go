package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/parser"
)

func parse(t *testing.T, src string) (ast.Expr, diag.List) {
	t.Helper()
	loader := source.NewLoader()
	id := loader.AddBytes("<test>", []byte(src))
	return parser.Parse(loader, id)
}

func parseOK(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, diags := parse(t, src)
	require.Empty(t, diags, "src=%q", src)
	return e
}

func TestParseArithmeticPrecedence(t *testing.T) {
	e := parseOK(t, "1 + 2 * 3")
	bin, ok := e.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Add, bin.Op)
	require.IsType(t, &ast.LiteralExpr{}, bin.Left)
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Mul, rhs.Op)
}

func TestParseExponentIsLeftAssociative(t *testing.T) {
	// Both * and ** sit at levelMulDivExp and are parsed left-associatively
	// by the Pratt loop (only levelAssign gets the right-assoc carve-out),
	// so "2 ** 3 ** 2" groups as (2 ** 3) ** 2.
	e := parseOK(t, "2 ** 3 ** 2")
	top, ok := e.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Exp, top.Op)
	left, ok := top.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Exp, left.Op)
	require.IsType(t, &ast.LiteralExpr{}, top.Right)
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	e := parseOK(t, "a = b = 1")
	outer, ok := e.(*ast.AssignExpr)
	require.True(t, ok)
	require.Equal(t, "a", outer.Target.(*ast.IdentExpr).Name)
	inner, ok := outer.Value.(*ast.AssignExpr)
	require.True(t, ok)
	require.Equal(t, "b", inner.Target.(*ast.IdentExpr).Name)
}

func TestParseCompoundAssignment(t *testing.T) {
	e := parseOK(t, "a += 1")
	op, ok := e.(*ast.AssignOpExpr)
	require.True(t, ok)
	require.Equal(t, ast.Add, op.Op)
}

func TestParseComparisonBindsLooserThanAddSub(t *testing.T) {
	e := parseOK(t, "1 + 1 < 2 * 2")
	cmp, ok := e.(*ast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, ast.Lt, cmp.Op)
	require.IsType(t, &ast.BinaryExpr{}, cmp.Left)
	require.IsType(t, &ast.BinaryExpr{}, cmp.Right)
}

func TestParseCallAndPropertyBindTighterThanBinary(t *testing.T) {
	e := parseOK(t, "a.b(1) + 2")
	bin, ok := e.(*ast.BinaryExpr)
	require.True(t, ok)
	call, ok := bin.Left.(*ast.CallExpr)
	require.True(t, ok)
	prop, ok := call.Callee.(*ast.PropertyExpr)
	require.True(t, ok)
	require.Equal(t, "b", prop.Name)
}

func TestParseUnaryPrefixForms(t *testing.T) {
	cases := []struct {
		src string
		op  ast.UnaryOp
	}{
		{"-1", ast.Neg},
		{"!true", ast.Not},
		{"show 1", ast.ShowOp},
		{"panic 1", ast.PanicOp},
	}
	for _, tc := range cases {
		e := parseOK(t, tc.src)
		u, ok := e.(*ast.UnaryExpr)
		require.True(t, ok, "src=%q", tc.src)
		require.Equal(t, tc.op, u.Op)
	}
}

func TestParseIfElseIf(t *testing.T) {
	e := parseOK(t, "if a { 1 } else if b { 2 } else { 3 }")
	top, ok := e.(*ast.IfExpr)
	require.True(t, ok)
	require.NotNil(t, top.Else)
	elseIf, ok := top.Else.(*ast.IfExpr)
	require.True(t, ok)
	require.NotNil(t, elseIf.Else)
	require.IsType(t, &ast.BlockExpr{}, elseIf.Else)
}

func TestParseWhileAndLoop(t *testing.T) {
	e := parseOK(t, "while a { b }")
	w, ok := e.(*ast.WhileExpr)
	require.True(t, ok)
	require.IsType(t, &ast.BlockExpr{}, w.Body)

	e = parseOK(t, "loop { b }")
	l, ok := e.(*ast.LoopExpr)
	require.True(t, ok)
	require.IsType(t, &ast.BlockExpr{}, l.Body)
}

func TestParseLet(t *testing.T) {
	e := parseOK(t, "let x = 1")
	let, ok := e.(*ast.LetExpr)
	require.True(t, ok)
	require.Equal(t, "x", let.Name)
	require.NotNil(t, let.Init)

	e = parseOK(t, "let x")
	let, ok = e.(*ast.LetExpr)
	require.True(t, ok)
	require.Nil(t, let.Init)
}

func TestParseFn(t *testing.T) {
	e := parseOK(t, "fn add(a, b) { a + b }")
	fn, ok := e.(*ast.FnExpr)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []string{"a", "b"}, fn.Args)
}

func TestParseModule(t *testing.T) {
	e := parseOK(t, "module m { let k = 7 }")
	m, ok := e.(*ast.ModuleExpr)
	require.True(t, ok)
	require.Equal(t, "m", m.Name)
	require.IsType(t, &ast.LetExpr{}, m.Inner)
}

func TestParseBreakContinueUse(t *testing.T) {
	e := parseOK(t, "break")
	br, ok := e.(*ast.BreakExpr)
	require.True(t, ok)
	require.Nil(t, br.With)

	e = parseOK(t, "break 1")
	br, ok = e.(*ast.BreakExpr)
	require.True(t, ok)
	require.NotNil(t, br.With)

	e = parseOK(t, "continue")
	require.IsType(t, &ast.ContinueExpr{}, e)

	e = parseOK(t, "use a.b.c")
	use, ok := e.(*ast.UseExpr)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, use.Imports)
}

func TestParseEmptyBlockYieldsNothing(t *testing.T) {
	e := parseOK(t, "{}")
	block, ok := e.(*ast.BlockExpr)
	require.True(t, ok)
	require.Nil(t, block.Inner)
}

func TestParseSemicolonSequencesAndTrailingYieldsNothing(t *testing.T) {
	e := parseOK(t, "1; 2")
	seq, ok := e.(*ast.SemicolonExpr)
	require.True(t, ok)
	require.IsType(t, &ast.LiteralExpr{}, seq.Left)
	require.IsType(t, &ast.LiteralExpr{}, seq.Right)

	e = parseOK(t, "{ 1; }")
	block := e.(*ast.BlockExpr)
	seq, ok = block.Inner.(*ast.SemicolonExpr)
	require.True(t, ok)
	trailing, ok := seq.Right.(*ast.BlockExpr)
	require.True(t, ok)
	require.Nil(t, trailing.Inner)
}

// TestParseUnterminatedBlockReportsUnmatchedBrace checks that an
// unclosed `{` surfaces as a FatalError with a note on the opener.
func TestParseUnterminatedBlockReportsUnmatchedBrace(t *testing.T) {
	_, diags := parse(t, "if 1 {")
	require.True(t, diags.HasFatal())
	var found *diag.Diagnostic
	for _, d := range diags {
		if d.Severity == diag.FatalError {
			found = d
			break
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Notes, 2)
	require.NotEmpty(t, found.Notes[1].Label)
}

func TestParseBadExprOnUnrecoverableInput(t *testing.T) {
	e, diags := parse(t, "+")
	require.IsType(t, &ast.BadExpr{}, e)
	require.NotEmpty(t, diags)
}

func TestParseUnexpectedTrailingTokenIsReported(t *testing.T) {
	_, diags := parse(t, "1 2")
	require.NotEmpty(t, diags)
}
