package ast_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/parser"
)

// TestWalkVisitsEveryNodeWithValidSpan parses a program exercising every
// node kind and walks it with ast.Walk, checking the byte-offset span
// invariant (start <= end, same file throughout) for every node in the
// tree, not just the root.
func TestWalkVisitsEveryNodeWithValidSpan(t *testing.T) {
	src := `let x = 5;
x += 1;
fn f(a, b) { a + b };
if x < 10 { show f(x, 1) } else { show 0 };
while x < 3 { x = x + 1 };
loop { break 1 };
module m { let k = 7 };
show m.k;
use a.b;
!true;
-x;
continue;
panic 'oops'`

	loader := source.NewLoader()
	id := loader.AddBytes("<test>", []byte(src))
	expr, diags := parser.Parse(loader, id)
	require.Empty(t, diags)

	seen := make(map[string]int)
	ast.Walk(ast.VisitorFunc(func(n ast.Expr) bool {
		sp := n.Span()
		require.LessOrEqual(t, sp.Start, sp.End, "%T span %v", n, sp)
		require.Equal(t, id, sp.FileID, "%T span %v", n, sp)
		seen[fmt.Sprintf("%T", n)]++
		return true
	}), expr)

	for _, kind := range []string{
		"*ast.LiteralExpr", "*ast.IdentExpr", "*ast.UnaryExpr", "*ast.BinaryExpr",
		"*ast.SemicolonExpr", "*ast.BlockExpr", "*ast.ModuleExpr", "*ast.CallExpr",
		"*ast.PropertyExpr", "*ast.IfExpr", "*ast.LoopExpr", "*ast.WhileExpr",
		"*ast.BreakExpr", "*ast.ContinueExpr", "*ast.AssignExpr", "*ast.AssignOpExpr",
		"*ast.LetExpr", "*ast.FnExpr", "*ast.UseExpr",
	} {
		require.Greater(t, seen[kind], 0, "Walk never visited a %s node", kind)
	}
}

// TestWalkStopsDescendingWhenVisitorReturnsNil checks that returning a nil
// Visitor from Visit (via VisitorFunc returning false) prunes that
// subtree: a binary expression's operands must not be visited.
func TestWalkStopsDescendingWhenVisitorReturnsNil(t *testing.T) {
	loader := source.NewLoader()
	id := loader.AddBytes("<test>", []byte("1 + 2"))
	expr, diags := parser.Parse(loader, id)
	require.Empty(t, diags)

	var visits int
	ast.Walk(ast.VisitorFunc(func(n ast.Expr) bool {
		visits++
		return false
	}), expr)
	require.Equal(t, 1, visits, "visitor should have pruned the binary expr's operands")
}
