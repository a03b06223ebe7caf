package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/lower"
	"github.com/mna/astra/lang/parser"
)

func lowerSrc(t *testing.T, src string) *lower.Program {
	t.Helper()
	loader := source.NewLoader()
	id := loader.AddBytes("<test>", []byte(src))
	expr, diags := parser.Parse(loader, id)
	require.Empty(t, diags, "src=%q", src)
	prog, err := lower.Lower(expr)
	require.NoError(t, err)
	return prog
}

func ops(prog *lower.Program) []lower.Opcode {
	out := make([]lower.Opcode, len(prog.Instructions))
	for i, instr := range prog.Instructions {
		out[i] = instr.Op
	}
	return out
}

func TestLowerLiteralEmitsSingleLoadConst(t *testing.T) {
	prog := lowerSrc(t, "42")
	require.Equal(t, []lower.Opcode{lower.LoadConst, lower.Terminate}, ops(prog))
	require.Len(t, prog.Constants, 1)
	require.True(t, prog.Constants[0].IsNum())
	require.Equal(t, 42.0, prog.Constants[0].Num())
}

func TestLowerBinaryExprOperandOrder(t *testing.T) {
	prog := lowerSrc(t, "1 - 2")
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.LoadConst, lower.Subtract, lower.Terminate,
	}, ops(prog))
	require.Equal(t, 1.0, prog.Constants[0].Num())
	require.Equal(t, 2.0, prog.Constants[1].Num())
}

func TestLowerSemicolonDiscardsLeft(t *testing.T) {
	prog := lowerSrc(t, "1; 2")
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.Discard, lower.LoadConst, lower.Terminate,
	}, ops(prog))
}

func TestLowerEmptyBlockPushesNothing(t *testing.T) {
	prog := lowerSrc(t, "{}")
	require.Equal(t, []lower.Opcode{lower.PushNothing, lower.Terminate}, ops(prog))
}

func TestLowerNonEmptyBlockScopesInnerExpr(t *testing.T) {
	prog := lowerSrc(t, "{ 1 }")
	require.Equal(t, []lower.Opcode{
		lower.NewScope, lower.LoadConst, lower.EndScope, lower.Terminate,
	}, ops(prog))
}

func TestLowerLetWithInit(t *testing.T) {
	prog := lowerSrc(t, "let x = 1")
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.AssignStore, lower.PushNothing, lower.Terminate,
	}, ops(prog))
}

func TestLowerLetWithoutInitSkipsStore(t *testing.T) {
	prog := lowerSrc(t, "let x")
	require.Equal(t, []lower.Opcode{lower.PushNothing, lower.Terminate}, ops(prog))
}

// The let's PushNothing and the semicolon's Discard are an adjacent pair
// the peephole pass removes entirely, so neither survives to the final
// program.
func TestLowerAssignAndAssignOp(t *testing.T) {
	prog := lowerSrc(t, "let x; x = 1")
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.Store, lower.PushNothing,
		lower.Terminate,
	}, ops(prog))

	prog = lowerSrc(t, "let x; x += 1")
	require.Equal(t, []lower.Opcode{
		lower.LoadVar, lower.LoadConst, lower.Add, lower.Store, lower.PushNothing,
		lower.Terminate,
	}, ops(prog))
}

// TestLowerIfWithoutElse checks that the produced jump is properly linked
// (no JumpTo/ConditionalJumpTo/JumpTarget survive finish()) and targets an
// in-range instruction.
func TestLowerIfWithoutElse(t *testing.T) {
	prog := lowerSrc(t, "if true { 1 }")
	for _, instr := range prog.Instructions {
		require.NotEqual(t, lower.JumpTo, instr.Op)
		require.NotEqual(t, lower.ConditionalJumpTo, instr.Op)
		require.NotEqual(t, lower.JumpTarget, instr.Op)
	}
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.Invert, lower.ConditionalJump,
		lower.NewScope, lower.LoadConst, lower.EndScope,
		lower.Discard, lower.PushNothing, lower.Terminate,
	}, ops(prog))
	condJump := prog.Instructions[2]
	require.True(t, condJump.Arg >= 0 && condJump.Arg < len(prog.Instructions))
}

func TestLowerIfWithElse(t *testing.T) {
	prog := lowerSrc(t, "if true { 1 } else { 2 }")
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.Invert, lower.ConditionalJump,
		lower.NewScope, lower.LoadConst, lower.EndScope,
		lower.Jump,
		lower.NewScope, lower.LoadConst, lower.EndScope,
		lower.Terminate,
	}, ops(prog))
}

func TestLowerWhileLoopsBackToCondition(t *testing.T) {
	prog := lowerSrc(t, "while true { 1 }")
	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.Invert, lower.ConditionalJump,
		lower.NewScope, lower.LoadConst, lower.EndScope,
		lower.Discard, lower.Jump, lower.PushNothing, lower.Terminate,
	}, ops(prog))
	jumpBack := prog.Instructions[7]
	require.Equal(t, 0, jumpBack.Arg)
}

func TestLowerModuleNamesTheScope(t *testing.T) {
	prog := lowerSrc(t, "module m { let k = 1 }")
	require.Equal(t, []lower.Opcode{
		lower.NewScope,
		lower.LoadConst, lower.AssignStore, lower.PushNothing,
		lower.EndAndNameScope, lower.Terminate,
	}, ops(prog))
	require.Contains(t, prog.Names, "m")
	require.Contains(t, prog.Names, "k")
}

func TestLowerCallPushesJumpRefThenArgsThenCallee(t *testing.T) {
	prog := lowerSrc(t, "f(1, 2)")
	require.Equal(t, []lower.Opcode{
		lower.PushJumpRef,
		lower.LoadConst, lower.LoadConst,
		lower.LoadVar,
		lower.Call,
		lower.Terminate,
	}, ops(prog))
}

// TestLowerFnIsQueuedAfterMainTerminate checks the deferred-fn-body queue:
// the function's own body is only ever reachable by a Call, never by
// falling through the main stream's Terminate.
func TestLowerFnIsQueuedAfterMainTerminate(t *testing.T) {
	prog := lowerSrc(t, "fn f(a) { a }")
	var terminateIdx int
	for i, instr := range prog.Instructions {
		if instr.Op == lower.Terminate {
			terminateIdx = i
			break
		}
	}
	require.Less(t, terminateIdx, len(prog.Instructions)-1, "function body must follow Terminate")

	require.Equal(t, []lower.Opcode{
		lower.LoadConst, lower.Duplicate, lower.AssignStore, lower.Terminate,
		lower.NewScope, lower.RequireArguments, lower.AssignStore,
		lower.NewScope, lower.LoadVar, lower.EndScope,
		lower.EndScope, lower.Swap, lower.PopJump,
	}, ops(prog))

	require.Len(t, prog.Constants, 1)
	require.True(t, prog.Constants[0].IsFn())
	require.Equal(t, 4, prog.Constants[0].Label())
}

func TestLowerBreakContinueUseAreInternalCompilerErrors(t *testing.T) {
	cases := []string{"break", "continue", "use a"}
	for _, src := range cases {
		loader := source.NewLoader()
		id := loader.AddBytes("<test>", []byte(src))
		expr, diags := parser.Parse(loader, id)
		require.Empty(t, diags, "src=%q", src)
		_, err := lower.Lower(expr)
		require.Error(t, err, "src=%q", src)
		var ice *lower.ICE
		require.ErrorAs(t, err, &ice, "src=%q", src)
	}
}
