package lower

import (
	"strconv"
	"strings"

	"github.com/mna/astra/internal/runtime"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/token"
)

// Lower walks expr and returns a finished, linked Program. A lowering-time
// inconsistency (an unimplemented form, an unresolved label) is recovered
// here and returned as err rather than left to propagate as a panic.
func Lower(expr ast.Expr) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*ICE); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	b := newBuilder()
	b.lower(expr)
	b.emit(Terminate, 0)

	for i := 0; i < len(b.pending); i++ {
		pf := b.pending[i]
		b.mark(pf.label)
		b.emit(NewScope, 0)
		b.emit(RequireArguments, len(pf.fn.Args))
		for j := len(pf.fn.Args) - 1; j >= 0; j-- {
			b.emit(AssignStore, b.name(pf.fn.Args[j]))
		}
		b.lower(pf.fn.Body)
		b.emit(EndScope, 0)
		b.emit(Swap, 0)
		b.emit(PopJump, 0)
	}

	return b.finish(), nil
}

// lower emits code for e, leaving exactly one value on the operand stack
// (the one-value invariant).
func (b *builder) lower(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		b.lowerLiteral(e)
	case *ast.IdentExpr:
		b.emit(LoadVar, b.name(e.Name))
	case *ast.UnaryExpr:
		b.lower(e.Operand)
		b.emit(unaryOp(e.Op), 0)
	case *ast.BinaryExpr:
		b.lower(e.Left)
		b.lower(e.Right)
		b.emit(binaryOp(e.Op), 0)
	case *ast.SemicolonExpr:
		b.lower(e.Left)
		b.emit(Discard, 0)
		b.lower(e.Right)
	case *ast.BlockExpr:
		b.lowerBlock(e)
	case *ast.ModuleExpr:
		b.lowerModule(e)
	case *ast.IfExpr:
		b.lowerIf(e)
	case *ast.WhileExpr:
		b.lowerWhile(e)
	case *ast.LoopExpr:
		b.lowerLoop(e)
	case *ast.LetExpr:
		b.lowerLet(e)
	case *ast.AssignExpr:
		b.lowerAssign(e)
	case *ast.AssignOpExpr:
		b.lowerAssignOp(e)
	case *ast.PropertyExpr:
		b.lower(e.Object)
		b.emit(AccessProperty, b.name(e.Name))
	case *ast.CallExpr:
		b.lowerCall(e)
	case *ast.FnExpr:
		b.lowerFn(e)
	case *ast.BreakExpr:
		ice(e.Span(), "break not implemented")
	case *ast.ContinueExpr:
		ice(e.Span(), "continue not implemented")
	case *ast.UseExpr:
		ice(e.Span(), "use not implemented")
	case *ast.BadExpr:
		ice(e.Span(), "cannot lower a malformed expression")
	default:
		ice(e.Span(), "unhandled expression type %T", e)
	}
}

func (b *builder) lowerLiteral(e *ast.LiteralExpr) {
	var v runtime.Value
	switch e.Kind {
	case ast.IntLiteral:
		v = runtime.Num(parseIntLiteral(e.Raw, e.IntBase))
	case ast.FloatLiteral:
		v = runtime.Num(parseFloatLiteral(e.Raw))
	case ast.StringLiteral, ast.CharLiteral:
		v = runtime.Str(e.Raw)
	case ast.BoolLiteral:
		v = runtime.Bool(e.Bool)
	default:
		ice(e.Span(), "unhandled literal kind %v", e.Kind)
	}
	b.emit(LoadConst, b.constant(v))
}

func parseIntLiteral(raw string, base token.IntBase) float64 {
	digits := strings.ReplaceAll(raw, "_", "")
	var radix int
	switch base {
	case token.Hexadecimal:
		radix, digits = 16, digits[2:]
	case token.Octal:
		radix, digits = 8, digits[2:]
	case token.Binary:
		radix, digits = 2, digits[2:]
	default:
		radix = 10
	}
	n, _ := strconv.ParseUint(digits, radix, 64)
	return float64(n)
}

func parseFloatLiteral(raw string) float64 {
	digits := strings.ReplaceAll(raw, "_", "")
	f, _ := strconv.ParseFloat(digits, 64)
	return f
}

func unaryOp(op ast.UnaryOp) Opcode {
	switch op {
	case ast.Neg:
		return Negate
	case ast.Not:
		return Invert
	case ast.ShowOp:
		return Show
	case ast.PanicOp:
		return Panic
	default:
		panic("unreachable unary op")
	}
}

func binaryOp(op ast.BinaryOp) Opcode {
	switch op {
	case ast.Add:
		return Add
	case ast.Sub:
		return Subtract
	case ast.Mul:
		return Multiply
	case ast.Div:
		return Divide
	case ast.Exp:
		return RaiseTo
	case ast.Eq:
		return CheckEquality
	case ast.Lt:
		return Lesser
	case ast.Gt:
		return Greater
	case ast.Leq:
		return LesserEq
	case ast.Geq:
		return GreaterEq
	case ast.Neq:
		return CheckInequality
	default:
		panic("unreachable binary op")
	}
}

func (b *builder) lowerBlock(e *ast.BlockExpr) {
	if e.Inner == nil {
		b.emit(PushNothing, 0)
		return
	}
	b.emit(NewScope, 0)
	b.lower(e.Inner)
	b.emit(EndScope, 0)
}

func (b *builder) lowerModule(e *ast.ModuleExpr) {
	b.emit(NewScope, 0)
	if e.Inner != nil {
		b.lower(e.Inner)
	} else {
		b.emit(PushNothing, 0)
	}
	b.emit(EndAndNameScope, b.name(e.Name))
}

func (b *builder) lowerIf(e *ast.IfExpr) {
	b.lower(e.Cond)
	b.emit(Invert, 0)

	if e.Else == nil {
		end := b.newLabel()
		b.condJumpTo(end)
		b.lower(e.Then)
		b.emit(Discard, 0)
		b.mark(end)
		b.emit(PushNothing, 0)
		return
	}

	elseLbl := b.newLabel()
	end := b.newLabel()
	b.condJumpTo(elseLbl)
	b.lower(e.Then)
	b.jumpTo(end)
	b.mark(elseLbl)
	b.lower(e.Else)
	b.mark(end)
}

func (b *builder) lowerWhile(e *ast.WhileExpr) {
	start := b.newLabel()
	end := b.newLabel()
	b.mark(start)
	b.lower(e.Cond)
	b.emit(Invert, 0)
	b.condJumpTo(end)
	b.lower(e.Body)
	b.emit(Discard, 0)
	b.jumpTo(start)
	b.mark(end)
	b.emit(PushNothing, 0)
}

func (b *builder) lowerLoop(e *ast.LoopExpr) {
	start := b.newLabel()
	b.mark(start)
	b.lower(e.Body)
	b.emit(Discard, 0)
	b.jumpTo(start)
	b.emit(PushNothing, 0)
}

func (b *builder) lowerLet(e *ast.LetExpr) {
	if e.Init != nil {
		b.lower(e.Init)
		b.emit(AssignStore, b.name(e.Name))
	}
	b.emit(PushNothing, 0)
}

// lowerAssign emits nothing for a non-identifier target, matching the
// original's Identifier-only guard. The parser now rejects a
// non-identifier assignment target before it ever reaches here, so this
// guard is unreachable in practice; left in place as a cheap backstop.
func (b *builder) lowerAssign(e *ast.AssignExpr) {
	ident, ok := e.Target.(*ast.IdentExpr)
	if !ok {
		return
	}
	b.lower(e.Value)
	b.emit(Store, b.name(ident.Name))
	b.emit(PushNothing, 0)
}

func (b *builder) lowerAssignOp(e *ast.AssignOpExpr) {
	ident, ok := e.Target.(*ast.IdentExpr)
	if !ok {
		return
	}
	nameIdx := b.name(ident.Name)
	b.emit(LoadVar, nameIdx)
	b.lower(e.Value)
	b.emit(binaryOp(e.Op), 0)
	b.emit(Store, nameIdx)
	b.emit(PushNothing, 0)
}

func (b *builder) lowerCall(e *ast.CallExpr) {
	ret := b.newLabel()
	b.jumpRefTo(ret)
	for _, arg := range e.Args {
		b.lower(arg)
	}
	b.lower(e.Callee)
	b.emit(Call, 0)
	b.mark(ret)
}

func (b *builder) lowerFn(e *ast.FnExpr) {
	entry := b.newLabel()
	b.pending = append(b.pending, pendingFn{label: entry, fn: e})

	constIdx := b.fnConstant(entry)
	b.emit(LoadConst, constIdx)
	b.emit(Duplicate, 0)
	b.emit(AssignStore, b.name(e.Name))
}
