package parser

import (
	"github.com/mna/astra/internal/diag"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
	"github.com/mna/astra/lang/token"
)

// Precedence levels, lowest to highest binding power. Only levelAssign
// participates in the right-associativity special case; every other
// binary family, ';' included, is strictly left-associative.
const (
	levelSemicolon = 1
	// levelShowArg is where show/panic parse their operand: looser than
	// every binary operator (including assignment) so they swallow the
	// whole expression that follows, but still stop at ';'.
	levelShowArg  = levelSemicolon + 1
	levelBreakArg = 5
	levelAssign   = 6
	levelCompare   = 10
	levelAddSub    = 20
	levelMulDivExp = 30
	levelUnary     = 40
	levelCall      = 50
	levelProperty  = 60
	levelPrimary   = 255
)

type opInfo struct {
	level      int
	assignOp   bool // compound assignment, carries a BinaryOp
	binOp      ast.BinaryOp
	rightAssoc bool
}

var binops = map[token.Kind]opInfo{
	token.SEMICOLON: {level: levelSemicolon},

	token.ASSIGN:     {level: levelAssign, rightAssoc: true},
	token.PLUSEQ:     {level: levelAssign, rightAssoc: true, assignOp: true, binOp: ast.Add},
	token.MINUSEQ:    {level: levelAssign, rightAssoc: true, assignOp: true, binOp: ast.Sub},
	token.STAREQ:     {level: levelAssign, rightAssoc: true, assignOp: true, binOp: ast.Mul},
	token.SLASHEQ:    {level: levelAssign, rightAssoc: true, assignOp: true, binOp: ast.Div},
	token.STARSTAREQ: {level: levelAssign, rightAssoc: true, assignOp: true, binOp: ast.Exp},

	token.LT:     {level: levelCompare, binOp: ast.Lt},
	token.GT:     {level: levelCompare, binOp: ast.Gt},
	token.LE:     {level: levelCompare, binOp: ast.Leq},
	token.GE:     {level: levelCompare, binOp: ast.Geq},
	token.EQEQ:   {level: levelCompare, binOp: ast.Eq},
	token.BANGEQ: {level: levelCompare, binOp: ast.Neq},

	token.PLUS:  {level: levelAddSub, binOp: ast.Add},
	token.MINUS: {level: levelAddSub, binOp: ast.Sub},

	token.STAR:     {level: levelMulDivExp, binOp: ast.Mul},
	token.SLASH:    {level: levelMulDivExp, binOp: ast.Div},
	token.STARSTAR: {level: levelMulDivExp, binOp: ast.Exp},
}

// parseExpr implements the Pratt loop: it reads a primary (with its
// postfix call/property chain already resolved, since those bind tighter
// than anything in the table) then repeatedly consumes an infix operator
// whose precedence exceeds level -- or equals level when level is
// levelAssign, which is what makes assignment right-associative.
func (p *parser) parseExpr(level int) ast.Expr {
	left := p.parsePrimary()
	left = p.parsePostfix(left)

	for {
		info, ok := binops[p.tok]
		if !ok {
			break
		}
		cont := info.level > level
		if !cont && level == levelAssign && info.level >= level {
			cont = true
		}
		if !cont {
			break
		}

		switch {
		case p.tok == token.SEMICOLON:
			start := left.Span()
			p.advance()
			// a trailing ';' with nothing after it: right side is Nothing,
			// matching the empty-block-yields-Nothing rule.
			if p.tok == token.EOF || p.tok == token.RBRACE {
				left = &ast.SemicolonExpr{Sp: start, Left: left, Right: &ast.BlockExpr{Sp: p.val.Span}}
				continue
			}
			right := p.parseExpr(info.level)
			left = &ast.SemicolonExpr{Sp: mergeSpan(start, right.Span()), Left: left, Right: right}

		case p.tok == token.ASSIGN:
			start := left.Span()
			target := left
			p.advance()
			right := p.parseExpr(levelAssign)
			sp := mergeSpan(start, right.Span())
			if !p.requireAssignTarget(target) {
				left = &ast.BadExpr{Sp: sp}
				break
			}
			left = &ast.AssignExpr{Sp: sp, Target: target, Value: right}

		case info.assignOp:
			start := left.Span()
			target := left
			p.advance()
			right := p.parseExpr(levelAssign)
			sp := mergeSpan(start, right.Span())
			if !p.requireAssignTarget(target) {
				left = &ast.BadExpr{Sp: sp}
				break
			}
			left = &ast.AssignOpExpr{Sp: sp, Target: target, Op: info.binOp, Value: right}

		default:
			start := left.Span()
			p.advance()
			right := p.parseExpr(info.level)
			left = &ast.BinaryExpr{Sp: mergeSpan(start, right.Span()), Op: info.binOp, Left: left, Right: right}
		}
	}
	return left
}

func mergeSpan(a, b source.Span) source.Span { return source.Merge(a, b) }

// requireAssignTarget reports whether target is a valid assignment
// target (an identifier), recording a diagnostic otherwise. No grammar
// path reaches the lowerer with a non-identifier Assign/AssignOp target:
// this is the only place one could be built.
func (p *parser) requireAssignTarget(target ast.Expr) bool {
	if _, ok := target.(*ast.IdentExpr); ok {
		return true
	}
	p.errorf(target.Span(), "E0103", diag.Error, "invalid assignment target, expected an identifier")
	return false
}
