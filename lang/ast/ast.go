// Package ast defines the expression tree produced by the parser. Every
// node is pure data: a span plus its children, a Walk method for the
// visitor pattern, and nothing else.
package ast

import "github.com/mna/astra/internal/source"

// Expr is implemented by every expression node. The language has no
// separate statement grammar: everything is an expression, including
// sequencing (Semicolon) and declarations (Let, Fn, Module).
type Expr interface {
	Span() source.Span
	Walk(v Visitor)
}

// UnaryOp enumerates prefix unary operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
	ShowOp
	PanicOp
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	case ShowOp:
		return "show"
	case PanicOp:
		return "panic"
	default:
		return "?"
	}
}

// BinaryOp enumerates infix binary operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Exp
	Eq
	Lt
	Gt
	Leq
	Geq
	Neq
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Exp:
		return "**"
	case Eq:
		return "=="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Leq:
		return "<="
	case Geq:
		return ">="
	case Neq:
		return "!="
	default:
		return "?"
	}
}

// LiteralKind tags which kind of literal a LiteralExpr holds.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	CharLiteral
	BoolLiteral
)
