package ast

import (
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/token"
)

// LiteralExpr is a literal token reified as an expression node.
type LiteralExpr struct {
	Sp      source.Span
	Kind    LiteralKind
	Raw     string
	IntBase token.IntBase
	Bool    bool
}

func (e *LiteralExpr) Span() source.Span { return e.Sp }
func (e *LiteralExpr) Walk(v Visitor)    { v.Visit(e) }

// IdentExpr is a bare name reference.
type IdentExpr struct {
	Sp   source.Span
	Name string
}

func (e *IdentExpr) Span() source.Span { return e.Sp }
func (e *IdentExpr) Walk(v Visitor)    { v.Visit(e) }

// UnaryExpr applies a prefix operator to Operand.
type UnaryExpr struct {
	Sp      source.Span
	Op      UnaryOp
	Operand Expr
}

func (e *UnaryExpr) Span() source.Span { return e.Sp }
func (e *UnaryExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Operand.Walk(w)
	}
}

// BinaryExpr applies an infix operator to Left and Right, evaluated in
// that order.
type BinaryExpr struct {
	Sp          source.Span
	Op          BinaryOp
	Left, Right Expr
}

func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *BinaryExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Left.Walk(w)
		e.Right.Walk(w)
	}
}

// SemicolonExpr sequences Left then Right, discarding Left's value.
type SemicolonExpr struct {
	Sp          source.Span
	Left, Right Expr
}

func (e *SemicolonExpr) Span() source.Span { return e.Sp }
func (e *SemicolonExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Left.Walk(w)
		e.Right.Walk(w)
	}
}

// BlockExpr is a scoped expression; Inner is nil for an empty block,
// which yields Nothing.
type BlockExpr struct {
	Sp    source.Span
	Inner Expr
}

func (e *BlockExpr) Span() source.Span { return e.Sp }
func (e *BlockExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil && e.Inner != nil {
		e.Inner.Walk(w)
	}
}

// ModuleExpr evaluates Inner (if any) in a fresh scope, then stores that
// scope in the enclosing scope under Name.
type ModuleExpr struct {
	Sp    source.Span
	Name  string
	Inner Expr
}

func (e *ModuleExpr) Span() source.Span { return e.Sp }
func (e *ModuleExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil && e.Inner != nil {
		e.Inner.Walk(w)
	}
}

// CallExpr calls Callee with Args, evaluated left to right before Callee.
type CallExpr struct {
	Sp     source.Span
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Span() source.Span { return e.Sp }
func (e *CallExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		for _, a := range e.Args {
			a.Walk(w)
		}
		e.Callee.Walk(w)
	}
}

// PropertyExpr reads a named field out of a scope value.
type PropertyExpr struct {
	Sp     source.Span
	Object Expr
	Name   string
}

func (e *PropertyExpr) Span() source.Span { return e.Sp }
func (e *PropertyExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Object.Walk(w)
	}
}

// IfExpr is a value-producing conditional. Else is nil when there is no
// else/elseif branch.
type IfExpr struct {
	Sp         source.Span
	Cond       Expr
	Then, Else Expr
}

func (e *IfExpr) Span() source.Span { return e.Sp }
func (e *IfExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Cond.Walk(w)
		e.Then.Walk(w)
		if e.Else != nil {
			e.Else.Walk(w)
		}
	}
}

// LoopExpr repeats Body unconditionally; it has no surface-syntax exit
// other than a (currently unlowered) break.
type LoopExpr struct {
	Sp   source.Span
	Body Expr
}

func (e *LoopExpr) Span() source.Span { return e.Sp }
func (e *LoopExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Body.Walk(w)
	}
}

// WhileExpr repeats Body while Cond holds.
type WhileExpr struct {
	Sp         source.Span
	Cond, Body Expr
}

func (e *WhileExpr) Span() source.Span { return e.Sp }
func (e *WhileExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Cond.Walk(w)
		e.Body.Walk(w)
	}
}

// BreakExpr and ContinueExpr parse but are not yet lowered: reaching
// either in the lowerer is an ICE, not a lowered instruction.
type BreakExpr struct {
	Sp   source.Span
	With Expr // nil when bare
}

func (e *BreakExpr) Span() source.Span { return e.Sp }
func (e *BreakExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil && e.With != nil {
		e.With.Walk(w)
	}
}

type ContinueExpr struct {
	Sp source.Span
}

func (e *ContinueExpr) Span() source.Span { return e.Sp }
func (e *ContinueExpr) Walk(v Visitor)    { v.Visit(e) }

// AssignExpr stores Value under Target's name. Per the open question on
// non-identifier LHS, Target is always an *IdentExpr in practice; the
// lowerer no-ops for anything else, since no grammar path builds one.
type AssignExpr struct {
	Sp           source.Span
	Target       Expr
	Value        Expr
}

func (e *AssignExpr) Span() source.Span { return e.Sp }
func (e *AssignExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Target.Walk(w)
		e.Value.Walk(w)
	}
}

// AssignOpExpr is a compound assignment: Target = Target Op Value.
type AssignOpExpr struct {
	Sp     source.Span
	Target Expr
	Op     BinaryOp
	Value  Expr
}

func (e *AssignOpExpr) Span() source.Span { return e.Sp }
func (e *AssignOpExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Target.Walk(w)
		e.Value.Walk(w)
	}
}

// LetExpr declares Name, optionally initialized by Init.
type LetExpr struct {
	Sp   source.Span
	Name string
	Init Expr // nil when uninitialized
}

func (e *LetExpr) Span() source.Span { return e.Sp }
func (e *LetExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil && e.Init != nil {
		e.Init.Walk(w)
	}
}

// FnExpr declares a named function value: Name = fn(Args) { Body }.
type FnExpr struct {
	Sp   source.Span
	Name string
	Args []string
	Body Expr
}

func (e *FnExpr) Span() source.Span { return e.Sp }
func (e *FnExpr) Walk(v Visitor) {
	if w := v.Visit(e); w != nil {
		e.Body.Walk(w)
	}
}

// UseExpr has AST representation per the open questions but is rejected
// with an ICE at lowering time.
type UseExpr struct {
	Sp      source.Span
	Imports []string
}

func (e *UseExpr) Span() source.Span { return e.Sp }
func (e *UseExpr) Walk(v Visitor)    { v.Visit(e) }

// BadExpr marks a span the parser could not make sense of, produced
// during panic-mode error recovery.
type BadExpr struct {
	Sp source.Span
}

func (e *BadExpr) Span() source.Span { return e.Sp }
func (e *BadExpr) Walk(v Visitor)    { v.Visit(e) }
