// Package runtime holds the VM's operand values and lexical scopes,
// shared between the lowerer (which builds constant tables of these) and
// the VM (which executes against them).
package runtime

import "fmt"

// Kind tags which variant of Value is populated.
type Kind uint8

const (
	KindNum Kind = iota
	KindStr
	KindBool
	KindFn
	KindJumpRef
	KindNothing
	KindScope
	KindMap
)

// Value is the VM's tagged operand type: Num, Str, Bool, Fn(label),
// JumpRef(label), Nothing, Scope(shared ref), and Map (a domain-stack
// enrichment, see SPEC_FULL.md).
type Value struct {
	kind  Kind
	num   float64
	str   string
	bl    bool
	label int
	scope *Scope
	m     *Map
}

func Num(n float64) Value     { return Value{kind: KindNum, num: n} }
func Str(s string) Value      { return Value{kind: KindStr, str: s} }
func Bool(b bool) Value       { return Value{kind: KindBool, bl: b} }
func Fn(label int) Value      { return Value{kind: KindFn, label: label} }
func JumpRef(label int) Value { return Value{kind: KindJumpRef, label: label} }
func Nothing() Value          { return Value{kind: KindNothing} }
func ScopeVal(s *Scope) Value { return Value{kind: KindScope, scope: s} }
func MapVal(m *Map) Value     { return Value{kind: KindMap, m: m} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNum() bool     { return v.kind == KindNum }
func (v Value) IsStr() bool     { return v.kind == KindStr }
func (v Value) IsBool() bool    { return v.kind == KindBool }
func (v Value) IsFn() bool      { return v.kind == KindFn }
func (v Value) IsJumpRef() bool { return v.kind == KindJumpRef }
func (v Value) IsNothing() bool { return v.kind == KindNothing }
func (v Value) IsScope() bool   { return v.kind == KindScope }
func (v Value) IsMap() bool     { return v.kind == KindMap }

func (v Value) Num() float64  { return v.num }
func (v Value) Str() string   { return v.str }
func (v Value) Bool() bool    { return v.bl }
func (v Value) Label() int    { return v.label }
func (v Value) Scope() *Scope { return v.scope }
func (v Value) Map() *Map     { return v.m }

// Equal compares primitive variants by value; Scope and Map compare by
// identity (pointer equality) -- useful for e.g. diagnostics, never
// relied on by any lowering rule.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNum:
		return v.num == other.num
	case KindStr:
		return v.str == other.str
	case KindBool:
		return v.bl == other.bl
	case KindFn:
		return v.label == other.label
	case KindJumpRef:
		return v.label == other.label
	case KindNothing:
		return true
	case KindScope:
		return v.scope == other.scope
	case KindMap:
		return v.m == other.m
	}
	return false
}

// String renders a human-readable form, used by Show, Panic, and the
// disassembler's constant dump.
func (v Value) String() string {
	switch v.kind {
	case KindNum:
		return trimFloat(v.num)
	case KindStr:
		return v.str
	case KindBool:
		if v.bl {
			return "true"
		}
		return "false"
	case KindFn:
		return fmt.Sprintf("<function @ %d>", v.label)
	case KindJumpRef:
		return fmt.Sprintf("<jump ref : %d>", v.label)
	case KindNothing:
		return "<nothing>"
	case KindScope:
		return fmt.Sprintf("<scope %p>", v.scope)
	case KindMap:
		return fmt.Sprintf("<map %p>", v.m)
	default:
		return "<?>"
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
