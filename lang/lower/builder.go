// Package lower walks an expression tree and emits a flat instruction
// stream for the VM to execute, following the one-value invariant: every
// expression's code leaves exactly one value on the operand stack.
package lower

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/mna/astra/internal/runtime"
	"github.com/mna/astra/internal/source"
	"github.com/mna/astra/lang/ast"
)

// Program is a finished, linked instruction stream ready for execution.
type Program struct {
	Instructions []Instruction
	Constants    []runtime.Value
	Names        []string
}

// ICE is raised for a lowering-time inconsistency: either a form the
// lowerer deliberately does not implement (break/continue/use) or an
// internal bug (an unresolved label at link time). It is always a panic
// value, recovered by Lower at the package boundary.
type ICE struct {
	Span source.Span
	Msg  string
}

func (e *ICE) Error() string { return fmt.Sprintf("internal compiler error: %s", e.Msg) }

func ice(sp source.Span, format string, args ...any) {
	panic(&ICE{Span: sp, Msg: fmt.Sprintf(format, args...)})
}

type fnPatch struct {
	constIdx int
	label    int
}

// builder accumulates instructions, constants, and names for a single
// program. Function bodies are not lowered at the point their `fn`
// expression is encountered; they are queued and appended after the main
// stream (prefixed by Terminate), the flat-builder equivalent of the
// original's nested per-function child builders.
type builder struct {
	instrs    []Instruction
	constants []runtime.Value
	names     []string
	nameIdx   map[string]int

	nextLabel int
	fnPatches []fnPatch
	pending   []pendingFn
}

type pendingFn struct {
	label int
	fn    *ast.FnExpr
}

func newBuilder() *builder {
	return &builder{nameIdx: make(map[string]int)}
}

func (b *builder) newLabel() int {
	b.nextLabel++
	return b.nextLabel
}

func (b *builder) emit(op Opcode, arg int) int {
	idx := len(b.instrs)
	b.instrs = append(b.instrs, Instruction{Op: op, Arg: arg})
	return idx
}

func (b *builder) mark(label int) { b.emit(JumpTarget, label) }

func (b *builder) jumpTo(label int)     { b.emit(JumpTo, label) }
func (b *builder) condJumpTo(label int) { b.emit(ConditionalJumpTo, label) }
func (b *builder) jumpRefTo(label int)  { b.emit(JumpRefTo, label) }

// constant deduplicates v by structural equality against the existing
// table and returns its index.
func (b *builder) constant(v runtime.Value) int {
	if i := slices.IndexFunc(b.constants, func(c runtime.Value) bool { return c.Equal(v) }); i >= 0 {
		return i
	}
	b.constants = append(b.constants, v)
	return len(b.constants) - 1
}

// fnConstant reserves a constant slot for a function value whose label is
// not yet resolved to an instruction index; the slot is patched in place
// during finish's link pass.
func (b *builder) fnConstant(label int) int {
	idx := len(b.constants)
	b.constants = append(b.constants, runtime.Fn(0))
	b.fnPatches = append(b.fnPatches, fnPatch{constIdx: idx, label: label})
	return idx
}

// name deduplicates name by exact string match and returns its index.
func (b *builder) name(n string) int {
	if i, ok := b.nameIdx[n]; ok {
		return i
	}
	idx := len(b.names)
	b.names = append(b.names, n)
	b.nameIdx[n] = idx
	return idx
}

// finish runs the peephole and link passes and returns the finished
// Program.
func (b *builder) finish() *Program {
	peepholed := peephole(b.instrs)
	linked, labelPos := stripLabels(peepholed)
	resolve(linked, labelPos)

	for _, p := range b.fnPatches {
		pos, ok := labelPos[p.label]
		if !ok {
			ice(source.Span{}, "unresolved function label %d", p.label)
		}
		b.constants[p.constIdx] = runtime.Fn(pos)
	}

	return &Program{Instructions: linked, Constants: b.constants, Names: b.names}
}

// peephole removes every PushNothing immediately followed by Discard.
func peephole(in []Instruction) []Instruction {
	out := make([]Instruction, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i].Op == PushNothing && i+1 < len(in) && in[i+1].Op == Discard {
			i++ // skip both
			continue
		}
		out = append(out, in[i])
	}
	return out
}

// stripLabels drops JumpTarget markers, recording each label's resolved
// position as the index of the next real instruction in the output.
func stripLabels(in []Instruction) ([]Instruction, map[int]int) {
	out := make([]Instruction, 0, len(in))
	labelPos := make(map[int]int)
	for _, instr := range in {
		if instr.Op == JumpTarget {
			labelPos[instr.Arg] = len(out)
			continue
		}
		out = append(out, instr)
	}
	return out, labelPos
}

// resolve rewrites the symbolic pre-link opcodes in place to their
// concrete, instruction-index-addressed forms.
func resolve(instrs []Instruction, labelPos map[int]int) {
	for i, instr := range instrs {
		switch instr.Op {
		case JumpTo:
			instrs[i] = Instruction{Op: Jump, Arg: mustResolve(labelPos, instr.Arg)}
		case ConditionalJumpTo:
			instrs[i] = Instruction{Op: ConditionalJump, Arg: mustResolve(labelPos, instr.Arg)}
		case JumpRefTo:
			instrs[i] = Instruction{Op: PushJumpRef, Arg: mustResolve(labelPos, instr.Arg)}
		}
	}
}

func mustResolve(labelPos map[int]int, label int) int {
	pos, ok := labelPos[label]
	if !ok {
		ice(source.Span{}, "unresolved jump label %d", label)
	}
	return pos
}
