// Package disasm renders a lowered Program as human-readable text,
// grounded on the textual disassembly formats of both the original
// source (`show_program`) and the corpus (`lang/compiler/asm.go`'s
// `Dasm`): a constants section, a names section, then one line per
// instruction with its resolved index as a margin comment.
package disasm

import (
	"fmt"
	"strings"

	"github.com/mna/astra/lang/lower"
)

// Dasm renders prog's constants, names, and instruction stream.
func Dasm(prog *lower.Program) string {
	var b strings.Builder

	b.WriteString("constants:\n")
	for i, c := range prog.Constants {
		fmt.Fprintf(&b, "\t%03d  %s\n", i, c)
	}

	b.WriteString("names:\n")
	for i, n := range prog.Names {
		fmt.Fprintf(&b, "\t%03d  %s\n", i, n)
	}

	b.WriteString("code:\n")
	for i, instr := range prog.Instructions {
		fmt.Fprintf(&b, "\t%04d  %-20s %s\n", i, instr.Op, operand(prog, instr))
	}

	return b.String()
}

// operand renders an instruction's argument with context: the resolved
// constant/name it refers to when that's knowable, otherwise the bare
// integer.
func operand(prog *lower.Program, instr lower.Instruction) string {
	switch instr.Op {
	case lower.LoadConst:
		if instr.Arg < len(prog.Constants) {
			return fmt.Sprintf("%d  ; %s", instr.Arg, prog.Constants[instr.Arg])
		}
	case lower.LoadVar, lower.Store, lower.AssignStore, lower.AccessProperty, lower.EndAndNameScope:
		if instr.Arg < len(prog.Names) {
			return fmt.Sprintf("%d  ; %q", instr.Arg, prog.Names[instr.Arg])
		}
	case lower.Jump, lower.ConditionalJump, lower.PushJumpRef:
		return fmt.Sprintf("-> %04d", instr.Arg)
	case lower.Discard, lower.PushNothing, lower.Duplicate, lower.Swap, lower.Terminate,
		lower.Call, lower.Panic, lower.Negate, lower.Add, lower.Subtract, lower.Multiply,
		lower.Divide, lower.Invert, lower.RaiseTo, lower.CheckEquality, lower.Lesser,
		lower.Greater, lower.LesserEq, lower.GreaterEq, lower.CheckInequality, lower.Show,
		lower.NewScope, lower.EndScope, lower.PopJump:
		return ""
	}
	return fmt.Sprintf("%d", instr.Arg)
}
