package lower

import "fmt"

// Opcode identifies a VM instruction. The groupings and the iota-block
// convention mirror the corpus's own opcode table shape
// (lang/compiler/opcode.go): stack operations, control flow, value
// operations, scoping, then the symbolic pre-link forms that never reach
// a finished Program.
type Opcode uint8

const ( //nolint:revive
	// stack operations
	LoadConst Opcode = iota
	Discard
	PushNothing
	Duplicate
	PushJumpRef
	Swap

	// control flow
	Jump
	ConditionalJump
	Terminate
	RequireArguments
	Call
	Panic

	// value operations
	Negate
	Add
	Subtract
	Multiply
	Divide
	Invert
	RaiseTo
	CheckEquality
	Lesser
	Greater
	LesserEq
	GreaterEq
	CheckInequality
	Show
	AccessProperty

	// scoping & variables
	NewScope
	LoadVar
	Store
	AssignStore
	EndScope
	EndAndNameScope

	// functions
	PopJump

	// symbolic pre-link forms: resolved away by (*builder).finish and
	// never present in a finished Program.
	JumpTo
	ConditionalJumpTo
	JumpTarget
	JumpRefTo

	// debug breadcrumbs: no-op at runtime
	FunctionTag
	CodegenHelper

	maxOpcode
)

var opcodeNames = [...]string{
	LoadConst:         "load-const",
	Discard:           "discard",
	PushNothing:       "push-nothing",
	Duplicate:         "duplicate",
	PushJumpRef:       "push-jump-ref",
	Swap:              "swap",
	Jump:              "jump",
	ConditionalJump:   "conditional-jump",
	Terminate:         "terminate",
	RequireArguments:  "require-arguments",
	Call:              "call",
	Panic:             "panic",
	Negate:            "negate",
	Add:               "add",
	Subtract:          "subtract",
	Multiply:          "multiply",
	Divide:            "divide",
	Invert:            "invert",
	RaiseTo:           "raise-to",
	CheckEquality:     "check-equality",
	Lesser:            "lesser",
	Greater:           "greater",
	LesserEq:          "lesser-eq",
	GreaterEq:         "greater-eq",
	CheckInequality:   "check-inequality",
	Show:              "show",
	AccessProperty:    "access-property",
	NewScope:          "new-scope",
	LoadVar:           "load-var",
	Store:             "store",
	AssignStore:       "assign-store",
	EndScope:          "end-scope",
	EndAndNameScope:   "end-and-name-scope",
	PopJump:           "pop-jump",
	JumpTo:            "jump-to",
	ConditionalJumpTo: "conditional-jump-to",
	JumpTarget:        "jump-target",
	JumpRefTo:         "jump-ref-to",
	FunctionTag:       "function-tag",
	CodegenHelper:     "codegen-helper",
}

func (op Opcode) String() string {
	if op < maxOpcode {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// Instruction is a single emitted instruction. Arg's meaning depends on
// Op: a constant-table index, a name-table index, an instruction index
// (once linked), or a symbolic label (before linking).
type Instruction struct {
	Op  Opcode
	Arg int
}
