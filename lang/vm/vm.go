// Package vm executes a lowered Program: a single flat instruction
// stream, an operand stack, and a stack of lexical scopes.
package vm

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mna/astra/internal/runtime"
	"github.com/mna/astra/lang/lower"
)

// VM is a single-threaded stack interpreter. Construct one per Program
// run; it is not safe to reuse across concurrent Run calls.
type VM struct {
	program *lower.Program

	ip     int
	stack  []runtime.Value
	scopes []*runtime.Scope

	stdout io.Writer
	trace  func(format string, args ...any)

	steps    uint64
	maxSteps uint64
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdout overrides where Show renders its output (default
// os.Stdout). Panic writes nothing itself; Run returns a PanicError.
func WithStdout(w io.Writer) Option { return func(vm *VM) { vm.stdout = w } }

// WithTrace installs a callback invoked once per dispatched instruction,
// used by the CLI's --trace flag. Nil (the default) disables tracing.
func WithTrace(fn func(format string, args ...any)) Option {
	return func(vm *VM) { vm.trace = fn }
}

// WithMaxSteps bounds execution to at most n dispatched instructions,
// guarding an accidental infinite `loop` in interactive use. 0 (the
// default) means unbounded.
func WithMaxSteps(n uint64) Option { return func(vm *VM) { vm.maxSteps = n } }

// New returns a VM ready to run prog, with one empty global scope already
// pushed (the scope stack's permanent bottom element).
func New(prog *lower.Program, opts ...Option) *VM {
	vm := &VM{
		program: prog,
		stdout:  os.Stdout,
		scopes:  []*runtime.Scope{runtime.NewScope()},
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *VM) push(v runtime.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (runtime.Value, error) {
	if len(vm.stack) == 0 {
		return runtime.Value{}, vm.fatalf("operand stack underflow")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

// Run executes the program to completion: a Terminate instruction, a
// Panic, or a fatal RuntimeError. ctx is checked between instructions so
// a runaway `loop`/`while` can be cancelled from outside.
func (vm *VM) Run(ctx context.Context) error {
	instrs := vm.program.Instructions
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		vm.steps++
		if vm.maxSteps != 0 && vm.steps > vm.maxSteps {
			return vm.fatalf("exceeded maximum step count (%d)", vm.maxSteps)
		}
		if vm.ip < 0 || vm.ip >= len(instrs) {
			return vm.fatalf("ip out of range")
		}

		instr := instrs[vm.ip]
		if vm.trace != nil {
			vm.trace("ip=%-4d %-20s arg=%d stack=%d", vm.ip, instr.Op, instr.Arg, len(vm.stack))
		}

		jumped, err := vm.step(instr)
		if err != nil {
			if err == errTerminate {
				return nil
			}
			return err
		}
		if !jumped {
			vm.ip++
		}
	}
}

var errTerminate = fmt.Errorf("terminate")

// step dispatches a single instruction. jumped reports whether the
// instruction set vm.ip explicitly (Jump, a taken ConditionalJump, Call,
// PopJump), in which case Run must not also auto-increment it.
func (vm *VM) step(instr lower.Instruction) (jumped bool, err error) {
	switch instr.Op {
	case lower.LoadConst:
		vm.push(vm.program.Constants[instr.Arg])

	case lower.Discard:
		_, err = vm.pop()

	case lower.PushNothing:
		vm.push(runtime.Nothing())

	case lower.Duplicate:
		var v runtime.Value
		if v, err = vm.pop(); err == nil {
			vm.push(v)
			vm.push(v)
		}

	case lower.PushJumpRef:
		vm.push(runtime.JumpRef(instr.Arg))

	case lower.Swap:
		var a, b runtime.Value
		if a, err = vm.pop(); err != nil {
			return false, err
		}
		if b, err = vm.pop(); err != nil {
			return false, err
		}
		vm.push(a)
		vm.push(b)

	case lower.Jump:
		vm.ip = instr.Arg
		jumped = true

	case lower.ConditionalJump:
		var v runtime.Value
		if v, err = vm.pop(); err != nil {
			return false, err
		}
		if !v.IsBool() {
			return false, vm.fatalf("conditional-jump: operand must be a boolean, got %v", v)
		}
		if v.Bool() {
			vm.ip = instr.Arg
			jumped = true
		}

	case lower.Terminate:
		err = errTerminate

	case lower.RequireArguments:
		err = vm.requireArguments(instr.Arg)

	case lower.Call:
		var callee runtime.Value
		if callee, err = vm.pop(); err != nil {
			return false, err
		}
		if !callee.IsFn() {
			return false, vm.fatalf("call: callee must be a function, got %v", callee)
		}
		vm.ip = callee.Label()
		jumped = true

	case lower.Panic:
		var v runtime.Value
		if v, err = vm.pop(); err != nil {
			return false, err
		}
		err = &PanicError{Value: v.String()}

	case lower.Negate:
		err = vm.unary("negate", func(v runtime.Value) (runtime.Value, error) {
			return vm.numericUnary("negate", v, func(x float64) float64 { return -x })
		})

	case lower.Invert:
		err = vm.unary("invert", func(v runtime.Value) (runtime.Value, error) {
			if !v.IsBool() {
				return runtime.Value{}, vm.fatalf("invert: operand must be a boolean, got %v", v)
			}
			return runtime.Bool(!v.Bool()), nil
		})

	case lower.Show:
		var v runtime.Value
		if v, err = vm.pop(); err != nil {
			return false, err
		}
		fmt.Fprintln(vm.stdout, v.String())
		vm.push(v)

	case lower.Add:
		err = vm.binaryNum("add", func(x, y float64) float64 { return x + y })
	case lower.Subtract:
		err = vm.binaryNum("subtract", func(x, y float64) float64 { return x - y })
	case lower.Multiply:
		err = vm.binaryNum("multiply", func(x, y float64) float64 { return x * y })
	case lower.Divide:
		err = vm.binaryNum("divide", func(x, y float64) float64 { return x / y })
	case lower.RaiseTo:
		err = vm.binaryNum("raise-to", math.Pow)

	case lower.Lesser:
		err = vm.binaryCmp("lesser", func(x, y float64) bool { return x < y })
	case lower.Greater:
		err = vm.binaryCmp("greater", func(x, y float64) bool { return x > y })
	case lower.LesserEq:
		err = vm.binaryCmp("lesser-eq", func(x, y float64) bool { return x <= y })
	case lower.GreaterEq:
		err = vm.binaryCmp("greater-eq", func(x, y float64) bool { return x >= y })

	case lower.CheckEquality:
		var a, b runtime.Value
		if a, err = vm.pop(); err != nil {
			return false, err
		}
		if b, err = vm.pop(); err != nil {
			return false, err
		}
		vm.push(runtime.Bool(a.Equal(b)))

	case lower.CheckInequality:
		var a, b runtime.Value
		if a, err = vm.pop(); err != nil {
			return false, err
		}
		if b, err = vm.pop(); err != nil {
			return false, err
		}
		vm.push(runtime.Bool(!a.Equal(b)))

	case lower.AccessProperty:
		err = vm.accessProperty(instr.Arg)

	case lower.NewScope:
		vm.scopes = append(vm.scopes, runtime.NewScope())

	case lower.EndScope:
		if len(vm.scopes) < 2 {
			return false, vm.fatalf("end-scope: no scope to pop")
		}
		vm.scopes = vm.scopes[:len(vm.scopes)-1]

	case lower.EndAndNameScope:
		if len(vm.scopes) < 2 {
			return false, vm.fatalf("end-and-name-scope: no scope to pop")
		}
		popped := vm.scopes[len(vm.scopes)-1]
		vm.scopes = vm.scopes[:len(vm.scopes)-1]
		top := vm.scopes[len(vm.scopes)-1]
		top.Set(vm.program.Names[instr.Arg], runtime.ScopeVal(popped))

	case lower.LoadVar:
		err = vm.loadVar(instr.Arg)

	case lower.Store:
		err = vm.store(instr.Arg)

	case lower.AssignStore:
		var v runtime.Value
		if v, err = vm.pop(); err != nil {
			return false, err
		}
		vm.scopes[len(vm.scopes)-1].Set(vm.program.Names[instr.Arg], v)

	case lower.PopJump:
		var v runtime.Value
		if v, err = vm.pop(); err != nil {
			return false, err
		}
		if !v.IsJumpRef() {
			return false, vm.fatalf("pop-jump: expected a jump ref, got %v", v)
		}
		vm.ip = v.Label()
		jumped = true

	case lower.FunctionTag, lower.CodegenHelper:
		// debug breadcrumbs, no-op

	default:
		return false, vm.fatalf("unhandled opcode %v", instr.Op)
	}

	return jumped, err
}

func (vm *VM) unary(op string, fn func(runtime.Value) (runtime.Value, error)) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	result, err := fn(v)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

func (vm *VM) binaryNum(op string, fn func(x, y float64) float64) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	result, err := vm.numericBinary(op, left, right, fn)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

func (vm *VM) binaryCmp(op string, fn func(x, y float64) bool) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	result, err := vm.comparisonBinary(op, left, right, fn)
	if err != nil {
		return err
	}
	vm.push(result)
	return nil
}

// requireArguments scans the operand stack from the top downward for the
// nearest JumpRef and fails unless exactly n values lie above it.
func (vm *VM) requireArguments(n int) error {
	count := 0
	for i := len(vm.stack) - 1; i >= 0; i-- {
		if vm.stack[i].IsJumpRef() {
			if count != n {
				return vm.fatalf("function expects %d argument(s), got %d", n, count)
			}
			return nil
		}
		count++
	}
	return vm.fatalf("require-arguments: no jump ref found on the operand stack")
}

// loadVar walks the scope stack top-down and pushes the first binding
// found for the given name index.
func (vm *VM) loadVar(nameIdx int) error {
	name := vm.program.Names[nameIdx]
	for i := len(vm.scopes) - 1; i >= 0; i-- {
		if v, ok := vm.scopes[i].Get(name); ok {
			vm.push(v)
			return nil
		}
	}
	return vm.fatalf("undefined variable %q", name)
}

// store walks the scope stack top-down and writes the popped value into
// the first scope that already binds the name. A miss is a fatal
// internal error rather than a silent no-op.
func (vm *VM) store(nameIdx int) error {
	v, err := vm.pop()
	if err != nil {
		return err
	}
	name := vm.program.Names[nameIdx]
	for i := len(vm.scopes) - 1; i >= 0; i-- {
		if vm.scopes[i].Has(name) {
			vm.scopes[i].Set(name, v)
			return nil
		}
	}
	return vm.fatalf("store to unbound name %q", name)
}

// accessProperty pops a Scope or Map value and looks up the named
// member.
func (vm *VM) accessProperty(nameIdx int) error {
	obj, err := vm.pop()
	if err != nil {
		return err
	}
	name := vm.program.Names[nameIdx]

	switch {
	case obj.IsScope():
		v, ok := obj.Scope().Get(name)
		if !ok {
			return vm.fatalf("no member %q on scope", name)
		}
		vm.push(v)
		return nil

	case obj.IsMap():
		v, ok := obj.Map().Get(runtime.Str(name))
		if !ok {
			return vm.fatalf("no member %q on map", name)
		}
		vm.push(v)
		return nil

	default:
		return vm.fatalf("access-property: operand must be a scope or map, got %v", obj)
	}
}
