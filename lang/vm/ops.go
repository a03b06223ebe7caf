package vm

import "github.com/mna/astra/internal/runtime"

func (vm *VM) numericUnary(op string, v runtime.Value, fn func(float64) float64) (runtime.Value, error) {
	if !v.IsNum() {
		return runtime.Value{}, vm.fatalf("%s: operand must be a number, got %v", op, v)
	}
	return runtime.Num(fn(v.Num())), nil
}

func (vm *VM) numericBinary(op string, a, b runtime.Value, fn func(x, y float64) float64) (runtime.Value, error) {
	if !a.IsNum() || !b.IsNum() {
		return runtime.Value{}, vm.fatalf("%s: operands must be numbers, got %v and %v", op, a, b)
	}
	return runtime.Num(fn(a.Num(), b.Num())), nil
}

func (vm *VM) comparisonBinary(op string, a, b runtime.Value, fn func(x, y float64) bool) (runtime.Value, error) {
	if !a.IsNum() || !b.IsNum() {
		return runtime.Value{}, vm.fatalf("%s: operands must be numbers, got %v and %v", op, a, b)
	}
	return runtime.Bool(fn(a.Num(), b.Num())), nil
}
