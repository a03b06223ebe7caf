package runtime

import "github.com/dolthub/swiss"

// Scope is a name->Value binding set. Scopes are stacked lexically by
// the VM; module expressions promote a scope to a shared heap value via
// ScopeVal (Go's GC gives us the shared ownership for free).
type Scope struct {
	m *swiss.Map[string, Value]
}

// NewScope returns an empty scope with a small initial capacity, matching
// the corpus's convention of sizing Swiss-table maps up front
// (lang/machine/map.go's NewMap) rather than growing from zero.
func NewScope() *Scope {
	return &Scope{m: swiss.NewMap[string, Value](8)}
}

// Get looks up name in this scope only (no parent walk -- the VM's scope
// stack handles lexical lookup by trying scopes top-down itself).
func (s *Scope) Get(name string) (Value, bool) {
	return s.m.Get(name)
}

// Set creates or overwrites name's binding in this scope.
func (s *Scope) Set(name string, v Value) {
	s.m.Put(name, v)
}

// Has reports whether name is bound directly in this scope.
func (s *Scope) Has(name string) bool {
	_, ok := s.m.Get(name)
	return ok
}
