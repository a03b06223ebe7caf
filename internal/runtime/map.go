package runtime

import "github.com/dolthub/swiss"

// Map is a Value->Value dictionary value, backed by the same Swiss-table
// library used for Scope's bindings. The VM's AccessProperty accepts a
// Map operand; no lowering rule produces one.
type Map struct {
	m *swiss.Map[Value, Value]
}

// NewMap returns a map with initial capacity for at least size entries.
func NewMap(size int) *Map {
	return &Map{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (m *Map) Get(k Value) (Value, bool) { return m.m.Get(k) }
func (m *Map) Set(k, v Value)            { m.m.Put(k, v) }
func (m *Map) Len() int                  { return m.m.Count() }
