package tomato

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindInvalid is the zero Value: no value at all.
	KindInvalid Kind = iota
	// KindScalar holds a string, int64, float64, bool or time.Time.
	KindScalar
	// KindTable holds a nested *Table.
	KindTable
	// KindSequence holds an ordered list of Values.
	KindSequence
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindTable:
		return "table"
	case KindSequence:
		return "sequence"
	default:
		return "invalid"
	}
}

// Value is a configuration value: a scalar, a nested table or a sequence.
// The zero Value is valid to pass around and reports KindInvalid.
type Value struct {
	kind   Kind
	scalar any
	table  *Table
	seq    []Value
}

// Scalar wraps a scalar. Integer types are stored as int64, floats as
// float64. Unsupported types, and unsigned values too large for int64,
// produce an invalid Value.
func Scalar(v any) Value {
	switch x := v.(type) {
	case string, bool, int64, float64, time.Time:
		return Value{kind: KindScalar, scalar: x}
	case int:
		return Value{kind: KindScalar, scalar: int64(x)}
	case int8:
		return Value{kind: KindScalar, scalar: int64(x)}
	case int16:
		return Value{kind: KindScalar, scalar: int64(x)}
	case int32:
		return Value{kind: KindScalar, scalar: int64(x)}
	case uint:
		return unsignedScalar(uint64(x))
	case uint8:
		return Value{kind: KindScalar, scalar: int64(x)}
	case uint16:
		return Value{kind: KindScalar, scalar: int64(x)}
	case uint32:
		return Value{kind: KindScalar, scalar: int64(x)}
	case uint64:
		return unsignedScalar(x)
	case float32:
		return Value{kind: KindScalar, scalar: float64(x)}
	default:
		return Value{}
	}
}

// unsignedScalar stores n as int64. Values above math.MaxInt64 have no
// int64 form and give an invalid Value.
func unsignedScalar(n uint64) Value {
	if n > math.MaxInt64 {
		return Value{}
	}
	return Value{kind: KindScalar, scalar: int64(n)}
}

// TableValue wraps a table. A nil table is stored as an empty one.
func TableValue(t *Table) Value {
	if t == nil {
		t = NewTable()
	}
	return Value{kind: KindTable, table: t}
}

// Sequence wraps an ordered list of values.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, seq: items}
}

// ValueOf converts plain Go data (maps, slices, scalars) into a Value.
// Keys of map[string]any have no order of their own and are sorted.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case *Table:
		return TableValue(v), nil
	case map[string]any:
		t := NewTable()
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			item, err := ValueOf(v[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			t.Set(k, item)
		}
		return TableValue(t), nil
	case []map[string]any:
		items := make([]Value, 0, len(v))
		for i, m := range v {
			item, err := ValueOf(m)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Sequence(items...), nil
	case []any:
		items := make([]Value, 0, len(v))
		for i, e := range v {
			item, err := ValueOf(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return Sequence(items...), nil
	case nil:
		return Value{}, nil
	default:
		s := Scalar(v)
		if !s.IsValid() {
			return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidArgument, x)
		}
		return s, nil
	}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds anything.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsScalar returns the scalar payload.
func (v Value) AsScalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// AsTable returns the nested table.
func (v Value) AsTable() (*Table, bool) {
	if v.kind != KindTable {
		return nil, false
	}
	return v.table, true
}

// AsSequence returns the sequence items. The slice is shared with v.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.seq, true
}

// Interface returns v as plain Go data: map[string]any, []any or the scalar.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindTable:
		return v.table.Map()
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindTable:
		return Value{kind: KindTable, table: v.table.Clone()}
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.Clone()
		}
		return Value{kind: KindSequence, seq: items}
	default:
		return v
	}
}

// String formats scalars with fmt and containers in a compact inline form.
func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		if t, ok := v.scalar.(time.Time); ok {
			return t.Format(time.RFC3339Nano)
		}
		return fmt.Sprint(v.scalar)
	case KindTable:
		parts := make([]string, 0, v.table.Len())
		for _, k := range v.table.keys {
			parts = append(parts, k+" = "+v.table.entries[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// Table is an ordered mapping of unique string keys to values.
// A nil *Table behaves as an empty table for reads.
type Table struct {
	keys    []string
	entries map[string]Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Value)}
}

// Len returns the number of keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.entries[key]
	return v, ok
}

// Set stores v under key. An existing key keeps its position, a new key is
// appended.
func (t *Table) Set(key string, v Value) {
	if t.entries == nil {
		t.entries = make(map[string]Value)
	}
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = v
}

// Delete removes key if present.
func (t *Table) Delete(key string) {
	if t == nil {
		return
	}
	if _, ok := t.entries[key]; !ok {
		return
	}
	delete(t.entries, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
}

// Clone returns a deep copy of t. Cloning nil yields an empty table.
func (t *Table) Clone() *Table {
	out := NewTable()
	if t == nil {
		return out
	}
	out.keys = slices.Clone(t.keys)
	for k, v := range t.entries {
		out.entries[k] = v.Clone()
	}
	return out
}

// Map returns t as a plain map. Key order is lost.
func (t *Table) Map() map[string]any {
	out := make(map[string]any, t.Len())
	if t == nil {
		return out
	}
	for k, v := range t.entries {
		out[k] = v.Interface()
	}
	return out
}
