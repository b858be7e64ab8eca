package tomato

// Merge folds overlay onto base and returns the result. Neither argument is
// modified.
//
// When both are tables they are merged key by key, recursively. In every other
// case overlay replaces base: scalars, sequences and kind mismatches are never
// combined. An invalid overlay leaves base unchanged.
func Merge(base, overlay Value) Value {
	if !overlay.IsValid() {
		return base.Clone()
	}
	if base.kind == KindTable && overlay.kind == KindTable {
		return TableValue(MergeTables(base.table, overlay.table))
	}
	return overlay.Clone()
}

// MergeTables merges overlay onto base with the rules of Merge. Keys already
// in base keep their position; keys only in overlay are appended in overlay
// order. Either table may be nil.
func MergeTables(base, overlay *Table) *Table {
	out := base.Clone()
	if overlay == nil {
		return out
	}
	for _, k := range overlay.keys {
		next := overlay.entries[k]
		if cur, ok := out.entries[k]; ok {
			out.Set(k, Merge(cur, next))
			continue
		}
		out.Set(k, next.Clone())
	}
	return out
}
