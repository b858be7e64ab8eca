// Package tomato provides the document model of the tomato configuration
// layer: ordered tables, tagged values, recursive merging and path lookups.
//
// Configuration files are decoded into a *Table, an ordered mapping whose
// values are scalars, nested tables or sequences. Several documents are folded
// together with MergeTables: tables merge key by key, everything else is
// replaced by the later document.
//
// # Key Components
//
//   - Value: tagged variant of scalar, table and sequence
//   - Table: ordered mapping with unique keys
//   - Merge / MergeTables: pure, recursive later-wins merge
//   - Segment / ParsePath / Walk: dotted path lookups that tell table keys
//     from sequence indexes
//
// # Paths
//
// A single key containing dots is split on them, so "table.foo" and the pair
// ("table", "foo") address the same value. Strings made of digits index
// sequences:
//
//	path, err := tomato.ParsePath("table2.array.0")
//	if err != nil {
//	    return err
//	}
//	v, err := tomato.Walk(tomato.TableValue(doc), path, nil)
//
// The config package wraps these in a Store that loads files from disk; see
// the source, loader and codec packages for the individual stages.
package tomato
