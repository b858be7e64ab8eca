package codec

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sagarc03/tomato"
)

// TOML reads and writes TOML documents.
type TOML struct{}

// Name returns "toml".
func (TOML) Name() string { return "toml" }

// Decode parses data keeping the order in which keys appear in the file.
func (TOML) Decode(data []byte) (*tomato.Table, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	order := make(map[string][]string)
	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) == 0 {
			continue
		}
		parent := orderKey(key[:len(key)-1])
		full := orderKey(key)
		if seen[full] {
			continue
		}
		seen[full] = true
		order[parent] = append(order[parent], key[len(key)-1])
	}

	return tomlTable(raw, nil, order)
}

// orderKey prefixes every element of path with a NUL byte, so the root and
// a table named "" get different keys.
func orderKey(path []string) string {
	var b strings.Builder
	for _, p := range path {
		b.WriteByte(0)
		b.WriteString(p)
	}
	return b.String()
}

func tomlTable(m map[string]any, path []string, order map[string][]string) (*tomato.Table, error) {
	t := tomato.NewTable()

	keys := make([]string, 0, len(m))
	listed := make(map[string]bool, len(m))
	for _, k := range order[orderKey(path)] {
		if _, ok := m[k]; ok && !listed[k] {
			keys = append(keys, k)
			listed[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !listed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	for _, k := range keys {
		v, err := tomlValueOf(m[k], append(path[:len(path):len(path)], k), order)
		if err != nil {
			return nil, err
		}
		t.Set(k, v)
	}
	return t, nil
}

func tomlValueOf(x any, path []string, order map[string][]string) (tomato.Value, error) {
	switch v := x.(type) {
	case map[string]any:
		t, err := tomlTable(v, path, order)
		if err != nil {
			return tomato.Value{}, err
		}
		return tomato.TableValue(t), nil
	case []map[string]any:
		items := make([]tomato.Value, 0, len(v))
		for _, m := range v {
			t, err := tomlTable(m, path, order)
			if err != nil {
				return tomato.Value{}, err
			}
			items = append(items, tomato.TableValue(t))
		}
		return tomato.Sequence(items...), nil
	case []any:
		items := make([]tomato.Value, 0, len(v))
		for _, e := range v {
			item, err := tomlValueOf(e, path, order)
			if err != nil {
				return tomato.Value{}, err
			}
			items = append(items, item)
		}
		return tomato.Sequence(items...), nil
	default:
		s := tomato.Scalar(v)
		if !s.IsValid() {
			return tomato.Value{}, fmt.Errorf("decode toml: unsupported value %T at %q", x, strings.Join(path, "."))
		}
		return s, nil
	}
}

// Encode writes doc as TOML. The encoder sorts map keys but keeps struct
// field order, so every table is turned into a struct built at runtime.
// Plain keys are still written before sub-tables, as TOML requires.
func (TOML) Encode(w io.Writer, doc *tomato.Table) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	if err := enc.Encode(tomlStruct(doc).Interface()); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// tomlStruct turns t into a struct whose fields follow the table order.
// Struct tags cannot carry every key: "" falls back to the field name, "-"
// skips the field and a comma starts tag options. A table holding such a key
// is encoded as a map instead, so its own keys come out sorted.
func tomlStruct(t *tomato.Table) reflect.Value {
	keys := t.Keys()
	if slices.ContainsFunc(keys, tagUnsafe) {
		return tomlMap(t)
	}

	fields := make([]reflect.StructField, 0, len(keys))
	values := make([]reflect.Value, 0, len(keys))

	for _, k := range keys {
		v, _ := t.Get(k)
		rv, ok := tomlReflect(v)
		if !ok {
			continue
		}
		fields = append(fields, reflect.StructField{
			Name: "F" + strconv.Itoa(len(fields)),
			Type: rv.Type(),
			Tag:  reflect.StructTag("toml:" + strconv.Quote(k)),
		})
		values = append(values, rv)
	}

	out := reflect.New(reflect.StructOf(fields)).Elem()
	for i, rv := range values {
		out.Field(i).Set(rv)
	}
	return out
}

func tagUnsafe(key string) bool {
	return key == "" || key == "-" || strings.Contains(key, ",")
}

func tomlMap(t *tomato.Table) reflect.Value {
	out := make(map[string]any, t.Len())
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		if rv, ok := tomlReflect(v); ok {
			out[k] = rv.Interface()
		}
	}
	return reflect.ValueOf(out)
}

// tomlReflect converts v for the encoder. TOML has no null, so invalid
// values are dropped.
func tomlReflect(v tomato.Value) (reflect.Value, bool) {
	switch v.Kind() {
	case tomato.KindScalar:
		s, _ := v.AsScalar()
		return reflect.ValueOf(s), true
	case tomato.KindTable:
		t, _ := v.AsTable()
		return tomlStruct(t), true
	case tomato.KindSequence:
		items, _ := v.AsSequence()
		out := make([]any, 0, len(items))
		for _, item := range items {
			if rv, ok := tomlReflect(item); ok {
				out = append(out, rv.Interface())
			}
		}
		return reflect.ValueOf(out), true
	default:
		return reflect.Value{}, false
	}
}
