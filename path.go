package tomato

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Segment is one step of a lookup path: a name for tables or an index for
// sequences.
type Segment struct {
	index   int
	name    string
	isIndex bool
}

// Name returns a segment that looks up key in a table.
func Name(key string) Segment {
	return Segment{name: key}
}

// Index returns a segment that selects position i of a sequence.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether s addresses a sequence position.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the table key of s. Index segments parsed from digit strings
// keep their original text; other index segments have none.
func (s Segment) Key() (string, bool) {
	if s.isIndex && s.name == "" {
		return "", false
	}
	return s.name, true
}

// Position returns the sequence index of s.
func (s Segment) Position() (int, bool) {
	return s.index, s.isIndex
}

func (s Segment) String() string {
	if s.isIndex && s.name == "" {
		return strconv.Itoa(s.index)
	}
	return s.name
}

// ParsePath turns lookup keys into segments.
//
// A single string containing "." is split on it. With several keys every key
// is one literal segment. Strings made only of ASCII digits become index
// segments that remember their text, Go integers become plain index
// segments. Anything else is rejected with ErrInvalidArgument.
func ParsePath(keys ...any) ([]Segment, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: at least one key is required", ErrInvalidArgument)
	}

	if len(keys) == 1 {
		if s, ok := keys[0].(string); ok && strings.Contains(s, ".") {
			parts := strings.Split(s, ".")
			keys = make([]any, len(parts))
			for i, p := range parts {
				keys[i] = p
			}
		}
	}

	path := make([]Segment, 0, len(keys))
	for i, k := range keys {
		seg, err := parseSegment(k)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		path = append(path, seg)
	}
	return path, nil
}

func parseSegment(k any) (Segment, error) {
	switch v := k.(type) {
	case Segment:
		return v, nil
	case string:
		if !isDigits(v) {
			return Name(v), nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Segment{}, fmt.Errorf("%w: index %q out of range", ErrInvalidArgument, v)
		}
		return Segment{index: n, name: v, isIndex: true}, nil
	case int:
		return indexSegment(int64(v))
	case int8:
		return indexSegment(int64(v))
	case int16:
		return indexSegment(int64(v))
	case int32:
		return indexSegment(int64(v))
	case int64:
		return indexSegment(v)
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Segment{}, fmt.Errorf("%w: index %d out of range", ErrInvalidArgument, v)
		}
		return indexSegment(int64(v))
	case uint8:
		return indexSegment(int64(v))
	case uint16:
		return indexSegment(int64(v))
	case uint32:
		return indexSegment(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return Segment{}, fmt.Errorf("%w: index %d out of range", ErrInvalidArgument, v)
		}
		return indexSegment(int64(v))
	default:
		return Segment{}, fmt.Errorf("%w: key must be a string or an integer, got %T", ErrInvalidArgument, k)
	}
}

func indexSegment(n int64) (Segment, error) {
	if n < 0 || n > int64(^uint(0)>>1) {
		return Segment{}, fmt.Errorf("%w: index %d out of range", ErrInvalidArgument, n)
	}
	return Index(int(n)), nil
}

// Walk follows path from root. When a key or index is absent it returns
// fallback if one is given, otherwise ErrMissingKey. A segment that cannot
// index the value found at that point yields ErrTypeMismatch regardless of
// the fallback.
func Walk(root Value, path []Segment, fallback *Value) (Value, error) {
	if len(path) == 0 {
		return Value{}, fmt.Errorf("%w: at least one key is required", ErrInvalidArgument)
	}

	cur := root
	for i, seg := range path {
		var (
			next  Value
			found bool
		)

		switch cur.kind {
		case KindTable:
			key, ok := seg.Key()
			if !ok {
				return Value{}, fmt.Errorf("%w: integer key %d against a table at %q",
					ErrTypeMismatch, seg.index, joinPath(path[:i]))
			}
			next, found = cur.table.Get(key)
		case KindSequence:
			pos, ok := seg.Position()
			if !ok {
				return Value{}, fmt.Errorf("%w: key %q against a sequence at %q",
					ErrTypeMismatch, seg.name, joinPath(path[:i]))
			}
			if pos < len(cur.seq) {
				next, found = cur.seq[pos], true
			}
		default:
			return Value{}, fmt.Errorf("%w: %s is not a container at %q",
				ErrTypeMismatch, cur.kind, joinPath(path[:i]))
		}

		if !found {
			if fallback != nil {
				return *fallback, nil
			}
			return Value{}, fmt.Errorf("%w: %q", ErrMissingKey, joinPath(path[:i+1]))
		}
		cur = next
	}
	return cur, nil
}

func joinPath(path []Segment) string {
	parts := make([]string, len(path))
	for i, s := range path {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}
