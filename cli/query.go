package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
	"github.com/sagarc03/tomato"
)

// Query runs the jq filter over doc and returns every result.
func Query(doc *tomato.Table, filter string) ([]any, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("jq: filter parse error: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq: compile error: %w", err)
	}

	var results []any
	iter := code.Run(jqValue(tomato.TableValue(doc)))
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq: execution error: %w", err)
		}
		results = append(results, v)
	}

	return results, nil
}

// jqValue converts v to the types gojq accepts: int instead of int64 and
// times as RFC 3339 strings.
func jqValue(v tomato.Value) any {
	switch v.Kind() {
	case tomato.KindTable:
		t, _ := v.AsTable()
		m := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			m[k] = jqValue(child)
		}
		return m
	case tomato.KindSequence:
		items, _ := v.AsSequence()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = jqValue(item)
		}
		return out
	case tomato.KindScalar:
		s, _ := v.AsScalar()
		switch x := s.(type) {
		case int64:
			return int(x)
		case time.Time:
			return x.Format(time.RFC3339Nano)
		default:
			return x
		}
	default:
		return nil
	}
}
