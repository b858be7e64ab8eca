package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sagarc03/tomato"
)

// JSON reads and writes JSON documents. Objects are read token by token so
// that key order survives.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// Decode parses data. Integral numbers become int64, the rest float64.
func (JSON) Decode(data []byte) (*tomato.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tomato.NewTable(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: unexpected data after top-level value")
	}

	if !v.IsValid() {
		return tomato.NewTable(), nil
	}
	t, ok := v.AsTable()
	if !ok {
		return nil, fmt.Errorf("decode json: top level is a %s, not an object", v.Kind())
	}
	return t, nil
}

func decodeJSON(dec *json.Decoder) (tomato.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return tomato.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			tbl := tomato.NewTable()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return tomato.Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return tomato.Value{}, fmt.Errorf("object key is %T", keyTok)
				}
				child, err := decodeJSON(dec)
				if err != nil {
					return tomato.Value{}, err
				}
				tbl.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return tomato.Value{}, err
			}
			return tomato.TableValue(tbl), nil
		case '[':
			var items []tomato.Value
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return tomato.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return tomato.Value{}, err
			}
			return tomato.Sequence(items...), nil
		default:
			return tomato.Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return tomato.Scalar(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return tomato.Value{}, fmt.Errorf("number %q: %w", t, err)
		}
		return tomato.Scalar(f), nil
	case string:
		return tomato.Scalar(t), nil
	case bool:
		return tomato.Scalar(t), nil
	case nil:
		return tomato.Value{}, nil
	default:
		return tomato.Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

// Encode writes doc as indented JSON, objects in table order.
func (JSON) Encode(w io.Writer, doc *tomato.Table) error {
	var buf bytes.Buffer
	if err := writeJSON(&buf, tomato.TableValue(doc)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	out.WriteByte('\n')

	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeJSON(buf *bytes.Buffer, v tomato.Value) error {
	switch v.Kind() {
	case tomato.KindTable:
		t, _ := v.AsTable()
		buf.WriteByte('{')
		for i, k := range t.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			child, _ := t.Get(k)
			if err := writeJSON(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case tomato.KindSequence:
		items, _ := v.AsSequence()
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case tomato.KindScalar:
		s, _ := v.AsScalar()
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		buf.WriteString("null")
	}
	return nil
}
