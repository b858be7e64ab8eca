package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/sagarc03/tomato"
	"gopkg.in/yaml.v3"
)

// YAML reads and writes YAML documents through yaml.Node, which keeps
// mapping order.
type YAML struct{}

// Name returns "yaml".
func (YAML) Name() string { return "yaml" }

// Decode parses data. Null values become invalid Values.
func (YAML) Decode(data []byte) (*tomato.Table, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	n := &root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return tomato.NewTable(), nil
		}
		n = n.Content[0]
	}
	if n.Kind == 0 {
		return tomato.NewTable(), nil
	}

	v, err := fromNode(n)
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if !v.IsValid() {
		return tomato.NewTable(), nil
	}
	t, ok := v.AsTable()
	if !ok {
		return nil, fmt.Errorf("decode yaml: top level is a %s, not a mapping", v.Kind())
	}
	return t, nil
}

func fromNode(n *yaml.Node) (tomato.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return tomato.Value{}, errors.New("dangling alias")
		}
		return fromNode(n.Alias)
	case yaml.MappingNode:
		t := tomato.NewTable()
		for i := 0; i+1 < len(n.Content); i += 2 {
			child, err := fromNode(n.Content[i+1])
			if err != nil {
				return tomato.Value{}, err
			}
			t.Set(n.Content[i].Value, child)
		}
		return tomato.TableValue(t), nil
	case yaml.SequenceNode:
		items := make([]tomato.Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromNode(c)
			if err != nil {
				return tomato.Value{}, err
			}
			items = append(items, item)
		}
		return tomato.Sequence(items...), nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return tomato.Value{}, nil
		}
		var x any
		if err := n.Decode(&x); err != nil {
			return tomato.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if s := tomato.Scalar(x); s.IsValid() {
			return s, nil
		}
		return tomato.Scalar(n.Value), nil
	default:
		return tomato.Value{}, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
	}
}

// Encode writes doc as YAML with two-space indentation.
func (YAML) Encode(w io.Writer, doc *tomato.Table) error {
	node, err := toNode(tomato.TableValue(doc))
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

func toNode(v tomato.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case tomato.KindTable:
		t, _ := v.AsTable()
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			cn, err := toNode(child)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				cn,
			)
		}
		return n, nil
	case tomato.KindSequence:
		items, _ := v.AsSequence()
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			cn, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, cn)
		}
		return n, nil
	case tomato.KindScalar:
		s, _ := v.AsScalar()
		n := &yaml.Node{}
		if err := n.Encode(s); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}
