package dataset

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeYAML reads a YAML dataset with the same accepted shapes as JSON.
// Decoding goes through yaml.Node so mapping order survives.
func DecodeYAML(r io.Reader) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("yaml: %w", err)
	}
	root, err := fromYAML(&doc)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return recordsFromDocument(root)
}

func fromYAML(y *yaml.Node) (*node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return &node{kind: kindNull}, nil
		}
		return fromYAML(y.Content[0])
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.MappingNode:
		n := &node{kind: kindObject}
		for i := 0; i+1 < len(y.Content); i += 2 {
			v, err := fromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			n.set(y.Content[i].Value, v)
		}
		return n, nil
	case yaml.SequenceNode:
		n := &node{kind: kindArray}
		for _, c := range y.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, v)
		}
		return n, nil
	case yaml.ScalarNode:
		if y.ShortTag() == "!!null" {
			return &node{kind: kindNull}, nil
		}
		return &node{kind: kindScalar, text: y.Value, quoted: y.ShortTag() == "!!str"}, nil
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", y.Kind, y.Line)
	}
}
