package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
)

type nodeKind int

const (
	kindNull nodeKind = iota
	kindScalar
	kindObject
	kindArray
)

// node is an order-preserving document tree. Both the JSON and YAML decoders
// produce it so the shape rules live in one place.
type node struct {
	kind nodeKind

	// kindScalar
	text   string
	quoted bool // string scalar, as opposed to number or bool

	// kindObject
	keys   []string
	values []*node

	// kindArray
	items []*node
}

func (n *node) set(key string, v *node) {
	for i, k := range n.keys {
		if k == key {
			n.values[i] = v
			return
		}
	}
	n.keys = append(n.keys, key)
	n.values = append(n.values, v)
}

func (n *node) get(key string) (*node, bool) {
	for i, k := range n.keys {
		if k == key {
			return n.values[i], true
		}
	}
	return nil, false
}

// stringValue renders a field value the way the guide displays it.
func (n *node) stringValue() string {
	switch n.kind {
	case kindNull:
		return ""
	case kindScalar:
		return n.text
	default:
		var sb strings.Builder
		n.writeJSON(&sb)
		return sb.String()
	}
}

func (n *node) writeJSON(sb *strings.Builder) {
	switch n.kind {
	case kindNull:
		sb.WriteString("null")
	case kindScalar:
		if n.quoted {
			b, _ := json.Marshal(n.text)
			sb.Write(b)
			return
		}
		sb.WriteString(n.text)
	case kindObject:
		sb.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			b, _ := json.Marshal(k)
			sb.Write(b)
			sb.WriteByte(':')
			n.values[i].writeJSON(sb)
		}
		sb.WriteByte('}')
	case kindArray:
		sb.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			it.writeJSON(sb)
		}
		sb.WriteByte(']')
	}
}

func (n *node) toRecord() Record {
	fields := make([]Field, len(n.keys))
	for i, k := range n.keys {
		fields[i] = Field{Name: k, Value: n.values[i].stringValue()}
	}
	return NewRecord(fields)
}

// recordsFromDocument applies the accepted shapes in order:
//   - a root array of records
//   - an object with a "rows" array
//   - any other object, whose values are the records
func recordsFromDocument(root *node) ([]Record, error) {
	var items []*node
	switch root.kind {
	case kindArray:
		items = root.items
	case kindObject:
		if rows, ok := root.get("rows"); ok && rows.kind == kindArray {
			items = rows.items
		} else {
			items = root.values
		}
	default:
		return nil, fmt.Errorf("%w: root must be an array or object", ErrUnsupportedShape)
	}

	records := make([]Record, 0, len(items))
	for i, it := range items {
		switch it.kind {
		case kindNull:
			continue
		case kindObject:
			records = append(records, it.toRecord())
		default:
			return nil, fmt.Errorf("%w: element %d is not an object", ErrUnsupportedShape, i)
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return records, nil
}
