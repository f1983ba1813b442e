// Package live mirrors a StyleRegistry to remote registries over a
// WebSocket. A Hub serves one registry; clients apply the ops it sends to
// their own registry.
//
// Every message is one JSON encoded Op. A connection starts with a hello
// carrying the client id, then one insert per existing rule, then the
// registry's changes as they happen.
package live

import (
	"encoding/json"
	"fmt"

	"github.com/recera/vstyle/pkg/styling"
)

// OpKind names a message
type OpKind string

const (
	OpHello  OpKind = "hello"
	OpInsert OpKind = "insert"
	OpUpdate OpKind = "update"
	OpRemove OpKind = "remove"
)

// Op is one wire message
type Op struct {
	Op         OpKind             `json:"op"`
	Client     string             `json:"client,omitempty"`
	Selector   string             `json:"selector,omitempty"`
	Media      string             `json:"media,omitempty"`
	Properties styling.Properties `json:"properties,omitempty"`
	Names      []string           `json:"names,omitempty"`
	CSS        string             `json:"css,omitempty"`
}

// OpFromChange converts a registry change event detail
func OpFromChange(c styling.Change) Op {
	op := Op{
		Selector: c.Selector,
		Media:    c.Media,
		CSS:      c.CSS,
	}
	switch c.Op {
	case styling.OpInsert:
		op.Op = OpInsert
		op.Properties = c.Properties
	case styling.OpUpdate:
		op.Op = OpUpdate
		op.Properties = c.Properties
		op.Names = c.Removed
	default:
		op.Op = OpRemove
	}
	return op
}

// OpFromEntry converts a snapshot entry into the insert that recreates it
func OpFromEntry(e styling.Entry) Op {
	return Op{
		Op:         OpInsert,
		Selector:   e.Selector,
		Media:      e.Media,
		Properties: e.Properties,
		CSS:        e.CSS,
	}
}

// Encode marshals op for the wire
func (op Op) Encode() ([]byte, error) {
	return json.Marshal(op)
}

// DecodeOp unmarshals one wire message
func DecodeOp(data []byte) (Op, error) {
	var op Op
	if err := json.Unmarshal(data, &op); err != nil {
		return Op{}, fmt.Errorf("failed to decode op: %w", err)
	}
	return op, nil
}

// Apply replays op on reg. Ops are idempotent, so a change that is also
// part of a snapshot can safely arrive twice.
func Apply(reg *styling.StyleRegistry, op Op) error {
	switch op.Op {
	case OpHello:
		return nil
	case OpInsert, OpUpdate:
		if op.Selector == "" {
			return fmt.Errorf("%s op without selector", op.Op)
		}
		if len(op.Properties) > 0 || op.Op == OpInsert {
			reg.Insert(op.Selector, op.Properties, op.Media)
		}
		if len(op.Names) > 0 {
			reg.Remove(op.Selector, styling.RemoveProperties{Names: op.Names, Media: op.Media})
		}
		return nil
	case OpRemove:
		if op.Selector == "" {
			return fmt.Errorf("remove op without selector")
		}
		reg.Remove(op.Selector, styling.RemoveEntry{Media: op.Media})
		return nil
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
}
