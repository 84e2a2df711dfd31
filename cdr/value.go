// Package cdr implements the Common Data Representation wire codec used by
// ROS2 middlewares: a 4-byte encapsulation header followed by an
// alignment-padded payload.
package cdr

import "github.com/ternarisco/rosbags-go/typesys"

// Message is a generic, order-preserving value for a registered message
// type: Values is parallel to Def.Fields, so Values[i] holds the decoded (or
// to-be-encoded) value for Def.Fields[i].
//
// A field's Go-side value shape depends on its Type:
//   - primitive: bool, int8..int64, uint8..uint64, float32, float64, or string
//   - nested message: *Message
//   - fixed array or sequence: []any, each element shaped per Items
type Message struct {
	Def    *typesys.MessageDef
	Values []any
}

// Get returns the value of the named field, or nil if the message has no
// such field.
func (m *Message) Get(name string) any {
	for i, f := range m.Def.Fields {
		if f.Name == name {
			return m.Values[i]
		}
	}
	return nil
}
