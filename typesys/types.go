// Package typesys implements the message type model shared by the CDR and
// ROS1 codecs: primitive types, field types, message definitions, and the
// process-wide type registry.
package typesys

import "fmt"

// PrimitiveType enumerates the primitive field types recognised by both the
// msg and idl dialects.
type PrimitiveType int

const (
	BOOL PrimitiveType = iota + 1
	BYTE
	CHAR
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT32
	FLOAT64
	STRING
	TIME
	DURATION
)

// sizes holds the wire size in bytes for fixed-size primitives. Strings and
// sequences carry a length prefix and are handled separately by the codecs.
var sizes = map[PrimitiveType]int{
	BOOL:     1,
	BYTE:     1,
	CHAR:     1,
	INT8:     1,
	INT16:    2,
	INT32:    4,
	INT64:    8,
	UINT8:    1,
	UINT16:   2,
	UINT32:   4,
	UINT64:   8,
	FLOAT32:  4,
	FLOAT64:  8,
	TIME:     8,
	DURATION: 8,
}

// Size returns the fixed wire size of a primitive, or 0 for string, whose
// size depends on its contents.
func (p PrimitiveType) Size() int {
	return sizes[p]
}

// Align returns the CDR alignment of a primitive. Strings align to 4 bytes
// (the length prefix); time and duration are a pair of uint32 members and
// align to 4 as well. Everything else aligns to its own size.
func (p PrimitiveType) Align() int {
	switch p {
	case STRING, TIME, DURATION:
		return 4
	default:
		return sizes[p]
	}
}

// String implements fmt.Stringer.
func (p PrimitiveType) String() string {
	switch p {
	case BOOL:
		return "bool"
	case BYTE:
		return "byte"
	case CHAR:
		return "char"
	case INT8:
		return "int8"
	case INT16:
		return "int16"
	case INT32:
		return "int32"
	case INT64:
		return "int64"
	case UINT8:
		return "uint8"
	case UINT16:
		return "uint16"
	case UINT32:
		return "uint32"
	case UINT64:
		return "uint64"
	case FLOAT32:
		return "float32"
	case FLOAT64:
		return "float64"
	case STRING:
		return "string"
	case TIME:
		return "time"
	case DURATION:
		return "duration"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// primitiveNames maps the textual type names used in both dialects to their
// PrimitiveType. byte and char are kept distinct from uint8 per the msg
// dialect, even though they share wire layout.
var primitiveNames = map[string]PrimitiveType{
	"bool":     BOOL,
	"byte":     BYTE,
	"char":     CHAR,
	"int8":     INT8,
	"int16":    INT16,
	"int32":    INT32,
	"int64":    INT64,
	"uint8":    UINT8,
	"uint16":   UINT16,
	"uint32":   UINT32,
	"uint64":   UINT64,
	"float32":  FLOAT32,
	"float64":  FLOAT64,
	"string":   STRING,
	"time":     TIME,
	"duration": DURATION,
}

// LookupPrimitive returns the PrimitiveType for a dialect type name, if any.
func LookupPrimitive(name string) (PrimitiveType, bool) {
	p, ok := primitiveNames[name]
	return p, ok
}

// Type is a sum type describing a field's shape: a primitive, a nested
// message (referenced by fully-qualified name), a fixed-length array, or a
// sequence (bounded or unbounded).
type Type struct {
	// Primitive is set when this type is a primitive value.
	Primitive PrimitiveType

	// Message is set when this type is a nested message, naming it by its
	// fully-qualified "pkg/msg/Name" form. Resolution against the registry
	// happens lazily, at encode/decode time.
	Message string

	// Array indicates a fixed-length array (Bounded == false) or a sequence,
	// bounded (Bounded == true, FixedSize holds the bound) or unbounded
	// (Bounded == false, FixedSize == 0).
	Array     bool
	FixedSize int
	Bounded   bool
	Items     *Type

	// SizeBound, when non-zero, records a bounded string's maximum length
	// (string<=N). It is retained but never enforced, per spec.
	SizeBound int
}

// IsPrimitive reports whether t names a primitive type.
func (t Type) IsPrimitive() bool {
	return t.Primitive > 0
}

// IsMessage reports whether t names a nested message type.
func (t Type) IsMessage() bool {
	return t.Message != ""
}

// IsSequence reports whether t is a variable-length (unbounded or bounded)
// sequence, as opposed to a fixed-length array.
func (t Type) IsSequence() bool {
	return t.Array && (t.Bounded || t.FixedSize == 0)
}

// SequenceElementAlign returns the CDR alignment required immediately before
// the first element of a sequence whose item type is t, recursing through
// nested messages (to their leading field), fixed arrays and nested
// sequences (always 4, the count prefix's own alignment) down to a
// primitive. This is the alignment CDR pads to right after a sequence's
// length prefix, unconditionally, whether or not the sequence turns out to
// have any elements: a sequence's on-wire layout depends only on its
// element type, never on the runtime element count.
func SequenceElementAlign(reg *Registry, t Type) (int, error) {
	switch {
	case t.IsSequence():
		return 4, nil
	case t.Array:
		return SequenceElementAlign(reg, *t.Items)
	case t.IsMessage():
		def, err := reg.Lookup(t.Message)
		if err != nil {
			return 0, err
		}
		if len(def.Fields) == 0 {
			return 1, nil
		}
		return SequenceElementAlign(reg, def.Fields[0].Type)
	default:
		return t.Primitive.Align(), nil
	}
}

// Field is a single named member of a message definition.
type Field struct {
	Name    string
	Type    Type
	Default any
}

// Constant is a named, typed value attached to a message definition. Constants
// never appear on the wire.
type Constant struct {
	Type  PrimitiveType
	Name  string
	Value string
}

// MessageDef is a fully parsed and resolved message definition: a
// fully-qualified name plus an ordered list of fields and constants.
type MessageDef struct {
	Name      string
	Fields    []Field
	Constants []Constant
}
