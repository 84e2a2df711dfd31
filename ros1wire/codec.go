// Package ros1wire implements the ROS1 wire format: little-endian, no
// alignment, no encapsulation header, and strings without a trailing NUL.
package ros1wire

import (
	"encoding/binary"
	"math"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/typesys"
)

// Message mirrors cdr.Message: an order-preserving value parallel to
// Def.Fields. The two codecs share the same in-memory shape so the
// transcode package can move between them without a type-system-specific
// intermediate representation.
type Message = cdr.Message

// Encode serialises msg against its definition msg.Def (nested message types
// are looked up in reg) into ROS1 wire bytes. A std_msgs/msg/Header field is written with its
// ROS1-only uint32 seq first, even though the registered ROS2 definition
// does not carry that field.
func Encode(reg *typesys.Registry, msg *Message) ([]byte, error) {
	e := &encoder{reg: reg, buf: make([]byte, 0, 256)}
	if err := e.message(msg); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	reg *typesys.Registry
	buf []byte
}

func (e *encoder) message(m *Message) error {
	if m.Def.Name == "std_msgs/msg/Header" {
		e.buf = binary.LittleEndian.AppendUint32(e.buf, 0)
	}
	for i, f := range m.Def.Fields {
		if err := e.value(f.Type, m.Values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) value(t typesys.Type, v any) error {
	switch {
	case t.Array:
		items, _ := v.([]any)
		if t.IsSequence() {
			e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(len(items)))
		}
		for _, item := range items {
			if err := e.value(*t.Items, item); err != nil {
				return err
			}
		}
		return nil
	case t.IsMessage():
		sub, err := e.reg.Lookup(t.Message)
		if err != nil {
			return err
		}
		m, ok := v.(*Message)
		if !ok {
			m = &Message{Def: sub}
		}
		return e.message(m)
	default:
		return e.primitive(t.Primitive, v)
	}
}

func (e *encoder) primitive(p typesys.PrimitiveType, v any) error {
	switch p {
	case typesys.BOOL:
		b := byte(0)
		if bv, _ := v.(bool); bv {
			b = 1
		}
		e.buf = append(e.buf, b)
	case typesys.BYTE, typesys.CHAR, typesys.UINT8:
		e.buf = append(e.buf, anyToU8(v))
	case typesys.INT8:
		e.buf = append(e.buf, byte(anyToI64(v)))
	case typesys.INT16:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(anyToI64(v)))
	case typesys.UINT16:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(anyToU64(v)))
	case typesys.INT32:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(anyToI64(v)))
	case typesys.UINT32:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(anyToU64(v)))
	case typesys.INT64:
		e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(anyToI64(v)))
	case typesys.UINT64:
		e.buf = binary.LittleEndian.AppendUint64(e.buf, anyToU64(v))
	case typesys.FLOAT32:
		f, _ := v.(float32)
		e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(f))
	case typesys.FLOAT64:
		e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(anyToF64(v)))
	case typesys.STRING:
		s, _ := v.(string)
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(len(s)))
		e.buf = append(e.buf, s...)
	case typesys.TIME:
		t, _ := v.(cdr.Time)
		e.buf = binary.LittleEndian.AppendUint32(e.buf, t.Sec)
		e.buf = binary.LittleEndian.AppendUint32(e.buf, t.Nanosec)
	case typesys.DURATION:
		d, _ := v.(cdr.Duration)
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(d.Sec))
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(d.Nanosec))
	}
	return nil
}

// Decode deserialises ROS1 wire bytes into a Message matching the
// definition registered under typename.
func Decode(reg *typesys.Registry, typename string, data []byte) (*Message, error) {
	def, err := reg.Lookup(typename)
	if err != nil {
		return nil, err
	}
	d := &decoder{reg: reg, buf: data}
	msg, err := d.message(def)
	if err != nil {
		return nil, err
	}
	if d.pos < len(d.buf) {
		return nil, &ExcessBytesError{Remaining: len(d.buf) - d.pos}
	}
	return msg, nil
}

type decoder struct {
	reg *typesys.Registry
	buf []byte
	pos int
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.buf) {
		return &ShortReadError{Want: d.pos + n, Have: len(d.buf)}
	}
	return nil
}

func (d *decoder) message(def *typesys.MessageDef) (*Message, error) {
	if def.Name == "std_msgs/msg/Header" {
		if err := d.need(4); err != nil {
			return nil, err
		}
		d.pos += 4
	}
	m := &Message{Def: def, Values: make([]any, len(def.Fields))}
	for i, f := range def.Fields {
		v, err := d.value(f.Type)
		if err != nil {
			return nil, err
		}
		m.Values[i] = v
	}
	return m, nil
}

func (d *decoder) value(t typesys.Type) (any, error) {
	switch {
	case t.Array:
		n := t.FixedSize
		if t.IsSequence() {
			if err := d.need(4); err != nil {
				return nil, err
			}
			count := binary.LittleEndian.Uint32(d.buf[d.pos:])
			d.pos += 4
			if int(count) > (len(d.buf)-d.pos) && t.Items.IsPrimitive() {
				return nil, &BadLengthError{Length: int(count), Remaining: len(d.buf) - d.pos}
			}
			n = int(count)
		}
		items := make([]any, n)
		for i := 0; i < n; i++ {
			v, err := d.value(*t.Items)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case t.IsMessage():
		sub, err := d.reg.Lookup(t.Message)
		if err != nil {
			return nil, err
		}
		return d.message(sub)
	default:
		return d.primitive(t.Primitive)
	}
}

func (d *decoder) primitive(p typesys.PrimitiveType) (any, error) {
	switch p {
	case typesys.BOOL:
		if err := d.need(1); err != nil {
			return nil, err
		}
		v := d.buf[d.pos] != 0
		d.pos++
		return v, nil
	case typesys.BYTE, typesys.CHAR, typesys.UINT8:
		if err := d.need(1); err != nil {
			return nil, err
		}
		v := d.buf[d.pos]
		d.pos++
		return v, nil
	case typesys.INT8:
		if err := d.need(1); err != nil {
			return nil, err
		}
		v := int8(d.buf[d.pos])
		d.pos++
		return v, nil
	case typesys.INT16:
		if err := d.need(2); err != nil {
			return nil, err
		}
		v := int16(binary.LittleEndian.Uint16(d.buf[d.pos:]))
		d.pos += 2
		return v, nil
	case typesys.UINT16:
		if err := d.need(2); err != nil {
			return nil, err
		}
		v := binary.LittleEndian.Uint16(d.buf[d.pos:])
		d.pos += 2
		return v, nil
	case typesys.INT32:
		if err := d.need(4); err != nil {
			return nil, err
		}
		v := int32(binary.LittleEndian.Uint32(d.buf[d.pos:]))
		d.pos += 4
		return v, nil
	case typesys.UINT32:
		if err := d.need(4); err != nil {
			return nil, err
		}
		v := binary.LittleEndian.Uint32(d.buf[d.pos:])
		d.pos += 4
		return v, nil
	case typesys.INT64:
		if err := d.need(8); err != nil {
			return nil, err
		}
		v := int64(binary.LittleEndian.Uint64(d.buf[d.pos:]))
		d.pos += 8
		return v, nil
	case typesys.UINT64:
		if err := d.need(8); err != nil {
			return nil, err
		}
		v := binary.LittleEndian.Uint64(d.buf[d.pos:])
		d.pos += 8
		return v, nil
	case typesys.FLOAT32:
		if err := d.need(4); err != nil {
			return nil, err
		}
		v := math.Float32frombits(binary.LittleEndian.Uint32(d.buf[d.pos:]))
		d.pos += 4
		return v, nil
	case typesys.FLOAT64:
		if err := d.need(8); err != nil {
			return nil, err
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(d.buf[d.pos:]))
		d.pos += 8
		return v, nil
	case typesys.STRING:
		if err := d.need(4); err != nil {
			return nil, err
		}
		length := binary.LittleEndian.Uint32(d.buf[d.pos:])
		d.pos += 4
		if int(length) > len(d.buf)-d.pos {
			return nil, &BadLengthError{Length: int(length), Remaining: len(d.buf) - d.pos}
		}
		s := string(d.buf[d.pos : d.pos+int(length)])
		d.pos += int(length)
		return s, nil
	case typesys.TIME:
		if err := d.need(8); err != nil {
			return nil, err
		}
		sec := binary.LittleEndian.Uint32(d.buf[d.pos:])
		nsec := binary.LittleEndian.Uint32(d.buf[d.pos+4:])
		d.pos += 8
		return cdr.Time{Sec: sec, Nanosec: nsec}, nil
	case typesys.DURATION:
		if err := d.need(8); err != nil {
			return nil, err
		}
		sec := int32(binary.LittleEndian.Uint32(d.buf[d.pos:]))
		nsec := int32(binary.LittleEndian.Uint32(d.buf[d.pos+4:]))
		d.pos += 8
		return cdr.Duration{Sec: sec, Nanosec: nsec}, nil
	default:
		return nil, nil
	}
}

func anyToU8(v any) byte {
	switch n := v.(type) {
	case uint8:
		return n
	case int:
		return byte(n)
	default:
		return 0
	}
}

func anyToI64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func anyToU64(v any) uint64 {
	switch n := v.(type) {
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	case int:
		return uint64(n)
	default:
		return 0
	}
}

func anyToF64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
