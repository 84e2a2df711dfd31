package cdr

import (
	"encoding/binary"
	"math"

	"github.com/ternarisco/rosbags-go/typesys"
)

// Time is the ROS1-style two-field time value used by the legacy "time"
// primitive: seconds and nanoseconds, both unsigned.
type Time struct {
	Sec     uint32
	Nanosec uint32
}

// Duration is the ROS1-style two-field duration value used by the legacy
// "duration" primitive: seconds and nanoseconds, both signed.
type Duration struct {
	Sec     int32
	Nanosec int32
}

// header byte layout: 2 bytes representation id, 2 bytes options.
var (
	headerBE = [4]byte{0x00, 0x00, 0x00, 0x00}
	headerLE = [4]byte{0x00, 0x01, 0x00, 0x00}
)

// EncapsulationHeader returns the 4-byte CDR encapsulation header for the
// requested endianness, for callers (such as the transcoder) that build a
// CDR payload without going through Encode.
func EncapsulationHeader(littleEndian bool) [4]byte {
	if littleEndian {
		return headerLE
	}
	return headerBE
}

// Encode serialises msg against its definition msg.Def (nested message types
// are looked up in reg) into a CDR buffer: a 4-byte encapsulation header
// followed by the alignment-padded payload.
func Encode(reg *typesys.Registry, littleEndian bool, msg *Message) ([]byte, error) {
	buf := make([]byte, 0, 256)
	if littleEndian {
		buf = append(buf, headerLE[:]...)
	} else {
		buf = append(buf, headerBE[:]...)
	}
	payloadStart := len(buf)
	enc := &encoder{reg: reg, le: littleEndian, buf: buf, start: payloadStart}
	if err := enc.message(msg); err != nil {
		return nil, err
	}
	return enc.buf, nil
}

type encoder struct {
	reg   *typesys.Registry
	le    bool
	buf   []byte
	start int
}

func (e *encoder) pos() int { return len(e.buf) - e.start }

func (e *encoder) align(n int) {
	if n <= 1 {
		return
	}
	pad := (n - e.pos()%n) % n
	for i := 0; i < pad; i++ {
		e.buf = append(e.buf, 0)
	}
}

func (e *encoder) message(m *Message) error {
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
			e.align(4)
			e.putU32(uint32(len(items)))
			// The padding between a sequence's length prefix and its first
			// element depends only on the element type, not on whether the
			// sequence actually has any elements: pad here, unconditionally,
			// rather than leaving it to the loop body below.
			n, err := typesys.SequenceElementAlign(e.reg, *t.Items)
			if err != nil {
				return err
			}
			e.align(n)
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

func (e *encoder) putU32(val uint32) {
	var b [4]byte
	if e.le {
		binary.LittleEndian.PutUint32(b[:], val)
	} else {
		binary.BigEndian.PutUint32(b[:], val)
	}
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) putU64(val uint64) {
	var b [8]byte
	if e.le {
		binary.LittleEndian.PutUint64(b[:], val)
	} else {
		binary.BigEndian.PutUint64(b[:], val)
	}
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) putU16(val uint16) {
	var b [2]byte
	if e.le {
		binary.LittleEndian.PutUint16(b[:], val)
	} else {
		binary.BigEndian.PutUint16(b[:], val)
	}
	e.buf = append(e.buf, b[:]...)
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
		e.buf = append(e.buf, toU8(v))
	case typesys.INT8:
		e.buf = append(e.buf, byte(toI64(v)))
	case typesys.INT16:
		e.align(2)
		e.putU16(uint16(toI64(v)))
	case typesys.UINT16:
		e.align(2)
		e.putU16(uint16(toU64(v)))
	case typesys.INT32:
		e.align(4)
		e.putU32(uint32(toI64(v)))
	case typesys.UINT32:
		e.align(4)
		e.putU32(uint32(toU64(v)))
	case typesys.INT64:
		e.align(8)
		e.putU64(uint64(toI64(v)))
	case typesys.UINT64:
		e.align(8)
		e.putU64(toU64(v))
	case typesys.FLOAT32:
		e.align(4)
		f, _ := v.(float32)
		e.putU32(math.Float32bits(f))
	case typesys.FLOAT64:
		e.align(8)
		f := toF64(v)
		e.putU64(math.Float64bits(f))
	case typesys.STRING:
		e.align(4)
		s, _ := v.(string)
		e.putU32(uint32(len(s) + 1))
		e.buf = append(e.buf, s...)
		e.buf = append(e.buf, 0)
	case typesys.TIME:
		t, _ := v.(Time)
		e.align(4)
		e.putU32(t.Sec)
		e.putU32(t.Nanosec)
	case typesys.DURATION:
		d, _ := v.(Duration)
		e.align(4)
		e.putU32(uint32(d.Sec))
		e.putU32(uint32(d.Nanosec))
	}
	return nil
}

func toU8(v any) byte {
	switch n := v.(type) {
	case uint8:
		return n
	case int:
		return byte(n)
	default:
		return 0
	}
}

func toI64(v any) int64 {
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

func toU64(v any) uint64 {
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

func toF64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// Decode deserialises a CDR buffer (header included) into a Message matching
// the definition registered under typename, reporting the endianness found
// in the header.
func Decode(reg *typesys.Registry, typename string, data []byte) (*Message, bool, error) {
	if len(data) < 4 {
		return nil, false, &ShortReadError{Want: 4, Have: len(data)}
	}
	if data[0] != 0x00 || (data[1] != 0x00 && data[1] != 0x01) {
		return nil, false, &BadHeaderError{Got: [2]byte{data[0], data[1]}}
	}
	le := data[1] == 0x01

	def, err := reg.Lookup(typename)
	if err != nil {
		return nil, le, err
	}

	d := &decoder{reg: reg, le: le, buf: data[4:]}
	msg, err := d.message(def)
	if err != nil {
		return nil, le, err
	}
	if d.pos < len(d.buf) {
		return nil, le, &ExcessBytesError{Remaining: len(d.buf) - d.pos}
	}
	return msg, le, nil
}

type decoder struct {
	reg *typesys.Registry
	le  bool
	buf []byte
	pos int
}

func (d *decoder) align(n int) {
	if n <= 1 {
		return
	}
	d.pos = (d.pos + n - 1) / n * n
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.buf) {
		return &ShortReadError{Want: d.pos + n, Have: len(d.buf)}
	}
	return nil
}

func (d *decoder) u16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	var v uint16
	if d.le {
		v = binary.LittleEndian.Uint16(d.buf[d.pos:])
	} else {
		v = binary.BigEndian.Uint16(d.buf[d.pos:])
	}
	d.pos += 2
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	var v uint32
	if d.le {
		v = binary.LittleEndian.Uint32(d.buf[d.pos:])
	} else {
		v = binary.BigEndian.Uint32(d.buf[d.pos:])
	}
	d.pos += 4
	return v, nil
}

func (d *decoder) u64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	var v uint64
	if d.le {
		v = binary.LittleEndian.Uint64(d.buf[d.pos:])
	} else {
		v = binary.BigEndian.Uint64(d.buf[d.pos:])
	}
	d.pos += 8
	return v, nil
}

func (d *decoder) message(def *typesys.MessageDef) (*Message, error) {
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
			d.align(4)
			count, err := d.u32()
			if err != nil {
				return nil, err
			}
			if int(count) > len(d.buf)-d.pos && t.Items.IsPrimitive() && t.Items.Primitive != typesys.STRING {
				return nil, &BadLengthError{Length: int(count), Remaining: len(d.buf) - d.pos}
			}
			// Mirrors the encoder: this padding applies regardless of count,
			// including zero, since it is solely a function of the element
			// type.
			align, err := typesys.SequenceElementAlign(d.reg, *t.Items)
			if err != nil {
				return nil, err
			}
			d.align(align)
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
		d.align(2)
		v, err := d.u16()
		return int16(v), err
	case typesys.UINT16:
		d.align(2)
		return d.u16()
	case typesys.INT32:
		d.align(4)
		v, err := d.u32()
		return int32(v), err
	case typesys.UINT32:
		d.align(4)
		return d.u32()
	case typesys.INT64:
		d.align(8)
		v, err := d.u64()
		return int64(v), err
	case typesys.UINT64:
		d.align(8)
		return d.u64()
	case typesys.FLOAT32:
		d.align(4)
		v, err := d.u32()
		return math.Float32frombits(v), err
	case typesys.FLOAT64:
		d.align(8)
		v, err := d.u64()
		return math.Float64frombits(v), err
	case typesys.STRING:
		d.align(4)
		length, err := d.u32()
		if err != nil {
			return nil, err
		}
		if int(length) > len(d.buf)-d.pos {
			return nil, &BadLengthError{Length: int(length), Remaining: len(d.buf) - d.pos}
		}
		if length == 0 {
			return "", nil
		}
		s := string(d.buf[d.pos : d.pos+int(length)-1])
		d.pos += int(length)
		return s, nil
	case typesys.TIME:
		d.align(4)
		sec, err := d.u32()
		if err != nil {
			return nil, err
		}
		nsec, err := d.u32()
		if err != nil {
			return nil, err
		}
		return Time{Sec: sec, Nanosec: nsec}, nil
	case typesys.DURATION:
		d.align(4)
		sec, err := d.u32()
		if err != nil {
			return nil, err
		}
		nsec, err := d.u32()
		if err != nil {
			return nil, err
		}
		return Duration{Sec: int32(sec), Nanosec: int32(nsec)}, nil
	default:
		return nil, nil
	}
}
