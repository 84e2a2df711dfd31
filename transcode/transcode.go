// Package transcode converts message bytes between the ROS1 wire format and
// CDR without ever materialising a typed value: it walks a message's type
// tree once, copying bytes from an input cursor to an output cursor and
// inserting only the padding or length-prefix adjustments each format
// requires.
package transcode

import (
	"encoding/binary"

	"github.com/ternarisco/rosbags-go/typesys"
)

// ROS1ToCDR converts ros1-encoded bytes for typename into a CDR payload
// (without the 4-byte encapsulation header, which callers prepend
// themselves since it carries no information derived from the message
// body).
func ROS1ToCDR(reg *typesys.Registry, typename string, input []byte) ([]byte, error) {
	def, err := reg.Lookup(typename)
	if err != nil {
		return nil, err
	}
	t := &toCDR{reg: reg, in: input, out: make([]byte, 0, len(input)+len(input)/4)}
	if err := t.message(def); err != nil {
		return nil, err
	}
	return t.out, nil
}

// CDRToROS1 converts a CDR payload (header already stripped by the caller)
// for typename into ROS1 wire bytes.
func CDRToROS1(reg *typesys.Registry, typename string, input []byte) ([]byte, error) {
	def, err := reg.Lookup(typename)
	if err != nil {
		return nil, err
	}
	t := &toROS1{reg: reg, in: input, out: make([]byte, 0, len(input))}
	if err := t.message(def); err != nil {
		return nil, err
	}
	return t.out, nil
}

type toCDR struct {
	reg  *typesys.Registry
	in   []byte
	ipos int
	out  []byte
}

func (t *toCDR) opos() int { return len(t.out) }

func (t *toCDR) alignOut(n int) {
	if n <= 1 {
		return
	}
	pad := (n - t.opos()%n) % n
	for i := 0; i < pad; i++ {
		t.out = append(t.out, 0)
	}
}

func (t *toCDR) needIn(n int) error {
	if t.ipos+n > len(t.in) {
		return &ShortReadError{Want: t.ipos + n, Have: len(t.in)}
	}
	return nil
}

// message transcodes one message's fields in order. The ROS1→CDR Header
// bridging rule drops the ROS1-only 4-byte seq field before the remaining
// members.
func (t *toCDR) message(def *typesys.MessageDef) error {
	if def.Name == "std_msgs/msg/Header" {
		if err := t.needIn(4); err != nil {
			return err
		}
		t.ipos += 4
	}
	for _, f := range def.Fields {
		if err := t.value(f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (t *toCDR) value(typ typesys.Type) error {
	switch {
	case typ.Array:
		n := typ.FixedSize
		if typ.IsSequence() {
			if err := t.needIn(4); err != nil {
				return err
			}
			count := binary.LittleEndian.Uint32(t.in[t.ipos:])
			t.ipos += 4
			t.alignOut(4)
			t.out = binary.LittleEndian.AppendUint32(t.out, count)
			// Padding after the length prefix depends only on the element
			// type, never on count, including zero.
			align, err := typesys.SequenceElementAlign(t.reg, *typ.Items)
			if err != nil {
				return err
			}
			t.alignOut(align)
			n = int(count)
		}
		for i := 0; i < n; i++ {
			if err := t.value(*typ.Items); err != nil {
				return err
			}
		}
		return nil

	case typ.IsMessage():
		sub, err := t.reg.Lookup(typ.Message)
		if err != nil {
			return err
		}
		return t.message(sub)

	default:
		return t.primitive(typ.Primitive)
	}
}

func (t *toCDR) primitive(p typesys.PrimitiveType) error {
	switch p {
	case typesys.STRING:
		if err := t.needIn(4); err != nil {
			return err
		}
		length := binary.LittleEndian.Uint32(t.in[t.ipos:]) // ROS1 length, no NUL
		t.ipos += 4
		if err := t.needIn(int(length)); err != nil {
			return err
		}
		t.alignOut(4)
		t.out = binary.LittleEndian.AppendUint32(t.out, length+1)
		t.out = append(t.out, t.in[t.ipos:t.ipos+int(length)]...)
		t.out = append(t.out, 0)
		t.ipos += int(length)
	default:
		size := p.Size()
		if err := t.needIn(size); err != nil {
			return err
		}
		t.alignOut(p.Align())
		t.out = append(t.out, t.in[t.ipos:t.ipos+size]...)
		t.ipos += size
	}
	return nil
}

type toROS1 struct {
	reg  *typesys.Registry
	in   []byte
	ipos int
	out  []byte
}

func (t *toROS1) alignIn(n int) {
	if n <= 1 {
		return
	}
	t.ipos = (t.ipos + n - 1) / n * n
}

func (t *toROS1) needIn(n int) error {
	if t.ipos+n > len(t.in) {
		return &ShortReadError{Want: t.ipos + n, Have: len(t.in)}
	}
	return nil
}

// message transcodes one message's fields in order. The CDR→ROS1 Header
// bridging rule emits a zero seq field before the remaining members.
func (t *toROS1) message(def *typesys.MessageDef) error {
	if def.Name == "std_msgs/msg/Header" {
		t.out = binary.LittleEndian.AppendUint32(t.out, 0)
	}
	for _, f := range def.Fields {
		if err := t.value(f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (t *toROS1) value(typ typesys.Type) error {
	switch {
	case typ.Array:
		n := typ.FixedSize
		if typ.IsSequence() {
			t.alignIn(4)
			if err := t.needIn(4); err != nil {
				return err
			}
			count := binary.LittleEndian.Uint32(t.in[t.ipos:])
			t.ipos += 4
			t.out = binary.LittleEndian.AppendUint32(t.out, count)
			align, err := typesys.SequenceElementAlign(t.reg, *typ.Items)
			if err != nil {
				return err
			}
			t.alignIn(align)
			n = int(count)
		}
		for i := 0; i < n; i++ {
			if err := t.value(*typ.Items); err != nil {
				return err
			}
		}
		return nil

	case typ.IsMessage():
		sub, err := t.reg.Lookup(typ.Message)
		if err != nil {
			return err
		}
		return t.message(sub)

	default:
		return t.primitive(typ.Primitive)
	}
}

func (t *toROS1) primitive(p typesys.PrimitiveType) error {
	switch p {
	case typesys.STRING:
		t.alignIn(4)
		if err := t.needIn(4); err != nil {
			return err
		}
		length := binary.LittleEndian.Uint32(t.in[t.ipos:]) // CDR length, includes NUL
		t.ipos += 4
		if length == 0 {
			return &BadLengthError{Length: 0}
		}
		n := int(length) - 1
		if err := t.needIn(n + 1); err != nil {
			return err
		}
		t.out = binary.LittleEndian.AppendUint32(t.out, uint32(n))
		t.out = append(t.out, t.in[t.ipos:t.ipos+n]...)
		t.ipos += n + 1 // skip trailing NUL
	default:
		t.alignIn(p.Align())
		size := p.Size()
		if err := t.needIn(size); err != nil {
			return err
		}
		t.out = append(t.out, t.in[t.ipos:t.ipos+size]...)
		t.ipos += size
	}
	return nil
}
