// Package jsonenc renders a decoded message value as JSON, the way
// `ros2 topic echo` or `rostopic echo` prints a message for a human to read.
// Unlike the wire codecs it never walks raw bytes: it consumes the same
// typed *cdr.Message tree that cdr.Decode and ros1wire.Decode already
// produce, so callers that have decoded a message can render it without a
// second, format-specific encoder.
package jsonenc

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/typesys"
)

// Marshal renders msg as a single-line JSON object keyed by field name, in
// declaration order. Nested messages become nested objects; arrays and
// sequences become JSON arrays.
func Marshal(msg *cdr.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMessage(&buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMessage(buf *bytes.Buffer, msg *cdr.Message) error {
	buf.WriteByte('{')
	for i, f := range msg.Def.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, f.Name)
		buf.WriteByte(':')
		if err := writeValue(buf, f.Type, msg.Values[i]); err != nil {
			return fmt.Errorf("jsonenc: field %q: %w", f.Name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, t typesys.Type, v any) error {
	switch {
	case t.IsMessage():
		nested, ok := v.(*cdr.Message)
		if !ok {
			return fmt.Errorf("expected *cdr.Message for %s, got %T", t.Message, v)
		}
		return writeMessage(buf, nested)
	case t.Array:
		elems, ok := v.([]any)
		if !ok {
			return fmt.Errorf("expected []any for array/sequence, got %T", v)
		}
		buf.WriteByte('[')
		for i, e := range elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, *t.Items, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writePrimitive(buf, t.Primitive, v)
	}
}

func writePrimitive(buf *bytes.Buffer, p typesys.PrimitiveType, v any) error {
	switch p {
	case typesys.BOOL:
		b, _ := v.(bool)
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case typesys.BYTE, typesys.CHAR, typesys.UINT8:
		b, _ := v.(byte)
		buf.WriteString(strconv.FormatUint(uint64(b), 10))
	case typesys.INT8:
		n, _ := v.(int8)
		buf.WriteString(strconv.FormatInt(int64(n), 10))
	case typesys.INT16:
		n, _ := v.(int16)
		buf.WriteString(strconv.FormatInt(int64(n), 10))
	case typesys.UINT16:
		n, _ := v.(uint16)
		buf.WriteString(strconv.FormatUint(uint64(n), 10))
	case typesys.INT32:
		n, _ := v.(int32)
		buf.WriteString(strconv.FormatInt(int64(n), 10))
	case typesys.UINT32:
		n, _ := v.(uint32)
		buf.WriteString(strconv.FormatUint(uint64(n), 10))
	case typesys.INT64:
		n, _ := v.(int64)
		buf.WriteString(strconv.FormatInt(n, 10))
	case typesys.UINT64:
		n, _ := v.(uint64)
		buf.WriteString(strconv.FormatUint(n, 10))
	case typesys.FLOAT32:
		f, _ := v.(float32)
		buf.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	case typesys.FLOAT64:
		f, _ := v.(float64)
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case typesys.STRING:
		s, _ := v.(string)
		writeJSONString(buf, s)
	case typesys.TIME:
		t, _ := v.(cdr.Time)
		fmt.Fprintf(buf, `{"sec":%d,"nanosec":%d}`, t.Sec, t.Nanosec)
	case typesys.DURATION:
		d, _ := v.(cdr.Duration)
		fmt.Fprintf(buf, `{"sec":%d,"nanosec":%d}`, d.Sec, d.Nanosec)
	default:
		return fmt.Errorf("unrecognized primitive %s", p)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
