package typesys

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// baseTypeNames are the primitives recognised by the msg dialect. byte/char
// are kept distinct from uint8 for field typing, matching ROS1/ROS2 msg text.
var baseTypeNames = map[string]bool{
	"bool": true, "byte": true, "char": true,
	"int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "string": true,
	"time": true, "duration": true,
}

// NormalizeMsgType turns a bare or partially-qualified package name (such as
// a ROS1 "pkg/Name" connection header type) into its canonical ROS2
// "pkg/msg/Name" form.
func NormalizeMsgType(name string) string {
	return normalizeMsgType(name)
}

// normalizeMsgType turns a bare or partially-qualified package name into its
// canonical "pkg/msg/Name" form.
func normalizeMsgType(name string) string {
	parts := strings.Split(name, "/")
	if len(parts) >= 2 && parts[len(parts)-2] == "msg" {
		return name
	}
	if len(parts) == 1 {
		return name
	}
	pkg := strings.Join(parts[:len(parts)-1], "/")
	return pkg + "/msg/" + parts[len(parts)-1]
}

// normalizeFieldType resolves a field's type name relative to the owning
// message's package, per the Header special case and the msg dialect's
// relative-reference rule. known maps a sibling embedded definition's last
// name segment to its fully-qualified name, so a bare reference to a sibling
// parsed from another package (most commonly std_msgs/Header) resolves to
// that sibling rather than to a same-package guess.
func normalizeFieldType(owner, name string, known map[string]string) string {
	if baseTypeNames[name] {
		return name
	}
	if fqn, ok := known[lastSegment(name)]; ok {
		return fqn
	}
	switch {
	case name == "Header":
		return "std_msgs/msg/Header"
	case !strings.Contains(name, "/"):
		pkg := strings.TrimSuffix(owner, "/msg/"+lastSegment(owner))
		return pkg + "/msg/" + name
	case !strings.Contains(name, "/msg/"):
		return normalizeMsgType(name)
	default:
		return name
	}
}

func lastSegment(name string) string {
	parts := strings.Split(name, "/")
	return parts[len(parts)-1]
}

// stringConstantLine matches a "string" dialect constant declaration up to
// end of line. Group 1 is everything up to and including the '=', group 2 is
// the literal value: the msg dialect lets that value contain '=', whitespace,
// and '#', none of which the field/constant grammar's tokenizer can represent
// as a single Word, so ParseMsg lifts it out before the lexer ever sees it.
var stringConstantLine = regexp.MustCompile(`(?m)^([ \t]*string[ \t]+[A-Za-z_][A-Za-z0-9_]*[ \t]*=)(.*)$`)

// preprocessStringConstants rewrites every "string NAME=<value>" declaration
// in text so its value becomes a lexer-safe placeholder word, and returns the
// rewritten text alongside the literal values the placeholders stand for, in
// declaration order. msgConstantValueString substitutes the real value back
// in once parsing has located the placeholder.
func preprocessStringConstants(text []byte) ([]byte, []string) {
	var values []string
	out := stringConstantLine.ReplaceAllFunc(text, func(line []byte) []byte {
		m := stringConstantLine.FindSubmatch(line)
		value := strings.TrimRight(string(m[2]), "\r")
		placeholder := fmt.Sprintf("%s%d", stringConstantPlaceholder, len(values))
		values = append(values, value)
		return append(append([]byte{}, m[1]...), placeholder...)
	})
	return out, values
}

const stringConstantPlaceholder = "StringConstantValue"

// ParseMsg parses a .msg dialect definition (optionally carrying embedded
// sibling definitions after a "===" separator and "MSG: pkg/Name" header, as
// found in rosbag1 connection headers) and returns the primary definition's
// fully-qualified name plus every definition parsed, keyed by name.
func ParseMsg(fqn string, text []byte) (string, map[string]*MessageDef, error) {
	fqn = normalizeMsgType(fqn)
	text, strConsts := preprocessStringConstants(text)

	tree, err := msgParser.ParseBytes(fqn, text)
	if err != nil {
		return "", nil, &ParseError{Kind: ErrUnknownToken, Location: fqn, Message: err.Error()}
	}

	byFQN := map[string]*MessageDef{}
	known := map[string]string{lastSegment(fqn): fqn}
	for _, sub := range tree.Definitions {
		name := normalizeMsgType(sub.Header.Type)
		known[lastSegment(name)] = name
	}

	primary, err := msgDefToMessageDef(fqn, tree.Elements, known, strConsts)
	if err != nil {
		return "", nil, err
	}
	byFQN[fqn] = primary

	for _, sub := range tree.Definitions {
		name := normalizeMsgType(sub.Header.Type)
		def, err := msgDefToMessageDef(name, sub.Elements, known, strConsts)
		if err != nil {
			return "", nil, err
		}
		byFQN[name] = def
	}

	return fqn, byFQN, nil
}

func msgDefToMessageDef(fqn string, elements []msgSchemaElement, known map[string]string, strConsts []string) (*MessageDef, error) {
	def := &MessageDef{Name: fqn}
	for _, el := range elements {
		switch v := el.(type) {
		case msgROSField:
			ft, err := msgTypeToType(fqn, v.Type, known)
			if err != nil {
				return nil, err
			}
			def.Fields = append(def.Fields, Field{Name: v.Name, Type: ft})
		case msgConstant:
			prim, ok := LookupPrimitive(v.Type.Name)
			if !ok {
				return nil, &ParseError{Kind: ErrBadConstant, Location: fqn, Message: "constant type must be primitive: " + v.Type.Name}
			}
			def.Constants = append(def.Constants, Constant{
				Type:  prim,
				Name:  v.Name,
				Value: msgConstantValueString(v.Value, strConsts),
			})
		default:
			return nil, &ParseError{Kind: ErrBadField, Location: fqn, Message: fmt.Sprintf("unrecognised element %T", el)}
		}
	}
	return def, nil
}

// msgConstantValueString renders a parsed constant value as text. A string
// constant's Word token is actually the placeholder preprocessStringConstants
// substituted in, so it is resolved back against strConsts here rather than
// used literally.
func msgConstantValueString(v msgConstantValue, strConsts []string) string {
	switch {
	case v.String != nil:
		if rest, ok := strings.CutPrefix(*v.String, stringConstantPlaceholder); ok {
			if idx, err := strconv.Atoi(rest); err == nil && idx >= 0 && idx < len(strConsts) {
				return strConsts[idx]
			}
		}
		return *v.String
	case v.Int != nil:
		return strconv.FormatInt(*v.Int, 10)
	case v.Float != nil:
		return strconv.FormatFloat(*v.Float, 'g', -1, 64)
	default:
		return ""
	}
}

func msgTypeToType(owner string, rt *msgROSType, known map[string]string) (Type, error) {
	if rt == nil {
		return Type{}, &ParseError{Kind: ErrMissingType, Location: owner, Message: "missing type"}
	}

	var base Type
	if prim, ok := LookupPrimitive(rt.Name); ok {
		base = Type{Primitive: prim, SizeBound: rt.SizeBound}
	} else {
		base = Type{Message: normalizeFieldType(owner, rt.Name, known)}
	}

	if !rt.Array {
		return base, nil
	}
	switch {
	case rt.Bounded:
		return Type{Array: true, Bounded: true, FixedSize: rt.FixedSize, Items: &base}, nil
	case rt.FixedSize > 0:
		return Type{Array: true, FixedSize: rt.FixedSize, Items: &base}, nil
	default:
		return Type{Array: true, Items: &base}, nil
	}
}

// ParseIDL parses an .idl dialect definition and returns every struct found,
// flattened and qualified as "module/.../msg/StructName", keyed by name.
// structFQN is the fully-qualified name of the struct the caller is
// primarily interested in (typically derived from the file path); it is
// returned unchanged for convenience.
func ParseIDL(structFQN string, text []byte) (string, map[string]*MessageDef, error) {
	tree, err := idlParser.ParseBytes(structFQN, text)
	if err != nil {
		return "", nil, &ParseError{Kind: ErrUnknownToken, Location: structFQN, Message: err.Error()}
	}

	byFQN := map[string]*MessageDef{}
	for _, def := range tree.Defs {
		mod, ok := def.(*idlModule)
		if !ok {
			continue
		}
		if err := walkIDLModule(mod.Name, mod, byFQN); err != nil {
			return "", nil, err
		}
	}
	return structFQN, byFQN, nil
}

func walkIDLModule(pkg string, mod *idlModule, out map[string]*MessageDef) error {
	// ROS2 .idl generators emit a struct's constants as a sibling module
	// named "<StructName>_Constants" rather than inside the struct body;
	// collect those first so they can be attached when the struct itself is
	// visited, regardless of which comes first in source order.
	constModules := map[string]*idlModule{}
	for _, def := range mod.Defs {
		if m, ok := def.(*idlModule); ok && strings.HasSuffix(m.Name, "_Constants") {
			constModules[strings.TrimSuffix(m.Name, "_Constants")] = m
		}
	}

	for _, def := range mod.Defs {
		switch v := def.(type) {
		case *idlStruct:
			fqn := pkg + "/" + v.Name
			md, err := idlStructToMessageDef(fqn, v)
			if err != nil {
				return err
			}
			if cm, ok := constModules[v.Name]; ok {
				consts, err := idlModuleConstants(cm)
				if err != nil {
					return err
				}
				md.Constants = consts
			}
			out[fqn] = md
		case *idlModule:
			if strings.HasSuffix(v.Name, "_Constants") {
				continue
			}
			if err := walkIDLModule(pkg+"/"+v.Name, v, out); err != nil {
				return err
			}
		case *idlConstDecl:
			// Top-level constants not paired with a "*_Constants" module have
			// no struct to attach to.
		}
	}
	return nil
}

func idlModuleConstants(m *idlModule) ([]Constant, error) {
	var consts []Constant
	for _, def := range m.Defs {
		cd, ok := def.(*idlConstDecl)
		if !ok {
			continue
		}
		prim, ok := LookupPrimitive(idlBaseAlias(cd.Type.Name))
		if !ok {
			return nil, &ParseError{Kind: ErrBadConstant, Location: m.Name, Message: "constant type must be primitive: " + cd.Type.Name}
		}
		consts = append(consts, Constant{Type: prim, Name: cd.Name, Value: idlLiteralString(cd.Value)})
	}
	return consts, nil
}

func idlLiteralString(v idlLiteral) string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Int != nil:
		return strconv.FormatInt(*v.Int, 10)
	case v.Float != nil:
		return strconv.FormatFloat(*v.Float, 'g', -1, 64)
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

func idlStructToMessageDef(fqn string, s *idlStruct) (*MessageDef, error) {
	def := &MessageDef{Name: fqn}
	for _, m := range s.Members {
		base, err := idlTypeSpecToType(fqn, m.Type)
		if err != nil {
			return nil, err
		}
		for _, decl := range m.Declarators {
			t := base
			for i := len(decl.ArraySizes) - 1; i >= 0; i-- {
				item := t
				t = Type{Array: true, FixedSize: decl.ArraySizes[i], Items: &item}
			}
			field := Field{Name: decl.Name, Type: t}
			if dv, ok := idlDefaultValue(m.Annotations); ok {
				field.Default = dv
			}
			def.Fields = append(def.Fields, field)
		}
	}
	return def, nil
}

// idlTypeSpecToType converts a type_spec node (sequence, bounded string, or
// scoped name) into a Type. The error return is retained for parallelism
// with msgTypeToType and future validation (e.g. unresolvable scoped names).
func idlTypeSpecToType(owner string, t idlTypeSpec) (Type, error) {
	switch {
	case t.Sequence != nil:
		item, err := idlTypeSpecToType(owner, *t.Sequence.Item)
		if err != nil {
			return Type{}, err
		}
		if t.Sequence.Bound > 0 {
			return Type{Array: true, Bounded: true, FixedSize: t.Sequence.Bound, Items: &item}, nil
		}
		return Type{Array: true, Items: &item}, nil
	case t.Bounded != nil:
		return Type{Primitive: STRING, SizeBound: t.Bounded.Bound}, nil
	default:
		name := strings.ReplaceAll(t.Name, "::", "/")
		if prim, ok := LookupPrimitive(idlBaseAlias(name)); ok {
			return Type{Primitive: prim}, nil
		}
		return Type{Message: normalizeMsgType(name)}, nil
	}
}

// idlBaseAlias maps IDL base type spellings that differ from the msg
// dialect's onto the shared PrimitiveType names.
func idlBaseAlias(name string) string {
	switch name {
	case "octet":
		return "uint8"
	case "boolean":
		return "bool"
	case "double":
		return "float64"
	case "float":
		return "float32"
	case "short":
		return "int16"
	case "unsigned short":
		return "uint16"
	case "long":
		return "int32"
	case "unsigned long":
		return "uint32"
	case "long long":
		return "int64"
	case "unsigned long long":
		return "uint64"
	default:
		return name
	}
}

func idlDefaultValue(anns []*idlAnnotation) (any, bool) {
	for _, a := range anns {
		if a.Name != "default" {
			continue
		}
		for _, p := range a.Params {
			if p.Name != "value" {
				continue
			}
			switch {
			case p.Value.String != nil:
				return *p.Value.String, true
			case p.Value.Int != nil:
				return *p.Value.Int, true
			case p.Value.Float != nil:
				return *p.Value.Float, true
			case p.Value.Ident != nil:
				return *p.Value.Ident, true
			}
		}
	}
	return nil, false
}
