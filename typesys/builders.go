package typesys

// The helpers in this file build Type and Field values by hand. They back
// the built-in message set in builtins.go, where constructing definitions
// directly is simpler and more robust than bootstrapping them through the
// msg-dialect parser.

// Prim returns a primitive field type.
func Prim(p PrimitiveType) Type {
	return Type{Primitive: p}
}

// Msg returns a nested-message field type, referencing another definition by
// its fully-qualified name.
func Msg(name string) Type {
	return Type{Message: name}
}

// FixedArray returns a fixed-length array of N elements of the given type.
func FixedArray(items Type, n int) Type {
	return Type{Array: true, FixedSize: n, Items: &items}
}

// Sequence returns an unbounded sequence of the given type.
func Sequence(items Type) Type {
	return Type{Array: true, Items: &items}
}

// BoundedSequence returns a sequence bounded to at most n elements.
func BoundedSequence(items Type, n int) Type {
	return Type{Array: true, Bounded: true, FixedSize: n, Items: &items}
}

// F builds a field with no default value.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// FD builds a field with a default value.
func FD(name string, t Type, def any) Field {
	return Field{Name: name, Type: t, Default: def}
}

// Def builds a message definition.
func Def(name string, fields ...Field) *MessageDef {
	return &MessageDef{Name: name, Fields: fields}
}
