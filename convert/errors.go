package convert

// UnknownTypeError is returned when a connection's message type cannot be
// resolved: it is absent from the registry and, for a rosbag2 source, no
// embedded definition exists to auto-register it from.
type UnknownTypeError struct{ TypeName string }

func (e *UnknownTypeError) Error() string {
	return "convert: unknown type: " + e.TypeName
}
