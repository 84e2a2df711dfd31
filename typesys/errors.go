package typesys

import "fmt"

// ParseErrorKind enumerates the ways a message definition can fail to parse.
type ParseErrorKind string

const (
	ErrUnterminatedComment ParseErrorKind = "unterminated_comment"
	ErrUnknownToken        ParseErrorKind = "unknown_token"
	ErrBadField            ParseErrorKind = "bad_field"
	ErrBadConstant         ParseErrorKind = "bad_constant"
	ErrMissingType         ParseErrorKind = "missing_type"
)

// ParseError reports a malformed definition, tagged with a location string
// (the name of the definition or module being parsed) for diagnostics.
type ParseError struct {
	Kind     ParseErrorKind
	Location string
	Message  string
}

func (e *ParseError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("parse error (%s) at %s: %s", e.Kind, e.Location, e.Message)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Message)
}

// TypeConflictError is raised when re-registering a type under a name that
// already maps to a structurally different definition.
type TypeConflictError struct {
	Name string
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("type conflict: %s already registered with a different definition", e.Name)
}

// NotFoundError is raised by Lookup when a type name is unknown to the
// registry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}
