package typesys

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Grammar for the ROS .msg dialect: a flat list of field and constant
// declarations, optionally followed by one or more embedded definitions
// separated by a line of '=' characters, each headed by "MSG: pkg/Name".
// Embedded definitions are how rosbag1 connection headers and concatenated
// .msg text carry a message's full dependency closure in one blob.

var (
	msgLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Newline", Pattern: `\s*[\n\r]+`},
		{Name: "Float", Pattern: `[+-]?[0-9]+\.[0-9]+`},
		{Name: "Integer", Pattern: `[+-]?[0-9]+`},
		{Name: "Word", Pattern: `[a-zA-Z0-9_]+`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "Slash", Pattern: `/`},
		{Name: "Colon", Pattern: `:`},
		{Name: "LEQ", Pattern: `<=`},
		{Name: "Equals", Pattern: `=`},
	})

	msgParser = participle.MustBuild[msgDefinition](
		participle.Lexer(msgLexer),
		participle.Union[msgSchemaElement](msgConstant{}, msgROSField{}),
		participle.Elide("Whitespace", "Newline", "Comment"),
		participle.UseLookahead(1000),
	)
)

type msgDefinition struct {
	Elements    []msgSchemaElement `@@*`
	Definitions []msgSubdef        `@@*`
}

type msgSubdef struct {
	Header   msgHeader          `Equals+ @@`
	Elements []msgSchemaElement `@@*`
}

type msgHeader struct {
	Type string `'MSG' Colon @(Word ( Slash Word )*)`
}

type msgROSField struct {
	Type *msgROSType `@@`
	Name string      `@Word`
}

type msgConstant struct {
	Type  *msgROSType      `@@`
	Name  string           `@Word Equals`
	Value msgConstantValue `@@`
}

// msgConstantValue.String only ever sees a single Word token: a string
// constant's real value (which may contain '=', whitespace, and '#') is
// lifted out by preprocessStringConstants in parse.go before the lexer runs,
// and substituted back in by msgConstantValueString once this token is a
// known placeholder.
type msgConstantValue struct {
	String *string  `@Word`
	Int    *int64   `| @Integer`
	Float  *float64 `| @Float`
}

type msgROSType struct {
	Name      string `@(Word ( Slash Word )*)`
	SizeBound int    `(LEQ @Integer)?`
	Array     bool   `@LBracket?`
	Bounded   bool   `@LEQ?`
	FixedSize int    `(( @Integer RBracket ) | RBracket)?`
}

type msgSchemaElement interface{ msgElement() }

func (msgROSField) msgElement() {}
func (msgConstant) msgElement()  {}
