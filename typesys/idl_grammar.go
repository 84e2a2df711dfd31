package typesys

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Grammar for the subset of OMG IDL used by ROS2 message generators: nested
// modules, struct definitions, sequence<T> / sequence<T,N> / bounded strings,
// @default-style annotations, and simple numeric/string constants.
// Preprocessor directives (#include, #ifndef/#define/#endif) and C-style
// comments are elided by the lexer rather than modelled in the grammar.

var (
	idlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Directive", Pattern: `#[^\n]*`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Float", Pattern: `[+-]?[0-9]+\.[0-9]+`},
		{Name: "Integer", Pattern: `[+-]?[0-9]+`},
		{Name: "String", Pattern: `"[^"]*"`},
		{Name: "ColonColon", Pattern: `::`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `[{}<>,;=\[\]().:@]`},
	})

	idlParser = participle.MustBuild[idlSpecification](
		participle.Lexer(idlLexer),
		participle.Union[idlDefinition](&idlModule{}, &idlStruct{}, &idlConstDecl{}),
		participle.Elide("Whitespace", "BlockComment", "LineComment", "Directive"),
		participle.UseLookahead(1000),
	)
)

type idlSpecification struct {
	Defs []idlDefinition `@@*`
}

type idlDefinition interface{ idlDef() }

func (*idlModule) idlDef()    {}
func (*idlStruct) idlDef()    {}
func (*idlConstDecl) idlDef() {}

type idlModule struct {
	Annotations []*idlAnnotation `@@* "module"`
	Name        string           `@Ident "{"`
	Defs        []idlDefinition  `@@* "}" ";"?`
}

type idlStruct struct {
	Annotations []*idlAnnotation `@@* "struct"`
	Name        string           `@Ident "{"`
	Members     []*idlMember     `@@* "}" ";"?`
}

type idlMember struct {
	Annotations []*idlAnnotation `@@*`
	Type        idlTypeSpec      `@@`
	Declarators []*idlDeclarator `@@ ( "," @@ )* ";"`
}

type idlDeclarator struct {
	Name       string `@Ident`
	ArraySizes []int  `( "[" @Integer "]" )*`
}

type idlConstDecl struct {
	Type  idlTypeSpec `"const" @@`
	Name  string      `@Ident "="`
	Value idlLiteral  `@@ ";"`
}

type idlAnnotationParam struct {
	Name  string     `@Ident "="`
	Value idlLiteral `@@`
}

type idlAnnotation struct {
	Name   string                `"@" @Ident`
	Params []*idlAnnotationParam `( "(" ( @@ ( "," @@ )* )? ")" )?`
}

type idlLiteral struct {
	String *string  `@String`
	Float  *float64 `| @Float`
	Int    *int64   `| @Integer`
	Ident  *string  `| @Ident`
}

type idlTypeSpec struct {
	Sequence *idlSequenceType `( @@`
	Bounded  *idlBoundedType  `| @@`
	Name     string           `| @(Ident ( ColonColon Ident )*) )`
}

type idlSequenceType struct {
	Item  *idlTypeSpec `"sequence" "<" @@`
	Bound int          `( "," @Integer )? ">"`
}

type idlBoundedType struct {
	Base  string `@("string" | "wstring")`
	Bound int    `"<" @Integer ">"`
}
