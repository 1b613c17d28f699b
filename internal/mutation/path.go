package mutation

import (
	"github.com/alecthomas/participle/v2"
)

// PathExpr addresses one or more values within a document, rooted at `self`.
type PathExpr struct {
	ast  *pathExprAST
	expr string
}

// ParsePathExpr parses a path expression string.
//
// Supported syntax:
// - `self.section.key`: object field traversal
// - `self.section["key"]`: alternative field traversal (useful for keys containing spaces)
// - `self.list[2]`: array indexing
// - `self.list[*]`: array wildcards
// - `self.list[name="value"]`: matches objects in an array by a string field
//
// Expressions can be chained, e.g. `self.trainers[name="Red"].party[0]`.
func ParsePathExpr(expr string) (*PathExpr, error) {
	ast, err := pathParser.ParseString("", expr)
	if err != nil {
		return nil, err
	}
	return &PathExpr{ast: ast, expr: expr}, nil
}

func (p *PathExpr) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

var pathParser = participle.MustBuild[pathExprAST]()

type pathExprAST struct {
	Sections []*section `parser:"@@*"`
}

type section struct {
	Field *string `parser:"\".\"* (@Ident"`
	Index *index  `parser:"| \"[\" @@ \"]\")"`
}

type index struct {
	Wildcard bool          `parser:"@\"*\""`
	Element  *int          `parser:"| @Int"`
	Key      *string       `parser:"| @String"`
	Matcher  *indexMatcher `parser:"| @@"`
}

type indexMatcher struct {
	Key   string `parser:"@Ident \"=\""`
	Value string `parser:"@String"`
}
