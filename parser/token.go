package parser

import "fmt"

// Token is one lexical unit of a document. Text holds the literal content of identifiers and
// scalars and is empty for punctuation. Level is only meaningful for IndentToken and the
// section tokens.
type Token struct {
	Kind  TokenKind
	Text  string
	Line  int
	Level int
}

func (t Token) String() string {
	switch t.Kind {
	case IndentToken, SectionOpenToken, SectionCloseToken:
		return fmt.Sprintf("%d:%s(%d)", t.Line, t.Kind, t.Level)
	case IdentToken, StringToken, NumberToken, BoolToken:
		return fmt.Sprintf("%d:%s(%q)", t.Line, t.Kind, t.Text)
	default:
		return fmt.Sprintf("%d:%s", t.Line, t.Kind)
	}
}

type TokenKind int

const (
	HeaderToken TokenKind = iota
	IndentToken
	SectionOpenToken
	SectionCloseToken
	IdentToken
	AssignToken
	StringToken
	NumberToken
	BoolToken
	NullToken
	ArrayStartToken
	ArrayEndToken
	CommaToken
	EOFToken
)

var tokenKindNames = [...]string{
	HeaderToken:       "Header",
	IndentToken:       "Indent",
	SectionOpenToken:  "SectionOpen",
	SectionCloseToken: "SectionClose",
	IdentToken:        "Ident",
	AssignToken:       "Assign",
	StringToken:       "String",
	NumberToken:       "Number",
	BoolToken:         "Bool",
	NullToken:         "Null",
	ArrayStartToken:   "ArrayStart",
	ArrayEndToken:     "ArrayEnd",
	CommaToken:        "Comma",
	EOFToken:          "EOF",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return tokenKindNames[k]
}
