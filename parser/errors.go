package parser

import (
	"fmt"
	"strconv"
)

// Kind classifies a parse failure.
type Kind int

const (
	KindHeader Kind = iota + 1
	KindTab
	KindBadIndent
	KindLexSyntax
	KindLexType
	KindHierarchy
	KindInsufficientDepth
	KindSyntax
	KindType
	KindReservedKey
)

type kindInfo struct {
	label   string
	message string
	lexical bool
}

var kinds = map[Kind]kindInfo{
	KindHeader:            {"header", "Status: Fainted", true},
	KindTab:               {"tab", "Poison Type: Tab character detected", true},
	KindBadIndent:         {"bad_indent", "The attack missed!", true},
	KindLexSyntax:         {"lex_syntax", "It hurt itself in its confusion!", true},
	KindLexType:           {"lex_type", "Target is immune!", true},
	KindHierarchy:         {"hierarchy", "The attack missed!", false},
	KindInsufficientDepth: {"insufficient_depth", "Not enough badges!", false},
	KindSyntax:            {"syntax", "It hurt itself in its confusion!", false},
	KindType:              {"type", "Target is immune!", false},
	KindReservedKey:       {"reserved_key", "It burns the bulb", false},
}

// String returns a stable snake_case label, used as the metrics label value.
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Message returns the diagnostic text reported for the kind.
func (k Kind) Message() string {
	if info, ok := kinds[k]; ok {
		return info.message
	}
	return "unknown error"
}

// Lexical reports whether the kind is raised while tokenizing rather than while parsing.
func (k Kind) Lexical() bool { return kinds[k].lexical }

// Error is returned for every malformed document. Use errors.Is with the Err* values to test
// the kind, or errors.As to get at the line.
type Error struct {
	Kind   Kind
	Line   int
	Detail string
}

func (e *Error) Error() string {
	msg := "line " + strconv.Itoa(e.Line) + ": " + e.Kind.Message()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is matches any *Error of the same kind regardless of line or detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrHeader            = &Error{Kind: KindHeader}
	ErrTab               = &Error{Kind: KindTab}
	ErrBadIndent         = &Error{Kind: KindBadIndent}
	ErrLexSyntax         = &Error{Kind: KindLexSyntax}
	ErrLexType           = &Error{Kind: KindLexType}
	ErrHierarchy         = &Error{Kind: KindHierarchy}
	ErrInsufficientDepth = &Error{Kind: KindInsufficientDepth}
	ErrSyntax            = &Error{Kind: KindSyntax}
	ErrType              = &Error{Kind: KindType}
	ErrReservedKey       = &Error{Kind: KindReservedKey}
)

func newError(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Detail: fmt.Sprintf(format, args...)}
}
