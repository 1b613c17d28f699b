package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Header is the required first line of every document.
const Header = "BULBA!"

const (
	commentMarker = "zZz"

	arrayOpen  = "<|"
	arrayClose = "|>"
)

// sectionDelimiters maps each tier to the markers wrapping its header line.
var sectionDelimiters = []struct {
	tier        int
	open, close string
}{
	{tier: 1, open: "(o) ", close: " (o)"},
	{tier: 2, open: "(O) ", close: " (O)"},
	{tier: 3, open: "(@) ", close: " (@)"},
}

// assignmentPattern matches `key ~~~> value`.
var assignmentPattern = regexp.MustCompile(`^([a-zA-Z0-9_]+)\s*(~+>)\s*(.*)$`)

var literals = map[string]Token{
	"SuperEffective":   {Kind: BoolToken, Text: "true"},
	"NotVeryEffective": {Kind: BoolToken, Text: "false"},
	"MissingNo":        {Kind: NullToken},
}

type lexer struct {
	input  []byte
	line   int
	tokens []Token

	indentation indentationScanner
}

func newLexer(input []byte) *lexer {
	return &lexer{input: input, indentation: indentationScanner{width: indentWidth}}
}

// Tokenize converts a document into its token sequence, which always starts with a
// HeaderToken and ends with an EOFToken. The first error aborts tokenization.
func Tokenize(src []byte) ([]Token, error) {
	return newLexer(src).Tokenize()
}

func (l *lexer) Tokenize() ([]Token, error) {
	lines := strings.Split(strings.TrimSuffix(string(l.input), "\n"), "\n")
	for i, text := range lines {
		l.line = i + 1
		text = strings.TrimSuffix(text, "\r")

		if l.line == 1 {
			if text != Header {
				return nil, newError(KindHeader, l.line, "first line must be %q", Header)
			}
			l.emit(HeaderToken, Header, 0)
			continue
		}

		if err := l.scanLine(text); err != nil {
			return nil, err
		}
	}
	l.emit(EOFToken, "", 0)
	return l.tokens, nil
}

func (l *lexer) scanLine(text string) error {
	if i := strings.Index(text, commentMarker); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return nil
	}

	level, rest, err := l.indentation.Scan(l.line, text)
	if err != nil {
		return err
	}
	l.emit(IndentToken, "", level)
	return l.scanStatement(strings.TrimSpace(rest))
}

func (l *lexer) scanStatement(text string) error {
	for _, d := range sectionDelimiters {
		if len(text) < len(d.open)+len(d.close) || !strings.HasPrefix(text, d.open) || !strings.HasSuffix(text, d.close) {
			continue
		}
		key := text[len(d.open) : len(text)-len(d.close)]
		l.emit(SectionOpenToken, "", d.tier)
		l.emit(IdentToken, key, 0)
		l.emit(SectionCloseToken, "", d.tier)
		return nil
	}

	m := assignmentPattern.FindStringSubmatch(text)
	if m == nil {
		return newError(KindLexSyntax, l.line, "unrecognized statement %q", text)
	}
	l.emit(IdentToken, m[1], 0)
	l.emit(AssignToken, "", 0)
	return l.scanValue(m[3])
}

func (l *lexer) scanValue(text string) error {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return newError(KindLexType, l.line, "missing value")

	case len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"':
		l.emit(StringToken, text[1:len(text)-1], 0)
		return nil

	case len(text) >= len(arrayOpen)+len(arrayClose) && strings.HasPrefix(text, arrayOpen) && strings.HasSuffix(text, arrayClose):
		return l.scanArray(text[len(arrayOpen) : len(text)-len(arrayClose)])
	}

	if tok, ok := literals[text]; ok {
		l.emit(tok.Kind, tok.Text, 0)
		return nil
	}
	if isNumber(text) {
		l.emit(NumberToken, text, 0)
		return nil
	}
	return newError(KindLexType, l.line, "unrecognized value %q", text)
}

func (l *lexer) scanArray(inner string) error {
	l.emit(ArrayStartToken, "", 0)
	if strings.TrimSpace(inner) != "" {
		for i, elem := range splitElements(inner) {
			if i > 0 {
				l.emit(CommaToken, "", 0)
			}
			if err := l.scanValue(elem); err != nil {
				return err
			}
		}
	}
	l.emit(ArrayEndToken, "", 0)
	return nil
}

// splitElements splits the inside of an array on commas that are not enclosed by a nested
// array. Array markers inside string literals do not nest, but commas inside string literals
// still split.
func splitElements(inner string) []string {
	var (
		elems  []string
		depth  int
		start  int
		quoted bool
	)
	for i := 0; i < len(inner); i++ {
		switch {
		case inner[i] == '"':
			quoted = !quoted
		case quoted:
		case strings.HasPrefix(inner[i:], arrayOpen):
			depth++
			i++
		case strings.HasPrefix(inner[i:], arrayClose):
			if depth > 0 {
				depth--
			}
			i++
		}
		if inner[i] == ',' && depth == 0 {
			elems = append(elems, inner[start:i])
			start = i + 1
		}
	}
	return append(elems, inner[start:])
}

func isNumber(text string) bool {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

func (l *lexer) emit(kind TokenKind, text string, level int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Line: l.line, Level: level})
}
