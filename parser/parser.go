// Package parser turns BULBA! documents into document trees.
//
// Parsing happens in two stages: Tokenize produces a flat token sequence and ParseTokens
// interprets it with a stack of open sections. Parse runs both.
package parser

import (
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/Azure/bulba/pkg/document"
)

// maxTier is the deepest section tier.
const maxTier = 3

var reservedKeys = map[string]struct{}{
	"Charizard": {},
}

// IsReservedKey reports whether key is forbidden as a section or value key.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

type Options struct {
	// Logger receives per-document details at V(1). Defaults to logr.Discard().
	Logger logr.Logger
}

// Parser holds no per-document state and is safe for concurrent use.
type Parser struct {
	logger logr.Logger
}

func New(opts Options) *Parser {
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &Parser{logger: opts.Logger}
}

var defaultParser = New(Options{})

// Parse tokenizes and parses src using a parser with default options.
func Parse(src []byte) (*document.Object, error) { return defaultParser.Parse(src) }

// ParseTokens parses an already tokenized document using a parser with default options.
func ParseTokens(tokens []Token) (*document.Object, error) {
	return defaultParser.ParseTokens(tokens)
}

func (p *Parser) Parse(src []byte) (doc *document.Object, err error) {
	start := time.Now()
	defer func() { observe(start, err) }()

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return p.parse(tokens)
}

func (p *Parser) ParseTokens(tokens []Token) (doc *document.Object, err error) {
	start := time.Now()
	defer func() { observe(start, err) }()
	return p.parse(tokens)
}

func (p *Parser) parse(tokens []Token) (*document.Object, error) {
	root := document.NewObject()
	s := &state{
		tokens: tokens,
		stack:  []frame{{obj: root, level: 0}},
		logger: p.logger,
	}
	if err := s.run(); err != nil {
		return nil, err
	}

	p.logger.V(1).Info("parsed document", "tokens", len(tokens), "keys", root.Len())
	return root, nil
}

// frame is one open mapping. The root is always at the bottom of the stack with level 0.
type frame struct {
	obj   *document.Object
	level int
}

type state struct {
	tokens []Token
	pos    int
	stack  []frame
	logger logr.Logger
}

func (s *state) run() error {
	for s.pos < len(s.tokens) {
		tok := s.next()
		switch tok.Kind {
		case EOFToken:
			return nil
		case IndentToken:
			if err := s.statement(tok); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *state) statement(indent Token) error {
	tok, ok := s.peek()
	if !ok {
		return newError(KindSyntax, indent.Line, "expected statement after indentation")
	}
	switch tok.Kind {
	case SectionOpenToken:
		return s.section(indent)
	case IdentToken:
		return s.assignment(indent)
	default:
		return newError(KindSyntax, tok.Line, "unexpected %s token", tok.Kind)
	}
}

func (s *state) section(indent Token) error {
	open := s.next()
	tier := open.Level
	if tier < 1 || tier > maxTier || indent.Level != tier-1 {
		return newError(KindHierarchy, open.Line, "tier %d section at indentation level %d", tier, indent.Level)
	}
	if len(s.stack) < tier {
		return newError(KindInsufficientDepth, open.Line, "tier %d section needs %d open ancestors, have %d", tier, tier-1, len(s.stack)-1)
	}

	key, err := s.expect(IdentToken, "section name")
	if err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	closing, err := s.expect(SectionCloseToken, "section close marker")
	if err != nil {
		return err
	}
	if closing.Level != tier {
		return newError(KindSyntax, closing.Line, "tier %d section closed with a tier %d marker", tier, closing.Level)
	}

	s.stack = s.stack[:tier]
	child := document.NewObject()
	s.top().Set(key.Text, document.ObjectValue(child))
	s.stack = append(s.stack, frame{obj: child, level: tier})

	s.logger.V(1).Info("opened section", "key", key.Text, "tier", tier, "line", key.Line)
	return nil
}

func (s *state) assignment(indent Token) error {
	key := s.next()
	if current := s.level(); indent.Level != current {
		if indent.Level > current || indent.Level < 0 {
			return newError(KindHierarchy, key.Line, "key %q indented to level %d inside a level %d section", key.Text, indent.Level, current)
		}
		s.stack = s.stack[:indent.Level+1]
	}
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.expect(AssignToken, "assignment operator"); err != nil {
		return err
	}

	v, err := s.value()
	if err != nil {
		return err
	}
	s.top().Set(key.Text, v)
	return nil
}

func (s *state) value() (document.Value, error) {
	tok, ok := s.peek()
	if !ok {
		return document.Value{}, newError(KindSyntax, s.lastLine(), "unexpected end of input, expected a value")
	}
	s.pos++

	switch tok.Kind {
	case StringToken:
		return document.String(tok.Text), nil
	case BoolToken:
		return document.Bool(tok.Text == "true"), nil
	case NullToken:
		return document.Null(), nil
	case NumberToken:
		return parseNumber(tok)
	case ArrayStartToken:
		return s.array(tok)
	default:
		return document.Value{}, newError(KindType, tok.Line, "%s token is not a value", tok.Kind)
	}
}

func (s *state) array(start Token) (document.Value, error) {
	var elems []document.Value
	for {
		tok, ok := s.peek()
		if !ok || tok.Kind == EOFToken {
			return document.Value{}, newError(KindSyntax, start.Line, "unterminated array")
		}
		switch tok.Kind {
		case ArrayEndToken:
			s.pos++
			return document.Array(elems...), nil
		case CommaToken:
			s.pos++
		default:
			v, err := s.value()
			if err != nil {
				return document.Value{}, err
			}
			elems = append(elems, v)
		}
	}
}

func parseNumber(tok Token) (document.Value, error) {
	if i, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
		return document.Int(i), nil
	}
	if f, err := strconv.ParseFloat(tok.Text, 64); err == nil {
		return document.Float(f), nil
	}
	return document.Value{}, newError(KindType, tok.Line, "%q is not a number", tok.Text)
}

func validateKey(tok Token) error {
	if IsReservedKey(tok.Text) {
		return newError(KindReservedKey, tok.Line, "%q is reserved", tok.Text)
	}
	return nil
}

func (s *state) expect(kind TokenKind, what string) (Token, error) {
	tok, ok := s.peek()
	if !ok {
		return Token{}, newError(KindSyntax, s.lastLine(), "unexpected end of input, expected %s", what)
	}
	if tok.Kind != kind {
		return Token{}, newError(KindSyntax, tok.Line, "expected %s, got %s", what, tok.Kind)
	}
	s.pos++
	return tok, nil
}

func (s *state) next() Token {
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func (s *state) peek() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *state) top() *document.Object { return s.stack[len(s.stack)-1].obj }

// level is the tier of the innermost open section, 0 at the root.
func (s *state) level() int { return s.stack[len(s.stack)-1].level }

func (s *state) lastLine() int {
	if len(s.tokens) == 0 {
		return 0
	}
	return s.tokens[len(s.tokens)-1].Line
}
