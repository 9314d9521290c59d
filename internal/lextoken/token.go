// Package lextoken defines the contract between the grammar analyser/emitted
// parser and an external lexer: the token, token-class, and token-stream
// shapes a parser built by ll1gen consumes. The lexer itself is out of
// scope (spec.md §1); only its output contract lives here, grounded on
// internal/ictiobus/types' Token/TokenClass/TokenStream interfaces.
package lextoken

import "strings"

// TokenClass identifies the lexical category of a Token. Two token classes
// are semantically the same terminal iff their IDs match.
type TokenClass interface {
	// ID uniquely identifies the token class within a grammar's terminals.
	ID() string

	// Human returns a human-readable name, for use in error messages.
	Human() string

	// Equal reports whether the TokenClass equals another.
	Equal(o any) bool
}

type simpleClass string

func (c simpleClass) ID() string     { return string(c) }
func (c simpleClass) Human() string  { return string(c) }
func (c simpleClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		return false
	}
	return other.ID() == c.ID()
}

// MakeDefaultClass returns a TokenClass that uses name verbatim as both its
// ID and its human-readable form. Used to create terminal classes on demand
// for terminals that appear in grammar text but were never explicitly
// registered via Grammar.AddTerm.
func MakeDefaultClass(name string) TokenClass {
	return simpleClass(name)
}

// Token is a lexeme read from source text, tagged with the TokenClass it was
// recognized as and positional information used for error reporting.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the token's text as it appeared in the source.
	Lexeme() string

	// Line returns the 1-indexed line number the token appears on.
	Line() int

	// LinePos returns the 1-indexed column the token appears at.
	LinePos() int

	String() string
}

// TokenStream is a sequence of tokens read from source text. Implementations
// may be lazily-loaded or fully materialized; the parser runtime contract
// (spec.md §4.7) requires only Peek/Next.
type TokenStream interface {
	// Next returns the next token and advances the stream by one.
	Next() Token

	// Peek returns the next token without advancing the stream.
	Peek() Token

	// HasNext reports whether the stream has any additional tokens.
	HasNext() bool
}

// SliceStream is a TokenStream backed by an in-memory, eagerly materialized
// slice of tokens — the "random-access sequence" baseline the concurrency
// model (spec.md §5) describes.
type SliceStream struct {
	toks []Token
	pos  int
}

// NewSliceStream wraps toks as a TokenStream.
func NewSliceStream(toks []Token) *SliceStream {
	return &SliceStream{toks: toks}
}

func (s *SliceStream) Next() Token {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func (s *SliceStream) Peek() Token {
	if s.pos >= len(s.toks) {
		return nil
	}
	return s.toks[s.pos]
}

func (s *SliceStream) HasNext() bool {
	return s.pos < len(s.toks)
}

// simpleToken is a minimal concrete Token, useful for tests and for the CLI's
// interactive REPL mode which lexes input ad hoc rather than through a
// generated lexer.
type simpleToken struct {
	class   TokenClass
	lexeme  string
	line    int
	linePos int
}

// NewToken builds a simple concrete Token.
func NewToken(class TokenClass, lexeme string, line, linePos int) Token {
	return simpleToken{class: class, lexeme: lexeme, line: line, linePos: linePos}
}

func (t simpleToken) Class() TokenClass { return t.class }
func (t simpleToken) Lexeme() string    { return t.lexeme }
func (t simpleToken) Line() int         { return t.line }
func (t simpleToken) LinePos() int      { return t.linePos }
func (t simpleToken) String() string {
	var sb strings.Builder
	sb.WriteString(t.class.Human())
	sb.WriteString(" ")
	sb.WriteString(strings_Quote(t.lexeme))
	return sb.String()
}

func strings_Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
