// Package parse implements the table-driven LL(1) parser runtime: given a
// predictive table and a token stream, it drives a symbol stack and a node
// stack to build a concrete parse tree, using the TERMINAL/NONTERMINAL/
// NONTERMINAL_END stack discipline.
//
// Grounded on the C++ PARSE_METHOD_TEMPLATE in
// tools/lc2_parser/parser_impl.py, which is the surviving canonical source
// for this exact stack machine; internal/ictiobus/parse/ll1.go implements
// an older, different scheme (a lowercase-name-means-terminal heuristic
// over a string stack) that predates the NONTERMINAL_END refactor and is
// not reused here.
package parse

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/dekarrin/ll1gen/internal/grammar"
	"github.com/dekarrin/ll1gen/internal/lextoken"
)

// ErrSyntax is the sentinel wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes a single parse failure: what the parser expected
// and, when available, the offending token's position.
type SyntaxError struct {
	Expected string
	Got      lextoken.Token
}

func (e *SyntaxError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("syntax error: expected %s, but reached end of input", e.Expected)
	}
	return fmt.Sprintf("syntax error at line %d:%d: expected %s, but found %s",
		e.Got.Line(), e.Got.LinePos(), e.Expected, e.Got.String())
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parser drives an LL(1) predictive parse against a pre-computed table.
type Parser struct {
	g     *grammar.Grammar
	table grammar.LL1Table
}

// New computes the LL(1) table for g and returns a Parser, or an error if g
// is not LL(1).
func New(g *grammar.Grammar) (*Parser, error) {
	table, err := g.LLParseTable()
	if err != nil {
		return nil, err
	}
	return &Parser{g: g, table: table}, nil
}

// Parse consumes toks against the parser's start symbol and returns the
// resulting concrete parse tree, or a *SyntaxError if the input does not
// match the grammar.
func (p *Parser) Parse(toks lextoken.TokenStream) (*Tree, error) {
	start := p.g.StartSymbol()

	symStack := arraystack.New()
	nodeStack := arraystack.New()

	symStack.Push(Entry{Kind: NonTerminalEnd, Name: start})
	symStack.Push(Entry{Kind: NonTerminal, Name: start})

	var root *Tree

	for !symStack.Empty() {
		raw, _ := symStack.Pop()
		focus := raw.(Entry)

		switch focus.Kind {
		case NonTerminal:
			term, lookahead := p.lookaheadTerm(toks)
			prod := p.table.Get(focus.Name, term)
			if prod.Equal(grammar.Error) {
				return nil, &SyntaxError{Expected: describeExpected(p.table, focus.Name), Got: lookahead}
			}

			node := &Tree{Value: focus.Name, Empty: prod.IsEpsilon()}
			nodeStack.Push(node)

			symStack.Push(Entry{Kind: NonTerminalEnd, Name: focus.Name})
			if !prod.IsEpsilon() {
				for i := len(prod) - 1; i >= 0; i-- {
					sym := prod[i]
					kind := NonTerminal
					if _, isNT := p.table[sym]; !isNT {
						kind = Terminal
					}
					symStack.Push(Entry{Kind: kind, Name: sym})
				}
			}

		case Terminal:
			tok := toks.Next()
			got := ""
			if tok != nil {
				got = p.g.TermFor(tok.Class())
			}
			if got != focus.Name {
				return nil, &SyntaxError{Expected: focus.Name, Got: tok}
			}
			top, ok := nodeStack.Peek()
			if ok {
				parent := top.(*Tree)
				parent.Terminals = append(parent.Terminals, tok)
			}

		case NonTerminalEnd:
			raw, _ := nodeStack.Pop()
			node := raw.(*Tree)
			if top, ok := nodeStack.Peek(); ok {
				parent := top.(*Tree)
				parent.Children = append(parent.Children, node)
			} else {
				root = node
			}
		}
	}

	return root, nil
}

// lookaheadTerm resolves the current lookahead token to a grammar terminal
// name, or "" if the stream is exhausted — a grammar relying on an explicit
// end-of-input terminal must have its lexer emit one rather than relying on
// stream exhaustion, per the resolved "missing EOF" open question.
func (p *Parser) lookaheadTerm(toks lextoken.TokenStream) (string, lextoken.Token) {
	tok := toks.Peek()
	if tok == nil {
		return "", nil
	}
	return p.g.TermFor(tok.Class()), tok
}

func describeExpected(table grammar.LL1Table, nt string) string {
	terms := table[nt]
	if len(terms) == 0 {
		return fmt.Sprintf("a production of %s", nt)
	}
	names := make([]string, 0, len(terms))
	for t := range terms {
		names = append(names, t)
	}
	return fmt.Sprintf("one of %v for %s", names, nt)
}
