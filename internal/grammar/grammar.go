// Package grammar ingests a context-free grammar, classifies its symbols,
// computes FIRST/FOLLOW/predict sets by fixed-point iteration, detects left
// recursion and LL(1) conflicts, and builds the resulting LL1Table.
//
// Grounded on internal/ictiobus/grammar's Grammar API (reconstructed from
// grammar_test.go, since the implementation file was not retrieved) and on
// the ParserBuilder class in tools/lc2_parser/parser_build.py, which
// supplies the exact shape of the FIRST/FOLLOW fixed-point loops.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/ll1gen/internal/lextoken"
	"github.com/dekarrin/ll1gen/internal/symbol"
)

var (
	// ErrEmptyGrammar is returned when a grammar has no declared rules, or
	// when its start symbol does not resolve to a declared non-terminal.
	ErrEmptyGrammar = errors.New("grammar has no start symbol with productions")

	// ErrUnknownSymbol is returned when a production body references a
	// non-terminal that was never given a rule, or a token that classifies
	// as neither a terminal, non-terminal, nor epsilon.
	ErrUnknownSymbol = errors.New("unknown or unclassifiable symbol")

	// ErrLeftRecursion is returned by FIRST/Validate when the grammar
	// contains direct or indirect left recursion.
	ErrLeftRecursion = errors.New("left recursion")
)

// Grammar holds the productions, declared terminals, and computed
// FIRST/FOLLOW sets of one context-free grammar.
type Grammar struct {
	order     []string // non-terminal declaration order
	rules     map[string][]Production
	heads     map[string]*symbol.Symbol // interned non-terminal arena

	terminals map[string]lextoken.TokenClass // by raw terminal name
	termOrder []string

	start string

	// computed lazily; invalidated whenever a rule or term is added
	stale       bool
	predictSets map[string][]*symbol.TermSet // parallel to rules[head]
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{
		rules:     make(map[string][]Production),
		heads:     make(map[string]*symbol.Symbol),
		terminals: make(map[string]lextoken.TokenClass),
	}
}

// AddTerm registers a TokenClass for the terminal named name. Optional:
// any terminal referenced in a production body that was never registered
// this way is assigned a default TokenClass (lextoken.MakeDefaultClass) the
// first time Validate, FIRST, or LLParseTable resolves it.
func (g *Grammar) AddTerm(name string, class lextoken.TokenClass) {
	if _, ok := g.terminals[name]; !ok {
		g.termOrder = append(g.termOrder, name)
	}
	g.terminals[name] = class
	g.stale = true
}

// AddRule appends one alternative production to head's rule, declaring head
// as a non-terminal if this is its first production. Classification and
// cross-reference resolution are deferred to Validate/FIRST/LLParseTable.
func (g *Grammar) AddRule(head string, body Production) {
	if _, ok := g.heads[head]; !ok {
		g.heads[head] = &symbol.Symbol{
			Kind:   symbol.NonTerminal,
			Name:   head,
			First:  symbol.NewTermSet(),
			Follow: symbol.NewTermSet(),
		}
		g.order = append(g.order, head)
		if g.start == "" {
			g.start = head
		}
	}
	cp := make(Production, len(body))
	copy(cp, body)
	g.rules[head] = append(g.rules[head], cp)
	g.stale = true
}

// SetStart overrides the start symbol, which otherwise defaults to the
// first non-terminal added via AddRule.
func (g *Grammar) SetStart(head string) {
	g.start = head
	g.stale = true
}

// StartSymbol returns the grammar's start symbol name.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// NonTerminals returns every declared non-terminal, in declaration order.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Terminals returns every terminal name referenced or registered so far, in
// the order first seen. Validate must run before this is guaranteed
// complete, since terminals referenced only in production bodies are
// resolved lazily.
func (g *Grammar) Terminals() []string {
	if err := g.ensureCompiled(); err != nil {
		// best effort: return what's registered explicitly
	}
	out := make([]string, len(g.termOrder))
	copy(out, g.termOrder)
	return out
}

// Rule returns the accumulated Rule for a non-terminal, or the zero Rule if
// none exists.
func (g *Grammar) Rule(name string) Rule {
	prods := g.rules[name]
	out := make([]Production, len(prods))
	copy(out, prods)
	return Rule{NonTerminal: name, Productions: out}
}

// Term returns the TokenClass registered (or synthesized) for a terminal
// name, or nil if name was never referenced by the grammar.
func (g *Grammar) Term(name string) lextoken.TokenClass {
	g.ensureCompiled()
	return g.terminals[name]
}

// TermFor returns the terminal name whose TokenClass.ID matches class's ID,
// or "" if none is registered. Used by the parser runtime to translate an
// incoming lookahead token back into a grammar terminal name.
func (g *Grammar) TermFor(class lextoken.TokenClass) string {
	if class == nil {
		return ""
	}
	for _, name := range g.termOrder {
		if g.terminals[name] != nil && g.terminals[name].ID() == class.ID() {
			return name
		}
	}
	return ""
}

// classify resolves a raw production-body token into its Kind, registering
// it as a terminal on demand if needed. It consults g.terminals first so
// that explicitly pre-registered terminal names (which need not satisfy the
// ALL_CAPS/literal regex forms) are always honored.
func (g *Grammar) classify(raw string) (symbol.Kind, error) {
	if raw == symbol.EpsilonName {
		return symbol.Epsilon, nil
	}
	if _, ok := g.terminals[raw]; ok {
		return symbol.Terminal, nil
	}
	if _, ok := g.heads[raw]; ok {
		return symbol.NonTerminal, nil
	}
	k, _, ok := symbol.Classify(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, raw)
	}
	switch k {
	case symbol.NonTerminal:
		if _, ok := g.heads[raw]; !ok {
			return 0, fmt.Errorf("%w: non-terminal %q has no productions", ErrUnknownSymbol, raw)
		}
	case symbol.Terminal:
		if _, ok := g.terminals[raw]; !ok {
			g.terminals[raw] = lextoken.MakeDefaultClass(raw)
			g.termOrder = append(g.termOrder, raw)
		}
	}
	return k, nil
}

// Validate resolves every production-body symbol, confirming that every
// terminal is classifiable (or pre-registered) and every non-terminal
// reference has at least one production, and that the grammar has a start
// symbol with productions. It does not itself check for left recursion or
// LL(1) conflicts; those surface from FIRST/FOLLOW/LLParseTable.
func (g *Grammar) Validate() error {
	if len(g.order) == 0 {
		return ErrEmptyGrammar
	}
	if _, ok := g.rules[g.start]; !ok || len(g.rules[g.start]) == 0 {
		return fmt.Errorf("%w: start symbol %q has no productions", ErrEmptyGrammar, g.start)
	}
	for _, head := range g.order {
		prods := g.rules[head]
		if len(prods) == 0 {
			return fmt.Errorf("%w: non-terminal %q has no productions", ErrUnknownSymbol, head)
		}
		for _, p := range prods {
			if len(p) == 0 {
				return fmt.Errorf("%w: non-terminal %q has an empty production body (use %q for epsilon)", ErrUnknownSymbol, head, symbol.EpsilonName)
			}
			for _, tok := range p {
				if _, err := g.classify(tok); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Grammar) ensureCompiled() error {
	if !g.stale && g.predictSets != nil {
		return nil
	}
	return g.compile()
}

// String renders every rule, one per line, in "Head -> body | body" form.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, head := range g.order {
		fmt.Fprintf(&sb, "%s ->", head)
		for i, p := range g.rules[head] {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteString(" ")
			sb.WriteString(p.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Copy returns a deep copy of g, safe to mutate independently.
func (g *Grammar) Copy() *Grammar {
	n := New()
	for name, class := range g.terminals {
		n.AddTerm(name, class)
	}
	for _, head := range g.order {
		for _, p := range g.rules[head] {
			n.AddRule(head, p)
		}
	}
	n.start = g.start
	return n
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
