package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/ll1gen/internal/symbol"
)

// ErrConflict is returned by LLParseTable when two productions of the same
// non-terminal claim the same predict terminal — the grammar is not LL(1).
var ErrConflict = errors.New("LL(1) conflict")

// compile runs the full analysis pipeline: validate, build FIRST sets
// (detecting direct left recursion along the way), detect indirect left
// recursion, build FOLLOW sets, then build predict sets. It is idempotent
// and memoized via g.stale.
func (g *Grammar) compile() error {
	if !g.stale && g.predictSets != nil {
		return nil
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := g.buildFirstSets(); err != nil {
		return err
	}
	if err := g.detectIndirectLeftRecursion(); err != nil {
		return err
	}
	g.buildFollowSets()

	g.predictSets = make(map[string][]*symbol.TermSet, len(g.order))
	for _, head := range g.order {
		prods := g.rules[head]
		sets := make([]*symbol.TermSet, len(prods))
		for i, prod := range prods {
			pf, err := g.firstOfProduction(head, prod)
			if err != nil {
				return err
			}
			ps := symbol.NewTermSet()
			hasEps := pf.Has(symbol.EpsilonName)
			for _, e := range pf.Elements() {
				if e != symbol.EpsilonName {
					ps.Add(e)
				}
			}
			if hasEps {
				ps.AddAll(g.heads[head].Follow)
			}
			sets[i] = ps
		}
		g.predictSets[head] = sets
	}
	g.stale = false
	return nil
}

// buildFirstSets computes FIRST(A) for every declared non-terminal A by
// fixed-point iteration, grounded on ParserBuilder._build_first_sets.
// Direct left recursion (a production whose first symbol is its own head)
// is reported immediately, matching the original's behavior of raising
// during this pass rather than deferring to a later check.
func (g *Grammar) buildFirstSets() error {
	for _, head := range g.order {
		g.heads[head].First = symbol.NewTermSet()
	}
	changed := true
	for changed {
		changed = false
		for _, head := range g.order {
			headSym := g.heads[head]
			for _, prod := range g.rules[head] {
				pf, err := g.firstOfProduction(head, prod)
				if err != nil {
					return err
				}
				before := headSym.First.Len()
				headSym.First.AddAll(pf)
				if headSym.First.Len() != before {
					changed = true
				}
			}
		}
	}
	return nil
}

// firstOfProduction computes FIRST(α) for one production body α of head,
// using the current (possibly not yet fixed-point) FIRST sets of other
// non-terminals. It implements the full nullable-prefix rule: a leading run
// of nullable non-terminals all contribute their FIRST sets, and if the
// entire body is nullable, epsilon is included.
func (g *Grammar) firstOfProduction(head string, prod Production) (*symbol.TermSet, error) {
	out := symbol.NewTermSet()
	if prod.IsEpsilon() {
		out.Add(symbol.EpsilonName)
		return out, nil
	}
	for i, tok := range prod {
		kind, err := g.classify(tok)
		if err != nil {
			return nil, err
		}
		switch kind {
		case symbol.Epsilon:
			out.Add(symbol.EpsilonName)
			return out, nil
		case symbol.Terminal:
			out.Add(tok)
			return out, nil
		case symbol.NonTerminal:
			if i == 0 && tok == head {
				return nil, fmt.Errorf("%w: %q begins with itself in production %q", ErrLeftRecursion, head, prod.String())
			}
			ntFirst := g.heads[tok].First
			for _, e := range ntFirst.Elements() {
				if e != symbol.EpsilonName {
					out.Add(e)
				}
			}
			if !ntFirst.Has(symbol.EpsilonName) {
				return out, nil
			}
			if i == len(prod)-1 {
				out.Add(symbol.EpsilonName)
			}
		}
	}
	return out, nil
}

// detectIndirectLeftRecursion walks the "can start with" graph (A -> B when
// some production of A begins with non-terminal B) looking for cycles. A
// self-loop duplicates what buildFirstSets already caught; cycles of length
// two or more are indirect left recursion, which FIRST's single-pass check
// cannot see on its own.
func (g *Grammar) detectIndirectLeftRecursion() error {
	graph := make(map[string][]string, len(g.order))
	for _, head := range g.order {
		for _, prod := range g.rules[head] {
			if len(prod) == 0 || prod.IsEpsilon() {
				continue
			}
			first := prod[0]
			if _, ok := g.heads[first]; ok {
				graph[head] = append(graph[head], first)
			}
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(g.order))
	var path []string

	var visit func(n string) error
	visit = func(n string) error {
		color[n] = gray
		path = append(path, n)
		for _, m := range graph[n] {
			switch color[m] {
			case gray:
				cycle := append(append([]string{}, path...), m)
				return fmt.Errorf("%w: %s", ErrLeftRecursion, strings.Join(cycle, " -> "))
			case white:
				if err := visit(m); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[n] = black
		return nil
	}

	for _, head := range g.order {
		if color[head] == white {
			if err := visit(head); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildFollowSets computes FOLLOW(A) for every non-terminal by a right-to-
// left trailer scan over each production, fixed-point iterated since a
// non-terminal's FOLLOW set can still be growing when it is consulted from
// another rule. Grounded on ParserBuilder._build_follow_sets. Per the
// resolved "missing EOF" open question, the start symbol's FOLLOW set is
// never seeded with a synthetic end marker — a grammar that wants the
// parser to consume end-of-input must say so with an explicit terminal.
func (g *Grammar) buildFollowSets() {
	for _, head := range g.order {
		g.heads[head].Follow = symbol.NewTermSet()
	}
	changed := true
	for changed {
		changed = false
		for _, head := range g.order {
			for _, prod := range g.rules[head] {
				if prod.IsEpsilon() {
					continue
				}
				trailer := g.heads[head].Follow.Copy()
				for i := len(prod) - 1; i >= 0; i-- {
					tok := prod[i]
					kind, _ := g.classify(tok)
					switch kind {
					case symbol.Terminal:
						trailer = symbol.NewTermSet(tok)
					case symbol.NonTerminal:
						ntSym := g.heads[tok]
						before := ntSym.Follow.Len()
						ntSym.Follow.AddAll(trailer)
						if ntSym.Follow.Len() != before {
							changed = true
						}
						next := symbol.NewTermSet()
						for _, e := range ntSym.First.Elements() {
							if e != symbol.EpsilonName {
								next.Add(e)
							}
						}
						if ntSym.First.Has(symbol.EpsilonName) {
							next.AddAll(ntSym.Follow)
						}
						trailer = next
					}
				}
			}
		}
	}
}

// FIRST returns FIRST(nt), computing (and memoizing) the full analysis if
// necessary. Returns an empty set for an undeclared non-terminal.
func (g *Grammar) FIRST(nt string) *symbol.TermSet {
	g.ensureCompiled()
	if s, ok := g.heads[nt]; ok {
		return s.First.Copy()
	}
	return symbol.NewTermSet()
}

// FOLLOW returns FOLLOW(nt), computing (and memoizing) the full analysis if
// necessary. Returns an empty set for an undeclared non-terminal.
func (g *Grammar) FOLLOW(nt string) *symbol.TermSet {
	g.ensureCompiled()
	if s, ok := g.heads[nt]; ok {
		return s.Follow.Copy()
	}
	return symbol.NewTermSet()
}

// IsLL1 reports whether the grammar has no LL(1) conflicts. It discards the
// resulting table; callers that also need the table should call
// LLParseTable directly rather than calling both.
func (g *Grammar) IsLL1() bool {
	_, err := g.LLParseTable()
	return err == nil
}

// LLParseTable computes the grammar's full analysis and returns the
// resulting predictive parse table, or an error if the grammar is left
// recursive or not LL(1).
func (g *Grammar) LLParseTable() (LL1Table, error) {
	if err := g.ensureCompiled(); err != nil {
		return nil, err
	}
	table := make(LL1Table, len(g.order))
	for _, head := range g.order {
		row := make(map[string]Production)
		prods := g.rules[head]
		sets := g.predictSets[head]
		for i, prod := range prods {
			for _, term := range sets[i].Elements() {
				if existing, ok := row[term]; ok && !existing.Equal(prod) {
					return nil, fmt.Errorf("%w: %s on %q: %q vs %q", ErrConflict, head, term, existing, prod)
				}
				row[term] = prod
			}
		}
		table[head] = row
	}
	return table, nil
}
