package emit

import (
	"fmt"

	"github.com/dekarrin/ll1gen/internal/grammar"
)

// diagnose looks for grammar shapes that are valid LL(1) grammars but are
// likely to produce a surprising generated parser. Per the resolved
// "missing EOF" open question, the analyser accepts a grammar whose start
// symbol never threads an explicit end-of-input terminal; emission is where
// that gets surfaced to the grammar author, since it's emission (not
// analysis) that produces something meant to be run against real input.
func diagnose(g *grammar.Grammar) []Diagnostic {
	var diags []Diagnostic

	start := g.StartSymbol()
	if follow := g.FOLLOW(start); follow.Empty() && !startEndsInTerminal(g, start) {
		diags = append(diags, Diagnostic{
			Severity: "warning",
			Message: fmt.Sprintf(
				"start symbol %q never threads an explicit end-of-input terminal through its productions; "+
					"the generated parser may accept trailing input after a successful parse", start),
		})
	}

	return diags
}

// startEndsInTerminal reports whether every production of the start
// non-terminal ends in a terminal (as opposed to a non-terminal, which could
// itself expand to nothing and leave the true end-of-production
// unterminated).
func startEndsInTerminal(g *grammar.Grammar, start string) bool {
	nonTerminals := make(map[string]bool)
	for _, nt := range g.NonTerminals() {
		nonTerminals[nt] = true
	}

	rule := g.Rule(start)
	if len(rule.Productions) == 0 {
		return false
	}
	for _, prod := range rule.Productions {
		if len(prod) == 0 {
			return false
		}
		last := prod[len(prod)-1]
		if nonTerminals[last] {
			return false
		}
	}
	return true
}
