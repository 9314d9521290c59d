package grammar

import (
	"sort"
	"strings"
)

// LL1Table is a predictive parse table: table[nonTerminal][terminal] gives
// the production to expand when that non-terminal is on top of the parse
// stack and that terminal is the lookahead.
type LL1Table map[string]map[string]Production

// Get returns the production for (nt, term), or the Error sentinel if no
// entry exists.
func (t LL1Table) Get(nt, term string) Production {
	row, ok := t[nt]
	if !ok {
		return Error
	}
	p, ok := row[term]
	if !ok {
		return Error
	}
	return p
}

// NonTerminals returns every non-terminal with a row in the table, sorted.
func (t LL1Table) NonTerminals() []string {
	out := make([]string, 0, len(t))
	for nt := range t {
		out = append(out, nt)
	}
	sort.Strings(out)
	return out
}

// Terminals returns every terminal appearing in any row of the table,
// deduplicated and sorted.
func (t LL1Table) Terminals() []string {
	seen := make(map[string]bool)
	for _, row := range t {
		for term := range row {
			seen[term] = true
		}
	}
	out := make([]string, 0, len(seen))
	for term := range seen {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

func (t LL1Table) String() string {
	nts := t.NonTerminals()
	var sb strings.Builder
	for _, nt := range nts {
		terms := make([]string, 0, len(t[nt]))
		for term := range t[nt] {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			sb.WriteString(nt)
			sb.WriteString(" , ")
			sb.WriteString(term)
			sb.WriteString(" -> ")
			sb.WriteString(t[nt][term].String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
