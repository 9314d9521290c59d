package grammar

import "strings"

// Production is the body of a single grammar alternative: a sequence of raw
// symbol names exactly as they appear in grammar text (terminals,
// non-terminals, or the epsilon marker). A nil or empty Production is used
// as the sentinel Error value, distinguishing "no entry" from Epsilon, whose
// body is the single-element slice {"$"}.
type Production []string

// Epsilon is the production body denoting the empty string.
var Epsilon = Production{"$"}

// Error is the zero-length sentinel Production returned by LL1Table.Get when
// no entry exists for a given (non-terminal, terminal) pair.
var Error = Production(nil)

// Equal reports whether p and o have the same symbols in the same order.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// IsEpsilon reports whether p is the epsilon production.
func (p Production) IsEpsilon() bool {
	return p.Equal(Epsilon)
}

func (p Production) String() string {
	return strings.Join(p, " ")
}

// Rule groups every alternative production for one non-terminal, in the
// shape AddRule accumulates them. It is primarily useful for bulk grammar
// construction and for Grammar.Rule's return value.
type Rule struct {
	NonTerminal string
	Productions []Production
}
