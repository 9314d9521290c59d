package parse

import (
	"strings"

	"github.com/dekarrin/ll1gen/internal/lextoken"
)

// box-drawing prefixes used by Tree.String, matching the pretty-printer
// convention ParseTree used for parse tree dumps.
const (
	treeLevelPrefix     = "│  "
	treeLevelPrefixLast = "   "
	treeLevelBranch     = "├──"
	treeLevelBranchLast = "└──"
)

// Tree is a concrete parse tree node for one non-terminal: the production
// that expanded it (flagged Empty when it was an epsilon production), the
// child nodes for every non-terminal in that production's body, and the
// terminals consumed directly beneath this node, in the order their
// production listed them.
type Tree struct {
	Value     string
	Empty     bool
	Children  []*Tree
	Terminals []lextoken.Token
}

// String renders the tree with box-drawing connectors, one node per line.
func (t *Tree) String() string {
	var sb strings.Builder
	sb.WriteString(t.Value)
	sb.WriteString("\n")
	t.leveledStr(&sb, "")
	return sb.String()
}

func (t *Tree) leveledStr(sb *strings.Builder, prefix string) {
	rows := make([]struct {
		label string
		child *Tree
	}, 0, len(t.Children)+len(t.Terminals))
	for _, c := range t.Children {
		rows = append(rows, struct {
			label string
			child *Tree
		}{c.Value, c})
	}
	for _, tok := range t.Terminals {
		label := ""
		if tok != nil {
			label = tok.Class().Human() + " " + tok.String()
		}
		rows = append(rows, struct {
			label string
			child *Tree
		}{label, nil})
	}

	for i, row := range rows {
		last := i == len(rows)-1
		branch := treeLevelBranch
		nextPrefix := prefix + treeLevelPrefix
		if last {
			branch = treeLevelBranchLast
			nextPrefix = prefix + treeLevelPrefixLast
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(" ")
		sb.WriteString(row.label)
		sb.WriteString("\n")
		if row.child != nil {
			row.child.leveledStr(sb, nextPrefix)
		}
	}
}

// Copy returns a deep copy of t.
func (t *Tree) Copy() *Tree {
	if t == nil {
		return nil
	}
	n := &Tree{Value: t.Value, Empty: t.Empty}
	if t.Children != nil {
		n.Children = make([]*Tree, len(t.Children))
		for i, c := range t.Children {
			n.Children[i] = c.Copy()
		}
	}
	if t.Terminals != nil {
		n.Terminals = make([]lextoken.Token, len(t.Terminals))
		copy(n.Terminals, t.Terminals)
	}
	return n
}

// Equal reports whether t and o have the same shape, values, empty flag, and
// the same matched lexemes for their terminals. Token position is ignored.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Value != o.Value || t.Empty != o.Empty {
		return false
	}
	if len(t.Terminals) != len(o.Terminals) {
		return false
	}
	for i := range t.Terminals {
		a, b := t.Terminals[i], o.Terminals[i]
		switch {
		case a == nil && b == nil:
		case a == nil || b == nil:
			return false
		case a.Lexeme() != b.Lexeme():
			return false
		}
	}
	if len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}
