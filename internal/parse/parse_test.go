package parse

import (
	"testing"

	"github.com/dekarrin/ll1gen/internal/grammar"
	"github.com/dekarrin/ll1gen/internal/lextoken"
)

// arithGrammar wraps the worked Primary/Expr/ExprPrime example in an
// explicit Start -> Expr TOK_EOF production, since the parser runtime needs
// a real end-of-input terminal to predict on — per the resolved "missing
// EOF" open question, the analyser accepts a grammar without one, but a
// generated parser run against one can never close out its final epsilon
// reduction without relying on stream exhaustion, which this package's
// contract deliberately does not do.
func arithGrammar() *grammar.Grammar {
	g := grammar.New()
	g.AddTerm("LPAREN", lextoken.MakeDefaultClass("LPAREN"))
	g.AddTerm("RPAREN", lextoken.MakeDefaultClass("RPAREN"))
	g.AddTerm("PLUS", lextoken.MakeDefaultClass("PLUS"))
	g.AddTerm("TOK_INT", lextoken.MakeDefaultClass("TOK_INT"))
	g.AddTerm("TOK_EOF", lextoken.MakeDefaultClass("TOK_EOF"))

	g.AddRule("Start", grammar.Production{"Expr", "TOK_EOF"})
	g.AddRule("Expr", grammar.Production{"Primary", "ExprPrime"})
	g.AddRule("ExprPrime", grammar.Production{"PLUS", "Primary", "ExprPrime"})
	g.AddRule("ExprPrime", grammar.Epsilon)
	g.AddRule("Primary", grammar.Production{"LPAREN", "Expr", "RPAREN"})
	g.AddRule("Primary", grammar.Production{"TOK_INT"})
	g.SetStart("Start")
	return g
}

func tok(class, lexeme string) lextoken.Token {
	return lextoken.NewToken(lextoken.MakeDefaultClass(class), lexeme, 1, 1)
}

func TestParser_Parse_Simple(t *testing.T) {
	g := arithGrammar()
	p, err := New(g)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}

	stream := lextoken.NewSliceStream([]lextoken.Token{tok("TOK_INT", "1"), tok("TOK_EOF", "")})
	tree, err := p.Parse(stream)
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	if tree.Value != "Start" || tree.Empty {
		t.Fatalf("root = %+v, want non-empty Start", tree)
	}
	if len(tree.Children) != 1 || len(tree.Terminals) != 1 {
		t.Fatalf("Start has %d children and %d terminals, want 1 child (Expr) and 1 terminal (TOK_EOF)", len(tree.Children), len(tree.Terminals))
	}
	if tree.Terminals[0].Class().ID() != "TOK_EOF" {
		t.Fatalf("Start's terminal = %s, want TOK_EOF", tree.Terminals[0].Class().ID())
	}
	expr := tree.Children[0]
	if expr.Value != "Expr" || len(expr.Children) != 2 {
		t.Fatalf("Expr subtree = %s", expr.String())
	}
	primary := expr.Children[0]
	if primary.Value != "Primary" || len(primary.Children) != 0 || len(primary.Terminals) != 1 || primary.Terminals[0].Class().ID() != "TOK_INT" {
		t.Errorf("Primary subtree = %s", primary.String())
	}
	exprPrime := expr.Children[1]
	if exprPrime.Value != "ExprPrime" || !exprPrime.Empty || len(exprPrime.Children) != 0 || len(exprPrime.Terminals) != 0 {
		t.Errorf("ExprPrime subtree = %s, want empty (epsilon)", exprPrime.String())
	}
}

func TestParser_Parse_Nested(t *testing.T) {
	g := arithGrammar()
	p, err := New(g)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}

	// 1 + ( 2 + 3 )
	stream := lextoken.NewSliceStream([]lextoken.Token{
		tok("TOK_INT", "1"),
		tok("PLUS", "+"),
		tok("LPAREN", "("),
		tok("TOK_INT", "2"),
		tok("PLUS", "+"),
		tok("TOK_INT", "3"),
		tok("RPAREN", ")"),
		tok("TOK_EOF", ""),
	})
	tree, err := p.Parse(stream)
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}

	termLexemes := func(n *Tree) []string {
		out := make([]string, len(n.Terminals))
		for i, tok := range n.Terminals {
			out[i] = tok.Lexeme()
		}
		return out
	}
	assertLexemes := func(t *testing.T, n *Tree, want ...string) {
		t.Helper()
		got := termLexemes(n)
		if len(got) != len(want) {
			t.Fatalf("%s.Terminals = %v, want %v", n.Value, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s.Terminals[%d] = %q, want %q", n.Value, i, got[i], want[i])
			}
		}
	}

	// Start -> Expr TOK_EOF
	assertLexemes(t, tree, "")
	if len(tree.Children) != 1 {
		t.Fatalf("Start has %d children, want 1 (Expr)", len(tree.Children))
	}

	// Expr -> Primary ExprPrime, Primary -> TOK_INT ("1")
	outerExpr := tree.Children[0]
	outerPrimary := outerExpr.Children[0]
	assertLexemes(t, outerPrimary, "1")

	// ExprPrime -> PLUS Primary ExprPrime ("+" then the parenthesized group)
	outerExprPrime := outerExpr.Children[1]
	assertLexemes(t, outerExprPrime, "+")
	if outerExprPrime.Empty {
		t.Fatalf("outer ExprPrime should not be the epsilon alternative")
	}

	// Primary -> LPAREN Expr RPAREN
	groupPrimary := outerExprPrime.Children[0]
	assertLexemes(t, groupPrimary, "(", ")")

	innerExpr := groupPrimary.Children[0]
	innerPrimary := innerExpr.Children[0]
	assertLexemes(t, innerPrimary, "2")

	innerExprPrime := innerExpr.Children[1]
	assertLexemes(t, innerExprPrime, "+")

	innermostPrimary := innerExprPrime.Children[0]
	assertLexemes(t, innermostPrimary, "3")

	innermostExprPrime := innerExprPrime.Children[1]
	if !innermostExprPrime.Empty || len(innermostExprPrime.Terminals) != 0 {
		t.Errorf("innermost ExprPrime should be an empty epsilon alternative")
	}

	// The outer ExprPrime's own trailing ExprPrime (after the group) is epsilon too.
	trailingExprPrime := outerExprPrime.Children[1]
	if !trailingExprPrime.Empty {
		t.Errorf("trailing ExprPrime should be an empty epsilon alternative")
	}
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	g := arithGrammar()
	p, err := New(g)
	if err != nil {
		t.Fatalf("New() = %v, want nil", err)
	}

	stream := lextoken.NewSliceStream([]lextoken.Token{tok("PLUS", "+")})
	_, err = p.Parse(stream)
	if err == nil {
		t.Fatalf("Parse() = nil, want a syntax error")
	}
	var serr *SyntaxError
	if !asSyntaxError(err, &serr) {
		t.Fatalf("Parse() error = %v, want *SyntaxError", err)
	}
}

func asSyntaxError(err error, target **SyntaxError) bool {
	se, ok := err.(*SyntaxError)
	if !ok {
		return false
	}
	*target = se
	return true
}
