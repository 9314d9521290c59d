package grammar

import (
	"errors"
	"testing"
)

func TestParseSource_ArithGrammar(t *testing.T) {
	src := `
# worked example grammar
Expr -> Primary ExprPrime
ExprPrime -> PLUS Primary ExprPrime
ExprPrime -> $
Primary -> LPAREN Expr RPAREN
Primary -> TOK_INT
`
	g, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource() err = %v, want nil", err)
	}
	g.SetStart("Expr")

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	want := arithGrammar()
	if !g.Rule("Expr").Productions[0].Equal(want.Rule("Expr").Productions[0]) {
		t.Errorf("Expr production mismatch: got %v, want %v", g.Rule("Expr"), want.Rule("Expr"))
	}
	if len(g.Rule("ExprPrime").Productions) != 3 {
		t.Errorf("ExprPrime has %d productions, want 3", len(g.Rule("ExprPrime").Productions))
	}
	if !g.Rule("ExprPrime").Productions[1].IsEpsilon() {
		t.Errorf("ExprPrime second production = %v, want epsilon", g.Rule("ExprPrime").Productions[1])
	}
}

func TestParseSource_MissingArrow(t *testing.T) {
	_, err := ParseSource("Expr Primary ExprPrime")
	if err == nil {
		t.Fatal("ParseSource() err = nil, want error for missing '->'")
	}
}

func TestParseSource_EmptyBody(t *testing.T) {
	_, err := ParseSource("Expr ->")
	if err == nil {
		t.Fatal("ParseSource() err = nil, want error for empty body")
	}
}

func TestParseSource_UnclassifiableToken(t *testing.T) {
	g, err := ParseSource("Expr -> expr1")
	if err != nil {
		t.Fatalf("ParseSource() err = %v, want nil (deferred to Validate)", err)
	}
	if err := g.Validate(); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("Validate() = %v, want ErrUnknownSymbol", err)
	}
}

func TestParseSource_BlankAndCommentLinesIgnored(t *testing.T) {
	src := "\n\n  # just a comment\n\nExpr -> TOK_INT\n"
	g, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource() err = %v, want nil", err)
	}
	if len(g.NonTerminals()) != 1 {
		t.Errorf("NonTerminals() = %v, want 1 entry", g.NonTerminals())
	}
}
