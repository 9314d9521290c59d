package emit

import (
	"strings"
	"testing"

	"github.com/dekarrin/ll1gen/internal/grammar"
)

func arithGrammar() *grammar.Grammar {
	g := grammar.New()
	g.AddRule("Start", grammar.Production{"Expr", "TOK_EOF"})
	g.AddRule("Expr", grammar.Production{"Primary", "ExprPrime"})
	g.AddRule("ExprPrime", grammar.Production{"PLUS", "Primary", "ExprPrime"})
	g.AddRule("ExprPrime", grammar.Epsilon)
	g.AddRule("Primary", grammar.Production{"LPAREN", "Expr", "RPAREN"})
	g.AddRule("Primary", grammar.Production{"TOK_INT"})
	g.SetStart("Start")
	return g
}

func TestEmitter_Generate(t *testing.T) {
	e := New()
	src, diags, err := e.Generate(arithGrammar(), Options{Package: "calc", Name: "Calc"})
	if err != nil {
		t.Fatalf("Generate() = %v, want nil", err)
	}
	if len(diags) != 0 {
		t.Errorf("Generate() diagnostics = %v, want none (start ends in TOK_EOF)", diags)
	}

	for _, want := range []string{
		"package calc",
		"func NewCalcGrammar() *grammar.Grammar",
		`g.AddRule("Expr", grammar.Production{"Primary", "ExprPrime"})`,
		`g.AddRule("ExprPrime", grammar.Epsilon)`,
		`g.SetStart("Start")`,
		"func NewCalcParser() (*CalcParser, error)",
		"func (p *CalcParser) Parse(toks lextoken.TokenStream) (*parse.Tree, error)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q\n--- source ---\n%s", want, src)
		}
	}
}

func TestEmitter_Generate_MissingEOFDiagnostic(t *testing.T) {
	g := grammar.New()
	g.AddRule("Expr", grammar.Production{"Primary", "ExprPrime"})
	g.AddRule("ExprPrime", grammar.Production{"PLUS", "Primary", "ExprPrime"})
	g.AddRule("ExprPrime", grammar.Epsilon)
	g.AddRule("Primary", grammar.Production{"TOK_INT"})
	g.SetStart("Expr")

	e := New()
	_, diags, err := e.Generate(g, Options{})
	if err != nil {
		t.Fatalf("Generate() = %v, want nil", err)
	}
	if len(diags) != 1 {
		t.Fatalf("Generate() diagnostics = %v, want exactly one warning", diags)
	}
	if !strings.Contains(diags[0].Message, "end-of-input") {
		t.Errorf("diagnostic message = %q, want it to mention end-of-input", diags[0].Message)
	}
}

func TestEmitter_Generate_RejectsConflicts(t *testing.T) {
	g := grammar.New()
	g.AddRule("Stmt", grammar.Production{"IF", "TOK_EXPR", "THEN", "Stmt", "Else"})
	g.AddRule("Stmt", grammar.Production{"OTHER"})
	g.AddRule("Else", grammar.Production{"ELSE", "Stmt"})
	g.AddRule("Else", grammar.Epsilon)
	g.SetStart("Stmt")

	e := New()
	if _, _, err := e.Generate(g, Options{}); err == nil {
		t.Fatalf("Generate() = nil error, want a conflict error for the dangling-else grammar")
	}
}
