package symbol

import "testing"

func Test_Classify(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantKind Kind
		wantForm TermForm
		wantOK   bool
	}{
		{name: "named terminal", raw: "TOK_INT", wantKind: Terminal, wantForm: FormNamed, wantOK: true},
		{name: "named terminal no underscore", raw: "PLUS", wantKind: Terminal, wantForm: FormNamed, wantOK: true},
		{name: "literal terminal paren", raw: "(", wantKind: Terminal, wantForm: FormLiteral, wantOK: true},
		{name: "literal terminal plus", raw: "+", wantKind: Terminal, wantForm: FormLiteral, wantOK: true},
		{name: "epsilon", raw: "$", wantKind: Epsilon, wantForm: FormNone, wantOK: true},
		{name: "non-terminal simple", raw: "Expr", wantKind: NonTerminal, wantForm: FormNone, wantOK: true},
		{name: "non-terminal camel", raw: "ExprPrime", wantKind: NonTerminal, wantForm: FormNone, wantOK: true},
		{name: "non-terminal underscore prefixed", raw: "_Expr", wantKind: NonTerminal, wantForm: FormNone, wantOK: true},
		{name: "unclassifiable mixed case with digit", raw: "Expr1", wantOK: false},
		{name: "unclassifiable all lowercase", raw: "expr", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, f, ok := Classify(tc.raw)
			if ok != tc.wantOK {
				t.Fatalf("Classify(%q) ok = %v, want %v", tc.raw, ok, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if k != tc.wantKind {
				t.Errorf("Classify(%q) kind = %v, want %v", tc.raw, k, tc.wantKind)
			}
			if f != tc.wantForm {
				t.Errorf("Classify(%q) form = %v, want %v", tc.raw, f, tc.wantForm)
			}
		})
	}
}

func Test_Symbol_Equal(t *testing.T) {
	a := Symbol{Kind: Terminal, Name: "TOK_INT"}
	b := Symbol{Kind: Terminal, Name: "TOK_INT"}
	c := Symbol{Kind: NonTerminal, Name: "TOK_INT"}

	if !a.Equal(b) {
		t.Errorf("expected equal symbols of same kind and name to be Equal")
	}
	if a.Equal(c) {
		t.Errorf("expected symbols of different kind to not be Equal")
	}
}

func Test_TermSet_Union(t *testing.T) {
	a := NewTermSet("a", "b")
	b := NewTermSet("b", "c")

	u := a.Union(b)

	for _, want := range []string{"a", "b", "c"} {
		if !u.Has(want) {
			t.Errorf("expected union to contain %q", want)
		}
	}
	if u.Len() != 3 {
		t.Errorf("expected union to have 3 elements, got %d", u.Len())
	}
	// original sets are untouched
	if a.Len() != 2 {
		t.Errorf("expected a to be unmodified, got len %d", a.Len())
	}
}
