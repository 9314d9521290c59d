// Package emit renders a validated, LL(1) grammar into a Go source file: a
// grammar-construction function, an entry point that computes the
// predictive table, and thin Parse wrapper — all built on text/template, the
// one ambient concern this module carries on the standard library since no
// templating engine appears anywhere in the retrieval pack.
package emit

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/dekarrin/ll1gen/internal/grammar"
)

// Options configures the generated source file.
type Options struct {
	// Package is the generated file's package clause. Defaults to "parser".
	Package string
	// Name is the exported identifier prefix used for the generated
	// grammar-constructor and parser type, e.g. "Calc" yields
	// NewCalcGrammar/CalcParser/NewCalcParser. Defaults to "Generated".
	Name string
}

// Diagnostic is a non-fatal observation about the grammar surfaced during
// emission — distinct from the fatal errors Generate itself returns.
type Diagnostic struct {
	Severity string // "warning"
	Message  string
}

// Emitter renders grammars into parser source files.
type Emitter struct {
	tmpl *template.Template
}

// New returns an Emitter with its template pre-parsed.
func New() *Emitter {
	return &Emitter{
		tmpl: template.Must(template.New("parser").Funcs(template.FuncMap{
			"quote":   strconv.Quote,
			"goProd":  goProdLiteral,
		}).Parse(parserTemplate)),
	}
}

// Generate renders g into a complete Go source file. The grammar must
// already be LL(1); Generate calls LLParseTable itself to confirm this and
// surfaces any conflict or left-recursion error rather than emitting a
// broken parser.
func (e *Emitter) Generate(g *grammar.Grammar, opts Options) (string, []Diagnostic, error) {
	if opts.Package == "" {
		opts.Package = "parser"
	}
	if opts.Name == "" {
		opts.Name = "Generated"
	}
	if _, err := g.LLParseTable(); err != nil {
		return "", nil, fmt.Errorf("cannot emit parser: %w", err)
	}

	diags := diagnose(g)
	data := newTemplateData(g, opts)

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", diags, fmt.Errorf("render parser template: %w", err)
	}
	return buf.String(), diags, nil
}

type ruleData struct {
	Head        string
	Productions []grammar.Production
}

type templateData struct {
	Package   string
	Name      string
	Terminals []string
	Rules     []ruleData
	Start     string
}

func newTemplateData(g *grammar.Grammar, opts Options) templateData {
	data := templateData{
		Package:   opts.Package,
		Name:      opts.Name,
		Terminals: g.Terminals(),
		Start:     g.StartSymbol(),
	}
	for _, head := range g.NonTerminals() {
		rule := g.Rule(head)
		data.Rules = append(data.Rules, ruleData{Head: head, Productions: rule.Productions})
	}
	return data
}

// goProdLiteral renders a Production as a grammar.Production composite
// literal, e.g. grammar.Production{"PLUS", "Primary", "ExprPrime"}.
func goProdLiteral(p grammar.Production) string {
	if p.IsEpsilon() {
		return "grammar.Epsilon"
	}
	var sb bytes.Buffer
	sb.WriteString("grammar.Production{")
	for i, tok := range p {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(tok))
	}
	sb.WriteString("}")
	return sb.String()
}

const parserTemplate = `// Code generated by ll1gen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/dekarrin/ll1gen/internal/grammar"
	"github.com/dekarrin/ll1gen/internal/lextoken"
	"github.com/dekarrin/ll1gen/internal/parse"
)

// New{{.Name}}Grammar builds the grammar this parser was generated from.
func New{{.Name}}Grammar() *grammar.Grammar {
	g := grammar.New()
{{range .Terminals -}}
	g.AddTerm({{. | quote}}, lextoken.MakeDefaultClass({{. | quote}}))
{{end -}}
{{range .Rules}}{{$head := .Head}}{{range .Productions -}}
	g.AddRule({{$head | quote}}, {{. | goProd}})
{{end}}{{end -}}
	g.SetStart({{.Start | quote}})
	return g
}

// {{.Name}}Parser wraps the generated grammar's predictive parser.
type {{.Name}}Parser struct {
	p *parse.Parser
}

// New{{.Name}}Parser computes the LL(1) table for the generated grammar and
// returns a ready-to-use parser.
func New{{.Name}}Parser() (*{{.Name}}Parser, error) {
	p, err := parse.New(New{{.Name}}Grammar())
	if err != nil {
		return nil, err
	}
	return &{{.Name}}Parser{p: p}, nil
}

// Parse runs the predictive parse over toks, returning the resulting
// concrete parse tree.
func (p *{{.Name}}Parser) Parse(toks lextoken.TokenStream) (*parse.Tree, error) {
	return p.p.Parse(toks)
}
`
