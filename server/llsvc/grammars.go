package llsvc

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/internal/emit"
	"github.com/dekarrin/ll1gen/internal/grammar"
	"github.com/dekarrin/ll1gen/internal/lextoken"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llserr"
)

// buildGrammar reconstructs an *grammar.Grammar from submitted rule source.
func buildGrammar(terms []string, rules []dao.RuleSource, start string) *grammar.Grammar {
	g := grammar.New()
	for _, t := range terms {
		g.AddTerm(t, lextoken.MakeDefaultClass(t))
	}
	for _, r := range rules {
		g.AddRule(r.NonTerminal, grammar.Production(r.Body))
	}
	g.SetStart(start)
	return g
}

// SubmitGrammar validates and analyses a grammar submitted by owner, then
// persists it together with its analysis results. The grammar is accepted
// even when it isn't LL(1); IsLL1 on the returned record reflects whether a
// predictive table could be built.
func (svc Service) SubmitGrammar(ctx context.Context, owner uuid.UUID, name string, terms []string, rules []dao.RuleSource, start string) (dao.StoredGrammar, error) {
	if name == "" {
		return dao.StoredGrammar{}, llserr.New("name cannot be empty", llserr.ErrBadArgument)
	}
	if len(rules) == 0 {
		return dao.StoredGrammar{}, llserr.New("grammar must have at least one rule", llserr.ErrBadArgument)
	}

	g := buildGrammar(terms, rules, start)
	if err := g.Validate(); err != nil {
		return dao.StoredGrammar{}, llserr.New("invalid grammar: "+err.Error(), llserr.ErrBadGrammar)
	}

	record := dao.StoredGrammar{
		Owner: owner,
		Name:  name,
		Terms: terms,
		Rules: rules,
		Start: start,
	}

	table, err := g.LLParseTable()
	if err != nil {
		if errors.Is(err, grammar.ErrConflict) || errors.Is(err, grammar.ErrLeftRecursion) {
			record.IsLL1 = false
		} else {
			return dao.StoredGrammar{}, llserr.New("analyse grammar: "+err.Error(), llserr.ErrBadGrammar)
		}
	} else {
		record.IsLL1 = true
		record.Table = table
	}

	created, err := svc.DB.Grammars().Create(ctx, record)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.StoredGrammar{}, llserr.New("", llserr.ErrAlreadyExists)
		}
		return dao.StoredGrammar{}, llserr.WrapStore("", err)
	}
	return created, nil
}

// GetGrammar retrieves a stored grammar by its string-encoded ID.
func (svc Service) GetGrammar(ctx context.Context, id string) (dao.StoredGrammar, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return dao.StoredGrammar{}, llserr.New("id: "+err.Error(), llserr.ErrBadArgument)
	}

	g, err := svc.DB.Grammars().GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.StoredGrammar{}, llserr.New("", llserr.ErrNotFound)
		}
		return dao.StoredGrammar{}, llserr.WrapStore("", err)
	}
	return g, nil
}

// GetAllGrammarsByUser returns every grammar owner has submitted.
func (svc Service) GetAllGrammarsByUser(ctx context.Context, owner uuid.UUID) ([]dao.StoredGrammar, error) {
	gs, err := svc.DB.Grammars().GetAllByUser(ctx, owner)
	if err != nil {
		return nil, llserr.WrapStore("", err)
	}
	return gs, nil
}

// DeleteGrammar removes a stored grammar by its string-encoded ID.
func (svc Service) DeleteGrammar(ctx context.Context, id string) (dao.StoredGrammar, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return dao.StoredGrammar{}, llserr.New("id: "+err.Error(), llserr.ErrBadArgument)
	}

	deleted, err := svc.DB.Grammars().Delete(ctx, parsed)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.StoredGrammar{}, llserr.New("", llserr.ErrNotFound)
		}
		return dao.StoredGrammar{}, llserr.WrapStore("", err)
	}
	return deleted, nil
}

// EmitGrammar renders id's stored grammar as generated Go parser source. The
// grammar must be LL(1) (a conflicting grammar has no table to emit from).
func (svc Service) EmitGrammar(ctx context.Context, id string, pkg, name string) (string, []emit.Diagnostic, error) {
	stored, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if !stored.IsLL1 {
		return "", nil, llserr.New("grammar is not LL(1), nothing to emit", llserr.ErrConflict)
	}

	g := buildGrammar(stored.Terms, stored.Rules, stored.Start)
	e := emit.New()
	src, diags, err := e.Generate(g, emit.Options{Package: pkg, Name: name})
	if err != nil {
		return "", nil, llserr.New("emit: "+err.Error(), llserr.ErrBadGrammar)
	}
	return src, diags, nil
}
