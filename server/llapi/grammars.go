package llapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llmiddle"
	"github.com/dekarrin/ll1gen/server/llresult"
	"github.com/dekarrin/ll1gen/server/llserr"
)

func toGrammarModel(g dao.StoredGrammar) GrammarModel {
	rules := make([]RuleModel, len(g.Rules))
	for i, r := range g.Rules {
		rules[i] = RuleModel{NonTerminal: r.NonTerminal, Body: r.Body}
	}
	return GrammarModel{
		URI:      PathPrefix + "/grammars/" + g.ID.String(),
		ID:       g.ID.String(),
		Name:     g.Name,
		Terms:    g.Terms,
		Rules:    rules,
		Start:    g.Start,
		IsLL1:    g.IsLL1,
		Created:  g.Created.Format(time.RFC3339),
		Modified: g.Modified.Format(time.RFC3339),
	}
}

// HTTPCreateGrammar returns a HandlerFunc that submits a new grammar for
// analysis, owned by the logged-in user.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) llresult.Result {
	user, _ := llmiddle.LoggedInUser(req.Context())

	var body GrammarSubmitRequest
	if err := parseJSON(req, &body); err != nil {
		return llresult.BadRequest(err.Error(), err.Error())
	}

	rules := make([]dao.RuleSource, len(body.Rules))
	for i, r := range body.Rules {
		rules[i] = dao.RuleSource{NonTerminal: r.NonTerminal, Body: r.Body}
	}

	created, err := api.Backend.SubmitGrammar(req.Context(), user.ID, body.Name, body.Terms, rules, body.Start)
	if err != nil {
		if errors.Is(err, llserr.ErrAlreadyExists) {
			return llresult.Conflict("a grammar with that name already exists", "a grammar with that name already exists")
		}
		if errors.Is(err, llserr.ErrBadGrammar) || errors.Is(err, llserr.ErrBadArgument) {
			return llresult.BadRequest(err.Error(), err.Error())
		}
		return llresult.InternalServerError(err.Error())
	}
	return llresult.Created(toGrammarModel(created))
}

// HTTPGetAllGrammars returns a HandlerFunc that lists every grammar the
// logged-in user owns.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) llresult.Result {
	user, _ := llmiddle.LoggedInUser(req.Context())

	grammars, err := api.Backend.GetAllGrammarsByUser(req.Context(), user.ID)
	if err != nil {
		return llresult.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = toGrammarModel(grammars[i])
	}
	return llresult.OK(resp)
}

// HTTPGetGrammar returns a HandlerFunc that retrieves one stored grammar.
// Only its owner or an admin may view it.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	g, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, llserr.ErrNotFound) {
			return llresult.NotFound()
		}
		return llresult.InternalServerError(err.Error())
	}

	if g.Owner != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to view another user's grammar")
	}

	return llresult.OK(toGrammarModel(g))
}

// HTTPDeleteGrammar returns a HandlerFunc that removes a stored grammar.
// Only its owner or an admin may delete it.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	existing, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, llserr.ErrNotFound) {
			return llresult.NotFound()
		}
		return llresult.InternalServerError(err.Error())
	}
	if existing.Owner != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to delete another user's grammar")
	}

	if _, err := api.Backend.DeleteGrammar(req.Context(), id.String()); err != nil && !errors.Is(err, llserr.ErrNotFound) {
		return llresult.InternalServerError("could not delete grammar: " + err.Error())
	}
	return llresult.NoContent()
}

// HTTPEmitGrammar returns a HandlerFunc that renders a stored LL(1) grammar
// as generated Go parser source.
func (api API) HTTPEmitGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epEmitGrammar)
}

func (api API) epEmitGrammar(req *http.Request) llresult.Result {
	id := requireIDParam(req)
	user, _ := llmiddle.LoggedInUser(req.Context())

	existing, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, llserr.ErrNotFound) {
			return llresult.NotFound()
		}
		return llresult.InternalServerError(err.Error())
	}
	if existing.Owner != user.ID && user.Role != dao.Admin {
		return llresult.Forbidden("user '" + user.Username + "' attempted to emit another user's grammar")
	}

	var body EmitRequest
	if err := parseJSON(req, &body); err != nil {
		return llresult.BadRequest(err.Error(), err.Error())
	}
	if body.Package == "" {
		body.Package = "parser"
	}
	if body.Name == "" {
		body.Name = existing.Name
	}

	src, diags, err := api.Backend.EmitGrammar(req.Context(), id.String(), body.Package, body.Name)
	if err != nil {
		if errors.Is(err, llserr.ErrConflict) || errors.Is(err, llserr.ErrBadGrammar) {
			return llresult.Conflict(err.Error(), err.Error())
		}
		return llresult.InternalServerError(err.Error())
	}

	resp := EmitResponse{Source: src}
	for _, d := range diags {
		resp.Diagnostics = append(resp.Diagnostics, d.Severity+": "+d.Message)
	}
	return llresult.OK(resp)
}
