package llsvc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llserr"
)

func arithRules() []dao.RuleSource {
	return []dao.RuleSource{
		{NonTerminal: "Expr", Body: []string{"Primary", "ExprPrime"}},
		{NonTerminal: "ExprPrime", Body: []string{"PLUS", "Primary", "ExprPrime"}},
		{NonTerminal: "ExprPrime", Body: []string{"$"}},
		{NonTerminal: "Primary", Body: []string{"LPAREN", "Expr", "RPAREN"}},
		{NonTerminal: "Primary", Body: []string{"TOK_INT"}},
	}
}

func Test_SubmitGrammar_LL1(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	owner := uuid.New()

	stored, err := svc.SubmitGrammar(context.Background(), owner, "arith", nil, arithRules(), "Expr")
	require.NoError(t, err)
	assert.True(stored.IsLL1)
	assert.NotEmpty(stored.Table)
	assert.Equal(owner, stored.Owner)
}

func Test_SubmitGrammar_NonLL1_StillStored(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	owner := uuid.New()

	ambiguous := []dao.RuleSource{
		{NonTerminal: "S", Body: []string{"A"}},
		{NonTerminal: "S", Body: []string{"A", "B"}},
		{NonTerminal: "A", Body: []string{"TOK_A"}},
		{NonTerminal: "B", Body: []string{"TOK_B"}},
	}

	stored, err := svc.SubmitGrammar(context.Background(), owner, "ambiguous", nil, ambiguous, "S")
	require.NoError(t, err)
	assert.False(stored.IsLL1)
}

func Test_SubmitGrammar_RejectsEmptyNameOrRules(t *testing.T) {
	testCases := []struct {
		name  string
		gname string
		rules []dao.RuleSource
	}{
		{name: "empty name", gname: "", rules: arithRules()},
		{name: "no rules", gname: "arith", rules: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()
			_, err := svc.SubmitGrammar(context.Background(), uuid.New(), tc.gname, nil, tc.rules, "Expr")
			assert.ErrorIs(err, llserr.ErrBadArgument)
		})
	}
}

func Test_SubmitGrammar_RejectsUnknownSymbol(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()

	bad := []dao.RuleSource{
		{NonTerminal: "Expr", Body: []string{"NotAThing"}},
	}

	_, err := svc.SubmitGrammar(context.Background(), uuid.New(), "bad", nil, bad, "Expr")
	assert.ErrorIs(err, llserr.ErrBadGrammar)
}

func Test_GetGrammar_GetAllGrammarsByUser_DeleteGrammar(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()
	owner := uuid.New()

	stored, err := svc.SubmitGrammar(ctx, owner, "arith", nil, arithRules(), "Expr")
	require.NoError(t, err)

	fetched, err := svc.GetGrammar(ctx, stored.ID.String())
	assert.NoError(err)
	assert.Equal(stored.Name, fetched.Name)

	all, err := svc.GetAllGrammarsByUser(ctx, owner)
	assert.NoError(err)
	assert.Len(all, 1)

	deleted, err := svc.DeleteGrammar(ctx, stored.ID.String())
	assert.NoError(err)
	assert.Equal(stored.ID, deleted.ID)

	_, err = svc.GetGrammar(ctx, stored.ID.String())
	assert.ErrorIs(err, llserr.ErrNotFound)
}

func Test_EmitGrammar_RequiresLL1(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	ambiguous := []dao.RuleSource{
		{NonTerminal: "S", Body: []string{"A"}},
		{NonTerminal: "S", Body: []string{"A", "B"}},
		{NonTerminal: "A", Body: []string{"TOK_A"}},
		{NonTerminal: "B", Body: []string{"TOK_B"}},
	}
	stored, err := svc.SubmitGrammar(ctx, uuid.New(), "ambiguous", nil, ambiguous, "S")
	require.NoError(t, err)
	assert.False(stored.IsLL1)

	_, _, err = svc.EmitGrammar(ctx, stored.ID.String(), "parser", "Ambiguous")
	assert.ErrorIs(err, llserr.ErrConflict)
}

func Test_EmitGrammar_ProducesSource(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	stored, err := svc.SubmitGrammar(ctx, uuid.New(), "arith", nil, arithRules(), "Expr")
	require.NoError(t, err)

	src, _, err := svc.EmitGrammar(ctx, stored.ID.String(), "parser", "Arith")
	assert.NoError(err)
	assert.Contains(src, "package parser")
	assert.Contains(src, "ArithParser")
}
