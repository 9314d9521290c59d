package lltoken

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/dao/inmem"
)

var testSecret = []byte("this-is-a-test-secret-of-at-least-32-bytes!!")

func newTestUser(t *testing.T) (dao.User, dao.UserRepository) {
	store := inmem.NewDatastore()
	users := store.Users()
	u, err := users.Create(context.Background(), dao.User{Username: "alice", PasswordHash: "hashed", Role: dao.Normal})
	require.NoError(t, err)
	return u, users
}

func Test_Generate_Validate_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	u, users := newTestUser(t)

	tok, err := Generate(u, testSecret)
	assert.NoError(err)
	assert.NotEmpty(tok)

	validated, err := Validate(context.Background(), tok, testSecret, users)
	assert.NoError(err)
	assert.Equal(u.ID, validated.ID)
}

func Test_Validate_RejectsAfterLogout(t *testing.T) {
	assert := assert.New(t)
	u, users := newTestUser(t)

	tok, err := Generate(u, testSecret)
	assert.NoError(err)

	u.LastLogoutTime = u.LastLogoutTime.AddDate(0, 0, 1)
	updated, err := users.Update(context.Background(), u.ID, u)
	assert.NoError(err)
	assert.False(updated.LastLogoutTime.IsZero())

	_, err = Validate(context.Background(), tok, testSecret, users)
	assert.Error(err)
}

func Test_Validate_RejectsWrongSecret(t *testing.T) {
	assert := assert.New(t)
	u, users := newTestUser(t)

	tok, err := Generate(u, testSecret)
	assert.NoError(err)

	_, err = Validate(context.Background(), tok, []byte("a-completely-different-secret-value"), users)
	assert.Error(err)
}

func Test_Get_ParsesBearerHeader(t *testing.T) {
	assert := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/grammars", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tok, err := Get(req)
	assert.NoError(err)
	assert.Equal("abc.def.ghi", tok)
}

func Test_Get_RejectsMissingOrMalformedHeader(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "no scheme", header: "abc.def.ghi"},
		{name: "wrong scheme", header: "Basic abc.def.ghi"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			req := httptest.NewRequest(http.MethodGet, "/grammars", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			_, err := Get(req)
			assert.Error(err)
		})
	}
}
