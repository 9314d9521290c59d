package llsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/dao/inmem"
	"github.com/dekarrin/ll1gen/server/llserr"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore(), TokenSecret: []byte("test-secret-of-at-least-32-bytes!!")}
}

func Test_CreateUser_AndLogin(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "alice", "hunter2", dao.Normal)
	require.NoError(t, err)
	assert.Equal("alice", created.Username)
	assert.NotEqual("hunter2", created.PasswordHash)

	loggedIn, err := svc.Login(ctx, "alice", "hunter2")
	assert.NoError(err)
	assert.Equal(created.ID, loggedIn.ID)
}

func Test_Login_BadPassword(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "hunter2", dao.Normal)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(err, llserr.ErrBadCredentials)
}

func Test_Login_UnknownUser(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(err, llserr.ErrBadCredentials)
}

func Test_CreateUser_DuplicateUsername(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "hunter2", dao.Normal)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "alice", "different", dao.Normal)
	assert.ErrorIs(err, llserr.ErrAlreadyExists)
}

func Test_CreateUser_RequiresUsernameAndPassword(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "hunter2"},
		{name: "empty password", username: "alice", password: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			svc := newTestService()
			_, err := svc.CreateUser(context.Background(), tc.username, tc.password, dao.Normal)
			assert.ErrorIs(err, llserr.ErrBadArgument)
		})
	}
}

func Test_Logout_InvalidatesPriorToken(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "alice", "hunter2", dao.Normal)
	require.NoError(t, err)

	updated, err := svc.Logout(ctx, created.ID)
	assert.NoError(err)
	assert.True(updated.LastLogoutTime.After(created.LastLogoutTime) || updated.LastLogoutTime.Equal(created.LastLogoutTime))
}

func Test_GetUser_UpdateRole_DeleteUser(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "alice", "hunter2", dao.Normal)
	require.NoError(t, err)

	fetched, err := svc.GetUser(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.Username, fetched.Username)

	promoted, err := svc.UpdateRole(ctx, created.ID.String(), dao.Admin)
	assert.NoError(err)
	assert.Equal(dao.Admin, promoted.Role)

	deleted, err := svc.DeleteUser(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = svc.GetUser(ctx, created.ID.String())
	assert.True(errors.Is(err, llserr.ErrNotFound))
}

func Test_GetUser_BadID(t *testing.T) {
	assert := assert.New(t)
	svc := newTestService()

	_, err := svc.GetUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(err, llserr.ErrBadArgument)
}
