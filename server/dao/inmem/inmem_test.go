package inmem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ll1gen/server/dao"
)

func Test_UsersRepository_CreateGetUpdateDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	created, err := repo.Create(ctx, dao.User{Username: "alice", PasswordHash: "h", Role: dao.Normal})
	require.NoError(t, err)
	assert.NotEqual(uuid.Nil, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created.Username, fetched.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	assert.NoError(err)
	assert.Equal(created.ID, byName.ID)

	created.Role = dao.Admin
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.Equal(dao.Admin, updated.Role)

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_UsersRepository_DuplicateUsernameRejected(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewUsersRepository()

	_, err := repo.Create(ctx, dao.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, dao.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

func Test_GrammarsRepository_CreateGetUpdateDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewGrammarsRepository()
	owner := uuid.New()

	created, err := repo.Create(ctx, dao.StoredGrammar{Owner: owner, Name: "arith", Start: "Expr"})
	require.NoError(t, err)

	fetched, err := repo.GetByName(ctx, owner, "arith")
	assert.NoError(err)
	assert.Equal(created.ID, fetched.ID)

	all, err := repo.GetAllByUser(ctx, owner)
	assert.NoError(err)
	assert.Len(all, 1)

	created.IsLL1 = true
	updated, err := repo.Update(ctx, created.ID, created)
	assert.NoError(err)
	assert.True(updated.IsLL1)

	deleted, err := repo.Delete(ctx, created.ID)
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_GrammarsRepository_NameUniquePerOwnerOnly(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := NewGrammarsRepository()

	ownerA, ownerB := uuid.New(), uuid.New()

	_, err := repo.Create(ctx, dao.StoredGrammar{Owner: ownerA, Name: "arith"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, dao.StoredGrammar{Owner: ownerB, Name: "arith"})
	assert.NoError(err, "same name under a different owner should be allowed")

	_, err = repo.Create(ctx, dao.StoredGrammar{Owner: ownerA, Name: "arith"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

func Test_NewDatastore_Close(t *testing.T) {
	assert := assert.New(t)
	store := NewDatastore()

	assert.NotNil(store.Users())
	assert.NotNil(store.Grammars())
	assert.NoError(store.Close())
}
