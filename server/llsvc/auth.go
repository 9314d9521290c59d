package llsvc

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llserr"
)

// Login verifies username/password against the stored account and, on
// success, updates its last-login time. A credentials mismatch is
// indistinguishable from a missing account: both return llserr.ErrBadCredentials.
func (svc Service) Login(ctx context.Context, username, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, llserr.ErrBadCredentials
		}
		return dao.User{}, llserr.WrapStore("", err)
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(user.PasswordHash)
	if err != nil {
		return dao.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(bcryptHash, []byte(password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return dao.User{}, llserr.ErrBadCredentials
		}
		return dao.User{}, llserr.WrapStore("", err)
	}

	user, err = svc.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, llserr.WrapStore("cannot update user login time", err)
	}

	return user, nil
}

// Logout marks who's account as having logged out, invalidating any JWT
// issued before now (the signing key is derived in part from
// LastLogoutTime; see server/lltoken).
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	existing, err := svc.DB.Users().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, llserr.ErrNotFound
		}
		return dao.User{}, llserr.WrapStore("could not retrieve user", err)
	}

	existing.LastLogoutTime = time.Now()

	updated, err := svc.DB.Users().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.User{}, llserr.WrapStore("could not update user", err)
	}

	return updated, nil
}
