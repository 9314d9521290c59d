package llsvc

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llserr"
)

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(hash), nil
}

// CreateUser registers a new account. username must be unique.
func (svc Service) CreateUser(ctx context.Context, username, password string, role dao.Role) (dao.User, error) {
	if username == "" {
		return dao.User{}, llserr.New("username cannot be empty", llserr.ErrBadArgument)
	}
	if password == "" {
		return dao.User{}, llserr.New("password cannot be empty", llserr.ErrBadArgument)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return dao.User{}, fmt.Errorf("hash password: %w", err)
	}

	newUser, err := svc.DB.Users().Create(ctx, dao.User{Username: username, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.User{}, llserr.New("", llserr.ErrAlreadyExists)
		}
		return dao.User{}, llserr.WrapStore("", err)
	}
	return newUser, nil
}

// GetUser retrieves an account by its string-encoded ID.
func (svc Service) GetUser(ctx context.Context, id string) (dao.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, llserr.New("id: "+err.Error(), llserr.ErrBadArgument)
	}

	user, err := svc.DB.Users().GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, llserr.New("", llserr.ErrNotFound)
		}
		return dao.User{}, llserr.WrapStore("", err)
	}
	return user, nil
}

// GetAllUsers returns every registered account.
func (svc Service) GetAllUsers(ctx context.Context) ([]dao.User, error) {
	users, err := svc.DB.Users().GetAll(ctx)
	if err != nil {
		return nil, llserr.WrapStore("", err)
	}
	return users, nil
}

// UpdatePassword replaces id's password hash.
func (svc Service) UpdatePassword(ctx context.Context, id string, newPassword string) (dao.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, llserr.New("id: "+err.Error(), llserr.ErrBadArgument)
	}

	existing, err := svc.DB.Users().GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, llserr.New("", llserr.ErrNotFound)
		}
		return dao.User{}, llserr.WrapStore("", err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return dao.User{}, fmt.Errorf("hash password: %w", err)
	}
	existing.PasswordHash = hash

	updated, err := svc.DB.Users().Update(ctx, parsed, existing)
	if err != nil {
		return dao.User{}, llserr.WrapStore("", err)
	}
	return updated, nil
}

// UpdateRole changes id's authorization level.
func (svc Service) UpdateRole(ctx context.Context, id string, newRole dao.Role) (dao.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, llserr.New("id: "+err.Error(), llserr.ErrBadArgument)
	}

	existing, err := svc.DB.Users().GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, llserr.New("", llserr.ErrNotFound)
		}
		return dao.User{}, llserr.WrapStore("", err)
	}
	existing.Role = newRole

	updated, err := svc.DB.Users().Update(ctx, parsed, existing)
	if err != nil {
		return dao.User{}, llserr.WrapStore("", err)
	}
	return updated, nil
}

// DeleteUser removes an account by its string-encoded ID.
func (svc Service) DeleteUser(ctx context.Context, id string) (dao.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return dao.User{}, llserr.New("id: "+err.Error(), llserr.ErrBadArgument)
	}

	deleted, err := svc.DB.Users().Delete(ctx, parsed)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, llserr.New("", llserr.ErrNotFound)
		}
		return dao.User{}, llserr.WrapStore("", err)
	}
	return deleted, nil
}
