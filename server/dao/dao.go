// Package dao defines the grammar registry service's storage contract: the
// Store aggregate and its per-entity repositories. Concrete backends
// (sqlite, in-memory) live in subpackages.
//
// Grounded on server/dao/dao.go, repurposed from a MUD game's
// users/games/sessions/commands aggregate to a grammar registry's
// users/grammars aggregate — the repository-per-entity shape, sentinel
// error set, and Role enum carry over directly; Registrations/Sessions/
// Commands/GameData have no analogue in this domain and were dropped.
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/internal/grammar"
)

// Sentinel errors every repository method may return, wrapped with
// additional context by the concrete backend.
var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds every repository the registry service depends on.
type Store interface {
	Users() UserRepository
	Grammars() GrammarRepository
	Close() error
}

// Role is a user's authorization level within the registry.
type Role int

const (
	Guest Role = iota
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

// ParseRole parses a Role's String() output back into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "guest":
		return Guest, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'normal', or 'admin'")
	}
}

// User is a registered account of the grammar registry service.
type User struct {
	ID             uuid.UUID
	Username       string
	PasswordHash   string
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
}

// UserRepository stores registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// RuleSource is one AddRule call as submitted by a client, preserved
// verbatim so a stored grammar's source can be shown or re-emitted exactly
// as it was created, without needing to reverse the analysed Grammar back
// into text.
type RuleSource struct {
	NonTerminal string
	Body        []string
}

// StoredGrammar is one submitted grammar together with its analysis
// results: whether it is LL(1), and (if so) its computed predictive table,
// persisted so it can be fetched or re-emitted without recomputation.
type StoredGrammar struct {
	ID       uuid.UUID
	Owner    uuid.UUID
	Name     string
	Terms    []string
	Rules    []RuleSource
	Start    string
	IsLL1    bool
	Table    grammar.LL1Table
	Created  time.Time
	Modified time.Time
}

// GrammarRepository stores submitted-and-analysed grammars.
type GrammarRepository interface {
	Create(ctx context.Context, g StoredGrammar) (StoredGrammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (StoredGrammar, error)
	GetByName(ctx context.Context, owner uuid.UUID, name string) (StoredGrammar, error)
	GetAllByUser(ctx context.Context, owner uuid.UUID) ([]StoredGrammar, error)
	GetAll(ctx context.Context) ([]StoredGrammar, error)
	Update(ctx context.Context, id uuid.UUID, g StoredGrammar) (StoredGrammar, error)
	Delete(ctx context.Context, id uuid.UUID) (StoredGrammar, error)
	Close() error
}
