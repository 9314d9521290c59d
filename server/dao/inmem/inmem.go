// Package inmem is an in-memory dao.Store, used by tests and by the server
// CLI flag that opts out of sqlite persistence entirely.
//
// Grounded on server/dao/inmem/inmem.go; trimmed to the two repositories
// this domain needs (users, grammars) instead of the original five.
package inmem

import (
	"fmt"

	"github.com/dekarrin/ll1gen/server/dao"
)

type store struct {
	users    *UsersRepository
	grammars *GrammarsRepository
}

// NewDatastore returns an in-memory dao.Store.
func NewDatastore() dao.Store {
	return &store{
		users:    NewUsersRepository(),
		grammars: NewGrammarsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	var err error
	if uErr := s.users.Close(); uErr != nil {
		err = uErr
	}
	if gErr := s.grammars.Close(); gErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, gErr)
		} else {
			err = gErr
		}
	}
	return err
}
