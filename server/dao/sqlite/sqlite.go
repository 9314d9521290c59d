// Package sqlite is the grammar registry's sqlite-backed dao.Store.
//
// Grounded on server/dao/sqlite/sqlite.go: the store struct, NewDatastore
// constructor shape, convertToDB_*/convertFromDB_* helper-pair convention,
// and wrapDBError all carry over directly. The original split its data
// across two sqlite files (one for user/game/session rows, one for large
// binary game-world blobs); this domain has no analogous "large blob on a
// separate file" need, so a single database file is used instead.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llserr"
)

type store struct {
	dbFilename string
	db         *sql.DB

	users    *UsersDB
	grammars *GrammarsDB
}

// NewDatastore opens (creating if necessary) a sqlite database under
// storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "ll1gen.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)
	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		return nil, err
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository       { return s.users }
func (s *store) Grammars() dao.GrammarRepository { return s.grammars }

func (s *store) Close() error {
	return s.db.Close()
}

// convertToDB_Role converts a dao.Role to storage DB format.
func convertToDB_Role(r dao.Role) string {
	return r.String()
}

// convertToDB_UUID converts a uuid.UUID to storage DB format.
func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

// convertToDB_Time converts a time.Time to storage DB format.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertToDB_TableBlob rezi-encodes a grammarBlob to storage DB format.
func convertToDB_TableBlob(b grammarBlob) []byte {
	return rezi.EncBinary(&b)
}

// convertFromDB_Role converts storage DB format to a dao.Role, wrapping
// dao.ErrDecodingFailure on failure.
func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return llserr.New("", err, dao.ErrDecodingFailure)
	}
	*target = r
	return nil
}

// convertFromDB_UUID converts storage DB format to a uuid.UUID, wrapping
// dao.ErrDecodingFailure on failure.
func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return llserr.New("", err, dao.ErrDecodingFailure)
	}
	*target = u
	return nil
}

// convertFromDB_Time converts storage DB format to a time.Time.
func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

// convertFromDB_TableBlob decodes a rezi-encoded grammarBlob, wrapping
// dao.ErrDecodingFailure on failure.
func convertFromDB_TableBlob(data []byte, target *grammarBlob) error {
	var b grammarBlob
	n, err := rezi.DecBinary(data, &b)
	if err != nil {
		return llserr.New("REZI decode", err, dao.ErrDecodingFailure)
	}
	if n != len(data) {
		return llserr.New(fmt.Sprintf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data)), dao.ErrDecodingFailure)
	}
	*target = b
	return nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
