package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/server/dao"
)

// UsersDB is a sqlite-backed dao.UserRepository.
type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created, modified, last_logout_time) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(newID), user.Username, user.PasswordHash, convertToDB_Role(user.Role),
		convertToDB_Time(now), convertToDB_Time(now), convertToDB_Time(now),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, newID)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, username, password_hash, role, created, modified, last_logout_time FROM users ORDER BY username;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return all, err
		}
		all = append(all, user)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET username=?, password_hash=?, role=?, modified=?, last_logout_time=? WHERE id=?;`,
		user.Username, user.PasswordHash, convertToDB_Role(user.Role),
		convertToDB_Time(time.Now()), convertToDB_Time(user.LastLogoutTime), convertToDB_UUID(id),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created, modified, last_logout_time FROM users WHERE username = ?;`, username)
	return scanUserRow(row)
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created, modified, last_logout_time FROM users WHERE id = ?;`, convertToDB_UUID(id))
	return scanUserRow(row)
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?;`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}
	return curVal, nil
}

func (repo *UsersDB) Close() error {
	return nil // shared *sql.DB is closed by the owning store
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanUser(s scannable) (dao.User, error) {
	return scanUserRow(s)
}

func scanUserRow(s scannable) (dao.User, error) {
	var user dao.User
	var id, role string
	var created, modified, logout int64

	if err := s.Scan(&id, &user.Username, &user.PasswordHash, &role, &created, &modified, &logout); err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &user.ID); err != nil {
		return dao.User{}, err
	}
	if err := convertFromDB_Role(role, &user.Role); err != nil {
		return dao.User{}, err
	}
	convertFromDB_Time(created, &user.Created)
	convertFromDB_Time(modified, &user.Modified)
	convertFromDB_Time(logout, &user.LastLogoutTime)
	return user, nil
}
