package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/internal/grammar"
	"github.com/dekarrin/ll1gen/server/dao"
)

// GrammarsDB is a sqlite-backed dao.GrammarRepository. The submitted rule
// source and the computed predictive table are flattened into grammarBlob
// and stored as a single REZI-encoded BLOB column, since neither has a
// natural relational shape worth normalizing into its own tables.
type GrammarsDB struct {
	db *sql.DB
}

// grammarBlob is the REZI-serializable shape of the parts of a
// dao.StoredGrammar that don't map onto scalar columns.
type grammarBlob struct {
	Terms []string
	Rules []ruleSourceBlob
	Start string
	IsLL1 bool
	Table []tableEntryBlob
}

type ruleSourceBlob struct {
	NonTerminal string
	Body        []string
}

type tableEntryBlob struct {
	NonTerminal string
	Terminal    string
	Body        []string
}

func toGrammarBlob(g dao.StoredGrammar) grammarBlob {
	b := grammarBlob{
		Terms: g.Terms,
		Start: g.Start,
		IsLL1: g.IsLL1,
	}
	for _, r := range g.Rules {
		b.Rules = append(b.Rules, ruleSourceBlob{NonTerminal: r.NonTerminal, Body: r.Body})
	}
	for _, nt := range g.Table.NonTerminals() {
		row := g.Table[nt]
		for term, prod := range row {
			b.Table = append(b.Table, tableEntryBlob{NonTerminal: nt, Terminal: term, Body: []string(prod)})
		}
	}
	return b
}

func fromGrammarBlob(b grammarBlob) (terms []string, rules []dao.RuleSource, table grammar.LL1Table) {
	terms = b.Terms
	for _, r := range b.Rules {
		rules = append(rules, dao.RuleSource{NonTerminal: r.NonTerminal, Body: r.Body})
	}
	table = make(grammar.LL1Table)
	for _, e := range b.Table {
		row, ok := table[e.NonTerminal]
		if !ok {
			row = make(map[string]grammar.Production)
			table[e.NonTerminal] = row
		}
		row[e.Terminal] = grammar.Production(e.Body)
	}
	return terms, rules, table
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		data BLOB NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		UNIQUE(owner, name)
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.StoredGrammar) (dao.StoredGrammar, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.StoredGrammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	blob := convertToDB_TableBlob(toGrammarBlob(g))
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, owner, name, data, created, modified) VALUES (?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(newID), convertToDB_UUID(g.Owner), g.Name, blob,
		convertToDB_Time(now), convertToDB_Time(now),
	)
	if err != nil {
		return dao.StoredGrammar{}, wrapDBError(err)
	}
	return repo.GetByID(ctx, newID)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.StoredGrammar, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, owner, name, data, created, modified FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	return scanGrammarRow(row)
}

func (repo *GrammarsDB) GetByName(ctx context.Context, owner uuid.UUID, name string) (dao.StoredGrammar, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, owner, name, data, created, modified FROM grammars WHERE owner = ? AND name = ?;`,
		convertToDB_UUID(owner), name)
	return scanGrammarRow(row)
}

func (repo *GrammarsDB) GetAllByUser(ctx context.Context, owner uuid.UUID) ([]dao.StoredGrammar, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, owner, name, data, created, modified FROM grammars WHERE owner = ? ORDER BY name;`,
		convertToDB_UUID(owner))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	return scanGrammarRows(rows)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.StoredGrammar, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, owner, name, data, created, modified FROM grammars ORDER BY owner, name;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	return scanGrammarRows(rows)
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g dao.StoredGrammar) (dao.StoredGrammar, error) {
	blob := convertToDB_TableBlob(toGrammarBlob(g))
	res, err := repo.db.ExecContext(ctx,
		`UPDATE grammars SET owner=?, name=?, data=?, modified=? WHERE id=?;`,
		convertToDB_UUID(g.Owner), g.Name, blob, convertToDB_Time(time.Now()), convertToDB_UUID(id),
	)
	if err != nil {
		return dao.StoredGrammar{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.StoredGrammar{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.StoredGrammar{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.StoredGrammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
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

func (repo *GrammarsDB) Close() error {
	return nil
}

func scanGrammarRows(rows *sql.Rows) ([]dao.StoredGrammar, error) {
	var all []dao.StoredGrammar
	for rows.Next() {
		g, err := scanGrammarRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func scanGrammarRow(s scannable) (dao.StoredGrammar, error) {
	var g dao.StoredGrammar
	var id, owner string
	var data []byte
	var created, modified int64

	if err := s.Scan(&id, &owner, &g.Name, &data, &created, &modified); err != nil {
		return dao.StoredGrammar{}, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return dao.StoredGrammar{}, err
	}
	if err := convertFromDB_UUID(owner, &g.Owner); err != nil {
		return dao.StoredGrammar{}, err
	}

	var blob grammarBlob
	if err := convertFromDB_TableBlob(data, &blob); err != nil {
		return dao.StoredGrammar{}, err
	}
	g.Terms, g.Rules, g.Table = fromGrammarBlob(blob)
	g.Start = blob.Start
	g.IsLL1 = blob.IsLL1

	convertFromDB_Time(created, &g.Created)
	convertFromDB_Time(modified, &g.Modified)
	return g, nil
}
