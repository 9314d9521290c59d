package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/server/dao"
)

// NewGrammarsRepository returns an empty in-memory GrammarRepository.
func NewGrammarsRepository() *GrammarsRepository {
	return &GrammarsRepository{
		grammars: make(map[uuid.UUID]dao.StoredGrammar),
		byName:   make(map[string]uuid.UUID),
	}
}

// GrammarsRepository is an in-memory dao.GrammarRepository. Names are
// unique per owner, keyed here as "owner:name".
type GrammarsRepository struct {
	grammars map[uuid.UUID]dao.StoredGrammar
	byName   map[string]uuid.UUID
}

func (r *GrammarsRepository) Close() error { return nil }

func nameKey(owner uuid.UUID, name string) string {
	return owner.String() + ":" + name
}

func (r *GrammarsRepository) Create(ctx context.Context, g dao.StoredGrammar) (dao.StoredGrammar, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.StoredGrammar{}, fmt.Errorf("could not generate ID: %w", err)
	}
	g.ID = newID

	key := nameKey(g.Owner, g.Name)
	if _, ok := r.byName[key]; ok {
		return dao.StoredGrammar{}, dao.ErrConstraintViolation
	}

	g.Created = time.Now()
	g.Modified = g.Created
	r.grammars[g.ID] = g
	r.byName[key] = g.ID
	return g, nil
}

func (r *GrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.StoredGrammar, error) {
	g, ok := r.grammars[id]
	if !ok {
		return dao.StoredGrammar{}, dao.ErrNotFound
	}
	return g, nil
}

func (r *GrammarsRepository) GetByName(ctx context.Context, owner uuid.UUID, name string) (dao.StoredGrammar, error) {
	id, ok := r.byName[nameKey(owner, name)]
	if !ok {
		return dao.StoredGrammar{}, dao.ErrNotFound
	}
	return r.grammars[id], nil
}

func (r *GrammarsRepository) GetAllByUser(ctx context.Context, owner uuid.UUID) ([]dao.StoredGrammar, error) {
	var out []dao.StoredGrammar
	for _, g := range r.grammars {
		if g.Owner == owner {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *GrammarsRepository) GetAll(ctx context.Context) ([]dao.StoredGrammar, error) {
	out := make([]dao.StoredGrammar, 0, len(r.grammars))
	for _, g := range r.grammars {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *GrammarsRepository) Update(ctx context.Context, id uuid.UUID, g dao.StoredGrammar) (dao.StoredGrammar, error) {
	existing, ok := r.grammars[id]
	if !ok {
		return dao.StoredGrammar{}, dao.ErrNotFound
	}

	newKey := nameKey(g.Owner, g.Name)
	oldKey := nameKey(existing.Owner, existing.Name)
	if newKey != oldKey {
		if _, ok := r.byName[newKey]; ok {
			return dao.StoredGrammar{}, dao.ErrConstraintViolation
		}
		delete(r.byName, oldKey)
		r.byName[newKey] = id
	}

	g.Created = existing.Created
	g.Modified = time.Now()
	r.grammars[id] = g
	return g, nil
}

func (r *GrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.StoredGrammar, error) {
	g, ok := r.grammars[id]
	if !ok {
		return dao.StoredGrammar{}, dao.ErrNotFound
	}
	delete(r.byName, nameKey(g.Owner, g.Name))
	delete(r.grammars, id)
	return g, nil
}
