// Package memory provides in-memory implementations of the repository
// contracts for service-level tests. Only the specifications the
// services actually use are interpreted.
package memory

import (
	"context"
	"sort"
	"sync"

	"navi-be/internal/entity"
	"navi-be/internal/repository/contract"
	"navi-be/internal/repository/specification"
	"navi-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Store struct {
	mu         sync.RWMutex
	personas   map[uuid.UUID]*entity.Persona
	documents  map[uuid.UUID]*entity.Document
	embeddings map[uuid.UUID]*entity.DocumentEmbedding
	matches    map[uuid.UUID]*entity.Match
}

func NewStore() *Store {
	return &Store{
		personas:   make(map[uuid.UUID]*entity.Persona),
		documents:  make(map[uuid.UUID]*entity.Document),
		embeddings: make(map[uuid.UUID]*entity.DocumentEmbedding),
		matches:    make(map[uuid.UUID]*entity.Match),
	}
}

type Factory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &uow{store: f.store}
}

type uow struct {
	store *Store
}

func (u *uow) Begin(ctx context.Context) error { return nil }
func (u *uow) Commit() error                   { return nil }
func (u *uow) Rollback() error                 { return nil }

func (u *uow) PersonaRepository() contract.PersonaRepository {
	return &personaRepo{store: u.store}
}

func (u *uow) DocumentRepository() contract.DocumentRepository {
	return &documentRepo{store: u.store}
}

func (u *uow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return &documentEmbeddingRepo{store: u.store}
}

func (u *uow) MatchRepository() contract.MatchRepository {
	return &matchRepo{store: u.store}
}

type personaRepo struct {
	store *Store
}

func (r *personaRepo) Create(ctx context.Context, persona *entity.Persona) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if persona.Id == uuid.Nil {
		persona.Id = uuid.New()
	}
	cp := *persona
	r.store.personas[persona.Id] = &cp
	return nil
}

func (r *personaRepo) Update(ctx context.Context, persona *entity.Persona) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *persona
	r.store.personas[persona.Id] = &cp
	return nil
}

func (r *personaRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Persona, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *personaRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Persona, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Persona
	for _, p := range r.store.personas {
		if matchesPersona(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *personaRepo) Delete(ctx context.Context, specs ...specification.Specification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, p := range r.store.personas {
		if matchesPersona(p, specs) {
			delete(r.store.personas, id)
		}
	}
	return nil
}

func matchesPersona(p *entity.Persona, specs []specification.Specification) bool {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok && p.Id != byID.ID {
			return false
		}
	}
	return true
}

type documentRepo struct {
	store *Store
}

func (r *documentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if document.Id == uuid.Nil {
		document.Id = uuid.New()
	}
	cp := *document
	r.store.documents[document.Id] = &cp
	return nil
}

func (r *documentRepo) Update(ctx context.Context, document *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *document
	r.store.documents[document.Id] = &cp
	return nil
}

func (r *documentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *documentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Document
	for _, d := range r.store.documents {
		if matchesDocument(d, specs) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *documentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *documentRepo) Delete(ctx context.Context, specs ...specification.Specification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, d := range r.store.documents {
		if matchesDocument(d, specs) {
			delete(r.store.documents, id)
		}
	}
	return nil
}

func matchesDocument(d *entity.Document, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if d.Id != spec.ID {
				return false
			}
		case specification.ByDocumentId:
			if d.DocumentId != spec.DocumentId {
				return false
			}
		case specification.WithEmbedding:
			if len(d.Embedding) == 0 {
				return false
			}
		}
	}
	return true
}

type documentEmbeddingRepo struct {
	store *Store
}

func (r *documentEmbeddingRepo) Create(ctx context.Context, embedding *entity.DocumentEmbedding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if embedding.Id == uuid.Nil {
		embedding.Id = uuid.New()
	}
	cp := *embedding
	r.store.embeddings[embedding.Id] = &cp
	return nil
}

func (r *documentEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error {
	for _, e := range embeddings {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *documentEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.DocumentEmbedding
	for _, e := range r.store.embeddings {
		if matchesEmbedding(e, specs) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out, nil
}

func (r *documentEmbeddingRepo) Delete(ctx context.Context, specs ...specification.Specification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, e := range r.store.embeddings {
		if matchesEmbedding(e, specs) {
			delete(r.store.embeddings, id)
		}
	}
	return nil
}

func matchesEmbedding(e *entity.DocumentEmbedding, specs []specification.Specification) bool {
	for _, s := range specs {
		if spec, ok := s.(specification.ByParentDocument); ok && e.DocumentId != spec.DocumentId {
			return false
		}
	}
	return true
}

type matchRepo struct {
	store *Store
}

func (r *matchRepo) Create(ctx context.Context, match *entity.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if match.Id == uuid.Nil {
		match.Id = uuid.New()
	}
	cp := *match
	r.store.matches[match.Id] = &cp
	return nil
}

func (r *matchRepo) CreateBulk(ctx context.Context, matches []*entity.Match) error {
	for _, m := range matches {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *matchRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ordered := false
	var out []*entity.Match
	for _, m := range r.store.matches {
		if matchesMatch(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	for _, s := range specs {
		if _, ok := s.(specification.OrderByRelevance); ok {
			ordered = true
		}
	}
	if ordered {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].RelevanceScore != out[j].RelevanceScore {
				return out[i].RelevanceScore > out[j].RelevanceScore
			}
			return out[i].SimilarityScore > out[j].SimilarityScore
		})
	}
	return out, nil
}

func (r *matchRepo) Delete(ctx context.Context, specs ...specification.Specification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, m := range r.store.matches {
		if matchesMatch(m, specs) {
			delete(r.store.matches, id)
		}
	}
	return nil
}

func matchesMatch(m *entity.Match, specs []specification.Specification) bool {
	for _, s := range specs {
		if spec, ok := s.(specification.ByPersonaId); ok && m.PersonaId != spec.PersonaId {
			return false
		}
	}
	return true
}
