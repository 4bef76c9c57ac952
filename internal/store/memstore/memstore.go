// Package memstore keeps products in an ordered in-memory tree. It is the
// default backend and the fake used by workflow tests.
package memstore

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[domain.Product]
	ids  store.IDGenerator
}

var _ store.ProductStore = (*Store)(nil)

func byID(a, b domain.Product) bool {
	return a.ID < b.ID
}

func New(ids store.IDGenerator) *Store {
	if ids == nil {
		ids = store.DefaultIDs()
	}
	return &Store{
		tree: btree.NewG[domain.Product](16, byID),
		ids:  ids,
	}
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStore("list", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Product, 0, s.tree.Len())
	s.tree.Ascend(func(p domain.Product) bool {
		items = append(items, p)
		return true
	})
	return items, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStore("get", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.tree.Get(domain.Product{ID: id})
	if !ok {
		return nil, domain.NewNotFound(id)
	}
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p domain.Product) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.WrapStore("insert", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.ids.NextID()
	s.tree.ReplaceOrInsert(p)
	return p.ID, nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, p domain.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapStore("update", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tree.Has(domain.Product{ID: id}) {
		return domain.NewNotFound(id)
	}
	p.ID = id
	s.tree.ReplaceOrInsert(p)
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapStore("delete", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Delete(domain.Product{ID: id})
	return nil
}

func (s *Store) Close() error {
	return nil
}
