// Package store defines the remote product store contract and the pieces its
// backends share: id assignment and the persisted document layout.
package store

import (
	"context"

	"github.com/talkincode/bodega/internal/domain"
)

// ProductStore is the document collection the workflow reads and writes.
type ProductStore interface {
	// ListAll returns every product ordered by id
	ListAll(ctx context.Context) ([]domain.Product, error)

	// GetByID returns a *domain.NotFoundError when the id is absent
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Insert assigns a fresh id, ignoring p.ID, and returns it
	Insert(ctx context.Context, p domain.Product) (string, error)

	// UpdateByID overwrites every field of an existing record
	UpdateByID(ctx context.Context, id string, p domain.Product) error

	// DeleteByID removes a record; deleting an absent id is not an error
	DeleteByID(ctx context.Context, id string) error

	Close() error
}
