// Package boltstore keeps products as JSON documents in an embedded bbolt
// file, one bucket per collection.
package boltstore

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errMissing = errors.New("document missing")

type Store struct {
	db     *bolt.DB
	bucket []byte
	ids    store.IDGenerator
}

var _ store.ProductStore = (*Store)(nil)

// Open opens (or creates) the bolt file and the collection bucket.
func Open(file, collection string, ids store.IDGenerator) (*Store, error) {
	if ids == nil {
		ids = store.DefaultIDs()
	}
	db, err := bolt.Open(file, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt file %s", file)
	}
	s := &Store{db: db, bucket: []byte(collection), ids: ids}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func decode(id string, raw []byte) (domain.Product, error) {
	doc := make(map[string]interface{})
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Product{}, errors.Wrapf(err, "unmarshal document %s", id)
	}
	return store.FromDocument(id, doc)
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStore("list", err)
	}
	items := make([]domain.Product, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			p, err := decode(string(k), v)
			if err != nil {
				return err
			}
			items = append(items, p)
			return nil
		})
	})
	if err != nil {
		return nil, domain.WrapStore("list", err)
	}
	return items, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapStore("get", err)
	}
	var p domain.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(id))
		if raw == nil {
			return errMissing
		}
		var err error
		p, err = decode(id, raw)
		return err
	})
	if errors.Is(err, errMissing) {
		return nil, domain.NewNotFound(id)
	} else if err != nil {
		return nil, domain.WrapStore("get", err)
	}
	return &p, nil
}

func (s *Store) put(tx *bolt.Tx, id string, p domain.Product) error {
	raw, err := json.Marshal(store.ToDocument(p))
	if err != nil {
		return err
	}
	return tx.Bucket(s.bucket).Put([]byte(id), raw)
}

func (s *Store) Insert(ctx context.Context, p domain.Product) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.WrapStore("insert", err)
	}
	id := s.ids.NextID()
	err := s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx, id, p)
	})
	if err != nil {
		return "", domain.WrapStore("insert", err)
	}
	return id, nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, p domain.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapStore("update", err)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket).Get([]byte(id)) == nil {
			return errMissing
		}
		return s.put(tx, id, p)
	})
	if errors.Is(err, errMissing) {
		return domain.NewNotFound(id)
	}
	return domain.WrapStore("update", err)
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapStore("delete", err)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(id))
	})
	return domain.WrapStore("delete", err)
}

func (s *Store) Close() error {
	return s.db.Close()
}
