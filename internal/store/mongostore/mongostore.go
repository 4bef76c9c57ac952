// Package mongostore keeps products in a remote MongoDB collection.
package mongostore

import (
	"context"
	"time"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store"
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	ids    store.IDGenerator
}

var _ store.ProductStore = (*Store)(nil)

// Connect dials uri and binds the named database collection.
func Connect(ctx context.Context, uri, database, collection string, ids store.IDGenerator) (*Store, error) {
	if ids == nil {
		ids = store.DefaultIDs()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, domain.WrapStore("connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, domain.WrapStore("connect", err)
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
		ids:    ids,
	}, nil
}

// idFilter also matches records created with native ObjectIDs.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

func docID(raw interface{}) string {
	if oid, ok := raw.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return cast.ToString(raw)
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Product, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.WrapStore("list", err)
	}
	defer cur.Close(ctx)

	items := make([]domain.Product, 0)
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.WrapStore("list", err)
		}
		p, err := store.FromDocument(docID(doc["_id"]), doc)
		if err != nil {
			return nil, domain.WrapStore("list", err)
		}
		items = append(items, p)
	}
	if err := cur.Err(); err != nil {
		return nil, domain.WrapStore("list", err)
	}
	return items, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc bson.M
	err := s.coll.FindOne(ctx, idFilter(id)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.NewNotFound(id)
	} else if err != nil {
		return nil, domain.WrapStore("get", err)
	}
	p, err := store.FromDocument(id, doc)
	if err != nil {
		return nil, domain.WrapStore("get", err)
	}
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p domain.Product) (string, error) {
	id := s.ids.NextID()
	doc := bson.M(store.ToDocument(p))
	doc["_id"] = id
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", domain.WrapStore("insert", err)
	}
	return id, nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, p domain.Product) error {
	res, err := s.coll.ReplaceOne(ctx, idFilter(id), bson.M(store.ToDocument(p)))
	if err != nil {
		return domain.WrapStore("update", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound(id)
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, idFilter(id))
	return domain.WrapStore("delete", err)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	zap.L().Info("closing mongo product store", zap.String("namespace", "store"))
	return s.client.Disconnect(ctx)
}
