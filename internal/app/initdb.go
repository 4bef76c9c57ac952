package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/domain"
)

var errNotSQL = errors.New("schema management needs a sqlite or postgres database")

// MigrateDB creates the product table when the store is relational
func (a *Application) MigrateDB() error {
	if a.sqlStore == nil {
		return errNotSQL
	}
	if err := a.sqlStore.Migrate(); err != nil {
		zap.S().Error(err)
		return err
	}
	return nil
}

// InitDb drops and recreates the product table
func (a *Application) InitDb() error {
	if a.sqlStore == nil {
		return errNotSQL
	}
	return a.sqlStore.Reset()
}

// 1x1 transparent png
const demoImage = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// checkProducts seeds demo products into an empty store
func (a *Application) checkProducts() {
	ctx := context.Background()
	items, err := a.store.ListAll(ctx)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		return
	}
	if len(items) > 0 {
		return
	}

	defaultProducts := []domain.Product{
		{Name: "Silla", Description: "Silla de madera", Quantity: 12, Price: 49.99},
		{Name: "Lámpara", Description: "Lámpara de escritorio", Quantity: 5, Price: 19.5},
		{Name: "Mesa", Description: "Mesa de comedor", Quantity: 3, Price: 149},
	}
	for _, p := range defaultProducts {
		p.Image = demoImage
		if _, err := a.store.Insert(ctx, p); err != nil {
			zap.L().Error("failed to create demo product", zap.String("name", p.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized demo product", zap.String("name", p.Name))
		}
	}
}
