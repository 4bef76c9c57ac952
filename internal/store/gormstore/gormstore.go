// Package gormstore keeps products in a relational table through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store"
)

type Store struct {
	db  *gorm.DB
	ids store.IDGenerator
}

var _ store.ProductStore = (*Store)(nil)

func New(db *gorm.DB, ids store.IDGenerator) *Store {
	if ids == nil {
		ids = store.DefaultIDs()
	}
	return &Store{db: db, ids: ids}
}

// OpenDB connects the configured sql database: postgres, or sqlite under the
// workdir data directory.
func OpenDB(cfg config.DBConfig, workdir string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
		dialector = postgres.Open(dsn)
	case "sqlite":
		name := cfg.Name
		if name == "" {
			name = "bodega"
		}
		dialector = sqlite.Open(path.Join(workdir, "data", name+".db"))
	default:
		return nil, fmt.Errorf("unsupported sql database type %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Migrate creates the product table when missing
func (s *Store) Migrate() error {
	return s.db.Migrator().AutoMigrate(domain.Tables...)
}

// Reset drops and recreates the product table
func (s *Store) Reset() error {
	_ = s.db.Migrator().DropTable(domain.Tables...)
	return s.Migrate()
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, domain.WrapStore("list", err)
	}
	return rows, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFound(id)
	} else if err != nil {
		return nil, domain.WrapStore("get", err)
	}
	return &p, nil
}

func (s *Store) Insert(ctx context.Context, p domain.Product) (string, error) {
	p.ID = s.ids.NextID()
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return "", domain.WrapStore("insert", err)
	}
	return p.ID, nil
}

func (s *Store) UpdateByID(ctx context.Context, id string, p domain.Product) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.Product
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			return err
		}
		p.ID = id
		return tx.Save(&p).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFound(id)
	}
	return domain.WrapStore("update", err)
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
	return domain.WrapStore("delete", err)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	zap.L().Info("closing sql product store", zap.String("namespace", "store"))
	return sqlDB.Close()
}
