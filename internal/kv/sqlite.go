package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// document is the gorm model for one stored key.
// The table layout matches the Postgres kv_documents migration.
type document struct {
	DocKey    string    `gorm:"column:doc_key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	Version   int64     `gorm:"column:version;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (document) TableName() string { return "kv_documents" }

// SQLite stores documents in an embedded database file.
// SQLite allows one writer at a time, so Update additionally holds a
// process mutex to keep gorm transactions from failing with SQLITE_BUSY.
type SQLite struct {
	db *gorm.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the database at path and ensures the
// kv_documents table exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("kv.OpenSQLite: open %s: %w", path, err)
	}
	return NewSQLite(db)
}

// NewSQLite wraps an existing gorm connection and migrates the table.
func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("kv.NewSQLite: migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get reads the document under key.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.db.WithContext(ctx).Where("doc_key = ?", key).Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("kv.SQLite.Get: %w", err)
	}
	if len(doc.Value) == 0 {
		return nil, ErrKeyNotFound
	}
	return doc.Value, nil
}

// Update reads and rewrites the key inside one transaction.
func (s *SQLite) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc document
		err := tx.Where("doc_key = ?", key).Take(&doc).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var cur []byte
		if len(doc.Value) > 0 {
			cur = doc.Value
		}
		next, err := fn(cur)
		if err != nil {
			fnErr = err
			return err
		}

		if len(next) == 0 {
			return tx.Where("doc_key = ?", key).Delete(&document{}).Error
		}

		row := document{
			DocKey:    key,
			Value:     next,
			Version:   doc.Version + 1,
			UpdatedAt: time.Now().UTC(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			UpdateAll: true,
		}).Create(&row).Error
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("kv.SQLite.Update: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&document{}).Error; err != nil {
		return fmt.Errorf("kv.SQLite.Delete: %w", err)
	}
	return nil
}
