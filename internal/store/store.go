// Package store is the GORM-backed persistence layer for categories,
// contacts and user accounts.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("store: record not found")
	ErrCategoryInUse = errors.New("store: category is referenced by contacts")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	if db == nil {
		panic("database connection cannot be nil for Store")
	}
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
