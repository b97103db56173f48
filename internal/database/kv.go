package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

// KVStore is an opaque get/set blob store. Values are raw JSON documents.
type KVStore interface {
	// Get returns the value for key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value for key
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// GormKV stores keys in the kv_entries table
type GormKV struct {
	db *gorm.DB
}

// NewGormKV creates a store over an initialized gorm connection
func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{db: db}
}

func (s *GormKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where(&models.KVEntry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (s *GormKV) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}

	// Upsert: a single statement, so a failed write leaves the prior value intact
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormKV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&models.KVEntry{Key: key}).Error
}
