package database

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// exerciseKVStore runs the same contract checks against any backend
func exerciseKVStore(t *testing.T, store KVStore) {
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want absent", ok, err)
	}

	if err := store.Set(ctx, "cards", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, ok, err := store.Get(ctx, "cards")
	if err != nil || !ok {
		t.Fatalf("Get(cards) = ok %v, err %v", ok, err)
	}
	if string(got) != `[{"id":1}]` {
		t.Errorf("Get(cards) = %s", got)
	}

	// Overwrite is last-writer-wins
	if err := store.Set(ctx, "cards", []byte(`[{"id":2}]`)); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	got, _, _ = store.Get(ctx, "cards")
	if string(got) != `[{"id":2}]` {
		t.Errorf("after overwrite Get(cards) = %s", got)
	}

	if err := store.Delete(ctx, "cards"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "cards"); ok {
		t.Error("key should be absent after Delete")
	}
	if err := store.Delete(ctx, "cards"); err != nil {
		t.Errorf("Delete() of absent key should succeed, got %v", err)
	}
}

func TestGormKV(t *testing.T) {
	exerciseKVStore(t, NewGormKV(openTestDB(t)))
}

func TestMemoryKV(t *testing.T) {
	exerciseKVStore(t, NewMemoryKV())
}

func TestMemoryKVCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKV()

	value := []byte(`[1]`)
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[1] = '9'

	got, _, _ := store.Get(ctx, "k")
	if string(got) != `[1]` {
		t.Errorf("stored value changed through caller slice: %s", got)
	}
}

func TestMemoryKVCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewMemoryKV().Set(ctx, "k", []byte(`[]`)); err == nil {
		t.Error("Set() with cancelled context should fail")
	}
}
