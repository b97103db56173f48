package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/codyseavey/chocobo-tracker/internal/database"
	"github.com/codyseavey/chocobo-tracker/internal/models"
)

var errBackend = errors.New("backend unavailable")

// flakyKV wraps a KVStore and fails selected operations on demand
type flakyKV struct {
	database.KVStore

	mu      sync.Mutex
	failGet bool
	failSet bool
	sets    int
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, false, errBackend
	}
	return f.KVStore.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSet
	f.sets++
	f.mu.Unlock()
	if fail {
		return errBackend
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *flakyKV) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

func newTestStore(t *testing.T) (*CollectionStore, *flakyKV) {
	t.Helper()
	kv := &flakyKV{KVStore: database.NewMemoryKV()}
	return NewCollectionStore(kv, DefaultPrimaryKey, DefaultLegacyKey), kv
}

func newTestCardService(t *testing.T) (*CardService, *CollectionStore, *flakyKV) {
	t.Helper()
	store, kv := newTestStore(t)
	return NewCardService(store), store, kv
}

func mustCollection(t *testing.T, store *CollectionStore) []models.Card {
	t.Helper()
	cards, err := store.GetCollection(context.Background())
	if err != nil {
		t.Fatalf("GetCollection failed: %v", err)
	}
	return cards
}
