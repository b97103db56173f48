package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/codyseavey/chocobo-tracker/internal/database"
	"github.com/codyseavey/chocobo-tracker/internal/metrics"
	"github.com/codyseavey/chocobo-tracker/internal/models"
)

const (
	DefaultPrimaryKey = "chocobo_cards"
	DefaultLegacyKey  = "chocobo-cards"
)

// CollectionStore reads and writes the whole card collection as one JSON
// document in a key-value store. There is no per-card granularity: every
// save overwrites the full document and the last writer wins.
type CollectionStore struct {
	kv         database.KVStore
	primaryKey string
	legacyKey  string
}

// MigrationReport describes what a legacy-key migration did or would do
type MigrationReport struct {
	LegacyCards   int  `json:"legacy_cards"`
	PrimaryExists bool `json:"primary_exists"`
	Migrated      bool `json:"migrated"`
	DryRun        bool `json:"dry_run"`
}

// NewCollectionStore creates a store using the given keys; empty keys fall
// back to the defaults
func NewCollectionStore(kv database.KVStore, primaryKey, legacyKey string) *CollectionStore {
	if primaryKey == "" {
		primaryKey = DefaultPrimaryKey
	}
	if legacyKey == "" {
		legacyKey = DefaultLegacyKey
	}
	return &CollectionStore{
		kv:         kv,
		primaryKey: primaryKey,
		legacyKey:  legacyKey,
	}
}

// GetCollection returns the normalized collection, migrating the legacy key
// or seeding the 77 cards on first use. Callers must not assume id order.
func (s *CollectionStore) GetCollection(ctx context.Context) ([]models.Card, error) {
	cards, ok, err := s.load(ctx, s.primaryKey)
	if err != nil {
		return nil, err
	}
	if ok {
		normalizeAll(cards)
		return cards, nil
	}

	legacy, ok, err := s.load(ctx, s.legacyKey)
	if err != nil {
		return nil, err
	}
	if ok {
		normalizeAll(legacy)
		if err := s.promoteLegacy(ctx, legacy); err != nil {
			return nil, err
		}
		return legacy, nil
	}

	seed := models.SeedCollection()
	if err := s.SaveCollection(ctx, seed); err != nil {
		return nil, err
	}
	metrics.CollectionMigrationsTotal.WithLabelValues("seed").Inc()
	log.Printf("Collection store: initialised %d seed cards under %q", len(seed), s.primaryKey)
	return seed, nil
}

// SaveCollection overwrites the primary key with cards
func (s *CollectionStore) SaveCollection(ctx context.Context, cards []models.Card) error {
	data, err := json.Marshal(cards)
	if err != nil {
		return &StoreError{Op: "encode", Err: err}
	}

	start := time.Now()
	err = s.kv.Set(ctx, s.primaryKey, data)
	metrics.StoreOperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("set").Inc()
		return &StoreError{Op: "set", Err: err}
	}
	return nil
}

// MigrateLegacy moves the legacy key forward when the primary key is empty.
// It is idempotent: once the legacy key is gone there is nothing to do.
func (s *CollectionStore) MigrateLegacy(ctx context.Context, dryRun bool) (MigrationReport, error) {
	report := MigrationReport{DryRun: dryRun}

	_, primaryExists, err := s.load(ctx, s.primaryKey)
	if err != nil {
		return report, err
	}
	report.PrimaryExists = primaryExists

	legacy, ok, err := s.load(ctx, s.legacyKey)
	if err != nil {
		return report, err
	}
	if !ok {
		return report, nil
	}
	report.LegacyCards = len(legacy)

	if primaryExists || dryRun {
		return report, nil
	}

	normalizeAll(legacy)
	if err := s.promoteLegacy(ctx, legacy); err != nil {
		return report, err
	}
	report.Migrated = true
	return report, nil
}

// promoteLegacy writes legacy cards under the primary key, then drops the
// legacy key. A concurrent duplicate migration writes the same document.
func (s *CollectionStore) promoteLegacy(ctx context.Context, cards []models.Card) error {
	if err := s.SaveCollection(ctx, cards); err != nil {
		return err
	}

	start := time.Now()
	err := s.kv.Delete(ctx, s.legacyKey)
	metrics.StoreOperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete").Inc()
		return &StoreError{Op: "delete", Err: err}
	}

	metrics.CollectionMigrationsTotal.WithLabelValues("legacy").Inc()
	log.Printf("Collection store: migrated %d cards from %q to %q", len(cards), s.legacyKey, s.primaryKey)
	return nil
}

// load reads and decodes key. ok is false when the key is absent or holds
// an empty list.
func (s *CollectionStore) load(ctx context.Context, key string) ([]models.Card, bool, error) {
	start := time.Now()
	raw, ok, err := s.kv.Get(ctx, key)
	metrics.StoreOperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("get").Inc()
		return nil, false, &StoreError{Op: "get", Err: err}
	}
	if !ok {
		return nil, false, nil
	}

	cards, err := decodeCards(raw)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("decode").Inc()
		return nil, false, &StoreError{Op: "decode", Err: fmt.Errorf("key %q: %w", key, err)}
	}
	if len(cards) == 0 {
		return nil, false, nil
	}
	return cards, true, nil
}

// decodeCards accepts either a native JSON array or a JSON string that
// contains an encoded array
func decodeCards(raw []byte) ([]models.Card, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, err
		}
		return decodeCards([]byte(inner))
	}

	var cards []models.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func normalizeAll(cards []models.Card) {
	for i := range cards {
		cards[i].Normalize()
	}
}

// PeekCollection returns what GetCollection would return without writing:
// the primary document, else the legacy one, else the seed
func (s *CollectionStore) PeekCollection(ctx context.Context) ([]models.Card, error) {
	for _, key := range []string{s.primaryKey, s.legacyKey} {
		cards, ok, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			normalizeAll(cards)
			return cards, nil
		}
	}
	return models.SeedCollection(), nil
}

// ImportCollection replaces the stored collection with the cards encoded in
// raw, which may be a native array or a string-encoded one. The file must
// hold every card id from 1 to TotalCards exactly once. Cards are
// forward-filled before the write. With dryRun nothing is written.
func (s *CollectionStore) ImportCollection(ctx context.Context, raw []byte, dryRun bool) (int, error) {
	cards, err := decodeCards(raw)
	if err != nil {
		return 0, invalid("import file is not a card list: %v", err)
	}
	if len(cards) == 0 {
		return 0, invalid("import file contains no cards")
	}

	seen := make(map[int]bool, len(cards))
	for _, c := range cards {
		if c.ID < 1 || c.ID > models.TotalCards {
			return 0, invalid("card id %d is outside 1-%d", c.ID, models.TotalCards)
		}
		if seen[c.ID] {
			return 0, invalid("card %d appears more than once", c.ID)
		}
		seen[c.ID] = true
	}
	if len(cards) != models.TotalCards {
		return 0, invalid("import file has %d cards, want %d", len(cards), models.TotalCards)
	}

	normalizeAll(cards)
	if dryRun {
		return len(cards), nil
	}
	if err := s.SaveCollection(ctx, cards); err != nil {
		return 0, err
	}
	metrics.CollectionMigrationsTotal.WithLabelValues("import").Inc()
	log.Printf("Collection store: imported %d cards under %q", len(cards), s.primaryKey)
	return len(cards), nil
}
