package database

import (
	"encoding/json"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := cleanupEmptyEntries(db); err != nil {
		return err
	}
	if err := unwrapStringEncodedValues(db); err != nil {
		return err
	}
	return nil
}

// cleanupEmptyEntries removes keys that hold no document at all so readers
// see them as absent rather than as malformed values
func cleanupEmptyEntries(db *gorm.DB) error {
	result := db.Exec(`DELETE FROM kv_entries WHERE value IS NULL OR TRIM(value) = '' OR TRIM(value) = 'null'`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d empty kv_entries", result.RowsAffected)
	}
	return nil
}

// unwrapStringEncodedValues rewrites values stored as a JSON string that
// itself contains a JSON document (`"[{...}]"`) into the native form.
// Safe to run multiple times: already-native values are left untouched.
func unwrapStringEncodedValues(db *gorm.DB) error {
	var entries []models.KVEntry
	if err := db.Where("value LIKE ?", `"%`).Find(&entries).Error; err != nil {
		return err
	}

	migrated := 0
	for _, entry := range entries {
		unwrapped, ok := UnwrapEncodedJSON([]byte(entry.Value))
		if !ok {
			continue
		}
		result := db.Model(&models.KVEntry{}).
			Where(&models.KVEntry{Key: entry.Key}).
			Update("value", string(unwrapped))
		if result.Error != nil {
			log.Printf("Warning: failed to unwrap value for key %s: %v", entry.Key, result.Error)
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("Migrated %d string-encoded kv_entries to native JSON", migrated)
	}
	return nil
}

// UnwrapEncodedJSON returns the inner document when raw is a JSON string whose
// contents are themselves valid JSON
func UnwrapEncodedJSON(raw []byte) ([]byte, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, `"`) {
		return nil, false
	}
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
		return nil, false
	}
	if !json.Valid([]byte(inner)) {
		return nil, false
	}
	return []byte(inner), true
}
