// migrate-collection maintains the stored card collection outside the server.
//
// Usage: migrate-collection [--dry-run | --execute] [--import file.json] [--export file.json]
//
// The tool:
// 1. Moves a collection stored under the legacy key to the primary key
// 2. Optionally replaces the collection with cards from a JSON file
// 3. Optionally writes the current collection to a JSON file
//
// Store selection uses the same configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/codyseavey/chocobo-tracker/internal/config"
	"github.com/codyseavey/chocobo-tracker/internal/database"
	"github.com/codyseavey/chocobo-tracker/internal/services"
)

func main() {
	fs := pflag.NewFlagSet("migrate-collection", pflag.ExitOnError)
	config.RegisterFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Preview changes without modifying the store")
	execute := fs.Bool("execute", false, "Apply changes (required to modify the store)")
	importPath := fs.String("import", "", "Replace the collection with cards from this JSON file")
	exportPath := fs.String("export", "", "Write the current collection to this JSON file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate-collection [--dry-run | --execute] [--import file.json] [--export file.json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  # Preview the legacy-key migration")
		fmt.Fprintln(os.Stderr, "  migrate-collection --dry-run")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "  # Load the old file-backed data into the store")
		fmt.Fprintln(os.Stderr, "  migrate-collection --execute --import ./chocobo-data.json")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := checkModes(*dryRun, *execute, *importPath, *exportPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	if err := run(cfg, *dryRun || *execute, *dryRun, *importPath, *exportPath); err != nil {
		log.Fatalf("migrate-collection: %v", err)
	}
}

// checkModes rejects flag combinations that would do nothing or would
// modify the store without --execute
func checkModes(dryRun, execute bool, importPath, exportPath string) error {
	switch {
	case dryRun && execute:
		return errors.New("--dry-run and --execute are mutually exclusive")
	case importPath != "" && !dryRun && !execute:
		return errors.New("--import requires --dry-run or --execute")
	case !dryRun && !execute && exportPath == "":
		return errors.New("must specify either --dry-run or --execute")
	}
	return nil
}

// run performs the requested steps in order: legacy migration, import,
// export. Migration and import only run when --dry-run or --execute is set.
// Export never writes to the store.
func run(cfg *config.Config, migrateRequested, dryRun bool, importPath, exportPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	kv, closeStore, err := database.Open(ctx, cfg.Store, cfg.Log.SQLLevel)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	store := services.NewCollectionStore(kv, cfg.Store.PrimaryKey, cfg.Store.LegacyKey)

	if migrateRequested {
		if err := migrate(ctx, store, dryRun); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if importPath != "" {
			if err := importFile(ctx, store, importPath, dryRun); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
		}
	}

	if exportPath != "" {
		if err := exportFile(ctx, store, exportPath); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}
	return nil
}

func migrate(ctx context.Context, store *services.CollectionStore, dryRun bool) error {
	report, err := store.MigrateLegacy(ctx, dryRun)
	if err != nil {
		return err
	}

	switch {
	case report.LegacyCards == 0:
		fmt.Println("No legacy collection found, nothing to migrate")
	case report.PrimaryExists:
		fmt.Printf("Legacy key holds %d cards but the primary key already has data; leaving both untouched\n", report.LegacyCards)
	case report.DryRun:
		fmt.Printf("Would migrate %d cards from the legacy key (dry run)\n", report.LegacyCards)
	case report.Migrated:
		fmt.Printf("Migrated %d cards from the legacy key\n", report.LegacyCards)
	}
	return nil
}

func importFile(ctx context.Context, store *services.CollectionStore, path string, dryRun bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	n, err := store.ImportCollection(ctx, raw, dryRun)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("Would import %d cards from %s (dry run)\n", n, path)
	} else {
		fmt.Printf("Imported %d cards from %s\n", n, path)
	}
	return nil
}

func exportFile(ctx context.Context, store *services.CollectionStore, path string) error {
	// Read-only: an empty store is exported as the seed without being written
	cards, err := store.PeekCollection(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Exported %d cards to %s\n", len(cards), path)
	return nil
}
