// Package seed parses seed command flags and loads a fixture into the store.
package seed

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	auctionseed "github.com/louisbranch/gruppetto/internal/auction/seed"
	"github.com/louisbranch/gruppetto/internal/auction/storage/sqlite"
	entrypoint "github.com/louisbranch/gruppetto/internal/platform/cmd"
)

// Config holds seed command configuration.
type Config struct {
	DBPath  string `env:"GRUPPETTO_SEED_DB_PATH" envDefault:"data/auction.db"`
	Fixture string `env:"GRUPPETTO_SEED_FIXTURE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The auction SQLite database path")
	fs.StringVar(&cfg.Fixture, "fixture", cfg.Fixture, "The JSON fixture file to load")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the fixture into the store.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		if strings.TrimSpace(cfg.Fixture) == "" {
			return fmt.Errorf("fixture path is required")
		}

		fixture, err := auctionseed.Load(cfg.Fixture)
		if err != nil {
			return err
		}

		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create auction storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open auction sqlite store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close auction sqlite store: %v", closeErr)
			}
		}()

		if err := fixture.Apply(ctx, store); err != nil {
			return err
		}
		log.Printf("seeded game %s with %d participants and %d bids",
			fixture.Game.ID, len(fixture.Participants), len(fixture.Bids))
		return nil
	})
}
