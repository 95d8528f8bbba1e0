// Package finalizer parses finalizer command flags and runs one finalization pass.
package finalizer

import (
	"context"
	"flag"

	auctionapp "github.com/louisbranch/gruppetto/internal/auction/app"
	entrypoint "github.com/louisbranch/gruppetto/internal/platform/cmd"
)

// Config holds finalizer command configuration.
type Config struct {
	DBPath      string `env:"GRUPPETTO_FINALIZER_DB_PATH" envDefault:"data/auction.db"`
	GameID      string `env:"GRUPPETTO_FINALIZER_GAME_ID"`
	Period      string `env:"GRUPPETTO_FINALIZER_PERIOD"`
	ResumeAfter string `env:"GRUPPETTO_FINALIZER_RESUME_AFTER"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The auction SQLite database path")
	fs.StringVar(&cfg.GameID, "game", cfg.GameID, "The game to finalize")
	fs.StringVar(&cfg.Period, "period", cfg.Period, "The period to finalize; empty settles every open bid")
	fs.StringVar(&cfg.ResumeAfter, "resume-after", cfg.ResumeAfter, "Continue an interrupted run past this participant ID")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes one finalization pass.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceFinalizer, func(ctx context.Context) error {
		return auctionapp.Run(ctx, auctionapp.RuntimeConfig{
			DBPath:      cfg.DBPath,
			GameID:      cfg.GameID,
			Period:      cfg.Period,
			ResumeAfter: cfg.ResumeAfter,
		})
	})
}
