package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	"github.com/louisbranch/gruppetto/internal/auction/storage"
	"github.com/louisbranch/gruppetto/internal/auction/storage/sqlite/migrations"
	"github.com/louisbranch/gruppetto/internal/platform/storage/sqlitemigrate"
)

// Store implements finalization persistence over SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens an auction SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func parseAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, nil
}

// periodRecord is the JSON shape of one period inside the games table.
type periodRecord struct {
	Name     string `json:"name"`
	StartsAt int64  `json:"starts_at"`
	EndsAt   int64  `json:"ends_at"`
	Status   string `json:"status"`
}

func encodePeriods(periods []domain.Period) (string, error) {
	records := make([]periodRecord, 0, len(periods))
	for _, period := range periods {
		records = append(records, periodRecord{
			Name:     period.Name,
			StartsAt: toMillis(period.StartsAt),
			EndsAt:   toMillis(period.EndsAt),
			Status:   string(period.Status),
		})
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode periods: %w", err)
	}
	return string(encoded), nil
}

func decodePeriods(encoded string) ([]domain.Period, error) {
	var records []periodRecord
	if err := json.Unmarshal([]byte(encoded), &records); err != nil {
		return nil, fmt.Errorf("decode periods: %w", err)
	}
	periods := make([]domain.Period, 0, len(records))
	for _, record := range records {
		periods = append(periods, domain.Period{
			Name:     record.Name,
			StartsAt: fromMillis(record.StartsAt),
			EndsAt:   fromMillis(record.EndsAt),
			Status:   domain.PeriodStatus(record.Status),
		})
	}
	return periods, nil
}

// PutGame writes a full game record, replacing any existing row.
func (s *Store) PutGame(ctx context.Context, game domain.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(game.ID) == "" {
		return fmt.Errorf("game id is required")
	}

	periods, err := encodePeriods(game.Periods)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO games (id, name, format, max_riders, max_budget, periods, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	format = excluded.format,
	max_riders = excluded.max_riders,
	max_budget = excluded.max_budget,
	periods = excluded.periods,
	status = excluded.status
`,
		game.ID,
		game.Name,
		string(game.Format),
		game.MaxRiders,
		game.MaxBudget.String(),
		periods,
		string(game.Status),
	)
	if err != nil {
		return fmt.Errorf("put game: %w", err)
	}
	return nil
}

// GetGame loads one game record.
func (s *Store) GetGame(ctx context.Context, id string) (domain.Game, error) {
	if err := ctx.Err(); err != nil {
		return domain.Game{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Game{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, format, max_riders, max_budget, periods, status
FROM games
WHERE id = ?
`, id)

	var game domain.Game
	var format, maxBudget, periods, status string
	err := row.Scan(&game.ID, &game.Name, &format, &game.MaxRiders, &maxBudget, &periods, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Game{}, storage.ErrNotFound
		}
		return domain.Game{}, fmt.Errorf("get game: %w", err)
	}

	game.Format = domain.GameFormat(format)
	game.Status = domain.GameStatus(status)
	if game.MaxBudget, err = parseAmount(maxBudget); err != nil {
		return domain.Game{}, err
	}
	if game.Periods, err = decodePeriods(periods); err != nil {
		return domain.Game{}, err
	}
	return game, nil
}

var (
	_ storage.GameStore        = (*Store)(nil)
	_ storage.BidStore         = (*Store)(nil)
	_ storage.ParticipantStore = (*Store)(nil)
	_ storage.OwnershipStore   = (*Store)(nil)
	_ storage.SettlementStore  = (*Store)(nil)
	_ storage.AuditStore       = (*Store)(nil)
)
