// Package seed loads a JSON fixture of games, participants, and bids into a
// store for local finalization runs.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	"github.com/louisbranch/gruppetto/internal/auction/storage"
)

// Fixture is the on-disk seed format.
type Fixture struct {
	Game         gameFixture          `json:"game"`
	Participants []participantFixture `json:"participants"`
	Bids         []bidFixture         `json:"bids"`
}

type gameFixture struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Format    string          `json:"format"`
	MaxRiders int             `json:"max_riders"`
	MaxBudget string          `json:"max_budget"`
	Periods   []periodFixture `json:"periods"`
}

type periodFixture struct {
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type participantFixture struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

type bidFixture struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	RiderID       string    `json:"rider_id"`
	Amount        string    `json:"amount"`
	PlacedAt      time.Time `json:"placed_at"`
}

// Store is the subset of persistence the seeder writes to.
type Store interface {
	storage.GameStore
	storage.BidStore
	storage.ParticipantStore
}

// Load reads and validates a fixture file.
func Load(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fixture Fixture
	if err := json.Unmarshal(raw, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if strings.TrimSpace(fixture.Game.ID) == "" {
		return Fixture{}, fmt.Errorf("fixture game id is required")
	}
	if _, ok := domain.NormalizeGameFormat(fixture.Game.Format); !ok {
		return Fixture{}, fmt.Errorf("fixture game format %q is not supported", fixture.Game.Format)
	}
	return fixture, nil
}

// Apply writes the fixture's records into the store.
func (f Fixture) Apply(ctx context.Context, store Store) error {
	game, err := f.game()
	if err != nil {
		return err
	}
	if err := store.PutGame(ctx, game); err != nil {
		return fmt.Errorf("seed game %s: %w", game.ID, err)
	}

	for _, participant := range f.Participants {
		if err := store.PutParticipant(ctx, domain.Participant{
			ID:          participant.ID,
			GameID:      game.ID,
			UserID:      participant.UserID,
			SpentBudget: decimal.Zero,
		}); err != nil {
			return fmt.Errorf("seed participant %s: %w", participant.ID, err)
		}
	}

	for _, bid := range f.Bids {
		amount, err := parseAmount(bid.Amount)
		if err != nil {
			return fmt.Errorf("seed bid %s: %w", bid.ID, err)
		}
		if err := store.PutBid(ctx, domain.Bid{
			ID:            bid.ID,
			GameID:        game.ID,
			ParticipantID: bid.ParticipantID,
			RiderID:       bid.RiderID,
			Amount:        amount,
			PlacedAt:      bid.PlacedAt,
			Status:        domain.BidStatusActive,
		}); err != nil {
			return fmt.Errorf("seed bid %s: %w", bid.ID, err)
		}
	}
	return nil
}

func (f Fixture) game() (domain.Game, error) {
	format, _ := domain.NormalizeGameFormat(f.Game.Format)
	budget, err := parseAmount(f.Game.MaxBudget)
	if err != nil {
		return domain.Game{}, fmt.Errorf("seed game %s: %w", f.Game.ID, err)
	}

	periods := make([]domain.Period, 0, len(f.Game.Periods))
	for _, period := range f.Game.Periods {
		periods = append(periods, domain.Period{
			Name:     period.Name,
			StartsAt: period.StartsAt,
			EndsAt:   period.EndsAt,
			Status:   domain.PeriodStatusPending,
		})
	}

	return domain.Game{
		ID:        f.Game.ID,
		Name:      f.Game.Name,
		Format:    format,
		MaxRiders: f.Game.MaxRiders,
		MaxBudget: budget,
		Periods:   periods,
		Status:    domain.GameStatusActive,
	}, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, nil
}
