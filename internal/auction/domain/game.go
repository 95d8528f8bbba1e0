package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// GameFormat describes how bids on a game are resolved.
type GameFormat string

const (
	// FormatUnspecified represents an invalid game format value.
	FormatUnspecified GameFormat = ""
	// FormatAuction resolves each rider to a single highest bidder.
	FormatAuction GameFormat = "auction"
	// FormatSelection lets several participants win the same rider, subject
	// to roster and budget limits.
	FormatSelection GameFormat = "selection"
)

// GameStatus describes the game lifecycle label.
type GameStatus string

const (
	GameStatusPending   GameStatus = "pending"
	GameStatusActive    GameStatus = "active"
	GameStatusFinalized GameStatus = "finalized"
)

var (
	// ErrInvalidGameFormat indicates a missing or unsupported game format.
	ErrInvalidGameFormat = errors.New("game format is not supported")
	// ErrUnknownPeriod indicates a period name not present in the game schedule.
	ErrUnknownPeriod = errors.New("period is not configured for this game")
)

// Game is one auction game with its period schedule and limits.
type Game struct {
	ID        string
	Name      string
	Format    GameFormat
	MaxRiders int
	// MaxBudget caps the total a participant may spend on won bids. A zero
	// value means the game is uncapped; only selection games use the cap.
	MaxBudget decimal.Decimal
	Periods   []Period
	Status    GameStatus
}

// Valid reports whether the format is one the engine can resolve.
func (f GameFormat) Valid() bool {
	return f == FormatAuction || f == FormatSelection
}

// NormalizeGameFormat canonicalizes format labels.
func NormalizeGameFormat(value string) (GameFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "auction":
		return FormatAuction, true
	case "selection":
		return FormatSelection, true
	default:
		return FormatUnspecified, false
	}
}

// BudgetCapped reports whether the game enforces a spend cap.
func (g Game) BudgetCapped() bool {
	return g.Format == FormatSelection && g.MaxBudget.IsPositive()
}

// FindPeriod returns the named period from the schedule.
func (g Game) FindPeriod(name string) (Period, error) {
	for _, period := range g.Periods {
		if period.Name == name {
			return period, nil
		}
	}
	return Period{}, ErrUnknownPeriod
}

// AllPeriodsFinalized reports whether every configured period is finalized.
// A game with no configured periods counts as fully finalized.
func (g Game) AllPeriodsFinalized() bool {
	for _, period := range g.Periods {
		if period.Status != PeriodStatusFinalized {
			return false
		}
	}
	return true
}
