package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyGameID indicates a missing game ID.
	ErrEmptyGameID = errors.New("game id is required")
	// ErrEmptyParticipantID indicates a missing participant ID.
	ErrEmptyParticipantID = errors.New("participant id is required")
	// ErrEmptyRiderID indicates a missing rider ID.
	ErrEmptyRiderID = errors.New("rider id is required")
)

// RiderOwnership records that a participant acquired a rider in a game.
// At most one record exists per (game, participant, rider).
type RiderOwnership struct {
	ID            string
	GameID        string
	ParticipantID string
	RiderID       string
	PricePaid     decimal.Decimal
	AcquiredAt    time.Time
	Points        int
	RacesScored   int
}

// NewRiderOwnershipInput describes the data needed to create an ownership record.
type NewRiderOwnershipInput struct {
	GameID        string
	ParticipantID string
	RiderID       string
	PricePaid     decimal.Decimal
	AcquiredAt    time.Time
}

// NewRiderOwnership creates an ownership record with a generated ID and
// zeroed performance counters.
func NewRiderOwnership(input NewRiderOwnershipInput, idGenerator func() (string, error)) (RiderOwnership, error) {
	if strings.TrimSpace(input.GameID) == "" {
		return RiderOwnership{}, ErrEmptyGameID
	}
	if strings.TrimSpace(input.ParticipantID) == "" {
		return RiderOwnership{}, ErrEmptyParticipantID
	}
	if strings.TrimSpace(input.RiderID) == "" {
		return RiderOwnership{}, ErrEmptyRiderID
	}
	if idGenerator == nil {
		return RiderOwnership{}, errors.New("id generator is required")
	}
	id, err := idGenerator()
	if err != nil {
		return RiderOwnership{}, err
	}
	return RiderOwnership{
		ID:            id,
		GameID:        input.GameID,
		ParticipantID: input.ParticipantID,
		RiderID:       input.RiderID,
		PricePaid:     input.PricePaid,
		AcquiredAt:    input.AcquiredAt.UTC(),
	}, nil
}
