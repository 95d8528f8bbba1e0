// Package storage defines the persistence interfaces for the finalization
// engine.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// GameStore persists game records, including the period schedule.
type GameStore interface {
	PutGame(ctx context.Context, game domain.Game) error
	GetGame(ctx context.Context, id string) (domain.Game, error)
}

// BidStore persists bid records.
type BidStore interface {
	PutBid(ctx context.Context, bid domain.Bid) error
	ListBidsByGame(ctx context.Context, gameID string) ([]domain.Bid, error)
}

// ParticipantStore persists participant records.
type ParticipantStore interface {
	PutParticipant(ctx context.Context, participant domain.Participant) error
	GetParticipant(ctx context.Context, id string) (domain.Participant, error)
}

// OwnershipStore persists rider ownership records.
type OwnershipStore interface {
	ListOwnershipsByParticipant(ctx context.Context, gameID, participantID string) ([]domain.RiderOwnership, error)
}

// BidStatusUpdate settles one bid.
type BidStatusUpdate struct {
	BidID  string
	Status domain.BidStatus
}

// Settlement is one participant's finalization write: settled bid statuses,
// the rewritten participant record, and new ownership records. Stores apply
// it atomically where they can.
type Settlement struct {
	GameID        string
	ParticipantID string
	BidStatuses   []BidStatusUpdate
	// Participant is the fully reconciled record to write, or nil when the
	// participant had no wins this run.
	Participant *domain.Participant
	Ownerships  []domain.RiderOwnership
}

// SettlementStore applies per-participant finalization writes.
type SettlementStore interface {
	SettleParticipant(ctx context.Context, settlement Settlement) error
}

// AuditEntry is one durable audit-log record describing a finalization run
// or a participant's rejected bids.
type AuditEntry struct {
	ID            string
	GameID        string
	Kind          string
	ParticipantID string
	Summary       string
	CreatedAt     time.Time
}

// Audit entry kinds.
const (
	AuditKindRun        = "run"
	AuditKindRejections = "rejections"
)

// AuditStore persists finalization audit entries.
type AuditStore interface {
	AppendAuditEntry(ctx context.Context, entry AuditEntry) error
	ListAuditEntries(ctx context.Context, gameID string, limit int) ([]AuditEntry, error)
}
