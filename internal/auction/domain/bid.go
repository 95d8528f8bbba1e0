package domain

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/louisbranch/gruppetto/internal/errors"
)

// BidStatus describes where a bid sits in its lifecycle.
type BidStatus string

const (
	// BidStatusActive is a live bid awaiting finalization.
	BidStatusActive BidStatus = "active"
	// BidStatusOutbid marks a bid beaten before finalization; it still
	// participates in settlement.
	BidStatusOutbid BidStatus = "outbid"
	// BidStatusWon is a settled winning bid.
	BidStatusWon BidStatus = "won"
	// BidStatusLost is a settled losing bid.
	BidStatusLost BidStatus = "lost"
	// BidStatusCancelledDuplicate marks a bid on a rider the participant
	// already owns.
	BidStatusCancelledDuplicate BidStatus = "cancelled_duplicate"
	// BidStatusCancelledTeamFull marks a bid rejected because the roster was
	// at capacity.
	BidStatusCancelledTeamFull BidStatus = "cancelled_team_full"
	// BidStatusCancelledOverBudget marks a bid rejected because it would
	// exceed the budget cap.
	BidStatusCancelledOverBudget BidStatus = "cancelled_over_budget"
)

// Bid is a participant's timestamped claim of an amount on a rider.
type Bid struct {
	ID            string
	GameID        string
	ParticipantID string
	RiderID       string
	Amount        decimal.Decimal
	PlacedAt      time.Time
	Status        BidStatus
}

// Open reports whether the bid still awaits settlement.
func (s BidStatus) Open() bool {
	return s == BidStatusActive || s == BidStatusOutbid
}

// Settled reports whether the bid reached a terminal status.
func (s BidStatus) Settled() bool {
	switch s {
	case BidStatusWon, BidStatusLost,
		BidStatusCancelledDuplicate, BidStatusCancelledTeamFull, BidStatusCancelledOverBudget:
		return true
	}
	return false
}

// Cancelled reports whether the bid was rejected by a roster or budget check.
func (s BidStatus) Cancelled() bool {
	switch s {
	case BidStatusCancelledDuplicate, BidStatusCancelledTeamFull, BidStatusCancelledOverBudget:
		return true
	}
	return false
}

// TransitionBidStatus validates a status change. Only open bids may move,
// only to a settled status, and settled bids are immutable.
func TransitionBidStatus(from, to BidStatus) error {
	if from.Open() && to.Settled() {
		return nil
	}
	return apperrors.Newf(apperrors.CodeBidInvalidStatusTransition,
		"bid status cannot move from %q to %q", from, to)
}
