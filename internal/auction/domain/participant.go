package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RosterSlot is one rider on a participant's team snapshot.
type RosterSlot struct {
	RiderID    string
	PricePaid  decimal.Decimal
	AcquiredAt time.Time
}

// Participant is one entrant's stateful position within a game.
//
// SpentBudget, RosterSize, RosterComplete, and Roster are derived fields. The
// finalizer rewrites them wholesale from won bids and ownership records; no
// code may trust or incrementally mutate them.
type Participant struct {
	ID             string
	GameID         string
	UserID         string
	SpentBudget    decimal.Decimal
	RosterSize     int
	RosterComplete bool
	Roster         []RosterSlot
}
