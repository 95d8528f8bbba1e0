package finalize

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
)

// ReconcileTeam rebuilds a participant's derived state from authoritative
// records: the roster comes from active ownership records plus this run's
// wins, and the spend is re-derived from every won bid the participant holds.
// Cached roster arrays and incremental spend updates are never trusted, which
// keeps reconciliation idempotent across repeated passes.
func ReconcileTeam(
	game domain.Game,
	participant domain.Participant,
	ownerships []domain.RiderOwnership,
	allWonBids []domain.Bid,
	newWins []domain.Bid,
	now time.Time,
) domain.Participant {
	roster := make([]domain.RosterSlot, 0, len(ownerships)+len(newWins))
	onTeam := make(map[string]bool, len(ownerships))
	for _, ownership := range ownerships {
		roster = append(roster, domain.RosterSlot{
			RiderID:    ownership.RiderID,
			PricePaid:  ownership.PricePaid,
			AcquiredAt: ownership.AcquiredAt,
		})
		onTeam[ownership.RiderID] = true
	}
	for _, win := range newWins {
		if onTeam[win.RiderID] {
			continue
		}
		roster = append(roster, domain.RosterSlot{
			RiderID:    win.RiderID,
			PricePaid:  win.Amount,
			AcquiredAt: now.UTC(),
		})
		onTeam[win.RiderID] = true
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].RiderID < roster[j].RiderID })

	spent := decimal.Zero
	for _, bid := range allWonBids {
		if bid.ParticipantID == participant.ID && bid.Status == domain.BidStatusWon {
			spent = spent.Add(bid.Amount)
		}
	}

	participant.Roster = roster
	participant.RosterSize = len(roster)
	participant.SpentBudget = spent
	participant.RosterComplete = game.MaxRiders > 0 && len(roster) >= game.MaxRiders
	return participant
}

// PlanOwnerships creates ownership records for this run's wins, skipping any
// (game, participant, rider) triple that already has one. Creation is
// therefore safe to repeat.
func PlanOwnerships(
	game domain.Game,
	participantID string,
	newWins []domain.Bid,
	existing []domain.RiderOwnership,
	now time.Time,
	idGenerator func() (string, error),
) ([]domain.RiderOwnership, error) {
	held := make(map[string]bool, len(existing))
	for _, ownership := range existing {
		held[ownership.RiderID] = true
	}

	planned := make([]domain.RiderOwnership, 0, len(newWins))
	for _, win := range newWins {
		if held[win.RiderID] {
			continue
		}
		ownership, err := domain.NewRiderOwnership(domain.NewRiderOwnershipInput{
			GameID:        game.ID,
			ParticipantID: participantID,
			RiderID:       win.RiderID,
			PricePaid:     win.Amount,
			AcquiredAt:    now,
		}, idGenerator)
		if err != nil {
			return nil, err
		}
		planned = append(planned, ownership)
		held[win.RiderID] = true
	}
	return planned, nil
}
