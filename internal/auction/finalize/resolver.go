package finalize

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	apperrors "github.com/louisbranch/gruppetto/internal/errors"
)

// RejectedBid is one bid turned away by a roster or budget check.
type RejectedBid struct {
	BidID   string
	RiderID string
	Amount  decimal.Decimal
	Reason  domain.BidStatus
}

// RejectionReport collects a participant's rejections for one run, with the
// team state that drove the decisions.
type RejectionReport struct {
	ParticipantID string
	TeamSize      int
	Spent         decimal.Decimal
	MaxRiders     int
	MaxBudget     decimal.Decimal
	Rejected      []RejectedBid
}

// Outcome is the resolver's verdict on every filtered bid. Each bid appears
// exactly once across Won, Lost, and Cancelled with its settled status set.
type Outcome struct {
	Won       []domain.Bid
	Lost      []domain.Bid
	Cancelled []domain.Bid

	// Rejections maps participant IDs to their rejection reports.
	// Populated for selection games only.
	Rejections map[string]RejectionReport
}

// Bids returns every settled bid in the outcome.
func (o Outcome) Bids() []domain.Bid {
	all := make([]domain.Bid, 0, len(o.Won)+len(o.Lost)+len(o.Cancelled))
	all = append(all, o.Won...)
	all = append(all, o.Lost...)
	all = append(all, o.Cancelled...)
	return all
}

// Resolve decides won/lost/cancelled for every filtered bid.
//
// existingWon carries the won bids already settled in earlier runs, freshly
// read from the store. Auction games treat their riders as allocated;
// selection games seed each participant's running spend and owned-rider set
// from them. Both are what keep repeated finalization passes idempotent.
func Resolve(game domain.Game, filtered []domain.Bid, existingWon []domain.Bid) (Outcome, error) {
	switch game.Format {
	case domain.FormatAuction:
		return resolveAuction(filtered, existingWon), nil
	case domain.FormatSelection:
		return resolveSelection(game, filtered, existingWon), nil
	default:
		return Outcome{}, apperrors.Newf(apperrors.CodeConfigUnsupportedFormat,
			"game %s has unsupported format %q", game.ID, game.Format)
	}
}

// resolveAuction gives each rider to the single highest bid. Ties break on
// earlier placement, then bid ID, so resolution is fully deterministic.
//
// Riders with an existing won bid are already allocated; every open bid on
// them loses. Without this, a run interrupted after settling the winner would
// hand the rider to the runner-up on resume.
func resolveAuction(filtered []domain.Bid, existingWon []domain.Bid) Outcome {
	allocated := make(map[string]bool, len(existingWon))
	for _, won := range existingWon {
		allocated[won.RiderID] = true
	}

	byRider := make(map[string][]domain.Bid)
	riderIDs := make([]string, 0)
	for _, bid := range filtered {
		if _, seen := byRider[bid.RiderID]; !seen {
			riderIDs = append(riderIDs, bid.RiderID)
		}
		byRider[bid.RiderID] = append(byRider[bid.RiderID], bid)
	}
	sort.Strings(riderIDs)

	outcome := Outcome{}
	for _, riderID := range riderIDs {
		group := byRider[riderID]
		if allocated[riderID] {
			for _, bid := range group {
				bid.Status = domain.BidStatusLost
				outcome.Lost = append(outcome.Lost, bid)
			}
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			if !group[i].Amount.Equal(group[j].Amount) {
				return group[i].Amount.GreaterThan(group[j].Amount)
			}
			if !group[i].PlacedAt.Equal(group[j].PlacedAt) {
				return group[i].PlacedAt.Before(group[j].PlacedAt)
			}
			return group[i].ID < group[j].ID
		})
		for i, bid := range group {
			if i == 0 {
				bid.Status = domain.BidStatusWon
				outcome.Won = append(outcome.Won, bid)
				continue
			}
			bid.Status = domain.BidStatusLost
			outcome.Lost = append(outcome.Lost, bid)
		}
	}
	return outcome
}

// resolveSelection settles each participant's bids oldest-first against their
// roster and budget limits. Checks run in a fixed order: duplicate rider,
// team full, over budget.
func resolveSelection(game domain.Game, filtered []domain.Bid, existingWon []domain.Bid) Outcome {
	byParticipant := make(map[string][]domain.Bid)
	participantIDs := make([]string, 0)
	for _, bid := range filtered {
		if _, seen := byParticipant[bid.ParticipantID]; !seen {
			participantIDs = append(participantIDs, bid.ParticipantID)
		}
		byParticipant[bid.ParticipantID] = append(byParticipant[bid.ParticipantID], bid)
	}
	sort.Strings(participantIDs)

	outcome := Outcome{Rejections: make(map[string]RejectionReport)}
	for _, participantID := range participantIDs {
		group := byParticipant[participantID]
		sort.Slice(group, func(i, j int) bool {
			if !group[i].PlacedAt.Equal(group[j].PlacedAt) {
				return group[i].PlacedAt.Before(group[j].PlacedAt)
			}
			return group[i].ID < group[j].ID
		})

		spent := decimal.Zero
		owned := make(map[string]bool)
		for _, won := range existingWon {
			if won.ParticipantID != participantID {
				continue
			}
			spent = spent.Add(won.Amount)
			owned[won.RiderID] = true
		}

		var rejected []RejectedBid
		for _, bid := range group {
			reason, ok := admitBid(game, bid, spent, owned)
			if !ok {
				bid.Status = reason
				outcome.Cancelled = append(outcome.Cancelled, bid)
				rejected = append(rejected, RejectedBid{
					BidID:   bid.ID,
					RiderID: bid.RiderID,
					Amount:  bid.Amount,
					Reason:  reason,
				})
				continue
			}
			bid.Status = domain.BidStatusWon
			outcome.Won = append(outcome.Won, bid)
			spent = spent.Add(bid.Amount)
			owned[bid.RiderID] = true
		}

		if len(rejected) > 0 {
			outcome.Rejections[participantID] = RejectionReport{
				ParticipantID: participantID,
				TeamSize:      len(owned),
				Spent:         spent,
				MaxRiders:     game.MaxRiders,
				MaxBudget:     game.MaxBudget,
				Rejected:      rejected,
			}
		}
	}
	return outcome
}

// admitBid applies the rejection checks in their fixed order and returns the
// cancellation status for a refused bid.
func admitBid(game domain.Game, bid domain.Bid, spent decimal.Decimal, owned map[string]bool) (domain.BidStatus, bool) {
	if owned[bid.RiderID] {
		return domain.BidStatusCancelledDuplicate, false
	}
	if game.MaxRiders > 0 && len(owned) >= game.MaxRiders {
		return domain.BidStatusCancelledTeamFull, false
	}
	if game.BudgetCapped() && spent.Add(bid.Amount).GreaterThan(game.MaxBudget) {
		return domain.BidStatusCancelledOverBudget, false
	}
	return "", true
}
