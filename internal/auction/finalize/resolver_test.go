package finalize

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	apperrors "github.com/louisbranch/gruppetto/internal/errors"
)

var resolveBase = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

func auctionGame() domain.Game {
	return domain.Game{
		ID:        "game-1",
		Format:    domain.FormatAuction,
		MaxRiders: 5,
		MaxBudget: decimal.NewFromInt(1000),
	}
}

func selectionGame() domain.Game {
	return domain.Game{
		ID:        "game-2",
		Format:    domain.FormatSelection,
		MaxRiders: 2,
		MaxBudget: decimal.NewFromInt(500),
	}
}

func openBid(id, participantID, riderID string, amount int64, placedAt time.Time) domain.Bid {
	return domain.Bid{
		ID:            id,
		GameID:        "game-1",
		ParticipantID: participantID,
		RiderID:       riderID,
		Amount:        decimal.NewFromInt(amount),
		PlacedAt:      placedAt,
		Status:        domain.BidStatusActive,
	}
}

func TestResolve_AuctionHighestBidWins(t *testing.T) {
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 100, resolveBase),
		openBid("b2", "p2", "rider-1", 150, resolveBase.Add(time.Minute)),
	}

	outcome, err := Resolve(auctionGame(), bids, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(outcome.Won))
	assert.Equal(t, 1, len(outcome.Lost))
	check.Equal(t, "b2", outcome.Won[0].ID)
	check.Equal(t, domain.BidStatusWon, outcome.Won[0].Status)
	check.Equal(t, "b1", outcome.Lost[0].ID)
	check.Equal(t, domain.BidStatusLost, outcome.Lost[0].Status)
}

func TestResolve_AuctionExactlyOneWinnerPerRider(t *testing.T) {
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 100, resolveBase),
		openBid("b2", "p2", "rider-1", 150, resolveBase),
		openBid("b3", "p3", "rider-1", 120, resolveBase),
		openBid("b4", "p1", "rider-2", 80, resolveBase),
		openBid("b5", "p2", "rider-2", 80, resolveBase.Add(time.Hour)),
	}

	outcome, err := Resolve(auctionGame(), bids, nil)
	assert.Nil(t, err)

	winners := make(map[string]int)
	for _, bid := range outcome.Won {
		winners[bid.RiderID]++
	}
	check.Equal(t, 2, len(winners))
	check.Equal(t, 1, winners["rider-1"])
	check.Equal(t, 1, winners["rider-2"])
	check.Equal(t, 3, len(outcome.Lost))
}

func TestResolve_AuctionTieBreaksOnEarlierPlacement(t *testing.T) {
	bids := []domain.Bid{
		openBid("late", "p1", "rider-1", 200, resolveBase.Add(time.Hour)),
		openBid("early", "p2", "rider-1", 200, resolveBase),
	}

	outcome, err := Resolve(auctionGame(), bids, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(outcome.Won))
	check.Equal(t, "early", outcome.Won[0].ID)
}

func TestResolve_AuctionTieBreaksOnBidIDLast(t *testing.T) {
	bids := []domain.Bid{
		openBid("b2", "p1", "rider-1", 200, resolveBase),
		openBid("b1", "p2", "rider-1", 200, resolveBase),
	}

	outcome, err := Resolve(auctionGame(), bids, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(outcome.Won))
	check.Equal(t, "b1", outcome.Won[0].ID)
}

func TestResolve_AuctionAllocatedRiderStaysWithWinner(t *testing.T) {
	// A run interrupted after settling the winner leaves the losing bid open.
	// The resumed run must not hand the rider to the runner-up.
	existingWon := []domain.Bid{
		{ID: "settled", ParticipantID: "p2", RiderID: "rider-1", Amount: decimal.NewFromInt(150), Status: domain.BidStatusWon},
	}
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 100, resolveBase),
	}

	outcome, err := Resolve(auctionGame(), bids, existingWon)
	assert.Nil(t, err)
	check.Equal(t, 0, len(outcome.Won))
	assert.Equal(t, 1, len(outcome.Lost))
	check.Equal(t, "b1", outcome.Lost[0].ID)
	check.Equal(t, domain.BidStatusLost, outcome.Lost[0].Status)
}

func TestResolve_SelectionBudgetCap(t *testing.T) {
	// P1 bids 300 then 250 against a 500 cap: the second bid busts the budget.
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 300, resolveBase),
		openBid("b2", "p1", "rider-2", 250, resolveBase.Add(time.Minute)),
	}

	outcome, err := Resolve(selectionGame(), bids, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(outcome.Won))
	assert.Equal(t, 1, len(outcome.Cancelled))
	check.Equal(t, "b1", outcome.Won[0].ID)
	check.Equal(t, "b2", outcome.Cancelled[0].ID)
	check.Equal(t, domain.BidStatusCancelledOverBudget, outcome.Cancelled[0].Status)

	report, ok := outcome.Rejections["p1"]
	assert.True(t, ok)
	check.Equal(t, 1, report.TeamSize)
	check.Equal(t, decimal.NewFromInt(300), report.Spent)
	check.Equal(t, 1, len(report.Rejected))
	check.Equal(t, domain.BidStatusCancelledOverBudget, report.Rejected[0].Reason)
}

func TestResolve_SelectionDuplicateRider(t *testing.T) {
	// P1 already won rider-1 in an earlier run; the new bid is a duplicate.
	existingWon := []domain.Bid{
		{ID: "old", ParticipantID: "p1", RiderID: "rider-1", Amount: decimal.NewFromInt(100), Status: domain.BidStatusWon},
	}
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 120, resolveBase),
	}

	outcome, err := Resolve(selectionGame(), bids, existingWon)
	assert.Nil(t, err)
	check.Equal(t, 0, len(outcome.Won))
	assert.Equal(t, 1, len(outcome.Cancelled))
	check.Equal(t, domain.BidStatusCancelledDuplicate, outcome.Cancelled[0].Status)
}

func TestResolve_SelectionTeamFull(t *testing.T) {
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 50, resolveBase),
		openBid("b2", "p1", "rider-2", 50, resolveBase.Add(time.Minute)),
		openBid("b3", "p1", "rider-3", 50, resolveBase.Add(2*time.Minute)),
	}

	outcome, err := Resolve(selectionGame(), bids, nil)
	assert.Nil(t, err)
	check.Equal(t, 2, len(outcome.Won))
	assert.Equal(t, 1, len(outcome.Cancelled))
	check.Equal(t, "b3", outcome.Cancelled[0].ID)
	check.Equal(t, domain.BidStatusCancelledTeamFull, outcome.Cancelled[0].Status)
}

func TestResolve_SelectionEarlierBidWinsScarceSlot(t *testing.T) {
	// Oldest-first ordering decides who gets the last roster slot.
	bids := []domain.Bid{
		openBid("late", "p1", "rider-3", 50, resolveBase.Add(time.Hour)),
		openBid("early", "p1", "rider-1", 50, resolveBase),
		openBid("mid", "p1", "rider-2", 50, resolveBase.Add(time.Minute)),
	}

	outcome, err := Resolve(selectionGame(), bids, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(outcome.Won))
	check.Equal(t, "early", outcome.Won[0].ID)
	check.Equal(t, "mid", outcome.Won[1].ID)
	assert.Equal(t, 1, len(outcome.Cancelled))
	check.Equal(t, "late", outcome.Cancelled[0].ID)
}

func TestResolve_SelectionChecksRunInFixedOrder(t *testing.T) {
	// A bid on an owned rider with a full team reports duplicate, not team
	// full: the duplicate check runs first.
	existingWon := []domain.Bid{
		{ID: "w1", ParticipantID: "p1", RiderID: "rider-1", Amount: decimal.NewFromInt(100), Status: domain.BidStatusWon},
		{ID: "w2", ParticipantID: "p1", RiderID: "rider-2", Amount: decimal.NewFromInt(100), Status: domain.BidStatusWon},
	}
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 100, resolveBase),
	}

	outcome, err := Resolve(selectionGame(), bids, existingWon)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(outcome.Cancelled))
	check.Equal(t, domain.BidStatusCancelledDuplicate, outcome.Cancelled[0].Status)
}

func TestResolve_SelectionSeedsSpendFromExistingWins(t *testing.T) {
	existingWon := []domain.Bid{
		{ID: "old", ParticipantID: "p1", RiderID: "rider-1", Amount: decimal.NewFromInt(400), Status: domain.BidStatusWon},
	}
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-2", 150, resolveBase),
	}

	outcome, err := Resolve(selectionGame(), bids, existingWon)
	assert.Nil(t, err)
	check.Equal(t, 0, len(outcome.Won))
	assert.Equal(t, 1, len(outcome.Cancelled))
	check.Equal(t, domain.BidStatusCancelledOverBudget, outcome.Cancelled[0].Status)
}

func TestResolve_SelectionUncappedBudget(t *testing.T) {
	game := selectionGame()
	game.MaxBudget = decimal.Zero
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 100000, resolveBase),
	}

	outcome, err := Resolve(game, bids, nil)
	assert.Nil(t, err)
	check.Equal(t, 1, len(outcome.Won))
	check.Equal(t, 0, len(outcome.Cancelled))
}

func TestResolve_SelectionNeverExceedsBudget(t *testing.T) {
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 200, resolveBase),
		openBid("b2", "p1", "rider-2", 200, resolveBase.Add(time.Minute)),
		openBid("b3", "p1", "rider-3", 200, resolveBase.Add(2*time.Minute)),
		openBid("b4", "p2", "rider-1", 499, resolveBase),
		openBid("b5", "p2", "rider-2", 2, resolveBase.Add(time.Minute)),
	}
	game := selectionGame()
	game.MaxRiders = 10

	outcome, err := Resolve(game, bids, nil)
	assert.Nil(t, err)

	spent := make(map[string]decimal.Decimal)
	for _, bid := range outcome.Won {
		total, ok := spent[bid.ParticipantID]
		if !ok {
			total = decimal.Zero
		}
		spent[bid.ParticipantID] = total.Add(bid.Amount)
	}
	for participantID, total := range spent {
		if total.GreaterThan(game.MaxBudget) {
			t.Fatalf("participant %s spent %s over cap %s", participantID, total, game.MaxBudget)
		}
	}
}

func TestResolve_UnsupportedFormat(t *testing.T) {
	game := domain.Game{ID: "game-9", Format: "draft"}
	_, err := Resolve(game, nil, nil)
	assert.NotNil(t, err)
	check.True(t, apperrors.IsCode(err, apperrors.CodeConfigUnsupportedFormat))
}

func TestOutcome_BidsCoversEverySettledBid(t *testing.T) {
	bids := []domain.Bid{
		openBid("b1", "p1", "rider-1", 100, resolveBase),
		openBid("b2", "p2", "rider-1", 150, resolveBase),
	}

	outcome, err := Resolve(auctionGame(), bids, nil)
	assert.Nil(t, err)

	settled := outcome.Bids()
	check.Equal(t, 2, len(settled))
	for _, bid := range settled {
		check.True(t, bid.Status.Settled())
	}
}
