package finalize

import (
	"github.com/louisbranch/gruppetto/internal/auction/domain"
	apperrors "github.com/louisbranch/gruppetto/internal/errors"
)

// FilterBids restricts bids to the ones the current run settles.
//
// Without a period name every open bid qualifies. With a period name only
// open bids placed inside the period window, inclusive on both ends, qualify;
// an unknown name is a configuration error. An empty result is not an error:
// the caller proceeds to a zero-win finalization.
func FilterBids(game domain.Game, bids []domain.Bid, periodName string) ([]domain.Bid, error) {
	if periodName == "" {
		filtered := make([]domain.Bid, 0, len(bids))
		for _, bid := range bids {
			if bid.Status.Open() {
				filtered = append(filtered, bid)
			}
		}
		return filtered, nil
	}

	period, err := game.FindPeriod(periodName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigUnknownPeriod,
			"period "+periodName+" is not configured for game "+game.ID, err)
	}

	filtered := make([]domain.Bid, 0, len(bids))
	for _, bid := range bids {
		if bid.Status.Open() && period.Contains(bid.PlacedAt) {
			filtered = append(filtered, bid)
		}
	}
	return filtered, nil
}
