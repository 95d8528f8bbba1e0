package finalize

import (
	"github.com/louisbranch/gruppetto/internal/auction/domain"
	apperrors "github.com/louisbranch/gruppetto/internal/errors"
)

// FinalizeSchedule returns a copy of the game with the named period marked
// finalized and the game status recomputed. An empty period name leaves the
// schedule untouched and only recomputes the game status.
//
// original is the period schedule read at the start of the run; game must be
// re-read immediately before writing. Validating the updated schedule against
// the run-start snapshot is what catches a period dropped anywhere between
// the two reads, not just in the copy the updater builds itself.
func FinalizeSchedule(original []domain.Period, game domain.Game, periodName string) (domain.Game, error) {
	updated := make([]domain.Period, len(game.Periods))
	copy(updated, game.Periods)

	if periodName != "" {
		found := false
		for i := range updated {
			if updated[i].Name == periodName {
				updated[i].Status = domain.PeriodStatusFinalized
				found = true
				break
			}
		}
		if !found {
			// The period passed filtering earlier in the run, so its absence
			// here means the schedule lost a name in between.
			return domain.Game{}, apperrors.Newf(apperrors.CodeIntegrityPeriodNameLost,
				"period %q disappeared from game %s before the status update", periodName, game.ID)
		}
	}

	if err := ValidatePeriodIntegrity(original, updated); err != nil {
		return domain.Game{}, err
	}

	game.Periods = updated
	if game.AllPeriodsFinalized() {
		game.Status = domain.GameStatusFinalized
	}
	return game, nil
}

// ValidatePeriodIntegrity guards the shared period schedule against silent
// truncation. An updated schedule must be at least as long as the original
// and keep every original period name; a violation means scheduling history
// was lost somewhere upstream and the run must abort.
func ValidatePeriodIntegrity(original, updated []domain.Period) error {
	if len(updated) < len(original) {
		return apperrors.Newf(apperrors.CodeIntegrityPeriodListShrank,
			"period list shrank from %d to %d entries", len(original), len(updated))
	}
	names := make(map[string]bool, len(updated))
	for _, period := range updated {
		names[period.Name] = true
	}
	for _, period := range original {
		if !names[period.Name] {
			return apperrors.Newf(apperrors.CodeIntegrityPeriodNameLost,
				"period %q missing from updated schedule", period.Name)
		}
	}
	return nil
}
