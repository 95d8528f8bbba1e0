// Package service orchestrates finalization runs over the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	"github.com/louisbranch/gruppetto/internal/auction/finalize"
	"github.com/louisbranch/gruppetto/internal/auction/storage"
	apperrors "github.com/louisbranch/gruppetto/internal/errors"
	"github.com/louisbranch/gruppetto/internal/platform/id"
	"github.com/louisbranch/gruppetto/internal/telemetry"
)

// Stores bundles the persistence interfaces the finalizer depends on.
type Stores struct {
	Games        storage.GameStore
	Bids         storage.BidStore
	Participants storage.ParticipantStore
	Ownerships   storage.OwnershipStore
	Settlements  storage.SettlementStore
}

// Finalizer runs bid finalization for a game.
type Finalizer struct {
	stores      Stores
	emitter     *telemetry.Emitter
	clock       func() time.Time
	idGenerator func() (string, error)
	tracer      trace.Tracer
}

// NewFinalizer creates a finalizer over the given stores. The emitter may be
// nil, in which case no audit entries are recorded.
func NewFinalizer(stores Stores, emitter *telemetry.Emitter) *Finalizer {
	return &Finalizer{
		stores:      stores,
		emitter:     emitter,
		clock:       time.Now,
		idGenerator: id.NewID,
		tracer:      otel.Tracer("gruppetto/auction"),
	}
}

// FinalizeRequest names the game and optional period to finalize.
type FinalizeRequest struct {
	GameID string
	// Period restricts settlement to bids placed inside the named period.
	// Empty means every open bid on the game.
	Period string
	// ResumeAfter continues an interrupted run past the given participant ID.
	ResumeAfter string
}

// Result reports what one finalization run did.
type Result struct {
	GameID        string
	Period        string
	BidsTotal     int
	BidsWon       int
	BidsLost      int
	BidsCancelled int

	ParticipantsTotal     int
	ParticipantsProcessed int
	// ResumeAfter is the cursor to pass to a follow-up run if this one did
	// not process every participant.
	ResumeAfter string
	Errors      []finalize.ParticipantError

	GameFinalized bool
}

// Finalize settles every qualifying bid on the game, reconciles the affected
// participants, and marks the period finalized.
//
// The run is idempotent and resumable. Interrupting it mid-batch and invoking
// it again, with or without the resume cursor, converges on the same end
// state because settled bids never move again and participant state is fully
// re-derived on each pass.
//
// Individual participant failures do not abort the run; they are reported in
// the result's error list alongside a resume cursor. A non-nil error means the
// run itself could not complete, such as a missing game or a schedule that
// lost a period mid-run.
func (f *Finalizer) Finalize(ctx context.Context, req FinalizeRequest) (Result, error) {
	if strings.TrimSpace(req.GameID) == "" {
		return Result{}, apperrors.New(apperrors.CodeConfigGameNotFound, "game id is required")
	}

	ctx, span := f.tracer.Start(ctx, "auction.finalize")
	defer span.End()

	game, err := f.stores.Games.GetGame(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Result{}, apperrors.Wrap(apperrors.CodeConfigGameNotFound,
				"game "+req.GameID+" does not exist", err)
		}
		return Result{}, fmt.Errorf("load game %s: %w", req.GameID, err)
	}
	if !game.Format.Valid() {
		return Result{}, apperrors.Newf(apperrors.CodeConfigUnsupportedFormat,
			"game %s has unsupported format %q", game.ID, game.Format)
	}

	bids, err := f.stores.Bids.ListBidsByGame(ctx, game.ID)
	if err != nil {
		return Result{}, fmt.Errorf("list bids for game %s: %w", game.ID, err)
	}

	filtered, err := finalize.FilterBids(game, bids, req.Period)
	if err != nil {
		return Result{}, err
	}

	existingWon := make([]domain.Bid, 0)
	for _, bid := range bids {
		if bid.Status == domain.BidStatusWon {
			existingWon = append(existingWon, bid)
		}
	}

	outcome, err := finalize.Resolve(game, filtered, existingWon)
	if err != nil {
		return Result{}, err
	}

	settledByParticipant := make(map[string][]domain.Bid)
	winsByParticipant := make(map[string][]domain.Bid)
	participantIDs := make([]string, 0)
	for _, bid := range outcome.Bids() {
		if _, seen := settledByParticipant[bid.ParticipantID]; !seen {
			participantIDs = append(participantIDs, bid.ParticipantID)
		}
		settledByParticipant[bid.ParticipantID] = append(settledByParticipant[bid.ParticipantID], bid)
	}
	for _, win := range outcome.Won {
		winsByParticipant[win.ParticipantID] = append(winsByParticipant[win.ParticipantID], win)
	}
	allWon := append(existingWon, outcome.Won...)

	now := f.clock().UTC()
	report := finalize.RunBatch(ctx, participantIDs, req.ResumeAfter,
		func(ctx context.Context, participantID string) error {
			return f.settleParticipant(ctx, game, settlementInput{
				participantID: participantID,
				settled:       settledByParticipant[participantID],
				newWins:       winsByParticipant[participantID],
				allWon:        allWon,
				rejections:    outcome.Rejections[participantID],
				now:           now,
			})
		})

	result := Result{
		GameID:                game.ID,
		Period:                req.Period,
		BidsTotal:             len(filtered),
		BidsWon:               len(outcome.Won),
		BidsLost:              len(outcome.Lost),
		BidsCancelled:         len(outcome.Cancelled),
		ParticipantsTotal:     report.Total,
		ParticipantsProcessed: report.Processed,
		ResumeAfter:           report.ResumeAfter,
		Errors:                report.Errors,
	}

	// Participant failures ride in the result for the caller to retry; the
	// run still proceeds to the period status update.
	updated, err := f.finalizeSchedule(ctx, req, game.Periods)
	if err != nil {
		return result, err
	}
	result.GameFinalized = updated.Status == domain.GameStatusFinalized

	if err := f.emitter.EmitRun(ctx, game.ID, runSummary(req.Period, result)); err != nil {
		return result, fmt.Errorf("record run audit entry: %w", err)
	}
	return result, nil
}

type settlementInput struct {
	participantID string
	settled       []domain.Bid
	newWins       []domain.Bid
	allWon        []domain.Bid
	rejections    finalize.RejectionReport
	now           time.Time
}

// settleParticipant builds and applies one participant's settlement. The
// participant record and ownerships are only touched when the run produced
// new wins; lost and cancelled bids still get their status writes.
func (f *Finalizer) settleParticipant(ctx context.Context, game domain.Game, input settlementInput) error {
	ctx, span := f.tracer.Start(ctx, "auction.settle_participant")
	defer span.End()

	settlement := storage.Settlement{
		GameID:        game.ID,
		ParticipantID: input.participantID,
	}
	for _, bid := range input.settled {
		settlement.BidStatuses = append(settlement.BidStatuses, storage.BidStatusUpdate{
			BidID:  bid.ID,
			Status: bid.Status,
		})
	}

	if len(input.newWins) > 0 {
		participant, err := f.stores.Participants.GetParticipant(ctx, input.participantID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.Wrap(apperrors.CodeParticipantNotFound,
					"participant "+input.participantID+" does not exist", err)
			}
			return fmt.Errorf("load participant: %w", err)
		}

		ownerships, err := f.stores.Ownerships.ListOwnershipsByParticipant(ctx, game.ID, input.participantID)
		if err != nil {
			return fmt.Errorf("list ownerships: %w", err)
		}

		planned, err := finalize.PlanOwnerships(game, input.participantID, input.newWins, ownerships, input.now, f.idGenerator)
		if err != nil {
			return fmt.Errorf("plan ownerships: %w", err)
		}

		reconciled := finalize.ReconcileTeam(game, participant, ownerships, input.allWon, input.newWins, input.now)
		settlement.Participant = &reconciled
		settlement.Ownerships = planned
	}

	if err := f.stores.Settlements.SettleParticipant(ctx, settlement); err != nil {
		return err
	}

	if len(input.rejections.Rejected) > 0 {
		summary := rejectionSummary(input.rejections)
		if err := f.emitter.EmitRejections(ctx, game.ID, input.participantID, summary); err != nil {
			return fmt.Errorf("record rejection audit entry: %w", err)
		}
	}
	return nil
}

// finalizeSchedule re-reads the game and writes the period status update. The
// fresh read keeps the run from resurrecting periods that changed while the
// batch was settling; the re-read schedule is validated against the run-start
// snapshot, so a period dropped in between aborts the run before the write.
func (f *Finalizer) finalizeSchedule(ctx context.Context, req FinalizeRequest, original []domain.Period) (domain.Game, error) {
	game, err := f.stores.Games.GetGame(ctx, req.GameID)
	if err != nil {
		return domain.Game{}, fmt.Errorf("reload game %s: %w", req.GameID, err)
	}
	updated, err := finalize.FinalizeSchedule(original, game, req.Period)
	if err != nil {
		return domain.Game{}, err
	}
	if err := f.stores.Games.PutGame(ctx, updated); err != nil {
		return domain.Game{}, fmt.Errorf("write game %s: %w", game.ID, err)
	}
	return updated, nil
}

func runSummary(period string, result Result) string {
	label := period
	if label == "" {
		label = "all periods"
	}
	return fmt.Sprintf("%s: %d bids settled (%d won, %d lost, %d cancelled), %d/%d participants",
		label, result.BidsTotal, result.BidsWon, result.BidsLost, result.BidsCancelled,
		result.ParticipantsProcessed, result.ParticipantsTotal)
}

func rejectionSummary(report finalize.RejectionReport) string {
	reasons := make([]string, 0, len(report.Rejected))
	for _, rejected := range report.Rejected {
		reasons = append(reasons, fmt.Sprintf("%s (%s)", rejected.RiderID, rejected.Reason))
	}
	return fmt.Sprintf("%d bid(s) rejected: %s", len(report.Rejected), strings.Join(reasons, ", "))
}
