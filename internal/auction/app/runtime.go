// Package app wires the finalizer's runtime dependencies and runs one
// finalization pass.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/gruppetto/internal/auction/service"
	"github.com/louisbranch/gruppetto/internal/auction/storage/sqlite"
	"github.com/louisbranch/gruppetto/internal/telemetry"
)

// RuntimeConfig controls one finalization run.
type RuntimeConfig struct {
	DBPath      string
	GameID      string
	Period      string
	ResumeAfter string
}

const defaultAuctionDB = "data/auction.db"

// Run opens the store, finalizes the requested game, and logs the result.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultAuctionDB
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create auction storage dir: %w", err)
		}
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open auction sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close auction sqlite store: %v", closeErr)
		}
	}()

	finalizer := service.NewFinalizer(service.Stores{
		Games:        store,
		Bids:         store,
		Participants: store,
		Ownerships:   store,
		Settlements:  store,
	}, telemetry.NewEmitter(store))

	result, err := finalizer.Finalize(ctx, service.FinalizeRequest{
		GameID:      cfg.GameID,
		Period:      cfg.Period,
		ResumeAfter: cfg.ResumeAfter,
	})
	if err != nil {
		return err
	}

	log.Printf("game %s finalized: %d bids (%d won, %d lost, %d cancelled), %d/%d participants",
		result.GameID, result.BidsTotal, result.BidsWon, result.BidsLost, result.BidsCancelled,
		result.ParticipantsProcessed, result.ParticipantsTotal)
	if result.GameFinalized {
		log.Printf("game %s has no pending periods left", result.GameID)
	}
	for _, participantErr := range result.Errors {
		log.Printf("participant %s failed: %v", participantErr.ParticipantID, participantErr.Err)
	}
	if len(result.Errors) > 0 {
		if result.ResumeAfter != "" {
			log.Printf("retry with -resume-after %s", result.ResumeAfter)
		}
		return fmt.Errorf("%d participant(s) unsettled", len(result.Errors))
	}
	return nil
}
