package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	"github.com/louisbranch/gruppetto/internal/auction/storage"
)

// SettleParticipant applies one participant's finalization write in a single
// transaction: bid status transitions, new ownership records, and the
// reconciled participant rewrite.
//
// The write is idempotent. Bids already at their target status are skipped,
// and ownership inserts are keyed on the (game, participant, rider) triple,
// so replaying a settlement after a crash changes nothing.
func (s *Store) SettleParticipant(ctx context.Context, settlement storage.Settlement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(settlement.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(settlement.ParticipantID) == "" {
		return fmt.Errorf("participant id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, update := range settlement.BidStatuses {
		if err := settleBid(ctx, tx, update); err != nil {
			return err
		}
	}

	for _, ownership := range settlement.Ownerships {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO ownerships (id, game_id, participant_id, rider_id, price_paid, acquired_at, points, races_scored)
VALUES (?, ?, ?, ?, ?, ?, 0, 0)
ON CONFLICT (game_id, participant_id, rider_id) DO NOTHING
`,
			ownership.ID,
			ownership.GameID,
			ownership.ParticipantID,
			ownership.RiderID,
			ownership.PricePaid.String(),
			toMillis(ownership.AcquiredAt),
		); err != nil {
			return fmt.Errorf("create ownership for rider %s: %w", ownership.RiderID, err)
		}
	}

	if settlement.Participant != nil {
		roster, err := encodeRoster(settlement.Participant.Roster)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
UPDATE participants
SET spent_budget = ?, roster_size = ?, roster_complete = ?, roster = ?
WHERE id = ?
`,
			settlement.Participant.SpentBudget.String(),
			settlement.Participant.RosterSize,
			boolToInt(settlement.Participant.RosterComplete),
			roster,
			settlement.Participant.ID,
		)
		if err != nil {
			return fmt.Errorf("rewrite participant: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rewrite participant: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}
	return nil
}

// settleBid transitions one bid to its settled status. Bids that already
// carry the target status are left alone; any other transition from a
// settled status is rejected by the domain transition rules.
func settleBid(ctx context.Context, tx *sql.Tx, update storage.BidStatusUpdate) error {
	row := tx.QueryRowContext(ctx, `SELECT status FROM bids WHERE id = ?`, update.BidID)
	var current string
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("settle bid %s: %w", update.BidID, storage.ErrNotFound)
		}
		return fmt.Errorf("settle bid %s: %w", update.BidID, err)
	}

	if domain.BidStatus(current) == update.Status {
		return nil
	}
	if err := domain.TransitionBidStatus(domain.BidStatus(current), update.Status); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bids SET status = ? WHERE id = ?`,
		string(update.Status), update.BidID); err != nil {
		return fmt.Errorf("settle bid %s: %w", update.BidID, err)
	}
	return nil
}

// ListOwnershipsByParticipant returns a participant's ownership records,
// oldest acquisition first.
func (s *Store) ListOwnershipsByParticipant(ctx context.Context, gameID, participantID string) ([]domain.RiderOwnership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(participantID) == "" {
		return nil, fmt.Errorf("participant id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, game_id, participant_id, rider_id, price_paid, acquired_at, points, races_scored
FROM ownerships
WHERE game_id = ? AND participant_id = ?
ORDER BY acquired_at ASC, id ASC
`, gameID, participantID)
	if err != nil {
		return nil, fmt.Errorf("list ownerships: %w", err)
	}
	defer rows.Close()

	var ownerships []domain.RiderOwnership
	for rows.Next() {
		var ownership domain.RiderOwnership
		var price string
		var acquiredAt int64
		if err := rows.Scan(
			&ownership.ID,
			&ownership.GameID,
			&ownership.ParticipantID,
			&ownership.RiderID,
			&price,
			&acquiredAt,
			&ownership.Points,
			&ownership.RacesScored,
		); err != nil {
			return nil, fmt.Errorf("scan ownership: %w", err)
		}
		if ownership.PricePaid, err = parseAmount(price); err != nil {
			return nil, err
		}
		ownership.AcquiredAt = fromMillis(acquiredAt)
		ownerships = append(ownerships, ownership)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ownerships: %w", err)
	}
	return ownerships, nil
}
