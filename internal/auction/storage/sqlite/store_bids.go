package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
)

// PutBid writes a full bid record, replacing any existing row.
func (s *Store) PutBid(ctx context.Context, bid domain.Bid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(bid.ID) == "" {
		return fmt.Errorf("bid id is required")
	}
	if strings.TrimSpace(bid.GameID) == "" {
		return fmt.Errorf("game id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO bids (id, game_id, participant_id, rider_id, amount, placed_at, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	game_id = excluded.game_id,
	participant_id = excluded.participant_id,
	rider_id = excluded.rider_id,
	amount = excluded.amount,
	placed_at = excluded.placed_at,
	status = excluded.status
`,
		bid.ID,
		bid.GameID,
		bid.ParticipantID,
		bid.RiderID,
		bid.Amount.String(),
		toMillis(bid.PlacedAt),
		string(bid.Status),
	)
	if err != nil {
		return fmt.Errorf("put bid: %w", err)
	}
	return nil
}

// ListBidsByGame returns every bid on a game, oldest placement first.
func (s *Store) ListBidsByGame(ctx context.Context, gameID string) ([]domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, game_id, participant_id, rider_id, amount, placed_at, status
FROM bids
WHERE game_id = ?
ORDER BY placed_at ASC, id ASC
`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var bid domain.Bid
		var amount, status string
		var placedAt int64
		if err := rows.Scan(
			&bid.ID,
			&bid.GameID,
			&bid.ParticipantID,
			&bid.RiderID,
			&amount,
			&placedAt,
			&status,
		); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		if bid.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		bid.PlacedAt = fromMillis(placedAt)
		bid.Status = domain.BidStatus(status)
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bids: %w", err)
	}
	return bids, nil
}
