package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	"github.com/louisbranch/gruppetto/internal/auction/storage"
)

// rosterRecord is the JSON shape of one roster slot inside the participants table.
type rosterRecord struct {
	RiderID    string `json:"rider_id"`
	PricePaid  string `json:"price_paid"`
	AcquiredAt int64  `json:"acquired_at"`
}

func encodeRoster(roster []domain.RosterSlot) (string, error) {
	records := make([]rosterRecord, 0, len(roster))
	for _, slot := range roster {
		records = append(records, rosterRecord{
			RiderID:    slot.RiderID,
			PricePaid:  slot.PricePaid.String(),
			AcquiredAt: toMillis(slot.AcquiredAt),
		})
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode roster: %w", err)
	}
	return string(encoded), nil
}

func decodeRoster(encoded string) ([]domain.RosterSlot, error) {
	var records []rosterRecord
	if err := json.Unmarshal([]byte(encoded), &records); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	roster := make([]domain.RosterSlot, 0, len(records))
	for _, record := range records {
		price, err := parseAmount(record.PricePaid)
		if err != nil {
			return nil, err
		}
		roster = append(roster, domain.RosterSlot{
			RiderID:    record.RiderID,
			PricePaid:  price,
			AcquiredAt: fromMillis(record.AcquiredAt),
		})
	}
	return roster, nil
}

// PutParticipant writes a full participant record, replacing any existing row.
func (s *Store) PutParticipant(ctx context.Context, participant domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(participant.ID) == "" {
		return fmt.Errorf("participant id is required")
	}
	if strings.TrimSpace(participant.GameID) == "" {
		return fmt.Errorf("game id is required")
	}

	roster, err := encodeRoster(participant.Roster)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO participants (id, game_id, user_id, spent_budget, roster_size, roster_complete, roster)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	game_id = excluded.game_id,
	user_id = excluded.user_id,
	spent_budget = excluded.spent_budget,
	roster_size = excluded.roster_size,
	roster_complete = excluded.roster_complete,
	roster = excluded.roster
`,
		participant.ID,
		participant.GameID,
		participant.UserID,
		participant.SpentBudget.String(),
		participant.RosterSize,
		boolToInt(participant.RosterComplete),
		roster,
	)
	if err != nil {
		return fmt.Errorf("put participant: %w", err)
	}
	return nil
}

// GetParticipant loads one participant record.
func (s *Store) GetParticipant(ctx context.Context, id string) (domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Participant{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Participant{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, game_id, user_id, spent_budget, roster_size, roster_complete, roster
FROM participants
WHERE id = ?
`, id)

	var participant domain.Participant
	var spent, roster string
	var rosterComplete int
	err := row.Scan(
		&participant.ID,
		&participant.GameID,
		&participant.UserID,
		&spent,
		&participant.RosterSize,
		&rosterComplete,
		&roster,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Participant{}, storage.ErrNotFound
		}
		return domain.Participant{}, fmt.Errorf("get participant: %w", err)
	}

	if participant.SpentBudget, err = parseAmount(spent); err != nil {
		return domain.Participant{}, err
	}
	if participant.Roster, err = decodeRoster(roster); err != nil {
		return domain.Participant{}, err
	}
	participant.RosterComplete = rosterComplete != 0
	return participant, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
