package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/gruppetto/internal/auction/storage"
)

// AppendAuditEntry persists one finalization audit record.
func (s *Store) AppendAuditEntry(ctx context.Context, entry storage.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	entry.ID = strings.TrimSpace(entry.ID)
	entry.GameID = strings.TrimSpace(entry.GameID)
	entry.Kind = strings.TrimSpace(entry.Kind)
	if entry.ID == "" {
		return fmt.Errorf("audit entry id is required")
	}
	if entry.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	if entry.Kind == "" {
		return fmt.Errorf("audit entry kind is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO audit_entries (id, game_id, kind, participant_id, summary, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`,
		entry.ID,
		entry.GameID,
		entry.Kind,
		entry.ParticipantID,
		entry.Summary,
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries lists newest-first audit records for a game.
func (s *Store) ListAuditEntries(ctx context.Context, gameID string, limit int) ([]storage.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, game_id, kind, participant_id, summary, created_at
FROM audit_entries
WHERE game_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.AuditEntry, 0, limit)
	for rows.Next() {
		var entry storage.AuditEntry
		var createdAt int64
		if err := rows.Scan(
			&entry.ID,
			&entry.GameID,
			&entry.Kind,
			&entry.ParticipantID,
			&entry.Summary,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.CreatedAt = fromMillis(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
