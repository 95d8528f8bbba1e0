// Package telemetry records durable audit entries for finalization runs.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/gruppetto/internal/auction/storage"
	"github.com/louisbranch/gruppetto/internal/platform/id"
)

// Emitter records finalization audit entries.
type Emitter struct {
	store       storage.AuditStore
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewEmitter creates a new audit emitter.
func NewEmitter(store storage.AuditStore) *Emitter {
	return &Emitter{store: store, clock: time.Now, idGenerator: id.NewID}
}

// Emit records an audit entry, filling in the ID and timestamp when absent.
// It is a no-op when the store is nil.
func (e *Emitter) Emit(ctx context.Context, entry storage.AuditEntry) error {
	if e == nil || e.store == nil {
		return nil
	}
	if entry.ID == "" {
		generate := e.idGenerator
		if generate == nil {
			generate = id.NewID
		}
		generated, err := generate()
		if err != nil {
			return err
		}
		entry.ID = generated
	}
	if entry.CreatedAt.IsZero() {
		if e.clock == nil {
			entry.CreatedAt = time.Now().UTC()
		} else {
			entry.CreatedAt = e.clock().UTC()
		}
	}
	return e.store.AppendAuditEntry(ctx, entry)
}

// EmitRun records the summary entry for one finalization run.
func (e *Emitter) EmitRun(ctx context.Context, gameID, summary string) error {
	return e.Emit(ctx, storage.AuditEntry{
		GameID:  gameID,
		Kind:    storage.AuditKindRun,
		Summary: summary,
	})
}

// EmitRejections records one participant's rejected bids.
func (e *Emitter) EmitRejections(ctx context.Context, gameID, participantID, summary string) error {
	return e.Emit(ctx, storage.AuditEntry{
		GameID:        gameID,
		Kind:          storage.AuditKindRejections,
		ParticipantID: participantID,
		Summary:       summary,
	})
}
