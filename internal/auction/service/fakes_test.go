package service

import (
	"context"

	"github.com/louisbranch/gruppetto/internal/auction/domain"
	"github.com/louisbranch/gruppetto/internal/auction/storage"
)

// fakeStores is an in-memory implementation of every store interface the
// finalizer uses, with per-participant error injection for batch tests.
type fakeStores struct {
	games        map[string]domain.Game
	bids         map[string]domain.Bid
	participants map[string]domain.Participant
	ownerships   []domain.RiderOwnership
	audits       []storage.AuditEntry

	failSettle map[string]error
	gamePuts   int

	// onReread mutates the game returned by every GetGame after the first,
	// simulating a concurrent schedule change between the run-start read and
	// the pre-write re-read.
	onReread     func(domain.Game) domain.Game
	gameGetCalls int
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		games:        make(map[string]domain.Game),
		bids:         make(map[string]domain.Bid),
		participants: make(map[string]domain.Participant),
		failSettle:   make(map[string]error),
	}
}

func (s *fakeStores) PutGame(ctx context.Context, game domain.Game) error {
	s.games[game.ID] = game
	s.gamePuts++
	return nil
}

func (s *fakeStores) GetGame(ctx context.Context, id string) (domain.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return domain.Game{}, storage.ErrNotFound
	}
	s.gameGetCalls++
	if s.onReread != nil && s.gameGetCalls > 1 {
		return s.onReread(game), nil
	}
	return game, nil
}

func (s *fakeStores) PutBid(ctx context.Context, bid domain.Bid) error {
	s.bids[bid.ID] = bid
	return nil
}

func (s *fakeStores) ListBidsByGame(ctx context.Context, gameID string) ([]domain.Bid, error) {
	var bids []domain.Bid
	for _, bid := range s.bids {
		if bid.GameID == gameID {
			bids = append(bids, bid)
		}
	}
	return bids, nil
}

func (s *fakeStores) PutParticipant(ctx context.Context, participant domain.Participant) error {
	s.participants[participant.ID] = participant
	return nil
}

func (s *fakeStores) GetParticipant(ctx context.Context, id string) (domain.Participant, error) {
	participant, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, storage.ErrNotFound
	}
	return participant, nil
}

func (s *fakeStores) ListOwnershipsByParticipant(ctx context.Context, gameID, participantID string) ([]domain.RiderOwnership, error) {
	var owned []domain.RiderOwnership
	for _, ownership := range s.ownerships {
		if ownership.GameID == gameID && ownership.ParticipantID == participantID {
			owned = append(owned, ownership)
		}
	}
	return owned, nil
}

func (s *fakeStores) SettleParticipant(ctx context.Context, settlement storage.Settlement) error {
	if err := s.failSettle[settlement.ParticipantID]; err != nil {
		return err
	}
	for _, update := range settlement.BidStatuses {
		bid, ok := s.bids[update.BidID]
		if !ok {
			return storage.ErrNotFound
		}
		if bid.Status == update.Status {
			continue
		}
		if err := domain.TransitionBidStatus(bid.Status, update.Status); err != nil {
			return err
		}
		bid.Status = update.Status
		s.bids[update.BidID] = bid
	}
	for _, ownership := range settlement.Ownerships {
		if s.hasOwnership(ownership.GameID, ownership.ParticipantID, ownership.RiderID) {
			continue
		}
		s.ownerships = append(s.ownerships, ownership)
	}
	if settlement.Participant != nil {
		if _, ok := s.participants[settlement.Participant.ID]; !ok {
			return storage.ErrNotFound
		}
		s.participants[settlement.Participant.ID] = *settlement.Participant
	}
	return nil
}

func (s *fakeStores) hasOwnership(gameID, participantID, riderID string) bool {
	for _, ownership := range s.ownerships {
		if ownership.GameID == gameID && ownership.ParticipantID == participantID && ownership.RiderID == riderID {
			return true
		}
	}
	return false
}

func (s *fakeStores) AppendAuditEntry(ctx context.Context, entry storage.AuditEntry) error {
	s.audits = append(s.audits, entry)
	return nil
}

func (s *fakeStores) ListAuditEntries(ctx context.Context, gameID string, limit int) ([]storage.AuditEntry, error) {
	var entries []storage.AuditEntry
	for _, entry := range s.audits {
		if entry.GameID == gameID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *fakeStores) auditKinds() []string {
	kinds := make([]string, 0, len(s.audits))
	for _, entry := range s.audits {
		kinds = append(kinds, entry.Kind)
	}
	return kinds
}

func (s *fakeStores) stores() Stores {
	return Stores{
		Games:        s,
		Bids:         s,
		Participants: s,
		Ownerships:   s,
		Settlements:  s,
	}
}
