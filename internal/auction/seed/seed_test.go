package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/gruppetto/internal/auction/storage/sqlite"
)

const fixtureJSON = `{
  "game": {
    "id": "game-1",
    "name": "Spring Classics",
    "format": "selection",
    "max_riders": 2,
    "max_budget": "500",
    "periods": [
      {"name": "Week1", "starts_at": "2026-03-02T00:00:00Z", "ends_at": "2026-03-08T23:59:59Z"}
    ]
  },
  "participants": [
    {"id": "p1", "user_id": "u1"},
    {"id": "p2", "user_id": "u2"}
  ],
  "bids": [
    {"id": "b1", "participant_id": "p1", "rider_id": "r1", "amount": "300", "placed_at": "2026-03-03T10:00:00Z"},
    {"id": "b2", "participant_id": "p2", "rider_id": "r1", "amount": "250", "placed_at": "2026-03-03T11:00:00Z"}
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	fixture, err := Load(writeFixture(t, fixtureJSON))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "auction.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := fixture.Apply(ctx, store); err != nil {
		t.Fatalf("apply fixture: %v", err)
	}

	game, err := store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if !game.MaxBudget.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("max budget = %s, want 500", game.MaxBudget)
	}
	if len(game.Periods) != 1 || game.Periods[0].Name != "Week1" {
		t.Fatalf("periods = %v, want one Week1", game.Periods)
	}

	participant, err := store.GetParticipant(ctx, "p2")
	if err != nil {
		t.Fatalf("get participant: %v", err)
	}
	if participant.UserID != "u2" {
		t.Fatalf("user id = %q, want u2", participant.UserID)
	}

	bids, err := store.ListBidsByGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("bids len = %d, want 2", len(bids))
	}
	for _, bid := range bids {
		if !bid.Status.Open() {
			t.Fatalf("bid %s seeded with status %q, want open", bid.ID, bid.Status)
		}
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeFixture(t, `{"game": {"id": "game-1", "format": "dutch"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoadRejectsMissingGameID(t *testing.T) {
	path := writeFixture(t, `{"game": {"format": "auction"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing game id")
	}
}
