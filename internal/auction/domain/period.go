package domain

import "time"

// PeriodStatus describes the lifecycle of one auction period.
type PeriodStatus string

const (
	PeriodStatusPending   PeriodStatus = "pending"
	PeriodStatusFinalized PeriodStatus = "finalized"
)

// Period is a bounded time window whose bids settle together.
//
// Period names are unique within a game and form the schedule the integrity
// guard in the finalizer protects: the set of names present before a game
// update must equal the set present after.
type Period struct {
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
	Status   PeriodStatus
}

// Contains reports whether ts falls inside the period window, inclusive on
// both ends.
func (p Period) Contains(ts time.Time) bool {
	return !ts.Before(p.StartsAt) && !ts.After(p.EndsAt)
}
