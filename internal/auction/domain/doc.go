// Package domain holds the auction data model shared by the finalization
// engine and its stores: games with their period schedule, bids, participant
// team state, and rider ownership records.
//
// Participant state is never authoritative on its own. The engine rebuilds
// rosters and spend from bids and ownership records on every run, so repeated
// or concurrent finalization passes converge on the same state.
package domain
