// Package sqlite provides SQLite-backed persistence for the finalization
// engine.
//
// A single SQLite file holds games, bids, participants, ownerships, and the
// audit log, so each per-participant settlement can run inside one
// transaction.
package sqlite
