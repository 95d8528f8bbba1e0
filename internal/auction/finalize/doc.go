// Package finalize implements the bid finalization engine as pure functions
// over the auction domain model: period filtering, winner resolution,
// team-state reconciliation planning, period status updates with structural
// integrity guards, and the resumable batch loop.
//
// The engine never reads or writes a store directly. Callers load
// authoritative records, feed them through the pipeline
//
//	FilterBids -> Resolve -> RunBatch{ReconcileTeam, PlanOwnerships} -> FinalizeSchedule
//
// and persist the outputs. Every derived value (spend, roster, ownership) is
// recomputed from won bids and ownership records on each pass, so repeating a
// run, or resuming one that was cut short, converges on the same final state.
// There is no cross-invocation locking; two concurrent runs over the same
// period can race on budget checks, and rely on idempotent recomputation to
// keep state consistent rather than correct allocation under contention.
package finalize
