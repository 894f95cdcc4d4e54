// Package report manages the daily report records that own stock cycles.
//
// A report moves through a one-way status lifecycle:
//
//	draft -> submitted -> resolved
//
// The stock feature drives the draft -> submitted transition when a cycle
// is finalized; resolution is an operator action. Transitions are guarded
// at the database level (compare-and-swap on the current status), so a
// concurrent duplicate transition loses cleanly instead of double-stamping.
package report
