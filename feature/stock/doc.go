// Package stock implements the stock reconciliation engine.
//
// A stock report owns one reconciliation cycle for one calendar date. The
// cycle is seeded from the external POS provider's daily consumption feed,
// with opening quantities carried over from the previous day's *completed*
// cycle so the baseline is always a human-verified measurement. Staff then
// record a physical count per line item (optionally with photo evidence),
// the engine computes the variance against the expected closing quantity,
// and once every item is measured the report can be finalized, which
// submits it one-way and locks the cycle's measurements.
//
// # Concurrency
//
// Operations are request-scoped and stateless between calls; consistency
// relies on per-record atomicity of the underlying store. Two concurrent
// initializations of the same report race on the delete-and-recreate path
// (last writer wins); the system provides no cross-request locking, and
// that limitation is accepted rather than papered over. Measurements on
// different line items are independent and safe to run concurrently.
package stock
