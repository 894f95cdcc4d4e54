// Package faults defines the application error taxonomy.
//
// Every error that crosses a service boundary carries a machine-readable
// Kind alongside the human-readable message, so handlers and callers can
// branch on the category without string matching.
//
// # Kinds
//
//   - Authentication: bad or expired upstream credentials.
//   - UpstreamSync: the external provider is unreachable or returned
//     malformed data; carries the provider HTTP status when known.
//   - Validation: caller-supplied data is invalid (e.g. negative quantity).
//   - Precondition: the operation is not allowed in the current state
//     (e.g. finalizing an incomplete cycle).
//   - Forbidden: the caller lacks the privilege for the operation
//     (e.g. a regular caller initializing a past date).
//   - NotFound: unknown report, cycle or item.
//
// # Usage
//
//	if faults.IsKind(err, faults.KindPrecondition) {
//	    return c.Status(faults.HTTPStatus(err)).JSON(...)
//	}
package faults
