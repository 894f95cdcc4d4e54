// Package server holds the HTTP server configuration partial.
//
// Two bearer keys are configured: a regular key for day-to-day staff
// callers and an admin key for privileged callers. The auth middleware
// resolves these keys into principals; the distinction matters for the
// stock feature, where only privileged callers may initialize a cycle for
// a date other than today.
package server
