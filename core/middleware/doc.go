// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - Auth: resolves the bearer key from the Authorization header into a
//     Principal (id + role) and rejects requests without a valid key.
//   - RayID: generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// These middleware components are registered globally in the main
// application setup; handlers read the principal and RayID from Locals.
package middleware
