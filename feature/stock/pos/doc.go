// Package pos integrates with the external point-of-sale inventory provider.
//
// Two pieces live here:
//
//   - Vault: the credential store. It caches the provider bearer token with
//     its expiry in the database and re-authenticates when the token is
//     absent or expired. First-run deployments bootstrap from configured
//     app credentials.
//   - Client: the stock movement fetcher. It pages through the provider's
//     daily stock movement endpoint, keeps only raw-material records, and
//     retries a request exactly once after an authorization failure.
//
// Token refresh is deliberately not mutex-guarded: concurrent refreshes
// each persist an equally valid token, so the waste is accepted over the
// locking complexity.
package pos
